package claude

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklens/internal/config"
	"checklens/internal/gateway"
	"checklens/internal/port"
)

func testConfig() *config.GatewayProviderConfig {
	return &config.GatewayProviderConfig{
		Provider:     "claude",
		APIKey:       "test-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  5,
	}
}

func messagesResponse(text, stopReason string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"stop_reason": stopReason,
	}
}

func TestDescribe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "messages")
		assert.Contains(t, body, "max_tokens")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(messagesResponse(`{"payee": "Jane Doe"}`, "end_turn"))
	}))
	defer server.Close()

	gw := NewGatewayWithEndpoint(testConfig(), server.URL)

	out, err := gw.Describe(context.Background(), port.DescribeInput{
		Prompt:      "extract fields",
		ImageBytes:  []byte{1, 2, 3},
		ContentType: "image/jpeg",
	})

	assert.NoError(t, err)
	assert.Equal(t, `{"payee": "Jane Doe"}`, out.Text)
	assert.Equal(t, "claude-sonnet-4-20250514", out.ModelUsed)
}

func TestDescribe_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "45")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	gw := NewGatewayWithEndpoint(testConfig(), server.URL)

	_, err := gw.Describe(context.Background(), port.DescribeInput{
		Prompt:      "extract fields",
		ImageBytes:  []byte{1, 2, 3},
		ContentType: "image/png",
	})

	var rlErr *gateway.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, float64(45), rlErr.RetryAfter.Seconds())
}

func TestDescribe_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(messagesResponse("partial", "max_tokens"))
	}))
	defer server.Close()

	gw := NewGatewayWithEndpoint(testConfig(), server.URL)

	_, err := gw.Describe(context.Background(), port.DescribeInput{
		Prompt:      "extract fields",
		ImageBytes:  []byte{1, 2, 3},
		ContentType: "image/png",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestDescribe_UnsupportedContentType(t *testing.T) {
	gw := NewGateway(testConfig())

	_, err := gw.Describe(context.Background(), port.DescribeInput{
		Prompt:      "extract fields",
		ImageBytes:  []byte{1, 2, 3},
		ContentType: "image/webp",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}
