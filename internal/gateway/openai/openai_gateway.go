package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"checklens/internal/config"
	"checklens/internal/gateway"
	"checklens/internal/port"
)

// Gateway implements port.VisionGateway using the OpenAI Chat Completions API
// through the go-openai client.
type Gateway struct {
	client *goopenai.Client
	model  string
}

// NewGateway creates an OpenAI-based vision gateway.
func NewGateway(cfg *config.GatewayProviderConfig) *Gateway {
	return newGateway(cfg, "")
}

// NewGatewayWithBaseURL creates a gateway pointing at a custom API base URL (for testing).
func NewGatewayWithBaseURL(cfg *config.GatewayProviderConfig, baseURL string) *Gateway {
	return newGateway(cfg, baseURL)
}

func newGateway(cfg *config.GatewayProviderConfig, baseURL string) *Gateway {
	model := cfg.DefaultModel
	if model == "" {
		model = goopenai.GPT4o
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Gateway{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (g *Gateway) Describe(ctx context.Context, input port.DescribeInput) (*port.DescribeOutput, error) {
	switch input.ContentType {
	case "image/jpeg", "image/png":
	default:
		return nil, fmt.Errorf("unsupported content type for vision call: %s", input.ContentType)
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s",
		input.ContentType, base64.StdEncoding.EncodeToString(input.ImageBytes))

	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: 8192,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{
						Type: goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{
							URL: dataURI,
						},
					},
					{
						Type: goopenai.ChatMessagePartTypeText,
						Text: input.Prompt,
					},
				},
			},
		},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return nil, gateway.NewRateLimitError("openai", err, 0)
		}
		return nil, fmt.Errorf("calling openai API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == goopenai.FinishReasonLength {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	return &port.DescribeOutput{
		Text:      resp.Choices[0].Message.Content,
		ModelUsed: g.model,
	}, nil
}
