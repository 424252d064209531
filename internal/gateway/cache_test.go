package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklens/internal/port"
)

func TestCached_HitSkipsInnerGateway(t *testing.T) {
	inner := &fakeGateway{out: &port.DescribeOutput{Text: `{"payee": "Jane Doe"}`, ModelUsed: "gemini-2.0-flash"}}
	cached := NewCached(inner, 5*time.Minute, 10*time.Minute)

	input := port.DescribeInput{
		Prompt:      "extract fields",
		ImageBytes:  []byte{1, 2, 3},
		ContentType: "image/png",
	}

	first, err := cached.Describe(context.Background(), input)
	require.NoError(t, err)

	second, err := cached.Describe(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.ModelUsed, second.ModelUsed)
}

func TestCached_DistinctInputsMiss(t *testing.T) {
	inner := &fakeGateway{out: &port.DescribeOutput{Text: "ok", ModelUsed: "gemini-2.0-flash"}}
	cached := NewCached(inner, 5*time.Minute, 10*time.Minute)

	_, err := cached.Describe(context.Background(), port.DescribeInput{
		Prompt:      "extract fields",
		ImageBytes:  []byte{1, 2, 3},
		ContentType: "image/png",
	})
	require.NoError(t, err)

	_, err = cached.Describe(context.Background(), port.DescribeInput{
		Prompt:      "extract fields",
		ImageBytes:  []byte{1, 2, 4},
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCached_ErrorsNotCached(t *testing.T) {
	inner := &fakeGateway{err: errors.New("provider down")}
	cached := NewCached(inner, 5*time.Minute, 10*time.Minute)

	input := port.DescribeInput{Prompt: "extract fields", ImageBytes: []byte{1}, ContentType: "image/png"}

	_, err := cached.Describe(context.Background(), input)
	assert.Error(t, err)

	// The failure was not cached: the provider recovers and the next call
	// goes through.
	inner.err = nil
	inner.out = &port.DescribeOutput{Text: "ok", ModelUsed: "gemini-2.0-flash"}

	out, err := cached.Describe(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, 2, inner.calls)
}
