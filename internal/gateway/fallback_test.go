package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklens/internal/port"
)

type fakeGateway struct {
	out   *port.DescribeOutput
	err   error
	calls int
}

func (f *fakeGateway) Describe(_ context.Context, _ port.DescribeInput) (*port.DescribeOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func TestFallback_FirstProviderWins(t *testing.T) {
	primary := &fakeGateway{out: &port.DescribeOutput{Text: "primary", ModelUsed: "gemini-2.0-flash"}}
	secondary := &fakeGateway{out: &port.DescribeOutput{Text: "secondary", ModelUsed: "claude-sonnet"}}

	fb := NewFallback([]port.VisionGateway{primary, secondary}, []string{"gemini", "claude"})

	out, err := fb.Describe(context.Background(), port.DescribeInput{})

	assert.NoError(t, err)
	assert.Equal(t, "primary", out.Text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallback_FailoverOnError(t *testing.T) {
	primary := &fakeGateway{err: errors.New("upstream timeout")}
	secondary := &fakeGateway{out: &port.DescribeOutput{Text: "secondary", ModelUsed: "claude-sonnet"}}

	fb := NewFallback([]port.VisionGateway{primary, secondary}, []string{"gemini", "claude"})

	out, err := fb.Describe(context.Background(), port.DescribeInput{})

	assert.NoError(t, err)
	assert.Equal(t, "secondary", out.Text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallback_RateLimitOpensCircuit(t *testing.T) {
	primary := &fakeGateway{err: NewRateLimitError("gemini", errors.New("429"), 60)}
	secondary := &fakeGateway{out: &port.DescribeOutput{Text: "secondary", ModelUsed: "claude-sonnet"}}

	fb := NewFallback([]port.VisionGateway{primary, secondary}, []string{"gemini", "claude"})

	_, err := fb.Describe(context.Background(), port.DescribeInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)

	// Circuit is open: the second request skips the rate-limited provider.
	_, err = fb.Describe(context.Background(), port.DescribeInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallback_AllRateLimited(t *testing.T) {
	primary := &fakeGateway{err: NewRateLimitError("gemini", errors.New("429"), 30)}
	secondary := &fakeGateway{err: NewRateLimitError("claude", errors.New("429"), 90)}

	fb := NewFallback([]port.VisionGateway{primary, secondary}, []string{"gemini", "claude"})

	_, err := fb.Describe(context.Background(), port.DescribeInput{})

	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
	// Earliest reset across providers drives the retry hint.
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), float64(30))
}

func TestFallback_AllFailed(t *testing.T) {
	primary := &fakeGateway{err: errors.New("boom")}
	secondary := &fakeGateway{err: errors.New("also boom")}

	fb := NewFallback([]port.VisionGateway{primary, secondary}, []string{"gemini", "claude"})

	_, err := fb.Describe(context.Background(), port.DescribeInput{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
	var rlErr *RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}
