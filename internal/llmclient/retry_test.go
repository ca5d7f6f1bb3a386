package llmclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyClient struct {
	calls    int
	failures int
	err      error
}

func (f *flakyClient) Name() string { return "flaky" }
func (f *flakyClient) Close() error { return nil }
func (f *flakyClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "ok", nil
}

func TestRetryRecoversFromTransient(t *testing.T) {
	base := &flakyClient{failures: 2, err: NewTransientError(errors.New("rate limited"))}
	cli := Retry(4, time.Millisecond)(base)

	out, err := cli.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, base.calls)
}

func TestRetryStopsOnPermanent(t *testing.T) {
	base := &flakyClient{failures: 10, err: NewPermanentError(errors.New("content rejected"))}
	cli := Retry(4, time.Millisecond)(base)

	_, err := cli.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, 1, base.calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	base := &flakyClient{failures: 10, err: NewTransientError(errors.New("timeout"))}
	cli := Retry(3, time.Millisecond)(base)

	_, err := cli.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
	assert.Equal(t, 3, base.calls)
}

func TestRetryLastFailureReturnsWithoutBackoff(t *testing.T) {
	base := &flakyClient{failures: 10, err: NewTransientError(errors.New("timeout"))}
	cli := Retry(1, time.Hour)(base)

	start := time.Now()
	_, err := cli.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, 1, base.calls)
	assert.Less(t, time.Since(start), time.Second, "no backoff after the final attempt")
}

func TestRetryHonorsCancellation(t *testing.T) {
	base := &flakyClient{failures: 10, err: NewTransientError(errors.New("timeout"))}
	cli := Retry(5, 50*time.Millisecond)(base)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cli.Complete(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, base.calls)
}

func TestIsPermanentUnwraps(t *testing.T) {
	inner := errors.New("boom")
	assert.True(t, IsPermanent(NewPermanentError(inner)))
	assert.False(t, IsPermanent(NewTransientError(inner)))
	assert.False(t, IsPermanent(inner))

	var p *PermanentError
	require.True(t, errors.As(NewPermanentError(inner), &p))
	assert.Equal(t, inner, p.Unwrap())
}
