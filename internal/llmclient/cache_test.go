package llmclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) Name() string { return "counting" }
func (c *countingClient) Close() error { return nil }
func (c *countingClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "resp:" + prompt, nil
}

func TestCacheServesRepeatedPrompt(t *testing.T) {
	base := &countingClient{}
	cli := Cache(8)(base)

	first, err := cli.Complete(context.Background(), "same")
	require.NoError(t, err)
	second, err := cli.Complete(context.Background(), "same")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, base.calls)
}

func TestCacheDistinguishesPrompts(t *testing.T) {
	base := &countingClient{}
	cli := Cache(8)(base)

	a, _ := cli.Complete(context.Background(), "a")
	b, _ := cli.Complete(context.Background(), "b")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, base.calls)
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	base := &countingClient{err: NewTransientError(errors.New("down"))}
	cli := Cache(8)(base)

	_, err := cli.Complete(context.Background(), "p")
	require.Error(t, err)
	base.err = nil
	out, err := cli.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "resp:p", out)
	assert.Equal(t, 2, base.calls)
}

func TestWrapOrder(t *testing.T) {
	base := &countingClient{}
	var order []string
	mw := func(tag string) Middleware {
		return func(next Client) Client {
			return &Fake{CompleteFunc: func(prompt string) (string, error) {
				order = append(order, tag)
				return next.Complete(context.Background(), prompt)
			}}
		}
	}
	cli := Wrap(base, mw("outer"), mw("inner"))
	_, err := cli.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
