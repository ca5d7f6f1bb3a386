package llmclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes successful completions in an LRU keyed by prompt hash.
// Useful on resumed runs where identical prompts are replayed.
func Cache(size int) Middleware {
	if size <= 0 {
		size = 256
	}
	return func(next Client) Client {
		c, err := lru.New[string, string](size)
		if err != nil {
			return next
		}
		return &caching{next: next, lru: c}
	}
}

type caching struct {
	next Client
	lru  *lru.Cache[string, string]
}

func (c *caching) Name() string { return c.next.Name() }
func (c *caching) Close() error { return c.next.Close() }

func (c *caching) Complete(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if out, ok := c.lru.Get(key); ok {
		return out, nil
	}
	out, err := c.next.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.lru.Add(key, out)
	return out, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
