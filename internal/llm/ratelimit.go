package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/smsledger/internal/common"
)

// limitedClient throttles a provider client with a token bucket and retries
// transient failures with exponential backoff.
type limitedClient struct {
	inner   Client
	limiter *rate.Limiter
	retry   common.RetryOptions
}

// newLimitedClient wraps inner. A non-positive rate limit defaults to 60
// requests per minute.
func newLimitedClient(inner Client, cfg Config) *limitedClient {
	perMinute := cfg.RateLimit
	if perMinute <= 0 {
		perMinute = 60
	}

	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	return &limitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
		retry: common.RetryOptions{
			MaxAttempts:  retries,
			InitialDelay: delay,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Complete waits for a token before every attempt.
func (c *limitedClient) Complete(ctx context.Context, prompt string) (string, error) {
	var reply string
	err := common.WithRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter canceled: %w", err)
		}
		var err error
		reply, err = c.inner.Complete(ctx, prompt)
		return err
	}, c.retry)
	if err != nil {
		return "", err
	}
	return reply, nil
}
