package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

type rateLimitedClient struct {
	Client
	limiter *rate.Limiter
}

// NewLimiter builds a limiter allowing requestsPerMinute calls with burst.
// A non-positive rate yields an unlimited limiter.
func NewLimiter(requestsPerMinute, burst int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, max(burst, 1))
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst)
}

// WithRateLimit throttles c. Calls wait for a token and never retry.
func WithRateLimit(c Client, limiter *rate.Limiter) Client {
	return &rateLimitedClient{Client: c, limiter: limiter}
}

func (c *rateLimitedClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return c.Client.Complete(ctx, req)
}
