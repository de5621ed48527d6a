package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/edugen/edugen/internal/textsim"
)

// correctionEcho bounds how much of a rejected reply is echoed back in the
// correction turn.
const correctionEcho = 2000

// RetryProvider retries transient failures with exponential backoff and
// jitter. A reply that fails its schema is retried once, with the bad reply
// and the reason it failed appended to the conversation so the model can
// fix its JSON instead of starting over.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

type retryClass int

const (
	retryNever retryClass = iota
	retryOnce
	retryTransient
)

func classifyRetry(err error) retryClass {
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retryNever
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	}
	// Rate limits, outages and network errors.
	return retryTransient
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	corrected := false
	attempts := max(r.config.MaxAttempts, 1)

	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classifyRetry(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if corrected {
				return nil, err
			}
			corrected = true
			var invalid *ErrInvalidResponse
			errors.As(err, &invalid)
			req = withCorrection(req, invalid)
		}

		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		// Give up with the provider error when the wait would outlast the
		// deadline.
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			return nil, lastErr
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// withCorrection returns req with the rejected reply and a request to fix
// it appended. req.Messages is not modified.
func withCorrection(req Request, invalid *ErrInvalidResponse) Request {
	if req.Schema == nil || invalid == nil || len(invalid.Content) == 0 {
		return req
	}
	msgs := make([]Message, 0, len(req.Messages)+2)
	msgs = append(msgs, req.Messages...)
	msgs = append(msgs,
		Message{Role: RoleAssistant, Content: textsim.Truncate(string(invalid.Content), correctionEcho)},
		Message{Role: RoleUser, Content: fmt.Sprintf(
			"That reply does not match the %s JSON schema (%v). Reply again with only the corrected JSON object.",
			req.Schema.Name, invalid.Err)},
	)
	req.Messages = msgs
	return req
}

// backoff computes the wait before the next attempt. A rate limit with a
// Retry-After wins over the schedule.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}
