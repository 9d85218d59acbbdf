package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	gh "github.com/google/go-github/v35/github"

	"github.com/quantmind-br/repolens/internal/domain"
)

// RetrierOptions tunes the exponential backoff between API attempts
type RetrierOptions struct {
	// MaxRetries counts attempts after the first; zero disables retries
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetrierOptions returns default retrier options
func DefaultRetrierOptions() RetrierOptions {
	return RetrierOptions{
		MaxRetries:      3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
	}
}

// withDefaults fills unset or invalid fields from DefaultRetrierOptions
func (o RetrierOptions) withDefaults() RetrierOptions {
	d := DefaultRetrierOptions()
	if o.MaxRetries < 0 {
		o.MaxRetries = d.MaxRetries
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = d.InitialInterval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = d.MaxInterval
	}
	if o.Multiplier <= 0 {
		o.Multiplier = d.Multiplier
	}
	return o
}

// Retrier retries hosting API calls that failed transiently
type Retrier struct {
	opts RetrierOptions
}

func NewRetrier(opts RetrierOptions) *Retrier {
	return &Retrier{opts: opts.withDefaults()}
}

func (r *Retrier) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.opts.InitialInterval),
		backoff.WithMaxInterval(r.opts.MaxInterval),
		backoff.WithMultiplier(r.opts.Multiplier),
		backoff.WithRandomizationFactor(0.5),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.opts.MaxRetries)), ctx)
}

// Retry runs operation until it succeeds, fails with a non-retryable
// error, or the retry budget is spent. The last error is returned as is.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	var lastErr error
	err := backoff.Retry(func() error {
		err := classify(operation())
		if err == nil {
			return nil
		}
		lastErr = err

		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, r.backOff(ctx))

	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}

// classify marks the failures of the hosting API worth another attempt:
// rate limiting, gateway and server errors, and transport errors.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.RetryableError{Err: err, StatusCode: statusOf(err)}
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &domain.RetryableError{Err: err, StatusCode: statusOf(err)}
	}

	if status := statusOf(err); status != 0 {
		if domain.ShouldRetryStatus(status) || status >= http.StatusInternalServerError {
			return &domain.RetryableError{Err: err, StatusCode: status}
		}
		return err
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &domain.RetryableError{Err: fmt.Errorf("%w: %w", domain.ErrTimeout, err)}
		}
		return &domain.RetryableError{Err: err}
	}
	return err
}

// statusOf returns the HTTP status carried by a go-github error, or 0
func statusOf(err error) int {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response.StatusCode
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}
