package catalog

import (
	"context"
	"fmt"
	"time"

	"video-player/internal/logging"
)

// PollConfig bounds the wait for the backend after it restarts.
type PollConfig struct {
	// Interval is the fixed pause between attempts.
	Interval time.Duration
	// MaxAttempts caps the number of list calls. Values below 1 mean 1.
	MaxAttempts int
}

// DefaultPollConfig polls once a second for up to a minute.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval:    time.Second,
		MaxAttempts: 60,
	}
}

// WaitForList calls List until it succeeds, the attempts run out or ctx is
// done. The returned error wraps the last list failure.
func (c *Client) WaitForList(ctx context.Context, config PollConfig) ([]VideoEntry, error) {
	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		observePollAttempt()
		entries, err := c.List(ctx)
		if err == nil {
			if attempt > 1 {
				logging.Info("Backend ready after %d attempts", attempt)
			}
			observePollResult(true, attempt)
			return entries, nil
		}
		lastErr = err

		// Don't sleep after the last attempt
		if attempt < maxAttempts {
			logging.Debug("Backend not ready yet, retrying in %v (attempt %d/%d)",
				config.Interval, attempt, maxAttempts)
			if err := sleep(ctx, config.Interval); err != nil {
				observePollResult(false, attempt)
				return nil, err
			}
		}
	}

	logging.Warn("Backend not ready after %d attempts: %v", maxAttempts, lastErr)
	observePollResult(false, maxAttempts)
	return nil, fmt.Errorf("backend not ready after %d attempts: %w", maxAttempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
