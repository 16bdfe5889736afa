package retry

import (
	"fmt"
	"math"
	"time"

	"github.com/Rafsilva0/demo-automation/logger"
	"go.uber.org/zap"
)

// Do runs op up to maxAttempts times, sleeping baseDelaySeconds^attempt
// seconds between attempts. On exhaustion the returned error wraps the
// last failure.
func Do[T any](name string, maxAttempts int, baseDelaySeconds int, op func() (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := op()
		if err == nil {
			logger.Info("operation succeeded", zap.String("op", name), zap.Int("attempt", attempt))
			return res, nil
		}
		lastErr = err
		logger.Warn("operation attempt failed",
			zap.String("op", name),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err))
		if attempt < maxAttempts {
			wait := Backoff(baseDelaySeconds, attempt)
			logger.Info("retrying operation", zap.String("op", name), zap.Duration("wait", wait))
			time.Sleep(wait)
		}
	}
	return zero, fmt.Errorf("%s failed after %d attempts: %w", name, maxAttempts, lastErr)
}

// Backoff returns the exponential delay before the next attempt.
func Backoff(baseDelaySeconds int, attempt int) time.Duration {
	if baseDelaySeconds <= 0 {
		return 0
	}
	return time.Duration(math.Pow(float64(baseDelaySeconds), float64(attempt))) * time.Second
}
