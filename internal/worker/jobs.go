package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/repository"
)

// AccuracyRetryJob re-attempts an accuracy upsert that failed on the
// submission path. The learner already saw the evaluation; this only flushes
// the counters. The upsert is idempotent per attempt, not per retry, so the
// job gives up after a few tries rather than risk double-counting on an
// ambiguous failure.
type AccuracyRetryJob struct {
	Accuracy    repository.AccuracyRepository
	UserID      string
	CharacterID int64
	Correct     bool

	MaxAttempts int
	Backoff     time.Duration
}

func (j *AccuracyRetryJob) Name() string {
	return fmt.Sprintf("accuracy-retry user=%s character=%d", j.UserID, j.CharacterID)
}

func (j *AccuracyRetryJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	maxAttempts := j.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	backoff := j.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if _, err := j.Accuracy.Upsert(ctx, j.UserID, j.CharacterID, j.Correct); err == nil {
			log.Info("accuracy flushed on retry %d", attempt)
			return nil
		} else {
			lastErr = err
			log.Warn("retry %d/%d failed: %v", attempt, maxAttempts, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("accuracy update dropped after %d retries: %w", maxAttempts, lastErr)
}
