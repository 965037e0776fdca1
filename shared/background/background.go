package background

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// tasks outlive the request that started them. Go must not be called once Wait has started, so
// the server drains its handlers before calling Wait.
var tasks errgroup.Group

// Go runs task detached from the caller's cancellation, keeping its values for tracing and logging.
// A panicking task is logged and does not take the process down.
func Go(ctx context.Context, name string, task func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)

	tasks.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("task", name).Interface("panic", r).Msg("background task panicked")
			}
		}()

		task(detached)

		return nil
	})
}

// Wait blocks until every started task has finished or ctx is done.
func Wait(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		_ = tasks.Wait()

		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Msg("background tasks still running at the end of the cleanup period")
		}

		return fmt.Errorf("failed to drain background tasks: %w", err)
	}
}
