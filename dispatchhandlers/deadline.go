package dispatchhandlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitalvas/strada/dispatch"
)

// ErrInvalidDeadline is returned when DeadlineConfig.MinRemaining is
// negative.
var ErrInvalidDeadline = errors.New("deadline: min remaining must not be negative")

// ErrDeadlineRequired is the middleware failure for dispatches whose
// context carries no deadline while RequireDeadline is set.
var ErrDeadlineRequired = errors.New("deadline: context has no deadline")

// DeadlineConfig configures the Deadline middleware behaviour.
type DeadlineConfig struct {
	// RequireDeadline fails dispatches whose context carries no deadline
	// at all.
	RequireDeadline bool

	// MinRemaining fails dispatches whose deadline is closer than this,
	// so handlers do not start work they cannot finish. Zero disables
	// the check.
	MinRemaining time.Duration
}

// DeadlineMiddleware returns middleware that fails a dispatch fast when
// the request context is already done, missing a required deadline, or too
// close to its deadline. The failure aborts the dispatch before the
// handler runs and surfaces wrapped in dispatch.ErrMiddleware.
//
// It returns ErrInvalidDeadline if MinRemaining is negative.
func DeadlineMiddleware(cfg DeadlineConfig) (dispatch.Middleware, error) {
	if cfg.MinRemaining < 0 {
		return nil, ErrInvalidDeadline
	}

	return func(c *dispatch.Context) error {
		ctx := c.Context()
		if err := ctx.Err(); err != nil {
			return err
		}

		deadline, ok := ctx.Deadline()
		if !ok {
			if cfg.RequireDeadline {
				return ErrDeadlineRequired
			}
			return nil
		}

		if remaining := time.Until(deadline); cfg.MinRemaining > 0 && remaining < cfg.MinRemaining {
			return fmt.Errorf("deadline: %v remaining, need %v: %w", remaining, cfg.MinRemaining, context.DeadlineExceeded)
		}

		return nil
	}, nil
}
