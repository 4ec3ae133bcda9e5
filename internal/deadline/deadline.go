// Package deadline bounds a unit of work by wall-clock time.
//
// Run hands the work a context that expires after the budget. Blocking calls
// made with that context (HTTP requests, subprocesses) are aborted when it
// expires, and the expiry is reported as ErrTimeout. The timer is released as
// soon as Run returns, so nothing leaks into the next unit of work.
package deadline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout reports that the budget of the unit itself ran out
var ErrTimeout = errors.New("deadline exceeded")

// Run executes fn under a budget of d. If the parent context ends first its
// error is returned unchanged, so callers can tell their own timeout apart
// from an outer one.
func Run(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	itemCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	err := fn(itemCtx)

	if parentErr := ctx.Err(); parentErr != nil {
		return parentErr
	}
	if errors.Is(itemCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %v", ErrTimeout, d)
	}
	return err
}

// Seconds converts a configured number of seconds into a duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
