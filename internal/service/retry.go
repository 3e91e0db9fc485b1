package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/jpillora/backoff"
)

// readAttempts bounds retries of read-only queries. Mutations are never retried.
const readAttempts = 3

func newReadBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    25 * time.Millisecond,
		Max:    250 * time.Millisecond,
		Factor: 2,
		Jitter: true,
	}
}

// isTransient reports connection-level faults worth retrying
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryRead runs fn until it succeeds, fails permanently or runs out of attempts
func retryRead(ctx context.Context, b *backoff.Backoff, fn func() error) error {
	for {
		err := fn()
		if !isTransient(err) || int(b.Attempt())+1 >= readAttempts {
			return err
		}
		timer := time.NewTimer(b.Duration())
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
