package player

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultPollInterval separates readiness checks.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultPollAttempts bounds the readiness poll.
	DefaultPollAttempts = 20
)

// awaitControl polls Status at a fixed interval until it answers, the
// attempts run out, the process exits or ctx is done. There is no backoff:
// the control endpoint either shows up within a short startup window or not
// at all.
func (p *Player) awaitControl(ctx context.Context, exited <-chan struct{}) (Readiness, error) {
	attempts := p.pollAttempts
	var lastErr error

	for attempts > 0 {
		select {
		case <-ctx.Done():
			return Readiness{AttemptsLeft: attempts}, ctx.Err()
		case <-exited:
			return Readiness{AttemptsLeft: attempts}, ErrProcessExited
		case <-p.clock.After(p.pollInterval):
		}

		status, err := p.bridge.Status(ctx, p.settings.DBusName)
		attempts--
		if err == nil {
			return Readiness{Status: status, AttemptsLeft: attempts}, nil
		}

		lastErr = err
		p.logger.Debugf("control channel not ready (%d attempts left): %v", attempts, err)
	}

	return Readiness{}, fmt.Errorf("%w after %d attempts: %w", ErrReadinessTimeout, p.pollAttempts, lastErr)
}
