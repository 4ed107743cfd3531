// Package retry содержит утилиты повторных попыток.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Backoff рассчитывает экспоненциальные задержки с опциональным полным джиттером.
type Backoff struct {
	Base   time.Duration
	Cap    time.Duration
	Jitter bool
}

// NewBackoff создает Backoff. base больше capDur урезается до capDur.
func NewBackoff(base, capDur time.Duration, jitter bool) *Backoff {
	if capDur > 0 && base > capDur {
		base = capDur
	}
	return &Backoff{Base: base, Cap: capDur, Jitter: jitter}
}

// WaitDuration возвращает задержку перед повтором номер attempt (0-базовый): Base*2^attempt, не больше Cap.
func (b *Backoff) WaitDuration(attempt int) time.Duration {
	if b == nil || b.Base <= 0 || attempt < 0 {
		return 0
	}

	wait := b.Base
	for i := 0; i < attempt; i++ {
		if b.Cap > 0 && wait >= b.Cap {
			break
		}
		if wait > math.MaxInt64/2 {
			break
		}
		wait *= 2
	}
	if b.Cap > 0 && wait > b.Cap {
		wait = b.Cap
	}
	if !b.Jitter {
		return wait
	}
	return time.Duration(rand.Int63n(int64(wait) + 1))
}

// Policy задает правила повторов.
type Policy struct {
	MaxRetries  int
	Backoff     *Backoff
	ShouldRetry func(err error) bool
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent помечает ошибку как неповторяемую: Do вернет ее сразу.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent сообщает, помечена ли ошибка через Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do выполняет op, повторяя ее до MaxRetries раз. onRetry вызывается перед ожиданием
// с номером неуспешной попытки (1-базовый). Ошибки, помеченные Permanent, возвращаются
// без обертки.
func Do(ctx context.Context, policy Policy, op func() error, onRetry func(err error, attempt int, wait time.Duration)) error {
	maxRetries := max(policy.MaxRetries, 0)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		var p *permanentError
		if errors.As(lastErr, &p) {
			return p.err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if policy.ShouldRetry != nil && !policy.ShouldRetry(lastErr) {
			return lastErr
		}
		if attempt == maxRetries {
			break
		}

		wait := policy.Backoff.WaitDuration(attempt)
		if onRetry != nil {
			onRetry(lastErr, attempt+1, wait)
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
