package ratelimit

import (
	"log/slog"
	"time"
)

// WithMetrics wraps a limiter so every decision is recorded to m. The
// wrapped limiter's semantics are unchanged.
func WithMetrics(next RateLimiter, m *Metrics) RateLimiter {
	return &instrumentedLimiter{next: next, metrics: m}
}

type instrumentedLimiter struct {
	next    RateLimiter
	metrics *Metrics
}

func (l *instrumentedLimiter) TryAcquire(permits int) bool {
	start := time.Now()
	admitted := l.next.TryAcquire(permits)

	algorithm := l.next.Algorithm()
	l.metrics.RecordDecision(algorithm, permits, admitted)
	l.metrics.RecordAcquireDuration(algorithm, time.Since(start).Seconds())

	return admitted
}

func (l *instrumentedLimiter) Algorithm() Algorithm {
	return l.next.Algorithm()
}

// WithLogging wraps a limiter so rejections are logged at warn level and
// admissions at debug level. A nil logger uses slog.Default.
func WithLogging(next RateLimiter, logger *slog.Logger) RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingLimiter{
		next:   next,
		logger: logger.With("component", "ratelimit", "algorithm", next.Algorithm().String()),
	}
}

type loggingLimiter struct {
	next   RateLimiter
	logger *slog.Logger
}

func (l *loggingLimiter) TryAcquire(permits int) bool {
	admitted := l.next.TryAcquire(permits)
	if admitted {
		l.logger.Debug("permits admitted", "permits", permits)
	} else {
		l.logger.Warn("permits rejected", "permits", permits)
	}
	return admitted
}

func (l *loggingLimiter) Algorithm() Algorithm {
	return l.next.Algorithm()
}
