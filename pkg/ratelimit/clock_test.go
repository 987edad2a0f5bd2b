package ratelimit

import "time"

// fakeClock drives limiter time deterministically in tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func mustRate(permitNum int, window time.Duration) Rate {
	rate, err := NewRate(permitNum, window)
	if err != nil {
		panic(err)
	}
	return rate
}
