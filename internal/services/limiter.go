package services

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits outbound calls per hostname (api.adzuna.com,
// jsearch.p.rapidapi.com, api.groq.com).
type HostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

// NewHostLimiter returns a limiter allowing reqPerSec per host. A
// non-positive rate disables limiting.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	r := rate.Limit(reqPerSec)
	if reqPerSec <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{m: make(map[string]*rate.Limiter), r: r, b: burst}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim
	return lim
}

// WaitURL blocks until a request to raw's host is allowed or ctx ends.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	if hl == nil {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}
