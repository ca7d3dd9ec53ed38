package worker

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces requests per domain so gutenberg.org, loc.gov, and
// wikipedia.org each get their own token bucket.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the URL's domain has rate limit clearance.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return err
	}

	return l.getLimiter(domain).Wait(ctx)
}

// WaitWithDelay waits for clearance, first slowing the domain's bucket
// to the robots.txt crawl-delay when that is stricter than the default
// rate. Slowing the shared bucket paces all workers at once instead of
// sleeping in each one.
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, crawlDelay time.Duration) error {
	domain, err := extractDomain(rawURL)
	if err != nil {
		return err
	}

	if crawlDelay > 0 {
		rps := float64(time.Second) / float64(crawlDelay)
		if rate.Limit(rps) < l.defaultRate {
			l.applyDomainRate(domain, rps)
		}
	}

	return l.getLimiter(domain).Wait(ctx)
}

// SetDomainRate sets a custom rate limit for a specific domain.
func (l *Limiter) SetDomainRate(domain string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[domain] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// applyDomainRate installs the crawl-delay rate once. Replacing the
// limiter on every wait would hand out a fresh burst each time.
func (l *Limiter) applyDomainRate(domain string, requestsPerSecond float64) {
	l.mu.RLock()
	existing, ok := l.limiters[domain]
	l.mu.RUnlock()

	if ok && existing.Limit() == rate.Limit(requestsPerSecond) {
		return
	}

	l.SetDomainRate(domain, requestsPerSecond, 1)
}

func (l *Limiter) getLimiter(domain string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[domain]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[domain] = limiter

	return limiter
}

func extractDomain(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
