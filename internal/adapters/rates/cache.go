package rates

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	portssvc "github.com/SscSPs/purchase_service_app/internal/core/ports/services"
)

// cacheKey identifies one memoized lookup.
type cacheKey struct {
	currency string // uppercased
	date     string // requested date, yyyy-mm-dd
}

// cacheEntry memoizes one lookup outcome. found=false is the negative entry
// recording a confirmed-absent rate, kept so repeated misses don't hit the
// provider again within the TTL window.
type cacheEntry struct {
	details   *domain.ExchangeRateDetails
	found     bool
	expiresAt time.Time
}

// CachingRateSource decorates a RateSource with a TTL-bounded memo of
// lookups keyed by (currency, requested date). It is the backpressure
// mechanism protecting the external provider when the same purchase is
// viewed or converted repeatedly. Safe for concurrent use.
//
// Overlapping lookups for the same uncached key may each call the underlying
// source; the duplicate upstream calls are harmless and all settle on the
// same cached outcome. Upstream failures are never cached.
type CachingRateSource struct {
	next portssvc.RateSource
	ttl  time.Duration
	now  func() time.Time

	lock    sync.RWMutex
	entries map[cacheKey]cacheEntry
}

// NewCachingRateSource returns a RateSource caching lookups from next for
// the given TTL. A zero or negative TTL disables caching and every call
// passes through.
func NewCachingRateSource(next portssvc.RateSource, ttl time.Duration) *CachingRateSource {
	return &CachingRateSource{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// FindLatestRate returns the cached outcome for (currency, date) when a live
// entry exists, including the cached not-found outcome. On miss or expiry it
// consults the underlying source and memoizes what it got.
func (s *CachingRateSource) FindLatestRate(ctx context.Context, currencyCode string, onOrBefore time.Time) (*domain.ExchangeRateDetails, error) {
	if s.ttl <= 0 {
		return s.next.FindLatestRate(ctx, currencyCode, onOrBefore)
	}

	key := cacheKey{
		currency: strings.ToUpper(strings.TrimSpace(currencyCode)),
		date:     onOrBefore.Format(domain.DateFormat),
	}

	s.lock.RLock()
	entry, ok := s.entries[key]
	s.lock.RUnlock()

	if ok && s.now().Before(entry.expiresAt) {
		if !entry.found {
			return nil, apperrors.ErrNotFound
		}
		details := *entry.details
		return &details, nil
	}

	details, err := s.next.FindLatestRate(ctx, currencyCode, onOrBefore)
	switch {
	case err == nil:
		s.store(key, cacheEntry{details: details, found: true, expiresAt: s.now().Add(s.ttl)})
		return details, nil
	case errors.Is(err, apperrors.ErrNotFound):
		s.store(key, cacheEntry{found: false, expiresAt: s.now().Add(s.ttl)})
		return nil, err
	default:
		return nil, err
	}
}

func (s *CachingRateSource) store(key cacheKey, entry cacheEntry) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.entries[key] = entry
}
