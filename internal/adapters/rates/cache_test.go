package rates

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource counts underlying lookups and replays a fixed outcome.
type countingSource struct {
	mu      sync.Mutex
	calls   int
	details *domain.ExchangeRateDetails
	err     error
}

func (s *countingSource) FindLatestRate(ctx context.Context, currencyCode string, onOrBefore time.Time) (*domain.ExchangeRateDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	details := *s.details
	return &details, nil
}

func (s *countingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func mustDate(value string) time.Time {
	d, err := time.ParseInLocation(domain.DateFormat, value, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

func euroRate() *domain.ExchangeRateDetails {
	return &domain.ExchangeRateDetails{
		CurrencyCode:  "EUR",
		EffectiveDate: mustDate("2024-05-09"),
		Rate:          decimal.RequireFromString("2.0"),
	}
}

func TestCacheServesRepeatLookupsWithoutUnderlyingCall(t *testing.T) {
	source := &countingSource{details: euroRate()}
	cache := NewCachingRateSource(source, time.Minute)

	first, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)
	second, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)

	assert.Equal(t, 1, source.callCount(), "second lookup must come from the cache")
	assert.True(t, first.Rate.Equal(second.Rate))
}

func TestCacheExpiresEntriesAfterTTL(t *testing.T) {
	source := &countingSource{details: euroRate()}
	cache := NewCachingRateSource(source, time.Minute)

	current := mustDate("2024-06-15")
	cache.now = func() time.Time { return current }

	_, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)
	_, err = cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)
	assert.Equal(t, 1, source.callCount())

	current = current.Add(time.Minute + time.Second)
	_, err = cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)
	assert.Equal(t, 2, source.callCount(), "expired entry must be refetched")
}

func TestCacheMemoizesNotFoundOutcome(t *testing.T) {
	source := &countingSource{err: apperrors.ErrNotFound}
	cache := NewCachingRateSource(source, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := cache.FindLatestRate(context.Background(), "XTS", mustDate("2024-06-15"))
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	}

	assert.Equal(t, 1, source.callCount(), "confirmed-absent entries must not re-query upstream")
}

func TestCacheKeysAreCaseInsensitiveOnCurrency(t *testing.T) {
	source := &countingSource{details: euroRate()}
	cache := NewCachingRateSource(source, time.Minute)

	_, err := cache.FindLatestRate(context.Background(), "eur", mustDate("2024-06-15"))
	require.NoError(t, err)
	_, err = cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)

	assert.Equal(t, 1, source.callCount())
}

func TestCacheDistinguishesDates(t *testing.T) {
	source := &countingSource{details: euroRate()}
	cache := NewCachingRateSource(source, time.Minute)

	_, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)
	_, err = cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-16"))
	require.NoError(t, err)

	assert.Equal(t, 2, source.callCount())
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	source := &countingSource{details: euroRate()}
	cache := NewCachingRateSource(source, 0)

	for i := 0; i < 3; i++ {
		_, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, source.callCount(), "every call passes through when caching is disabled")
}

func TestUpstreamFailuresAreNotCached(t *testing.T) {
	source := &countingSource{err: apperrors.ErrRateSourceUnavailable}
	cache := NewCachingRateSource(source, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
		assert.ErrorIs(t, err, apperrors.ErrRateSourceUnavailable)
	}

	assert.Equal(t, 2, source.callCount())
}

func TestConcurrentLookupsSettleOnOneOutcome(t *testing.T) {
	source := &countingSource{details: euroRate()}
	cache := NewCachingRateSource(source, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			details, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
			assert.NoError(t, err)
			assert.True(t, details.Rate.Equal(decimal.RequireFromString("2.0")))
		}()
	}
	wg.Wait()

	// Concurrent first misses may each hit upstream, but once settled the
	// cache serves everything.
	_, err := cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)
	settled := source.callCount()
	_, err = cache.FindLatestRate(context.Background(), "EUR", mustDate("2024-06-15"))
	require.NoError(t, err)
	assert.Equal(t, settled, source.callCount())
}
