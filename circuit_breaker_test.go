package megasena

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreakerConfig() *CircuitBreakerConfig {
	config := DefaultCircuitBreakerConfig()
	config.MinRequests = 2
	config.FailureRatio = 0.5
	config.Timeout = time.Hour
	return config
}

func TestCircuitBreakerFetcher_Trips(t *testing.T) {
	inner := &stubFetcher{err: ErrBadStatus.WithDetails("HTTP 502")}
	fetcher := NewCircuitBreakerFetcher(inner, testBreakerConfig(), nil)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := fetcher.FetchLatest(ctx)
		assert.ErrorIs(t, err, ErrBadStatus)
	}
	assert.Equal(t, "open", fetcher.State())

	// 熔断打开后不再调用下游
	_, err := fetcher.FetchLatest(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.True(t, IsResultFetchError(err))
	assert.Equal(t, int32(2), inner.calls.Load())

	health := fetcher.HealthCheck()
	assert.Equal(t, "open", health["state"])
	assert.Equal(t, false, health["healthy"])

	fetcher.Reset()
	assert.Equal(t, "closed", fetcher.State())
	assert.Equal(t, uint32(0), fetcher.Counts().Requests)
}

func TestCircuitBreakerFetcher_PassesResults(t *testing.T) {
	inner := &stubFetcher{draw: sampleDraw()}
	fetcher := NewCircuitBreakerFetcher(inner, testBreakerConfig(), nil)

	draw, err := fetcher.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDraw(), draw)

	counts := fetcher.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, true, fetcher.HealthCheck()["healthy"])
}

func TestCircuitBreakerFetcher_CancellationDoesNotTrip(t *testing.T) {
	inner := &stubFetcher{err: ErrTransportFailure.WithCause(context.Canceled)}
	fetcher := NewCircuitBreakerFetcher(inner, testBreakerConfig(), nil)

	for i := 0; i < 5; i++ {
		_, err := fetcher.FetchLatest(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", fetcher.State())
	assert.Equal(t, int32(5), inner.calls.Load())
}

func TestCircuitBreakerFetcher_Disabled(t *testing.T) {
	config := testBreakerConfig()
	config.Enabled = false

	inner := &stubFetcher{err: ErrMalformedPayload}
	fetcher := NewCircuitBreakerFetcher(inner, config, nil)

	for i := 0; i < 5; i++ {
		_, err := fetcher.FetchLatest(context.Background())
		assert.ErrorIs(t, err, ErrMalformedPayload)
	}
	assert.Equal(t, "disabled", fetcher.State())
	assert.Equal(t, int32(5), inner.calls.Load())
	assert.Equal(t, true, fetcher.HealthCheck()["healthy"])

	fetcher.Reset()
	assert.Equal(t, "disabled", fetcher.State())
}

func TestCircuitBreakerFetcher_ConcurrentReset(t *testing.T) {
	inner := &stubFetcher{draw: sampleDraw()}
	fetcher := NewCircuitBreakerFetcher(inner, testBreakerConfig(), nil)

	const workers = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				draw, err := fetcher.FetchLatest(context.Background())
				assert.NoError(t, err)
				assert.Equal(t, 2700, draw.Contest)
				_ = fetcher.State()
				_ = fetcher.Counts()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				fetcher.Reset()
				_ = fetcher.HealthCheck()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "closed", fetcher.State())
	assert.Equal(t, int32(workers*50), inner.calls.Load())
}
