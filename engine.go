package megasena

import (
	"context"
	"sync"
	"time"
)

// Engine validates pools, generates game sets, keeps them per session and checks
// them against the latest draw.
type Engine struct {
	fetcher       DrawFetcher
	store         GameSetStore
	configManager *ConfigManager
	logger        Logger
	mu            sync.RWMutex // 保护配置和logger的并发访问

	performanceMonitor *PerformanceMonitor
}

// NewEngine creates an engine with default configuration and an in-memory store
func NewEngine(fetcher DrawFetcher) *Engine {
	cm := NewDefaultConfigManager()
	return NewEngineWithConfig(fetcher, NewMemoryGameSetStore(cm.GetConfig().Store.TTL), cm)
}

// NewEngineWithConfig creates an engine with custom configuration and store
func NewEngineWithConfig(fetcher DrawFetcher, store GameSetStore, cm *ConfigManager) *Engine {
	return NewEngineWithConfigAndLogger(fetcher, store, cm, &DefaultLogger{})
}

// NewEngineWithConfigAndLogger creates an engine with custom configuration, store and logger
func NewEngineWithConfigAndLogger(
	fetcher DrawFetcher, store GameSetStore, cm *ConfigManager, logger Logger,
) *Engine {
	if cm == nil || cm.GetConfig() == nil {
		cm = NewDefaultConfigManager()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	return &Engine{
		fetcher:       fetcher,
		store:         store,
		configManager: cm,
		logger:        logger,

		performanceMonitor: NewPerformanceMonitor(),
	}
}

// SetLogger replaces the engine logger
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		logger = NewSilentLogger()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger = logger
}

func (e *Engine) log() Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.logger
}

// GetConfig returns the current configuration
func (e *Engine) GetConfig() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.configManager.GetConfig()
}

// UpdateConfig validates and applies a new configuration at runtime
func (e *Engine) UpdateConfig(newConfig *Config) error {
	if newConfig == nil {
		return ErrConfigInvalid.WithDetails("nil configuration")
	}
	if err := newConfig.Validate(); err != nil {
		e.log().Error("UpdateConfig validation failed: %v", err)
		return err
	}

	e.mu.Lock()
	e.configManager.mu.Lock()
	e.configManager.config = newConfig
	e.configManager.mu.Unlock()
	e.mu.Unlock()

	e.log().Info("Configuration updated: dezenas=[%d,%d], max_materialized=%d",
		newConfig.Generator.MinDezenas, newConfig.Generator.MaxDezenas, newConfig.Generator.MaxMaterialized)
	return nil
}

// Metrics returns a snapshot of the engine counters
func (e *Engine) Metrics() PerformanceMetrics { return e.performanceMonitor.GetMetrics() }

// prepare validates the pool and game size against the domain rules and the configured bounds
func (e *Engine) prepare(pool []int, k int) (*Combinations, error) {
	if err := ValidatePool(pool); err != nil {
		e.performanceMonitor.RecordValidationFailure()
		return nil, err
	}

	gen := e.GetConfig().Generator
	if k < gen.MinDezenas || k > gen.MaxDezenas {
		return nil, ErrInvalidSubsetSize.WithDetails(
			"dezenas must be between %d and %d, got %d", gen.MinDezenas, gen.MaxDezenas, k)
	}

	return NewCombinations(pool, k)
}

// Stream validates pool and k and returns the lazy game sequence. Nothing is stored.
func (e *Engine) Stream(pool []int, k int) (*Combinations, error) {
	combos, err := e.prepare(pool, k)
	if err != nil {
		e.log().Debug("Stream rejected: %v", err)
		return nil, err
	}
	return combos, nil
}

// Generate validates pool and k, materializes every game and stores the set for
// sessionID, replacing any previous one.
func (e *Engine) Generate(ctx context.Context, sessionID string, pool []int, k int) (*GameSet, error) {
	log := e.log()
	log.Debug("Generate called: session=%s, pool_size=%d, dezenas=%d", sessionID, len(pool), k)

	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	combos, err := e.prepare(pool, k)
	if err != nil {
		log.Error("Generate rejected: session=%s, error=%v", sessionID, err)
		return nil, err
	}

	total := combos.Len()
	if limit := e.GetConfig().Generator.MaxMaterialized; limit > 0 && (!total.IsInt64() || total.Int64() > int64(limit)) {
		err := ErrGameSetTooLarge.WithDetails("C(%d,%d) = %s games exceeds limit %d, stream them instead",
			len(pool), k, total.String(), limit)
		log.Error("Generate rejected: session=%s, error=%v", sessionID, err)
		return nil, err
	}

	start := time.Now()
	gs, err := Generate(pool, k)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	if err := e.store.Save(ctx, sessionID, gs); err != nil {
		e.performanceMonitor.RecordStoreError()
		log.Error("Failed to store game set: session=%s, error=%v", sessionID, err)
		return nil, err
	}

	e.performanceMonitor.RecordGeneration(gs.Len(), duration)
	log.Info("Generated %d games: session=%s, pool=%v, dezenas=%d, elapsed=%v",
		gs.Len(), sessionID, gs.Pool, k, duration)
	return gs, nil
}

// Games returns the set currently stored for sessionID
func (e *Engine) Games(ctx context.Context, sessionID string) (*GameSet, error) {
	gs, err := e.store.Load(ctx, sessionID)
	if err != nil && CodeOf(err) == ErrCodeStoreFailure {
		e.performanceMonitor.RecordStoreError()
	}
	return gs, err
}

// CheckResult checks the set stored for sessionID against the latest draw
func (e *Engine) CheckResult(ctx context.Context, sessionID string) (*MatchReport, error) {
	gs, err := e.Games(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return e.Check(ctx, gs.Games)
}

// Check checks games against the latest draw
func (e *Engine) Check(ctx context.Context, games []Game) (*MatchReport, error) {
	log := e.log()

	start := time.Now()
	report, err := NewResultChecker(e.fetcher).Check(ctx, games)
	e.performanceMonitor.RecordCheck(err == nil, time.Since(start))
	if err != nil {
		log.Error("Result check failed: games=%d, error=%v", len(games), err)
		return nil, err
	}

	log.Info("Checked %d games against contest %d (%s): drawn=%v",
		len(report.Games), report.Contest, report.Date, report.Numbers)
	return report, nil
}

// Reset drops the set stored for sessionID. Resetting an empty session is not an error.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	if err := e.store.Delete(ctx, sessionID); err != nil {
		if CodeOf(err) == ErrCodeStoreFailure {
			e.performanceMonitor.RecordStoreError()
		}
		return err
	}

	e.log().Debug("Session reset: session=%s", sessionID)
	return nil
}

// NewEngineFromConfig wires the HTTP fetcher, the circuit breaker and the configured
// store. The returned close function releases the Redis client when one was created.
func NewEngineFromConfig(cm *ConfigManager, logger Logger) (*Engine, func() error, error) {
	if cm == nil || cm.GetConfig() == nil {
		cm = NewDefaultConfigManager()
	}
	config := cm.GetConfig()
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = &DefaultLogger{}
	}

	fetcher := NewCircuitBreakerFetcher(
		NewHTTPDrawFetcherFromConfig(config.Fetcher, logger), config.CircuitBreaker, logger)

	var (
		store   GameSetStore
		closeFn = func() error { return nil }
	)
	switch config.Store.Backend {
	case StoreBackendRedis:
		client, err := NewRedisClientFromConfig(config.Redis)
		if err != nil {
			return nil, nil, err
		}
		store = NewRedisGameSetStoreFromConfig(client, config.Store, logger)
		closeFn = client.Close
	default:
		store = NewMemoryGameSetStore(config.Store.TTL)
	}

	return NewEngineWithConfigAndLogger(fetcher, store, cm, logger), closeFn, nil
}
