package megasena

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreakerFetcher 带熔断器的开奖结果获取器
//
// The breaker only short-circuits calls while the remote service keeps failing;
// it never retries a request.
type CircuitBreakerFetcher struct {
	fetcher DrawFetcher

	// Reset 会替换实例, 并发读写通过原子指针
	breaker atomic.Pointer[gobreaker.CircuitBreaker]
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewCircuitBreakerFetcher 创建带熔断器的开奖结果获取器
func NewCircuitBreakerFetcher(fetcher DrawFetcher, config *CircuitBreakerConfig, logger Logger) *CircuitBreakerFetcher {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	f := &CircuitBreakerFetcher{
		fetcher: fetcher,
		logger:  logger,
		config:  config,
	}
	if config.Enabled {
		f.breaker.Store(gobreaker.NewCircuitBreaker(f.settings()))
	}
	return f
}

func (f *CircuitBreakerFetcher) settings() gobreaker.Settings {
	config := f.config
	return gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// 调用方取消不算作远端故障
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange {
				f.logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}
}

// FetchLatest implements DrawFetcher
func (f *CircuitBreakerFetcher) FetchLatest(ctx context.Context) (*DrawResult, error) {
	breaker := f.breaker.Load()
	if breaker == nil {
		// 熔断器未启用，直接执行
		return f.fetcher.FetchLatest(ctx)
	}

	result, err := breaker.Execute(func() (any, error) {
		return f.fetcher.FetchLatest(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return nil, ErrTransportFailure.WithCause(
				ErrCircuitBreakerOpen.WithDetails("requests are being rejected").WithCause(err))
		}
		if errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrTransportFailure.WithCause(
				ErrCircuitBreakerOpen.WithDetails("too many requests while half-open").WithCause(err))
		}
		return nil, err
	}

	return result.(*DrawResult), nil
}

// State 获取熔断器状态
func (f *CircuitBreakerFetcher) State() string {
	breaker := f.breaker.Load()
	if breaker == nil {
		return "disabled"
	}

	switch breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts 获取熔断器统计信息
func (f *CircuitBreakerFetcher) Counts() gobreaker.Counts {
	breaker := f.breaker.Load()
	if breaker == nil {
		return gobreaker.Counts{}
	}
	return breaker.Counts()
}

// Reset 重置熔断器 (gobreaker 没有 Reset 方法，重新创建实例)
func (f *CircuitBreakerFetcher) Reset() {
	if f.breaker.Load() == nil {
		return
	}
	f.breaker.Store(gobreaker.NewCircuitBreaker(f.settings()))
	f.logger.Info("Circuit breaker '%s' has been reset", f.config.Name)
}

// HealthCheck 熔断器健康检查
func (f *CircuitBreakerFetcher) HealthCheck() map[string]any {
	result := map[string]any{
		"circuit_breaker_enabled": f.config.Enabled,
		"timestamp":               time.Now().Unix(),
	}

	if f.breaker.Load() == nil {
		result["state"] = "disabled"
		result["healthy"] = true
		return result
	}

	state := f.State()
	counts := f.Counts()

	result["state"] = state
	result["requests"] = counts.Requests
	result["total_successes"] = counts.TotalSuccesses
	result["total_failures"] = counts.TotalFailures
	result["consecutive_failures"] = counts.ConsecutiveFailures
	result["healthy"] = state != "open"

	return result
}
