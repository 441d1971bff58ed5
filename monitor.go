package megasena

import (
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMetrics 性能指标
type PerformanceMetrics struct {
	// 生成统计
	Generations        int64 `json:"generations"`         // 成功生成次数
	GamesGenerated     int64 `json:"games_generated"`     // 生成的游戏总数
	ValidationFailures int64 `json:"validation_failures"` // 校验失败次数
	TotalGenerateTime  int64 `json:"total_generate_time"` // 总生成时间(纳秒)

	// 开奖核对统计
	Checks        int64 `json:"checks"`         // 核对次数
	FetchFailures int64 `json:"fetch_failures"` // 获取开奖结果失败次数
	TotalFetch    int64 `json:"total_fetch"`    // 总核对时间(纳秒)

	// 存储统计
	StoreErrors int64 `json:"store_errors"` // 存储错误数

	// 时间戳
	StartTime      int64 `json:"start_time"`       // 开始时间
	LastUpdateTime int64 `json:"last_update_time"` // 最后更新时间
}

// AverageGenerateTime 获取平均生成时间
func (pm *PerformanceMetrics) AverageGenerateTime() time.Duration {
	if pm.Generations == 0 {
		return 0
	}
	return time.Duration(pm.TotalGenerateTime / pm.Generations)
}

// CheckSuccessRate 获取核对成功率
func (pm *PerformanceMetrics) CheckSuccessRate() float64 {
	if pm.Checks == 0 {
		return 0.0
	}
	return float64(pm.Checks-pm.FetchFailures) / float64(pm.Checks) * 100.0
}

// ================================================================================

// PerformanceMonitor 性能监控器
type PerformanceMonitor struct {
	metrics PerformanceMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewPerformanceMonitor 创建新的性能监控器
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{enabled: true}
	pm.Reset()
	return pm
}

// Enable 启用性能监控
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = true
}

// Disable 禁用性能监控
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = false
}

// IsEnabled 检查是否启用了性能监控
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.enabled
}

// RecordGeneration 记录生成操作
func (pm *PerformanceMonitor) RecordGeneration(games int, duration time.Duration) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.Generations, 1)
	atomic.AddInt64(&pm.metrics.GamesGenerated, int64(games))
	atomic.AddInt64(&pm.metrics.TotalGenerateTime, int64(duration))
	pm.touch()
}

// RecordValidationFailure 记录校验失败
func (pm *PerformanceMonitor) RecordValidationFailure() {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.ValidationFailures, 1)
	pm.touch()
}

// RecordCheck 记录核对操作
func (pm *PerformanceMonitor) RecordCheck(success bool, duration time.Duration) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.Checks, 1)
	atomic.AddInt64(&pm.metrics.TotalFetch, int64(duration))
	if !success {
		atomic.AddInt64(&pm.metrics.FetchFailures, 1)
	}
	pm.touch()
}

// RecordStoreError 记录存储错误
func (pm *PerformanceMonitor) RecordStoreError() {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.StoreErrors, 1)
	pm.touch()
}

func (pm *PerformanceMonitor) touch() {
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// GetMetrics 获取性能指标的副本
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		Generations:        atomic.LoadInt64(&pm.metrics.Generations),
		GamesGenerated:     atomic.LoadInt64(&pm.metrics.GamesGenerated),
		ValidationFailures: atomic.LoadInt64(&pm.metrics.ValidationFailures),
		TotalGenerateTime:  atomic.LoadInt64(&pm.metrics.TotalGenerateTime),
		Checks:             atomic.LoadInt64(&pm.metrics.Checks),
		FetchFailures:      atomic.LoadInt64(&pm.metrics.FetchFailures),
		TotalFetch:         atomic.LoadInt64(&pm.metrics.TotalFetch),
		StoreErrors:        atomic.LoadInt64(&pm.metrics.StoreErrors),
		StartTime:          atomic.LoadInt64(&pm.metrics.StartTime),
		LastUpdateTime:     atomic.LoadInt64(&pm.metrics.LastUpdateTime),
	}
}

// Reset 重置性能指标
func (pm *PerformanceMonitor) Reset() {
	now := time.Now().UnixNano()
	atomic.StoreInt64(&pm.metrics.Generations, 0)
	atomic.StoreInt64(&pm.metrics.GamesGenerated, 0)
	atomic.StoreInt64(&pm.metrics.ValidationFailures, 0)
	atomic.StoreInt64(&pm.metrics.TotalGenerateTime, 0)
	atomic.StoreInt64(&pm.metrics.Checks, 0)
	atomic.StoreInt64(&pm.metrics.FetchFailures, 0)
	atomic.StoreInt64(&pm.metrics.TotalFetch, 0)
	atomic.StoreInt64(&pm.metrics.StoreErrors, 0)
	atomic.StoreInt64(&pm.metrics.StartTime, now)
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, now)
}
