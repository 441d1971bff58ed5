package megasena

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// Config 配置结构
type Config struct {
	// 组合生成配置
	Generator *GeneratorConfig `mapstructure:"generator"`

	// 开奖结果获取配置
	Fetcher *FetcherConfig `mapstructure:"fetcher"`

	// 熔断器配置
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// 游戏集存储配置
	Store *StoreConfig `mapstructure:"store"`

	// Redis 配置
	Redis *RedisConfig `mapstructure:"redis"`
}

// Validate checks every section of the configuration
func (c *Config) Validate() error {
	if c.Generator == nil || c.Fetcher == nil || c.CircuitBreaker == nil || c.Store == nil || c.Redis == nil {
		return ErrConfigInvalid.WithDetails("missing configuration section")
	}

	// 验证生成配置
	g := c.Generator
	if g.MinDezenas < 1 || g.MaxDezenas > MaxNumber || g.MinDezenas > g.MaxDezenas {
		return ErrInvalidDezenasBounds.WithDetails("min=%d max=%d", g.MinDezenas, g.MaxDezenas)
	}
	if g.MaxMaterialized < 0 {
		return ErrConfigInvalid.WithDetails("generator.max_materialized cannot be negative")
	}

	// 验证获取配置
	if c.Fetcher.Timeout < MinFetchTimeout || c.Fetcher.Timeout > MaxFetchTimeout {
		return ErrInvalidFetchTimeout.WithDetails("got %v", c.Fetcher.Timeout)
	}
	u, err := url.Parse(c.Fetcher.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint.WithDetails("got %q", c.Fetcher.Endpoint)
	}

	// 验证存储配置
	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendRedis:
		if _, err := c.Redis.Options(); err != nil {
			return err
		}
		if c.Redis.PoolSize <= 0 {
			return ErrConfigInvalid.WithDetails("redis pool size must be positive")
		}
	default:
		return ErrInvalidStoreBackend.WithDetails("got %q", c.Store.Backend)
	}
	if c.Store.TTL < 0 {
		return ErrConfigInvalid.WithDetails("store.ttl cannot be negative")
	}

	// 验证熔断器配置
	if c.CircuitBreaker.Enabled {
		if c.CircuitBreaker.FailureRatio <= 0 || c.CircuitBreaker.FailureRatio > 1 {
			return ErrConfigInvalid.WithDetails("circuit_breaker.failure_ratio must be in (0, 1]")
		}
	}

	return nil
}

// GeneratorConfig 组合生成配置
type GeneratorConfig struct {
	MinDezenas      int `mapstructure:"min_dezenas"`
	MaxDezenas      int `mapstructure:"max_dezenas"`
	MaxMaterialized int `mapstructure:"max_materialized"` // 0 means unlimited
}

// DefaultGeneratorConfig 返回默认生成配置
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		MinDezenas:      DefaultMinDezenas,
		MaxDezenas:      DefaultMaxDezenas,
		MaxMaterialized: DefaultMaxMaterialized,
	}
}

// FetcherConfig 开奖结果获取配置
type FetcherConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// DefaultFetcherConfig 返回默认获取配置
func DefaultFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		Endpoint:  DefaultDrawEndpoint,
		Timeout:   DefaultFetchTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// StoreConfig 游戏集存储配置
type StoreConfig struct {
	Backend            string        `mapstructure:"backend"`
	TTL                time.Duration `mapstructure:"ttl"`
	KeyPrefix          string        `mapstructure:"key_prefix"`
	MaxSerializedBytes int           `mapstructure:"max_serialized_bytes"`
}

// DefaultStoreConfig 返回默认存储配置
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend:            StoreBackendMemory,
		TTL:                DefaultStoreTTL,
		KeyPrefix:          GameSetKeyPrefix,
		MaxSerializedBytes: DefaultMaxSerializedBytes,
	}
}

// RedisConfig 会话存储使用的 Redis 连接
//
// URL takes precedence over Addr/Password/DB when set, e.g. redis://:secret@cache:6379/2.
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize   int `mapstructure:"pool_size"`
	MaxRetries int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultRedisConfig 返回默认的Redis配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
	}
}

// Options converts the section into go-redis client options
func (c *RedisConfig) Options() (*redis.Options, error) {
	opts := &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
	if c.URL != "" {
		parsed, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, ErrConfigInvalid.WithDetails("invalid redis.url").WithCause(err)
		}
		opts = parsed
	}
	if opts.Addr == "" {
		return nil, ErrConfigInvalid.WithDetails("redis address is required")
	}

	opts.PoolSize = c.PoolSize
	opts.MaxRetries = c.MaxRetries
	opts.DialTimeout = c.DialTimeout
	opts.ReadTimeout = c.ReadTimeout
	opts.WriteTimeout = c.WriteTimeout
	return opts, nil
}

// NewRedisClientFromConfig 从配置创建Redis客户端
func NewRedisClientFromConfig(config *RedisConfig) (*redis.Client, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	opts, err := config.Options()
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// DefaultConfig 返回完整的默认配置
func DefaultConfig() *Config {
	return &Config{
		Generator:      DefaultGeneratorConfig(),
		Fetcher:        DefaultFetcherConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
		Store:          DefaultStoreConfig(),
		Redis:          DefaultRedisConfig(),
	}
}

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	mu     sync.RWMutex
	config *Config
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/megasena")
	v.AddConfigPath("$HOME/.megasena")

	// 设置环境变量前缀
	v.SetEnvPrefix("MEGASENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cm := &ConfigManager{viper: v}
	cm.setDefaults()
	return cm
}

// NewDefaultConfigManager 创建使用默认配置的配置管理器, 不读取文件
func NewDefaultConfigManager() *ConfigManager {
	cm := NewConfigManager()
	cm.config = DefaultConfig()
	return cm
}

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	// 读取配置文件
	if err := cm.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ErrConfigInvalid.WithDetails("failed to read config file").WithCause(err)
		}
		// 配置文件不存在时使用默认配置
	}

	return cm.decode()
}

// LoadConfigFile 从指定文件加载配置
func (cm *ConfigManager) LoadConfigFile(path string) (*Config, error) {
	cm.viper.SetConfigFile(path)
	if err := cm.viper.ReadInConfig(); err != nil {
		return nil, ErrConfigInvalid.WithDetails("failed to read config file %s", path).WithCause(err)
	}

	return cm.decode()
}

func (cm *ConfigManager) decode() (*Config, error) {
	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, ErrConfigInvalid.WithDetails("failed to unmarshal config").WithCause(err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cm.mu.Lock()
	cm.config = config
	cm.mu.Unlock()
	return config, nil
}

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	// 生成默认配置
	cm.viper.SetDefault("generator.min_dezenas", DefaultMinDezenas)
	cm.viper.SetDefault("generator.max_dezenas", DefaultMaxDezenas)
	cm.viper.SetDefault("generator.max_materialized", DefaultMaxMaterialized)

	// 获取默认配置
	cm.viper.SetDefault("fetcher.endpoint", DefaultDrawEndpoint)
	cm.viper.SetDefault("fetcher.timeout", "10s")
	cm.viper.SetDefault("fetcher.user_agent", DefaultUserAgent)

	// 熔断器默认配置
	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", true)

	// 存储默认配置
	cm.viper.SetDefault("store.backend", StoreBackendMemory)
	cm.viper.SetDefault("store.ttl", "1h")
	cm.viper.SetDefault("store.key_prefix", GameSetKeyPrefix)
	cm.viper.SetDefault("store.max_serialized_bytes", DefaultMaxSerializedBytes)

	// Redis 默认配置
	cm.viper.SetDefault("redis.url", "")
	cm.viper.SetDefault("redis.addr", DefaultRedisAddr)
	cm.viper.SetDefault("redis.password", "")
	cm.viper.SetDefault("redis.db", DefaultRedisDB)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.max_retries", DefaultRedisMaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", DefaultRedisDialTimeout)
	cm.viper.SetDefault("redis.read_timeout", DefaultRedisReadTimeout)
	cm.viper.SetDefault("redis.write_timeout", DefaultRedisWriteTimeout)
}

// WatchConfig 监听配置变化. Invalid edits are reported to onError and the
// previous configuration stays in effect.
func (cm *ConfigManager) WatchConfig(callback func(*Config), onError func(error)) {
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config, err := cm.decode()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}

		if callback != nil {
			callback(config)
		}
	})
	cm.viper.WatchConfig()
}

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return cm.config
}
