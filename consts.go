package megasena

import "time"

const (
	// MinPoolSize is the smallest number pool accepted by the validator
	MinPoolSize = 7

	// MaxPoolSize is the largest number pool accepted by the validator
	MaxPoolSize = 60

	// MinNumber is the lowest number on a Mega-Sena ticket
	MinNumber = 1

	// MaxNumber is the highest number on a Mega-Sena ticket
	MaxNumber = 60

	// DefaultDezenas is the number of dezenas per game when the caller does not pick one
	DefaultDezenas = 6

	// DefaultMinDezenas is the smallest game size offered by the engine
	DefaultMinDezenas = 6

	// DefaultMaxDezenas is the largest game size offered by the engine
	DefaultMaxDezenas = 20

	// DefaultMaxMaterialized caps how many games the engine keeps in memory for one session
	DefaultMaxMaterialized = 10_000_000
)

const (
	// DefaultDrawEndpoint returns the latest Mega-Sena contest as JSON
	DefaultDrawEndpoint = "https://loteriascaixa-api.herokuapp.com/api/megasena/latest"

	// DefaultFetchTimeout bounds the single outbound request made by a result check
	DefaultFetchTimeout = 10 * time.Second

	// MinFetchTimeout is the minimum fetch timeout allowed
	MinFetchTimeout = 1 * time.Second

	// MaxFetchTimeout is the maximum fetch timeout allowed
	MaxFetchTimeout = 2 * time.Minute

	// DefaultUserAgent is sent with every draw request
	DefaultUserAgent = "megasena-combinations/1.0"

	// MaxPayloadSize is the largest draw payload read from the remote service (1MB)
	MaxPayloadSize = 1 << 20
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "megasena-draw-fetcher"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 1

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	// StoreBackendMemory keeps game sets in process memory
	StoreBackendMemory = "memory"

	// StoreBackendRedis keeps game sets in Redis so they survive the process
	StoreBackendRedis = "redis"

	// DefaultStoreTTL is how long a session's game set is kept
	DefaultStoreTTL = 1 * time.Hour

	// GameSetKeyPrefix is the prefix for Redis game set keys
	GameSetKeyPrefix = "megasena:games:"

	// DefaultMaxSerializedBytes is the maximum size of a serialized game set (64MB)
	DefaultMaxSerializedBytes = 64 * 1024 * 1024
)

// Redis 连接默认值
const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 10
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
)
