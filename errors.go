package megasena

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 配置错误 (1000-1999)
	ErrCodeConfigInvalid        ErrorCode = "MEGASENA_1000"
	ErrCodeInvalidDezenasBounds ErrorCode = "MEGASENA_1001"
	ErrCodeInvalidFetchTimeout  ErrorCode = "MEGASENA_1002"
	ErrCodeInvalidEndpoint      ErrorCode = "MEGASENA_1003"
	ErrCodeInvalidStoreBackend  ErrorCode = "MEGASENA_1004"

	// 号码池校验错误 (2000-2099)
	ErrCodeValidation       ErrorCode = "MEGASENA_2000"
	ErrCodeTooFewNumbers    ErrorCode = "MEGASENA_2001"
	ErrCodeTooManyNumbers   ErrorCode = "MEGASENA_2002"
	ErrCodeOutOfRange       ErrorCode = "MEGASENA_2003"
	ErrCodeDuplicateNumbers ErrorCode = "MEGASENA_2004"

	// 组合生成错误 (2100-2199)
	ErrCodeInvalidSubsetSize ErrorCode = "MEGASENA_2100"
	ErrCodeGameSetTooLarge   ErrorCode = "MEGASENA_2101"

	// 开奖结果获取错误 (3000-3999)
	ErrCodeResultFetch        ErrorCode = "MEGASENA_3000"
	ErrCodeBadStatus          ErrorCode = "MEGASENA_3001"
	ErrCodeMalformedPayload   ErrorCode = "MEGASENA_3002"
	ErrCodeTransportFailure   ErrorCode = "MEGASENA_3003"
	ErrCodeCircuitBreakerOpen ErrorCode = "MEGASENA_3004"

	// 存储错误 (4000-4999)
	ErrCodeGameSetNotFound ErrorCode = "MEGASENA_4000"
	ErrCodeStoreFailure    ErrorCode = "MEGASENA_4001"
	ErrCodeInvalidSession  ErrorCode = "MEGASENA_4002"

	// 导入导出错误 (5000-5999)
	ErrCodeInvalidInput ErrorCode = "MEGASENA_5000"
	ErrCodeExportFailed ErrorCode = "MEGASENA_5001"
)

// ErrorCategory groups error codes so callers can branch on the kind of failure
type ErrorCategory string

const (
	CategoryConfig      ErrorCategory = "config"
	CategoryValidation  ErrorCategory = "validation"
	CategorySubsetSize  ErrorCategory = "subset_size"
	CategoryResultFetch ErrorCategory = "result_fetch"
	CategoryStorage     ErrorCategory = "storage"
	CategoryIO          ErrorCategory = "io"
)

// categoryRoots maps the root code of a category to the category it stands for.
// errors.Is against a root sentinel matches every error of that category.
var categoryRoots = map[ErrorCode]ErrorCategory{
	ErrCodeConfigInvalid: CategoryConfig,
	ErrCodeValidation:    CategoryValidation,
	ErrCodeResultFetch:   CategoryResultFetch,
}

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// LotteryError 结构化错误类型
type LotteryError struct {
	Code      ErrorCode      `json:"code"`
	Category  ErrorCategory  `json:"category"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Severity  ErrorSeverity  `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Operation string         `json:"operation,omitempty"`
	Cause     error          `json:"-"`
	Retryable bool           `json:"retryable"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *LotteryError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap 实现 errors.Unwrap 接口
func (e *LotteryError) Unwrap() error { return e.Cause }

// Is matches errors with the same code, or any error of a category when the
// target is that category's root sentinel.
func (e *LotteryError) Is(target error) bool {
	t, ok := target.(*LotteryError)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	if category, root := categoryRoots[t.Code]; root {
		return e.Category == category
	}
	return false
}

// Reason returns the short failure reason for result fetch errors
// ("bad status", "malformed payload", "transport failure"), and the message otherwise.
func (e *LotteryError) Reason() string { return e.Message }

// clone 返回副本, 预定义错误实例不可被修改
func (e *LotteryError) clone() *LotteryError {
	c := *e
	c.Timestamp = time.Now()
	if e.Metadata != nil {
		c.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// WithCause 添加原因错误
func (e *LotteryError) WithCause(cause error) *LotteryError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithDetails 添加详细信息
func (e *LotteryError) WithDetails(format string, args ...any) *LotteryError {
	c := e.clone()
	c.Details = fmt.Sprintf(format, args...)
	return c
}

// WithOperation 添加操作信息
func (e *LotteryError) WithOperation(operation string) *LotteryError {
	c := e.clone()
	c.Operation = operation
	return c
}

// WithMetadata 添加元数据
func (e *LotteryError) WithMetadata(key string, value any) *LotteryError {
	c := e.clone()
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	return c
}

// NewError 创建新的错误
func NewError(code ErrorCode, category ErrorCategory, message string) *LotteryError {
	return &LotteryError{
		Code:      code,
		Category:  category,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
	}
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, category ErrorCategory, message string) *LotteryError {
	err := NewError(code, category, message)
	err.Retryable = true
	return err
}

// NewCriticalError 创建严重错误
func NewCriticalError(code ErrorCode, category ErrorCategory, message string) *LotteryError {
	err := NewError(code, category, message)
	err.Severity = SeverityCritical
	return err
}

// 预定义的错误实例
var (
	// 配置错误
	ErrConfigInvalid        = NewCriticalError(ErrCodeConfigInvalid, CategoryConfig, "configuration is invalid")
	ErrInvalidDezenasBounds = NewError(ErrCodeInvalidDezenasBounds, CategoryConfig, "invalid dezenas bounds: need 1 <= min <= max <= 60")
	ErrInvalidFetchTimeout  = NewError(ErrCodeInvalidFetchTimeout, CategoryConfig, "invalid fetch timeout: must be between 1s and 2m")
	ErrInvalidEndpoint      = NewError(ErrCodeInvalidEndpoint, CategoryConfig, "invalid draw endpoint: must be an absolute http(s) URL")
	ErrInvalidStoreBackend  = NewError(ErrCodeInvalidStoreBackend, CategoryConfig, "invalid store backend: must be memory or redis")

	// 号码池校验错误
	ErrValidation       = NewError(ErrCodeValidation, CategoryValidation, "number pool is invalid")
	ErrTooFewNumbers    = NewError(ErrCodeTooFewNumbers, CategoryValidation, "at least 7 numbers are required")
	ErrTooManyNumbers   = NewError(ErrCodeTooManyNumbers, CategoryValidation, "at most 60 numbers are allowed")
	ErrOutOfRange       = NewError(ErrCodeOutOfRange, CategoryValidation, "numbers must be between 1 and 60")
	ErrDuplicateNumbers = NewError(ErrCodeDuplicateNumbers, CategoryValidation, "numbers cannot be repeated")

	// 组合生成错误
	ErrInvalidSubsetSize = NewError(ErrCodeInvalidSubsetSize, CategorySubsetSize, "invalid subset size")
	ErrGameSetTooLarge   = NewError(ErrCodeGameSetTooLarge, CategorySubsetSize, "game set too large to materialize")

	// 开奖结果获取错误
	ErrResultFetch        = NewError(ErrCodeResultFetch, CategoryResultFetch, "failed to fetch draw result")
	ErrBadStatus          = NewError(ErrCodeBadStatus, CategoryResultFetch, "bad status")
	ErrMalformedPayload   = NewError(ErrCodeMalformedPayload, CategoryResultFetch, "malformed payload")
	ErrTransportFailure   = NewRetryableError(ErrCodeTransportFailure, CategoryResultFetch, "transport failure")
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, CategoryResultFetch, "circuit breaker is open")

	// 存储错误
	ErrGameSetNotFound = NewError(ErrCodeGameSetNotFound, CategoryStorage, "no games generated for session")
	ErrStoreFailure    = NewRetryableError(ErrCodeStoreFailure, CategoryStorage, "game set store failure")
	ErrInvalidSession  = NewError(ErrCodeInvalidSession, CategoryStorage, "invalid session ID: cannot be empty")

	// 导入导出错误
	ErrInvalidInput = NewError(ErrCodeInvalidInput, CategoryIO, "invalid number list")
	ErrExportFailed = NewError(ErrCodeExportFailed, CategoryIO, "failed to export games")
)

// IsValidationError reports whether err is one of the number pool validation errors
func IsValidationError(err error) bool { return errors.Is(err, ErrValidation) }

// IsResultFetchError reports whether err came from fetching or parsing the draw result
func IsResultFetchError(err error) bool { return errors.Is(err, ErrResultFetch) }

// CodeOf returns the code of the first LotteryError in err's chain, or "" if there is none
func CodeOf(err error) ErrorCode {
	var lotteryErr *LotteryError
	if errors.As(err, &lotteryErr) {
		return lotteryErr.Code
	}
	return ""
}
