package megasena

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Field names of the draw payload
const (
	fieldContest = "concurso"
	fieldDate    = "data"
	fieldNumbers = "dezenas"
)

// HTTPDrawFetcher fetches the latest draw with a single GET request.
// It keeps no state between calls, so concurrent calls make independent requests.
type HTTPDrawFetcher struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	logger     Logger
}

// NewHTTPDrawFetcher creates a fetcher for endpoint. A timeout <= 0 uses DefaultFetchTimeout.
func NewHTTPDrawFetcher(endpoint string, timeout time.Duration, logger Logger) *HTTPDrawFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &HTTPDrawFetcher{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		userAgent:  DefaultUserAgent,
		logger:     logger,
	}
}

// NewHTTPDrawFetcherFromConfig creates a fetcher from the fetcher section of the config
func NewHTTPDrawFetcherFromConfig(config *FetcherConfig, logger Logger) *HTTPDrawFetcher {
	if config == nil {
		config = DefaultFetcherConfig()
	}
	f := NewHTTPDrawFetcher(config.Endpoint, config.Timeout, logger)
	if config.UserAgent != "" {
		f.userAgent = config.UserAgent
	}
	return f
}

// FetchLatest implements DrawFetcher
func (f *HTTPDrawFetcher) FetchLatest(ctx context.Context) (*DrawResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, ErrTransportFailure.WithDetails("build request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, ErrTransportFailure.WithCause(err)
	}
	defer resp.Body.Close()

	f.logger.Debug("Draw request completed: url=%s status=%d elapsed=%v", f.endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, ErrBadStatus.
			WithDetails("HTTP %d from %s", resp.StatusCode, f.endpoint).
			WithMetadata("status_code", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadSize+1))
	if err != nil {
		return nil, ErrTransportFailure.WithDetails("read body").WithCause(err)
	}
	if len(body) > MaxPayloadSize {
		return nil, ErrMalformedPayload.WithDetails("payload exceeds %d bytes", MaxPayloadSize)
	}

	return ParseDrawPayload(body)
}

// ParseDrawPayload extracts a DrawResult from the JSON body of the draw service.
// The contest and numbers may be sent as numbers or as numeric strings.
func ParseDrawPayload(body []byte) (*DrawResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedPayload.WithDetails("body is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, ErrMalformedPayload.WithDetails("body is not a JSON object")
	}

	contestField := root.Get(fieldContest)
	dateField := root.Get(fieldDate)
	numbersField := root.Get(fieldNumbers)

	if !contestField.Exists() {
		return nil, ErrMalformedPayload.WithDetails("missing %q", fieldContest)
	}
	contest, err := integerLike(contestField)
	if err != nil {
		return nil, ErrMalformedPayload.WithDetails("field %q", fieldContest).WithCause(err)
	}

	if !dateField.Exists() {
		return nil, ErrMalformedPayload.WithDetails("missing %q", fieldDate)
	}
	if dateField.Type != gjson.String || strings.TrimSpace(dateField.Str) == "" {
		return nil, ErrMalformedPayload.WithDetails("field %q must be a non-empty string", fieldDate)
	}

	if !numbersField.Exists() {
		return nil, ErrMalformedPayload.WithDetails("missing %q", fieldNumbers)
	}
	if !numbersField.IsArray() {
		return nil, ErrMalformedPayload.WithDetails("field %q must be an array", fieldNumbers)
	}

	items := numbersField.Array()
	if len(items) == 0 {
		return nil, ErrMalformedPayload.WithDetails("field %q is empty", fieldNumbers)
	}
	numbers := make([]int, 0, len(items))
	for i, item := range items {
		n, err := integerLike(item)
		if err != nil {
			return nil, ErrMalformedPayload.WithDetails("%s[%d]", fieldNumbers, i).WithCause(err)
		}
		if n < MinNumber || n > MaxNumber {
			return nil, ErrMalformedPayload.WithDetails(
				"%s[%d] = %d is outside %d..%d", fieldNumbers, i, n, MinNumber, MaxNumber)
		}
		if slices.Contains(numbers, n) {
			return nil, ErrMalformedPayload.WithDetails("%s[%d] repeats %d", fieldNumbers, i, n)
		}
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)

	return &DrawResult{
		Contest: contest,
		Date:    strings.TrimSpace(dateField.Str),
		Numbers: numbers,
	}, nil
}

// integerLike accepts a JSON integer or a string holding a base-10 integer ("07").
// Values beyond the int32 range are rejected.
func integerLike(r gjson.Result) (int, error) {
	switch r.Type {
	case gjson.Number:
		if r.Num != math.Trunc(r.Num) {
			return 0, fmt.Errorf("%s is not an integer", r.Raw)
		}
		if math.Abs(r.Num) > math.MaxInt32 {
			return 0, fmt.Errorf("%s is out of range", r.Raw)
		}
		return int(r.Num), nil
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(r.Str), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", r.Str)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected JSON %s", r.Type)
	}
}
