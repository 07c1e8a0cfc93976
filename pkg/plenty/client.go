// Package plenty предоставляет SDK для REST API Plentymarkets.
//
// Архитектура:
//
// Пакет состоит из двух слоёв:
//   - чистые функции без I/O: маршруты, нормализация дат, проверка параметров,
//     группировка НДС, сжатие конфигурации цен, связывание атрибутов с вариациями
//   - HTTP клиент с rate limiting, retry, circuit breaker, кэшем и пагинацией,
//     и высокоуровневые методы поверх него (GetOrders, GetVATMapping, ...)
//
// Чистые функции не возвращают ошибок: "ничего не получилось" выражается
// через второй результат (ok bool) или пустое значение.
package plenty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/ilkoid/plenty-api/pkg/config"
	"github.com/ilkoid/plenty-api/pkg/utils"
)

// ErrorType представляет тип ошибки при работе с REST API.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrAuthFailed
	ErrTimeout
	ErrNetwork
	ErrRateLimit
	ErrUnavailable
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrAuthFailed:
		return "authentication_failed"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	case ErrUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// HumanMessage возвращает человекочитаемое сообщение для типа ошибки.
func (e ErrorType) HumanMessage() string {
	switch e {
	case ErrAuthFailed:
		return "Логин или токен недействительны. Проверьте plenty.username/password или plenty.token."
	case ErrTimeout:
		return "Превышено время ожидания. Система Plentymarkets не отвечает или проблемы с сетью."
	case ErrNetwork:
		return "Система Plentymarkets недоступна. Проверьте base_url и подключение к интернету."
	case ErrRateLimit:
		return "Превышен лимит запросов. Подождите перед следующей попыткой."
	case ErrUnavailable:
		return "Слишком много ошибок подряд, запросы временно остановлены."
	default:
		return "Неизвестная ошибка при обращении к REST API."
	}
}

// APIError - ответ API с кодом, отличным от 2xx.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plenty api error: status %d, body: %s", e.StatusCode, e.Body)
}

// ClassifyError классифицирует ошибку по типу для лучшей диагностики.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrAuthFailed
		case http.StatusTooManyRequests:
			return ErrRateLimit
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "timeout") {
		return ErrTimeout
	}
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") {
		return ErrNetwork
	}

	return ErrUnknown
}

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponseCache хранит тела ответов GET запросов.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP клиент (тесты, прокси).
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithCache включает кэш ответов GET запросов.
func WithCache(cache ResponseCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithClock подменяет часы для нормализации дат.
func WithClock(clock Clock) Option {
	return func(c *Client) { c.dates = NewDateNormalizer(clock) }
}

// WithRunID добавляет идентификатор запуска во все записи лога клиента.
func WithRunID(runID string) Option {
	return func(c *Client) { c.runID = runID }
}

// Client - клиент REST API одной системы Plentymarkets.
type Client struct {
	baseURL       string
	username      string
	password      string
	staticToken   bool
	retryAttempts int
	pageSize      int
	runID         string

	httpClient HTTPClient
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	endpoints  *EndpointBuilder
	dates      *DateNormalizer
	cache      ResponseCache
	cacheTTL   time.Duration

	mu    sync.RWMutex
	token string
}

// NewFromConfig создает новый клиент из конфигурации.
//
// Поля с нулевыми значениями используют дефолтные значения через GetDefaults().
func NewFromConfig(cfg config.PlentyConfig, opts ...Option) (*Client, error) {
	cfg = cfg.GetDefaults()

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("plenty.base_url is required")
	}

	endpoints, err := NewEndpointBuilder(cfg.HostPattern)
	if err != nil {
		return nil, err
	}
	if _, err := endpoints.Build(cfg.BaseURL, RouteOrders); err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid plenty.timeout format: %w", err)
	}
	breakerTimeout, err := time.ParseDuration(cfg.BreakerTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid plenty.breaker_timeout format: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		username:      cfg.Username,
		password:      cfg.Password,
		token:         cfg.Token,
		staticToken:   cfg.Token != "",
		retryAttempts: cfg.RetryAttempts,
		pageSize:      cfg.PageSize,
		httpClient:    &http.Client{Timeout: timeout},
		// rateLimit в запросах/минуту → rate.Limit в запросах/секунду
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), cfg.BurstLimit),
		breaker:   newBreaker(cfg.BreakerThreshold, breakerTimeout),
		endpoints: endpoints,
		dates:     NewDateNormalizer(localClock{loc: loc}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// localClock - системное время в зоне из конфигурации.
type localClock struct{ loc *time.Location }

func (c localClock) Now() time.Time           { return time.Now() }
func (c localClock) Location() *time.Location { return c.loc }

func newBreaker(threshold int, timeout time.Duration) *gobreaker.CircuitBreaker {
	minRequests := uint32(threshold)
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "plenty-rest",
		MaxRequests: 1,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= minRequests
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			utils.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// Dates возвращает нормализатор дат клиента.
func (c *Client) Dates() *DateNormalizer {
	return c.dates
}

// Token возвращает текущий bearer токен.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login получает bearer токен через POST /rest/login.
//
// Если в конфигурации задан готовый токен, запрос не выполняется.
func (c *Client) Login(ctx context.Context) error {
	if c.staticToken {
		return nil
	}
	if c.username == "" || c.password == "" {
		return fmt.Errorf("plenty login: username and password are required")
	}

	payload, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.baseURL+RouteLogin, payload, false)
	if err != nil {
		return fmt.Errorf("plenty login failed: %w", err)
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("unmarshal login response: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("plenty login: empty access token")
	}

	c.mu.Lock()
	c.token = resp.AccessToken
	c.mu.Unlock()

	utils.Info("plenty login ok", "run_id", c.runID, "expires_in", resp.ExpiresIn)
	return nil
}

// ensureToken выполняет Login, если токена ещё нет.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.Token() != "" {
		return nil
	}
	return c.Login(ctx)
}

// attemptResult - итог одной попытки HTTP запроса.
type attemptResult struct {
	status     int
	body       []byte
	retryAfter time.Duration
}

// doRequest выполняет HTTP запрос с retry логикой, rate limiting и circuit breaker.
//
// 5xx и сетевые ошибки повторяются и учитываются breaker'ом.
// 429 повторяется после паузы из Retry-After. Остальные 4xx возвращаются сразу.
func (c *Client) doRequest(ctx context.Context, method, rawURL string, payload []byte, auth bool) ([]byte, error) {
	var lastErr error

	for i := 0; i < c.retryAttempts; i++ {
		// 1. Ждем разрешения от лимитера (блокирует горутину, если превысили лимит)
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		res, err := c.breaker.Execute(func() (interface{}, error) {
			return c.attempt(ctx, method, rawURL, payload, auth)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) || ctx.Err() != nil {
				return nil, err
			}
			utils.Debug("plenty request failed, retrying", "run_id", c.runID, "url", rawURL, "attempt", i+1, "error", err)
			lastErr = err
			continue
		}

		r := res.(attemptResult)
		switch {
		case r.status == http.StatusTooManyRequests:
			lastErr = &APIError{StatusCode: r.status, Body: string(r.body)}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.retryAfter):
				continue
			}
		case r.status < 200 || r.status > 299:
			return nil, &APIError{StatusCode: r.status, Body: string(r.body)}
		}

		utils.Debug("plenty request ok", "run_id", c.runID, "method", method, "url", rawURL, "status", r.status)
		return r.body, nil
	}

	return nil, fmt.Errorf("max retries exceeded, last error: %w", lastErr)
}

// attempt выполняет одну попытку. Ошибка возвращается только для случаев,
// которые должны учитываться breaker'ом: сеть и 5xx.
func (c *Client) attempt(ctx context.Context, method, rawURL string, payload []byte, auth bool) (attemptResult, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return attemptResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.Token())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attemptResult{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptResult{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 500 {
		return attemptResult{}, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	res := attemptResult{status: resp.StatusCode, body: data}
	if resp.StatusCode == http.StatusTooManyRequests {
		res.retryAfter = time.Second // Дефолт
		if s := resp.Header.Get("Retry-After"); s != "" {
			if sec, err := strconv.Atoi(s); err == nil {
				res.retryAfter = time.Duration(sec) * time.Second
			}
		}
	}
	return res, nil
}

func isUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// get выполняет GET запрос с кэшем.
//
// На 401 токен, полученный через Login, обновляется один раз.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	u := endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, u)
		if err != nil {
			utils.Warn("response cache read failed", "run_id", c.runID, "error", err)
		} else if ok {
			utils.Debug("response cache hit", "run_id", c.runID, "url", u)
			return body, nil
		}
	}

	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, u, nil, true)
	if isUnauthorized(err) && !c.staticToken {
		// Токен истёк: один повторный login и одна повторная попытка.
		utils.Info("plenty token rejected, logging in again", "run_id", c.runID, "url", u)
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		body, err = c.doRequest(ctx, http.MethodGet, u, nil, true)
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, u, body, c.cacheTTL); err != nil {
			utils.Warn("response cache write failed", "run_id", c.runID, "error", err)
		}
	}
	return body, nil
}

// fetchAll получает все записи маршрута, проходя по страницам.
//
// Ответ-массив считается единственной страницей.
func (c *Client) fetchAll(ctx context.Context, route string, query url.Values) ([]json.RawMessage, error) {
	endpoint, err := c.endpoints.Build(c.baseURL, route)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	for page := 1; ; page++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("itemsPerPage", strconv.Itoa(c.pageSize))

		body, err := c.get(ctx, endpoint, q)
		if err != nil {
			return nil, err
		}

		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []json.RawMessage
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("unmarshal error: %w", err)
			}
			return append(entries, list...), nil
		}

		var p Page
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}
		entries = append(entries, p.Entries...)

		if p.IsLastPage || len(p.Entries) == 0 {
			break
		}
	}

	utils.Info("plenty fetch done", "run_id", c.runID, "route", route, "entries", len(entries))
	return entries, nil
}
