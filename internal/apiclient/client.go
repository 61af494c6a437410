package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobportal_web/internal/logger"
	"jobportal_web/pkg/apperrors"
)

const maxBodySize = 5 << 20

// Config - параметры клиента внешнего API
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	// HTTPClient можно подменить в тестах
	HTTPClient *http.Client
}

// Client - тонкая обёртка над REST API вакансий.
// Все методы принимают токен явно: клиент не хранит состояние сессии.
type Client struct {
	baseURL string
	hc      *http.Client
	limiter *HostLimiter
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		hc:      hc,
		limiter: NewHostLimiter(rps, cfg.Burst),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// request - описание одного вызова API
type request struct {
	method string
	path   string
	token  string
	query  url.Values
	// body сериализуется в JSON, если не задан raw
	body        any
	raw         io.Reader
	contentType string
	// defaultMessage - текст ошибки, если backend не прислал своего
	defaultMessage string
}

// do выполняет запрос и возвращает тело успешного ответа
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	contentType := r.contentType
	switch {
	case r.raw != nil:
		body = r.raw
	case r.body != nil:
		buf, err := json.Marshal(r.body)
		if err != nil {
			return nil, apperrors.InternalError(fmt.Errorf("encode request body: %w", err))
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	if err := c.limiter.WaitURL(ctx, endpoint); err != nil {
		logger.APILog(r.method, r.path, 0, 0, err)
		return nil, apperrors.ErrTransport(err, transportMessage(r.defaultMessage))
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if reqID := logger.GetRequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		logger.APILog(r.method, r.path, 0, time.Since(start), err)
		return nil, apperrors.ErrTransport(err, transportMessage(r.defaultMessage))
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		logger.APILog(r.method, r.path, res.StatusCode, time.Since(start), err)
		return nil, apperrors.ErrTransport(err, transportMessage(r.defaultMessage))
	}

	if res.StatusCode >= 400 {
		appErr := normalizeError(res.StatusCode, data, r.defaultMessage)
		logger.APILog(r.method, r.path, res.StatusCode, time.Since(start), appErr)
		return nil, appErr
	}

	logger.APILog(r.method, r.path, res.StatusCode, time.Since(start), nil)
	return data, nil
}

// doJSON - do + декодирование ответа в out
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	data, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.ErrTransport(err, r.defaultMessage)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
