package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/breachsearch/internal/search"
)

const searchPath = "/api/search"

type Config struct {
	BaseURL string
	// 0 - без таймаута
	Timeout time.Duration
}

type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Search делает GET /api/search?q=..., ретраев нет
func (c *Client) Search(ctx context.Context, query string) (search.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return search.Result{}, search.ErrEmptyQuery
	}

	endpoint := c.baseURL + searchPath + "?q=" + url.QueryEscape(query)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return search.Result{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return search.Result{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return search.Result{}, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("search response",
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return search.Result{}, &search.StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	if strings.Contains(contentType, "application/json") {
		result, err := search.JSONResult(body)
		if err != nil {
			return search.Result{}, fmt.Errorf("unmarshal response: %w", err)
		}
		return result, nil
	}

	return search.TextResult(string(body)), nil
}
