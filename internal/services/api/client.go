// Package api is the live Backend: a thin JSON client for the marketplace
// REST API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/uep-freelance/freelance_web/internal/apperr"
	"github.com/uep-freelance/freelance_web/internal/metrics"
	"github.com/uep-freelance/freelance_web/internal/services"
)

type Client struct {
	http *resty.Client
	log  *zap.Logger
	rec  *metrics.Recorder
}

var _ services.Backend = (*Client)(nil)

// New builds a client without retries: every failure reaches the caller.
func New(baseURL string, timeout time.Duration, log *zap.Logger, rec *metrics.Recorder) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	return &Client{http: c, log: log, rec: rec}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type call struct {
	method string
	path   string
	token  string
	query  map[string]string
	body   any
	out    any
	// raw receives the 2xx body as text for endpoints that answer in plain
	// text.
	raw *string
}

var idSegment = regexp.MustCompile(`/\d+`)

// do issues one request and decodes a 2xx JSON body into c.out when set.
func (c *Client) do(ctx context.Context, in call) error {
	op := in.method + " " + in.path
	req := c.http.R().SetContext(ctx)
	if in.token != "" {
		req.SetAuthToken(in.token)
	}
	for k, v := range in.query {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}
	if in.body != nil {
		req.SetBody(in.body)
	}

	label := in.method + " " + idSegment.ReplaceAllString(in.path, "/:id")
	start := time.Now()
	resp, err := req.Execute(in.method, in.path)
	if err != nil {
		c.rec.ObserveBackend(label, "network", time.Since(start))
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		c.log.Warn("api transport failure", zap.String("op", op), zap.Error(err))
		return &apperr.NetworkError{Op: op, Err: err}
	}
	c.rec.ObserveBackend(label, statusClass(resp.StatusCode()), time.Since(start))

	if !resp.IsSuccess() {
		rerr := &apperr.RequestError{Status: resp.StatusCode(), Message: errorMessage(resp)}
		c.log.Warn("api request rejected", zap.String("op", op), zap.Int("status", rerr.Status), zap.String("message", rerr.Message))
		return rerr
	}
	if in.raw != nil {
		*in.raw = strings.TrimSpace(string(resp.Body()))
	}
	if in.out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), in.out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage prefers a JSON {"message"} body and falls back to the raw
// text, then to the status text.
func errorMessage(resp *resty.Response) string {
	raw := strings.TrimSpace(string(resp.Body()))
	var eb errorBody
	if err := json.Unmarshal(resp.Body(), &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	if raw != "" && !strings.HasPrefix(raw, "{") && !strings.HasPrefix(raw, "<") {
		return raw
	}
	return http.StatusText(resp.StatusCode())
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

func requireToken(token string) error {
	if token == "" {
		return apperr.ErrUnauthorized
	}
	return nil
}

