package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"time"
)

// RetryPolicy configures the executor: one fixed timeout per attempt, a
// bounded number of attempts, a fixed delay between them.
type RetryPolicy struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultRetryPolicy mirrors the configuration defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// Request describes one upstream call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any // JSON-encoded when non-nil
	Query  url.Values
}

// Executor performs upstream calls with bounded retries. It never returns an
// error: Do reports presence with an ok flag, and a false flag means the
// caller substitutes its typed default. On a false flag the contents of out
// are undefined and must be discarded.
type Executor struct {
	log     *slog.Logger
	client  *http.Client
	service string
	policy  RetryPolicy
	breaker *CircuitBreaker
}

func NewExecutor(log *slog.Logger, service string, httpClient *http.Client, policy RetryPolicy) *Executor {
	if policy.MaxRetries < 1 {
		policy.MaxRetries = 1
	}
	return &Executor{
		log:     log,
		client:  httpClient,
		service: service,
		policy:  policy,
		breaker: NewCircuitBreaker(),
	}
}

// Do executes the request, decoding the JSON response into out when out is
// non-nil. An error status, transport failure or decode failure counts as a
// failed attempt; after the last attempt Do reports absence.
func (e *Executor) Do(ctx context.Context, req Request, out any) bool {
	if !e.breaker.Allow() {
		e.log.Warn("circuit_open", "service", e.service, "url", req.URL)
		return false
	}

	for attempt := 1; attempt <= e.policy.MaxRetries; attempt++ {
		err := e.attempt(ctx, req, out)
		if err == nil {
			e.breaker.RecordSuccess()
			return true
		}

		e.log.Warn("request_attempt_failed",
			"service", e.service,
			"method", req.Method,
			"url", req.URL,
			"attempt", attempt,
			"max_retries", e.policy.MaxRetries,
			"error", err,
		)

		if attempt < e.policy.MaxRetries {
			select {
			case <-time.After(e.policy.RetryDelay):
			case <-ctx.Done():
				e.log.Error("retries_aborted", "service", e.service, "url", req.URL, "error", ctx.Err())
				e.breaker.RecordFailure()
				return false
			}
		}
	}

	e.log.Error("retries_exhausted", "service", e.service, "url", req.URL, "attempts", e.policy.MaxRetries)
	e.breaker.RecordFailure()
	return false
}

// Ping performs a single attempt with no retries and surfaces the error.
// Probes use it so their short deadline stays meaningful.
func (e *Executor) Ping(ctx context.Context, req Request) error {
	return e.attempt(ctx, req, nil)
}

func (e *Executor) attempt(ctx context.Context, req Request, out any) error {
	// the timeout applies per attempt, not across the whole retry loop
	actx, cancel := context.WithTimeout(ctx, e.policy.Timeout)
	defer cancel()

	target := req.URL
	if len(req.Query) > 0 {
		target = target + "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode_body_failed: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(actx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("build_request_failed: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request_failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection goes back to the pool
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upstream_status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read_body_failed: %w", err)
	}

	if out == nil {
		return nil
	}
	// decode into a fresh value so a failed attempt leaves no partial state
	// behind for a later attempt to carry
	fresh := reflect.New(reflect.TypeOf(out).Elem())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		return fmt.Errorf("decode_failed: %w", err)
	}
	reflect.ValueOf(out).Elem().Set(fresh.Elem())
	return nil
}
