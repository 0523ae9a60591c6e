package client

import (
	"context"
	"log/slog"
	"net/http"

	"metrics-orchestrator/internal/models"
)

// MetricsClient talks to the metrics query engine (microservice3).
type MetricsClient struct {
	base string
	exec *Executor
	log  *slog.Logger
}

func NewMetricsClient(log *slog.Logger, base string, httpClient *http.Client, policy RetryPolicy) *MetricsClient {
	return &MetricsClient{
		base: base,
		exec: NewExecutor(log, models.ServiceMetrics, httpClient, policy),
		log:  log,
	}
}

func (c *MetricsClient) Name() string { return models.ServiceMetrics }

// QueryUserMetrics queries post metrics scoped to a user. Extra filters are
// merged into the request body next to the user id. Absence yields the empty
// bundle.
func (c *MetricsClient) QueryUserMetrics(ctx context.Context, userID *int64, filters map[string]any) models.MetricsBundle {
	return c.query(ctx, c.base+"/dbquery/user", "userId", userID, filters)
}

// QueryAdminMetrics is the admin-scoped variant of QueryUserMetrics.
func (c *MetricsClient) QueryAdminMetrics(ctx context.Context, adminID *int64, filters map[string]any) models.MetricsBundle {
	return c.query(ctx, c.base+"/dbquery/admin", "adminId", adminID, filters)
}

func (c *MetricsClient) query(ctx context.Context, url, idKey string, id *int64, filters map[string]any) models.MetricsBundle {
	payload := map[string]any{}
	if id != nil {
		payload[idKey] = *id
	}
	for k, v := range filters {
		payload[k] = v
	}

	var bundle models.MetricsBundle
	ok := c.exec.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    url,
		Body:   payload,
	}, &bundle)
	if !ok {
		return models.EmptyMetricsBundle()
	}
	bundle.Normalize()
	return bundle
}

// Probe performs one unretried liveness call.
func (c *MetricsClient) Probe(ctx context.Context) error {
	return c.exec.Ping(ctx, Request{
		Method: http.MethodPost,
		URL:    c.base + "/dbquery/user",
		Body:   map[string]any{},
	})
}
