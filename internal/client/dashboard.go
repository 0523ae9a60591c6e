package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"metrics-orchestrator/internal/models"
)

// DashboardClient talks to the global dashboard snapshot store
// (microservice4).
type DashboardClient struct {
	base string
	exec *Executor
	log  *slog.Logger
}

func NewDashboardClient(log *slog.Logger, base string, httpClient *http.Client, policy RetryPolicy) *DashboardClient {
	return &DashboardClient{
		base: base,
		exec: NewExecutor(log, models.ServiceDashboard, httpClient, policy),
		log:  log,
	}
}

func (c *DashboardClient) Name() string { return models.ServiceDashboard }

// GetDashboardInfo returns the global dashboard entries, or an empty list on
// absence. The endpoint takes no auth and no scoping.
func (c *DashboardClient) GetDashboardInfo(ctx context.Context) []json.RawMessage {
	var entries []json.RawMessage
	ok := c.exec.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    c.base + "/getDashboardInfo",
	}, &entries)
	if !ok || entries == nil {
		return []json.RawMessage{}
	}
	return entries
}

// Probe performs one unretried liveness call.
func (c *DashboardClient) Probe(ctx context.Context) error {
	return c.exec.Ping(ctx, Request{
		Method: http.MethodGet,
		URL:    c.base + "/getDashboardInfo",
	})
}
