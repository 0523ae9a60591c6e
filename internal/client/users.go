package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"metrics-orchestrator/internal/logging"
	"metrics-orchestrator/internal/models"
)

// UsersClient talks to the user directory service (microservice1).
type UsersClient struct {
	base string
	exec *Executor
	log  *slog.Logger
}

func NewUsersClient(log *slog.Logger, base string, httpClient *http.Client, policy RetryPolicy) *UsersClient {
	return &UsersClient{
		base: base,
		exec: NewExecutor(log, models.ServiceUsers, httpClient, policy),
		log:  log,
	}
}

func (c *UsersClient) Name() string { return models.ServiceUsers }

// ListUsers returns every registered user, or an empty list on absence.
func (c *UsersClient) ListUsers(ctx context.Context, token string) []models.UserRecord {
	var users []models.UserRecord
	ok := c.exec.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    c.base + "/users",
		Header: c.authHeader(token),
	}, &users)
	if !ok || users == nil {
		return []models.UserRecord{}
	}
	return users
}

// GetProfile fetches one user profile. Absence is reported, not defaulted:
// the coordinator decides what an absent profile means.
func (c *UsersClient) GetProfile(ctx context.Context, userID int64, token string) (models.UserRecord, bool) {
	var user models.UserRecord
	ok := c.exec.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/profile/%d", c.base, userID),
		Header: c.authHeader(token),
	}, &user)
	if !ok {
		return models.UserRecord{}, false
	}
	return user, true
}

// Probe performs one unretried liveness call.
func (c *UsersClient) Probe(ctx context.Context) error {
	return c.exec.Ping(ctx, Request{
		Method: http.MethodGet,
		URL:    c.base + "/users",
	})
}

func (c *UsersClient) authHeader(token string) http.Header {
	if token == "" {
		return nil
	}
	c.log.Debug("forwarding_bearer_token", "service", c.Name(), "token", logging.MaskToken(token))
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
