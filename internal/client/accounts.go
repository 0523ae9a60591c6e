package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"metrics-orchestrator/internal/logging"
	"metrics-orchestrator/internal/models"
)

// AccountsClient talks to the scraped-account store (microservice2).
type AccountsClient struct {
	base string
	exec *Executor
	log  *slog.Logger
}

func NewAccountsClient(log *slog.Logger, base string, httpClient *http.Client, policy RetryPolicy) *AccountsClient {
	return &AccountsClient{
		base: base,
		exec: NewExecutor(log, models.ServiceAccounts, httpClient, policy),
		log:  log,
	}
}

func (c *AccountsClient) Name() string { return models.ServiceAccounts }

// ListAccounts returns every scraped account, or an empty list on absence.
func (c *AccountsClient) ListAccounts(ctx context.Context, token string) []models.ScrapedAccount {
	var accounts []models.ScrapedAccount
	ok := c.exec.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    c.base + "/scrapedAccounts",
		Header: c.authHeader(token),
	}, &accounts)
	if !ok || accounts == nil {
		return []models.ScrapedAccount{}
	}
	return accounts
}

// ListAccountsByUser returns the scraped accounts owned by one user.
func (c *AccountsClient) ListAccountsByUser(ctx context.Context, userID int64, token string) []models.ScrapedAccount {
	var accounts []models.ScrapedAccount
	ok := c.exec.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/scrapedAccounts/user/%d", c.base, userID),
		Header: c.authHeader(token),
	}, &accounts)
	if !ok || accounts == nil {
		return []models.ScrapedAccount{}
	}
	return accounts
}

// ListQuestions returns the stored questions, or an empty list on absence.
func (c *AccountsClient) ListQuestions(ctx context.Context, token string) []json.RawMessage {
	var questions []json.RawMessage
	ok := c.exec.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    c.base + "/questions",
		Header: c.authHeader(token),
	}, &questions)
	if !ok || questions == nil {
		return []json.RawMessage{}
	}
	return questions
}

// Probe performs one unretried liveness call.
func (c *AccountsClient) Probe(ctx context.Context) error {
	return c.exec.Ping(ctx, Request{
		Method: http.MethodGet,
		URL:    c.base + "/scrapedAccounts",
	})
}

func (c *AccountsClient) authHeader(token string) http.Header {
	if token == "" {
		return nil
	}
	c.log.Debug("forwarding_bearer_token", "service", c.Name(), "token", logging.MaskToken(token))
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
