package orchestrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"metrics-orchestrator/internal/models"
)

// The orchestrator consumes the four upstream services through these
// interfaces; the concrete adapters live in internal/client and test doubles
// implement the same contracts.

type UserService interface {
	ListUsers(ctx context.Context, token string) []models.UserRecord
	GetProfile(ctx context.Context, userID int64, token string) (models.UserRecord, bool)
}

type AccountService interface {
	ListAccounts(ctx context.Context, token string) []models.ScrapedAccount
	ListAccountsByUser(ctx context.Context, userID int64, token string) []models.ScrapedAccount
}

type MetricsService interface {
	QueryUserMetrics(ctx context.Context, userID *int64, filters map[string]any) models.MetricsBundle
}

type DashboardService interface {
	GetDashboardInfo(ctx context.Context) []json.RawMessage
}

// Orchestrator fans out to the four services, consolidates the results and
// derives the summary views. It holds no per-request state; every snapshot is
// owned by the request that asked for it.
type Orchestrator struct {
	log       *slog.Logger
	users     UserService
	accounts  AccountService
	metrics   MetricsService
	dashboard DashboardService
	probers   []Prober

	probeTimeout  time.Duration
	healthTimeout time.Duration
}

func New(log *slog.Logger, users UserService, accounts AccountService, metrics MetricsService, dashboard DashboardService, probers ...Prober) *Orchestrator {
	return &Orchestrator{
		log:           log,
		users:         users,
		accounts:      accounts,
		metrics:       metrics,
		dashboard:     dashboard,
		probers:       probers,
		probeTimeout:  2 * time.Second,
		healthTimeout: 5 * time.Second,
	}
}

// GetConsolidatedData launches the four fetch branches concurrently and
// merges their results. A failing branch contributes its typed default and
// never taints the siblings.
func (o *Orchestrator) GetConsolidatedData(ctx context.Context, userID *int64, token string) models.Snapshot {
	o.log.Info("fanout_started", "scoped", userID != nil)

	var (
		users     []models.UserRecord
		accounts  []models.ScrapedAccount
		bundle    models.MetricsBundle
		dashboard []json.RawMessage
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go o.branch(&wg, models.ServiceUsers,
		func() { users = o.fetchUsers(ctx, userID, token) },
		func() { users = []models.UserRecord{} },
	)
	go o.branch(&wg, models.ServiceAccounts,
		func() { accounts = o.fetchAccounts(ctx, userID, token) },
		func() { accounts = []models.ScrapedAccount{} },
	)
	go o.branch(&wg, models.ServiceMetrics,
		func() { bundle = o.metrics.QueryUserMetrics(ctx, userID, nil) },
		func() { bundle = models.EmptyMetricsBundle() },
	)
	go o.branch(&wg, models.ServiceDashboard,
		func() { dashboard = o.dashboard.GetDashboardInfo(ctx) },
		func() { dashboard = []json.RawMessage{} },
	)
	wg.Wait()

	bundle.Normalize()

	snapshot := models.Snapshot{
		Users:           users,
		ScrapedAccounts: accounts,
		Metrics:         bundle,
		DashboardData:   dashboard,
		Metadata:        buildMetadata(users, accounts, bundle, dashboard),
	}

	o.log.Info("fanout_completed",
		"users", len(users),
		"accounts", len(accounts),
		"posts_analyzed", bundle.Count,
		"dashboard_entries", len(dashboard),
	)

	return snapshot
}

// GetSummaryData consolidates first, then derives summary statistics,
// rankings and trend classification.
func (o *Orchestrator) GetSummaryData(ctx context.Context, userID *int64, token string) models.Summary {
	snapshot := o.GetConsolidatedData(ctx, userID, token)

	summary := models.Summary{
		Summary:   buildSummaryStats(snapshot),
		Rankings:  buildRankings(snapshot),
		Trends:    buildTrends(snapshot.Metrics.Items),
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}

	o.log.Info("summary_generated", "top_users", len(summary.Rankings.TopUsers), "trend", summary.Trends.EngagementTrend)

	return summary
}

// branch runs one fan-out fetch. A panic inside an adapter is absorbed here
// so the branch's typed default stands and the siblings keep their results.
func (o *Orchestrator) branch(wg *sync.WaitGroup, service string, fetch func(), fallback func()) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("branch_failed", "service", service, "panic", r)
			fallback()
		}
	}()
	fetch()
}

func (o *Orchestrator) fetchUsers(ctx context.Context, userID *int64, token string) []models.UserRecord {
	if userID != nil {
		profile, ok := o.users.GetProfile(ctx, *userID, token)
		if !ok {
			return []models.UserRecord{}
		}
		return []models.UserRecord{profile}
	}
	return o.users.ListUsers(ctx, token)
}

func (o *Orchestrator) fetchAccounts(ctx context.Context, userID *int64, token string) []models.ScrapedAccount {
	if userID != nil {
		return o.accounts.ListAccountsByUser(ctx, *userID, token)
	}
	return o.accounts.ListAccounts(ctx, token)
}

// buildMetadata derives the per-branch status strictly from emptiness:
// a branch that failed and a branch that legitimately returned nothing both
// read "no_data". Failures are distinguishable in the logs, not here.
func buildMetadata(users []models.UserRecord, accounts []models.ScrapedAccount, bundle models.MetricsBundle, dashboard []json.RawMessage) models.Metadata {
	return models.Metadata{
		TotalUsers:         len(users),
		TotalAccounts:      len(accounts),
		TotalPostsAnalyzed: bundle.Count,
		Timestamp:          time.Now().Format(time.RFC3339Nano),
		ServicesStatus: map[string]string{
			models.ServiceUsers:     statusOf(len(users) > 0),
			models.ServiceAccounts:  statusOf(len(accounts) > 0),
			models.ServiceMetrics:   statusOf(bundle.Count > 0),
			models.ServiceDashboard: statusOf(len(dashboard) > 0),
		},
	}
}

func statusOf(hasData bool) string {
	if hasData {
		return models.StatusOK
	}
	return models.StatusNoData
}
