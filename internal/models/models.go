package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Service names used as keys in metadata.services_status and in the health map.
const (
	ServiceUsers     = "microservice1"
	ServiceAccounts  = "microservice2"
	ServiceMetrics   = "microservice3"
	ServiceDashboard = "microservice4"
)

// Branch statuses reported in metadata.services_status.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// Engagement trend classifications.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// UserRecord is one record from the user service. The upstream payload is
// kept verbatim and re-emitted on marshal; only the fields the aggregation
// needs are extracted.
type UserRecord struct {
	ID    *int64
	Email string
	Role  string

	raw json.RawMessage
}

func (u *UserRecord) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID    *flexInt64 `json:"id"`
		Email string     `json:"email"`
		Role  string     `json:"role"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.raw = append(json.RawMessage(nil), data...)
	if aux.ID != nil {
		id := int64(*aux.ID)
		u.ID = &id
	} else {
		u.ID = nil
	}
	u.Email = aux.Email
	u.Role = aux.Role
	return nil
}

func (u UserRecord) MarshalJSON() ([]byte, error) {
	if u.raw != nil {
		return u.raw, nil
	}
	out := map[string]any{}
	if u.ID != nil {
		out["id"] = *u.ID
	}
	if u.Email != "" {
		out["email"] = u.Email
	}
	if u.Role != "" {
		out["role"] = u.Role
	}
	return json.Marshal(out)
}

// ScrapedAccount is one record from the account service. Ownership may arrive
// under either "userId" or "user_id"; "userId" wins when both are present.
type ScrapedAccount struct {
	Account string
	UserID  *int64

	raw json.RawMessage
}

func (a *ScrapedAccount) UnmarshalJSON(data []byte) error {
	var aux struct {
		Account     string     `json:"account"`
		UserIDCamel *flexInt64 `json:"userId"`
		UserIDSnake *flexInt64 `json:"user_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.raw = append(json.RawMessage(nil), data...)
	a.Account = aux.Account
	a.UserID = nil
	if aux.UserIDCamel != nil {
		id := int64(*aux.UserIDCamel)
		a.UserID = &id
	} else if aux.UserIDSnake != nil {
		id := int64(*aux.UserIDSnake)
		a.UserID = &id
	}
	return nil
}

func (a ScrapedAccount) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	out := map[string]any{}
	if a.Account != "" {
		out["account"] = a.Account
	}
	if a.UserID != nil {
		out["user_id"] = *a.UserID
	}
	return json.Marshal(out)
}

// MetricItem is one measured post. Missing numeric fields decode to zero so
// the aggregation never has to null-check.
type MetricItem struct {
	PostID            string
	Account           string
	Views             int64
	Likes             int64
	TotalInteractions int64
	Engagement        float64
	DatePosted        string

	raw json.RawMessage
}

func (m *MetricItem) UnmarshalJSON(data []byte) error {
	var aux struct {
		PostID            flexString `json:"postId"`
		Account           string     `json:"usernameTiktokAccount"`
		Views             flexNumber `json:"views"`
		Likes             flexNumber `json:"likes"`
		TotalInteractions flexNumber `json:"totalInteractions"`
		Engagement        flexNumber `json:"engagement"`
		DatePosted        string     `json:"datePosted"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.raw = append(json.RawMessage(nil), data...)
	m.PostID = string(aux.PostID)
	m.Account = aux.Account
	m.Views = int64(aux.Views)
	m.Likes = int64(aux.Likes)
	m.TotalInteractions = int64(aux.TotalInteractions)
	m.Engagement = float64(aux.Engagement)
	m.DatePosted = aux.DatePosted
	return nil
}

func (m MetricItem) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	out := map[string]any{
		"postId":                m.PostID,
		"usernameTiktokAccount": m.Account,
		"views":                 m.Views,
		"likes":                 m.Likes,
		"totalInteractions":     m.TotalInteractions,
		"engagement":            m.Engagement,
		"datePosted":            m.DatePosted,
	}
	return json.Marshal(out)
}

// MetricsBundle is the unit returned by the metrics service. Count is the
// authoritative number of analyzed posts even when Items is empty.
type MetricsBundle struct {
	Items     []MetricItem      `json:"items"`
	Count     int               `json:"count"`
	Dashboard []json.RawMessage `json:"dashboard"`
}

// EmptyMetricsBundle is the typed default substituted when the metrics
// service yields nothing.
func EmptyMetricsBundle() MetricsBundle {
	return MetricsBundle{
		Items:     []MetricItem{},
		Count:     0,
		Dashboard: []json.RawMessage{},
	}
}

// Normalize replaces nil lists with empty ones; list fields are always
// present in responses.
func (b *MetricsBundle) Normalize() {
	if b.Items == nil {
		b.Items = []MetricItem{}
	}
	if b.Dashboard == nil {
		b.Dashboard = []json.RawMessage{}
	}
}

type Metadata struct {
	TotalUsers         int               `json:"total_users"`
	TotalAccounts      int               `json:"total_accounts"`
	TotalPostsAnalyzed int               `json:"total_posts_analyzed"`
	Timestamp          string            `json:"timestamp"`
	ServicesStatus     map[string]string `json:"services_status"`
}

// Snapshot is the merged result of one consolidation pass. It is built fresh
// per request and never persisted.
type Snapshot struct {
	Users           []UserRecord      `json:"users"`
	ScrapedAccounts []ScrapedAccount  `json:"scraped_accounts"`
	Metrics         MetricsBundle     `json:"metrics"`
	DashboardData   []json.RawMessage `json:"dashboard_data"`
	Metadata        Metadata          `json:"metadata"`
}

type SummaryStats struct {
	TotalUsers        int     `json:"total_users"`
	TotalAccounts     int     `json:"total_accounts"`
	AverageEngagement float64 `json:"average_engagement"`
	TotalViews        int64   `json:"total_views"`
	TotalLikes        int64   `json:"total_likes"`
	TotalInteractions int64   `json:"total_interactions"`
}

type TopUser struct {
	UserID        int64  `json:"user_id"`
	AccountsCount int    `json:"accounts_count"`
	Email         string `json:"email"`
}

type AccountTotals struct {
	Account         string  `json:"account"`
	TotalViews      int64   `json:"total_views"`
	TotalLikes      int64   `json:"total_likes"`
	TotalEngagement float64 `json:"total_engagement"`
	PostCount       int     `json:"post_count"`
}

type PostHighlight struct {
	PostID     string  `json:"post_id"`
	Account    string  `json:"account"`
	Engagement float64 `json:"engagement"`
	Views      int64   `json:"views"`
	Likes      int64   `json:"likes"`
}

type Rankings struct {
	TopUsers       []TopUser       `json:"top_users"`
	TopAccounts    []AccountTotals `json:"top_accounts"`
	BestEngagement []PostHighlight `json:"best_engagement"`
}

type Trends struct {
	GrowthRate      float64 `json:"growth_rate"`
	EngagementTrend string  `json:"engagement_trend"`
}

type Summary struct {
	Summary   SummaryStats `json:"summary"`
	Rankings  Rankings     `json:"rankings"`
	Trends    Trends       `json:"trends"`
	Timestamp string       `json:"timestamp"`
}

// ServiceHealth maps service name to "healthy", "timeout" or
// "unhealthy: <reason>".
type ServiceHealth map[string]string

// flexInt64 accepts a JSON number or a numeric string.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// unparseable id: treat as absent rather than failing the record
		return nil
	}
	*f = flexInt64(int64(n))
	return nil
}

// flexNumber accepts a JSON number, a numeric string, or null; anything else
// decodes to zero.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	*f = flexNumber(n)
	return nil
}

// flexString accepts a JSON string or renders any scalar as its literal text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = flexString(str)
		return nil
	}
	*f = flexString(s)
	return nil
}
