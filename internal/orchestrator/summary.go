package orchestrator

import (
	"math"
	"sort"

	"metrics-orchestrator/internal/models"
)

const rankingSize = 5

func buildSummaryStats(snapshot models.Snapshot) models.SummaryStats {
	var views, likes, interactions int64
	var engagementSum float64
	var engagementCount int

	for _, item := range snapshot.Metrics.Items {
		views += item.Views
		likes += item.Likes
		interactions += item.TotalInteractions
		// zero engagement means "not measured" and stays out of the mean
		if item.Engagement != 0 {
			engagementSum += item.Engagement
			engagementCount++
		}
	}

	avg := 0.0
	if engagementCount > 0 {
		avg = round2(engagementSum / float64(engagementCount))
	}

	return models.SummaryStats{
		TotalUsers:        snapshot.Metadata.TotalUsers,
		TotalAccounts:     snapshot.Metadata.TotalAccounts,
		AverageEngagement: avg,
		TotalViews:        views,
		TotalLikes:        likes,
		TotalInteractions: interactions,
	}
}

func buildRankings(snapshot models.Snapshot) models.Rankings {
	return models.Rankings{
		TopUsers:       topUsers(snapshot.ScrapedAccounts, snapshot.Users),
		TopAccounts:    topAccounts(snapshot.Metrics.Items),
		BestEngagement: bestEngagement(snapshot.Metrics.Items),
	}
}

// topUsers ranks users by how many scraped accounts they own. Ties order by
// ascending user id so the ranking is deterministic.
func topUsers(accounts []models.ScrapedAccount, users []models.UserRecord) []models.TopUser {
	counts := map[int64]int{}
	for _, account := range accounts {
		if account.UserID != nil {
			counts[*account.UserID]++
		}
	}

	ranked := make([]models.TopUser, 0, len(counts))
	for userID, count := range counts {
		ranked = append(ranked, models.TopUser{
			UserID:        userID,
			AccountsCount: count,
			Email:         emailOf(users, userID),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AccountsCount != ranked[j].AccountsCount {
			return ranked[i].AccountsCount > ranked[j].AccountsCount
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	return capRanking(ranked)
}

func emailOf(users []models.UserRecord, userID int64) string {
	for _, u := range users {
		if u.ID != nil && *u.ID == userID {
			return u.Email
		}
	}
	return "N/A"
}

// topAccounts accumulates per-account totals over the metric items and ranks
// by total engagement, account name breaking ties.
func topAccounts(items []models.MetricItem) []models.AccountTotals {
	byAccount := map[string]*models.AccountTotals{}
	for _, item := range items {
		if item.Account == "" {
			continue
		}
		totals, ok := byAccount[item.Account]
		if !ok {
			totals = &models.AccountTotals{Account: item.Account}
			byAccount[item.Account] = totals
		}
		totals.TotalViews += item.Views
		totals.TotalLikes += item.Likes
		totals.TotalEngagement += item.Engagement
		totals.PostCount++
	}

	ranked := make([]models.AccountTotals, 0, len(byAccount))
	for _, totals := range byAccount {
		ranked = append(ranked, *totals)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalEngagement != ranked[j].TotalEngagement {
			return ranked[i].TotalEngagement > ranked[j].TotalEngagement
		}
		return ranked[i].Account < ranked[j].Account
	})

	return capRanking(ranked)
}

// bestEngagement projects the highest-engagement posts. The sort is stable so
// equally engaged posts keep their upstream order.
func bestEngagement(items []models.MetricItem) []models.PostHighlight {
	ordered := make([]models.MetricItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Engagement > ordered[j].Engagement
	})

	highlights := make([]models.PostHighlight, 0, rankingSize)
	for _, item := range ordered {
		if len(highlights) == rankingSize {
			break
		}
		highlights = append(highlights, models.PostHighlight{
			PostID:     item.PostID,
			Account:    item.Account,
			Engagement: item.Engagement,
			Views:      item.Views,
			Likes:      item.Likes,
		})
	}
	return highlights
}

// buildTrends splits the items at the date midpoint and compares mean
// engagement of the halves. Second half above 1.1x the first reads
// increasing, below 0.9x decreasing, in between stable.
func buildTrends(items []models.MetricItem) models.Trends {
	if len(items) < 2 {
		return models.Trends{
			GrowthRate:      0.0,
			EngagementTrend: models.TrendInsufficientData,
		}
	}

	ordered := make([]models.MetricItem, len(items))
	copy(ordered, items)
	// plain string comparison on datePosted; empty dates sort first
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DatePosted < ordered[j].DatePosted
	})

	mid := len(ordered) / 2
	firstMean := meanEngagement(ordered[:mid])
	secondMean := meanEngagement(ordered[mid:])

	trend := models.TrendStable
	switch {
	case secondMean > firstMean*1.1:
		trend = models.TrendIncreasing
	case secondMean < firstMean*0.9:
		trend = models.TrendDecreasing
	}

	growth := 0.0
	if firstMean > 0 {
		growth = round2((secondMean - firstMean) / firstMean * 100)
	}

	return models.Trends{
		GrowthRate:      growth,
		EngagementTrend: trend,
	}
}

func meanEngagement(items []models.MetricItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		sum += item.Engagement
	}
	return sum / float64(len(items))
}

func capRanking[T any](ranked []T) []T {
	if len(ranked) > rankingSize {
		return ranked[:rankingSize]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
