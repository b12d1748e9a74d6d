package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normaudit/insight-cli/internal/model"
)

func healthyStats() model.SystemStatistics {
	return model.SystemStatistics{
		TotalCompanies:     100,
		ActiveCompanies:    80,
		AvgUsersPerCompany: 5,
		TotalActions:       100,
		CompletedActions:   80,
		TotalTexts:         100,
		CompliantTexts:     90,
		Distribution: []model.SubscriptionDistributionEntry{
			{PlanID: 1, Count: 10, PlanName: "Basic"},
			{PlanID: 2, Count: 20, PlanName: "Pro"},
			{PlanID: 3, Count: 30, PlanName: "Premium"},
		},
	}
}

func TestSentimentScore_Excellent(t *testing.T) {
	e := NewEngine(DefaultConfig())

	got := e.sentimentScore(healthyStats())
	assert.InDelta(t, 83, got.Score, 1e-9, "0.3*80 + 0.4*80 + 0.3*90")
	assert.Equal(t, "excellent", got.Tier)
	assert.Equal(t, "green", got.Color)
	assert.InDelta(t, 80, got.ActivationRate, 1e-9)
	assert.InDelta(t, 90, got.ComplianceRate, 1e-9)
}

func TestSentimentScore_Tiers(t *testing.T) {
	e := NewEngine(DefaultConfig())

	tests := []struct {
		name      string
		completed int
		wantTier  string
		wantColor string
	}{
		{"good", 30, "good", "blue"},          // 24 + 12 + 27 = 63
		{"moderate", 0, "moderate", "orange"}, // 24 + 0 + 27 = 51
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := healthyStats()
			stats.CompletedActions = tt.completed
			got := e.sentimentScore(stats)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantColor, got.Color)
		})
	}

	got := e.sentimentScore(model.SystemStatistics{TotalCompanies: 10})
	assert.Equal(t, "critical", got.Tier)
	assert.Equal(t, "red", got.Color)
}

func TestSentimentScore_ZeroTotals(t *testing.T) {
	e := NewEngine(DefaultConfig())
	got := e.sentimentScore(model.SystemStatistics{})
	assert.Zero(t, got.Score, "zero totals never divide by zero")
	assert.Equal(t, "critical", got.Tier)
}

func TestGenerate_HealthyPlatform(t *testing.T) {
	e := NewEngine(DefaultConfig())

	report := e.Generate(healthyStats())
	require.False(t, report.Fallback)

	assert.Equal(t, "excellent", report.Sentiment.Tier)
	assert.Equal(t, "strong growth", report.Trend.Direction)
	assert.Empty(t, report.Anomalies)
	require.Len(t, report.KPIs, 4)

	assert.Contains(t, report.Summary, "santé excellente")
	assert.Contains(t, report.Summary, "100 entreprises dont 80 actives")

	// The engagement KPI sits under the weak cut, then the growth
	// opportunity follows.
	require.NotEmpty(t, report.Recommendations)
	titles := make([]string, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		titles = append(titles, rec.Title)
	}
	assert.Contains(t, titles, "Renforcer l'indicateur « Engagement utilisateurs »")
	assert.Contains(t, titles, "Capitaliser sur la bonne santé de la plateforme")

	assert.Equal(t, "medium", report.Engagement.Tier)
	assert.Equal(t, "high", report.Compliance.Tier)
	assert.Equal(t, "high", report.ActionPerf.Tier)
}

func TestGenerate_StrugglingPlatform(t *testing.T) {
	e := NewEngine(DefaultConfig())

	stats := model.SystemStatistics{
		TotalCompanies:     100,
		ActiveCompanies:    20,
		AvgUsersPerCompany: 1,
		TotalActions:       100,
		CompletedActions:   10,
		TotalTexts:         100,
		CompliantTexts:     20,
	}

	report := e.Generate(stats)
	assert.Equal(t, "critical", report.Sentiment.Tier)
	assert.NotEmpty(t, report.Anomalies)

	types := make([]string, 0, len(report.Anomalies))
	for _, a := range report.Anomalies {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, "low_activation")
	assert.Contains(t, types, "low_engagement")
	assert.Contains(t, types, "low_action_completion")
	assert.Contains(t, types, "low_compliance")

	// High-severity anomalies lead the recommendation list.
	require.NotEmpty(t, report.Recommendations)
	assert.Equal(t, "high", report.Recommendations[0].Priority)
}

func TestGenerate_InvalidConfigFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ActivationWeight = 0.9
	e := NewEngine(cfg)

	report := e.Generate(healthyStats())
	assert.True(t, report.Fallback)
	assert.Equal(t, "critical", report.Sentiment.Tier)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "Vérifier les données statistiques sources", report.Recommendations[0].Title)
	assert.Contains(t, report.Summary, "n'a pas pu être généré")
	require.NotNil(t, report.Anomalies)
	assert.Empty(t, report.Anomalies)
}

func TestRecommendations_Upsell(t *testing.T) {
	e := NewEngine(DefaultConfig())

	stats := healthyStats()
	stats.AvgUsersPerCompany = 12

	report := e.Generate(stats)

	var found bool
	for _, rec := range report.Recommendations {
		if rec.Title == "Proposer une montée en gamme aux comptes denses" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSubscriptionMix(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Single plan with every subscriber: index is exactly 1.
	mix := e.subscriptionMix(model.SystemStatistics{
		Distribution: []model.SubscriptionDistributionEntry{{PlanID: 1, Count: 40}},
	})
	assert.InDelta(t, 1, mix.ConcentrationIndex, 1e-9)
	assert.Equal(t, "concentrated", mix.Classification)
	assert.Equal(t, 1, mix.PlanCount)
	assert.Equal(t, 40, mix.TotalSubscribers)

	// Evenly split four ways: index 0.25, diversified.
	mix = e.subscriptionMix(model.SystemStatistics{
		Distribution: []model.SubscriptionDistributionEntry{
			{PlanID: 1, Count: 10}, {PlanID: 2, Count: 10},
			{PlanID: 3, Count: 10}, {PlanID: 4, Count: 10},
		},
	})
	assert.InDelta(t, 0.25, mix.ConcentrationIndex, 1e-9)
	assert.Equal(t, "diversified", mix.Classification)
}

func TestSubscriptionMix_OrderInvariant(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a := e.subscriptionMix(model.SystemStatistics{
		Distribution: []model.SubscriptionDistributionEntry{
			{PlanID: 1, Count: 30}, {PlanID: 2, Count: 10},
		},
	})
	b := e.subscriptionMix(model.SystemStatistics{
		Distribution: []model.SubscriptionDistributionEntry{
			{PlanID: 2, Count: 10}, {PlanID: 1, Count: 30},
		},
	})
	assert.InDelta(t, a.ConcentrationIndex, b.ConcentrationIndex, 1e-12)
	assert.Equal(t, a.Classification, b.Classification)
}

func TestSubscriptionMix_Empty(t *testing.T) {
	e := NewEngine(DefaultConfig())
	mix := e.subscriptionMix(model.SystemStatistics{})
	assert.Zero(t, mix.ConcentrationIndex)
	assert.Equal(t, "diversified", mix.Classification)
	assert.Zero(t, mix.TotalSubscribers)
}

func TestValidateReportingConfig(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))

	bad := DefaultConfig()
	bad.GoodScore = bad.ExcellentScore
	assert.Error(t, Validate(bad))

	bad = DefaultConfig()
	bad.Concentrated = bad.Diversified
	assert.Error(t, Validate(bad))

	bad = DefaultConfig()
	bad.DeclineSlope = 0.1
	assert.Error(t, Validate(bad))
}
