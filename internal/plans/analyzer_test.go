package plans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normaudit/insight-cli/internal/model"
)

func statsWith(active, total int, entries ...model.SubscriptionDistributionEntry) model.SystemStatistics {
	return model.SystemStatistics{
		TotalCompanies:  total,
		ActiveCompanies: active,
		Distribution:    entries,
	}
}

func TestAnalyze_HealthyPlan(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	stats := statsWith(10, 12,
		model.SubscriptionDistributionEntry{PlanID: 1, Count: 6, PlanName: "Pro", AvgUsers: 5},
	)
	plan := model.Plan{ID: 1, Name: "Pro", BasePrice: 40, UserLimit: 10, Features: []string{"a", "b", "c", "d"}}

	analysis := a.Analyze(context.Background(), stats, []model.Plan{plan})
	require.False(t, analysis.Fallback)
	require.Len(t, analysis.Plans, 1)

	insight := analysis.Plans[0]
	assert.Equal(t, 1, insight.PriorityScore, "excellent adoption only adds one point")
	assert.Equal(t, model.RiskLow, insight.RiskLevel)
	assert.InDelta(t, 60, insight.Metrics.AdoptionRate, 1e-9)
	assert.InDelta(t, 50, insight.Metrics.Utilization, 1e-9)
	assert.Equal(t, 6, insight.Metrics.SubscriberCount)

	// Sustained demand on a cheap plan suggests a price raise.
	change, ok := insight.SuggestedChanges["basePrice"]
	require.True(t, ok)
	assert.InDelta(t, 46, change.Suggested, 1e-9)
	require.NotNil(t, insight.Update.BasePrice)
	assert.InDelta(t, 46, *insight.Update.BasePrice, 1e-9)
	assert.Nil(t, insight.Update.Discount)
	assert.Nil(t, insight.Update.UserLimit)
}

func TestAnalyze_StrugglingPlanClampsPriority(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	// Low adoption, saturated seats, no discount, thin features, fragile
	// subscriber base: the raw priority exceeds the cap.
	stats := statsWith(100, 120,
		model.SubscriptionDistributionEntry{PlanID: 2, Count: 2, PlanName: "Starter", AvgUsers: 9.5},
	)
	plan := model.Plan{ID: 2, Name: "Starter", BasePrice: 60, UserLimit: 10}

	analysis := a.Analyze(context.Background(), stats, []model.Plan{plan})
	require.Len(t, analysis.Plans, 1)

	insight := analysis.Plans[0]
	assert.Equal(t, 10, insight.PriorityScore)
	assert.Equal(t, model.RiskCritical, insight.RiskLevel)

	seats, ok := insight.SuggestedChanges["userLimit"]
	require.True(t, ok)
	assert.InDelta(t, 15, seats.Suggested, 1e-9, "saturated limit grows by half")

	discount, ok := insight.SuggestedChanges["discount"]
	require.True(t, ok)
	assert.InDelta(t, 12, discount.Suggested, 1e-9)

	assert.Contains(t, insight.Recommendations, "Enrichir la liste des fonctionnalités pour justifier le prix")
}

func TestAnalyze_DiscountReduction(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	stats := statsWith(10, 10,
		model.SubscriptionDistributionEntry{PlanID: 3, Count: 5, PlanName: "Plus", AvgUsers: 5},
	)
	plan := model.Plan{ID: 3, Name: "Plus", BasePrice: 120, Discount: 20, UserLimit: 10, Features: []string{"a", "b", "c"}}

	analysis := a.Analyze(context.Background(), stats, []model.Plan{plan})
	require.Len(t, analysis.Plans, 1)

	change, ok := analysis.Plans[0].SuggestedChanges["discount"]
	require.True(t, ok)
	assert.InDelta(t, 15, change.Suggested, 1e-9, "oversized discount shrinks but respects the floor")
	require.NotNil(t, analysis.Plans[0].Update.Discount)
	assert.InDelta(t, 15, *analysis.Plans[0].Update.Discount, 1e-9)
}

func TestAnalyze_StrongAdoptionCutIsConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdoptionStrong = 75

	a := NewAnalyzer(cfg, nil)

	stats := statsWith(10, 10,
		model.SubscriptionDistributionEntry{PlanID: 3, Count: 5, PlanName: "Plus", AvgUsers: 5},
	)
	plan := model.Plan{ID: 3, Name: "Plus", BasePrice: 30, Discount: 20, UserLimit: 10, Features: []string{"a", "b", "c"}}

	// 50% adoption stays below the raised cut-point, so neither the
	// discount reduction nor the price repositioning fires.
	analysis := a.Analyze(context.Background(), stats, []model.Plan{plan})
	require.Len(t, analysis.Plans, 1)

	_, hasDiscount := analysis.Plans[0].SuggestedChanges["discount"]
	assert.False(t, hasDiscount)
	_, hasPrice := analysis.Plans[0].SuggestedChanges["basePrice"]
	assert.False(t, hasPrice)
}

func TestAnalyze_NoSubscriberPlan(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	stats := statsWith(10, 10,
		model.SubscriptionDistributionEntry{PlanID: 1, Count: 8, PlanName: "Pro", AvgUsers: 4},
	)
	planList := []model.Plan{
		{ID: 1, Name: "Pro", BasePrice: 80, UserLimit: 10, Features: []string{"a", "b", "c"}},
		{ID: 9, Name: "Dormant", BasePrice: 100, UserLimit: 30},
	}

	analysis := a.Analyze(context.Background(), stats, planList)
	require.Len(t, analysis.Plans, 2)

	var dormant model.PlanInsight
	for _, in := range analysis.Plans {
		if in.PlanID == 9 {
			dormant = in
		}
	}
	require.Equal(t, 9, dormant.PlanID)

	assert.Equal(t, 9, dormant.PriorityScore)
	assert.Equal(t, model.RiskHigh, dormant.RiskLevel)
	assert.Zero(t, dormant.Metrics.AdoptionRate)
	assert.Zero(t, dormant.Metrics.SubscriberCount)

	price := dormant.SuggestedChanges["basePrice"]
	assert.InDelta(t, 80, price.Suggested, 1e-9, "relaunch price is 80% of base")

	// The legacy textual discount band parses to the band mean.
	discount := dormant.SuggestedChanges["discount"]
	assert.NotEmpty(t, discount.Text)
	require.NotNil(t, dormant.Update.Discount)
	assert.InDelta(t, 17.5, *dormant.Update.Discount, 1e-9)

	// Seat limit aligns on the catalog average (20 here).
	require.NotNil(t, dormant.Update.UserLimit)
	assert.Equal(t, 20, *dormant.Update.UserLimit)

	// The dormant plan outranks the healthy one.
	assert.Equal(t, 9, analysis.Plans[0].PlanID)
}

func TestAnalyze_SortsByPriorityDescending(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	stats := statsWith(100, 100,
		model.SubscriptionDistributionEntry{PlanID: 1, Count: 60, PlanName: "Healthy", AvgUsers: 5},
		model.SubscriptionDistributionEntry{PlanID: 2, Count: 4, PlanName: "Weak", AvgUsers: 5},
	)
	planList := []model.Plan{
		{ID: 1, Name: "Healthy", BasePrice: 80, UserLimit: 10, Features: []string{"a", "b", "c"}},
		{ID: 2, Name: "Weak", BasePrice: 80, UserLimit: 10, Features: []string{"a", "b", "c"}},
	}

	analysis := a.Analyze(context.Background(), stats, planList)
	require.Len(t, analysis.Plans, 2)
	assert.Equal(t, "Weak", analysis.Plans[0].PlanName)
	assert.GreaterOrEqual(t, analysis.Plans[0].PriorityScore, analysis.Plans[1].PriorityScore)
}

func TestAnalyze_TiesKeepEncounterOrder(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	stats := statsWith(10, 10)
	planList := []model.Plan{
		{ID: 1, Name: "First", BasePrice: 10, UserLimit: 5},
		{ID: 2, Name: "Second", BasePrice: 10, UserLimit: 5},
	}

	analysis := a.Analyze(context.Background(), stats, planList)
	require.Len(t, analysis.Plans, 2)
	assert.Equal(t, "First", analysis.Plans[0].PlanName)
	assert.Equal(t, "Second", analysis.Plans[1].PlanName)
	assert.Equal(t, analysis.Plans[0].PriorityScore, analysis.Plans[1].PriorityScore)
}

func TestAnalyze_InvalidConfigFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPriority = 0
	a := NewAnalyzer(cfg, nil)

	analysis := a.Analyze(context.Background(), model.SystemStatistics{}, nil)

	assert.True(t, analysis.Fallback)
	assert.NotEmpty(t, analysis.Reason)
	require.NotNil(t, analysis.Plans)
	assert.Empty(t, analysis.Plans)
	require.Len(t, analysis.Market, 1)
	assert.Equal(t, "analysis_failure", analysis.Market[0].Type)
	assert.Equal(t, model.StatusCritical, analysis.Market[0].Status)
}

func TestAnalyzePlan_InvalidUserLimit(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	_, err := a.analyzePlan(model.SystemStatistics{}, model.Plan{ID: 1, UserLimit: 0}, 10)
	assert.Error(t, err)
}

func TestAverageUserLimit(t *testing.T) {
	assert.Equal(t, 1, averageUserLimit(nil))
	assert.Equal(t, 20, averageUserLimit([]model.Plan{{UserLimit: 10}, {UserLimit: 30}}))
	assert.Equal(t, 17, averageUserLimit([]model.Plan{{UserLimit: 10}, {UserLimit: 20}, {UserLimit: 20}}))
}

func TestClampPriority(t *testing.T) {
	assert.Equal(t, 0, clampPriority(-3, 10))
	assert.Equal(t, 5, clampPriority(5, 10))
	assert.Equal(t, 10, clampPriority(14, 10))
}
