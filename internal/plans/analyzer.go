package plans

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/linguistic"
	"github.com/normaudit/insight-cli/internal/model"
)

// Analysis is the engine's complete result. Fallback marks the degraded
// path: the caller always receives a well-formed object, never an error.
type Analysis struct {
	Plans    []model.PlanInsight   `json:"plans"`
	Market   []model.MarketInsight `json:"market"`
	Keywords []model.RankedKeyword `json:"keywords"`
	Fallback bool                  `json:"fallback,omitempty"`
	Reason   string                `json:"reason,omitempty"`
}

// Analyzer scores subscription plans against the platform statistics.
type Analyzer struct {
	cfg       Config
	extractor *linguistic.Extractor // optional; nil disables linguistic annotation
}

// NewAnalyzer creates an Analyzer. The extractor may be nil, in which case
// plan insights carry no linguistic features and feature similarity uses
// the neutral default.
func NewAnalyzer(cfg Config, extractor *linguistic.Extractor) *Analyzer {
	return &Analyzer{cfg: cfg, extractor: extractor}
}

// Analyze produces ranked plan insights plus market-level insights. Any
// engine-level failure yields the fixed fallback analysis rather than a
// partial ranked list.
func (a *Analyzer) Analyze(ctx context.Context, stats model.SystemStatistics, planList []model.Plan) *Analysis {
	if err := Validate(a.cfg); err != nil {
		return a.fallback(err)
	}

	stats = stats.Normalize()

	normalized := make([]model.Plan, 0, len(planList))
	for _, p := range planList {
		normalized = append(normalized, p.Normalize())
	}

	avgLimit := averageUserLimit(normalized)

	insights := make([]model.PlanInsight, 0, len(normalized))
	for _, plan := range normalized {
		insight, err := a.analyzePlan(stats, plan, avgLimit)
		if err != nil {
			zap.L().Error("plans: per-plan analysis failed, returning fallback",
				zap.Int("plan_id", plan.ID),
				zap.Error(err),
			)
			return a.fallback(err)
		}
		if a.extractor != nil {
			features := a.extractor.Extract(ctx, plan.FeatureText())
			insight.Features = &features
		}
		insights = append(insights, insight)
	}

	// Stable descending sort: ties keep encounter order.
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].PriorityScore > insights[j].PriorityScore
	})

	market, keywords := a.marketInsights(ctx, stats, normalized)

	zap.L().Info("plans: analysis complete",
		zap.Int("plans", len(insights)),
		zap.Int("market_insights", len(market)),
	)

	return &Analysis{Plans: insights, Market: market, Keywords: keywords}
}

// analyzePlan runs the per-plan rule set. Plans without subscribers get
// the fixed relaunch package instead.
func (a *Analyzer) analyzePlan(stats model.SystemStatistics, plan model.Plan, avgLimit int) (model.PlanInsight, error) {
	if plan.UserLimit < 1 {
		return model.PlanInsight{}, eris.Errorf("plans: plan %d has invalid user limit %d", plan.ID, plan.UserLimit)
	}

	entry, ok := stats.EntryForPlan(plan.ID)
	if !ok {
		return a.noSubscriberInsight(plan, avgLimit), nil
	}

	insight := model.PlanInsight{
		PlanID:           plan.ID,
		PlanName:         plan.Name,
		Insights:         []string{},
		Recommendations:  []string{},
		SuggestedChanges: map[string]model.SuggestedChange{},
		RiskLevel:        model.RiskLow,
	}

	adoption := model.Ratio(entry.Count, stats.ActiveCompanies)
	utilization := 100 * entry.AvgUsers / float64(plan.UserLimit)
	insight.Metrics = model.PlanMetrics{
		AdoptionRate:    round2(adoption),
		Utilization:     round2(utilization),
		AvgUsers:        entry.AvgUsers,
		SubscriberCount: entry.Count,
	}

	priority := 0

	// Adoption tier.
	switch {
	case adoption > a.cfg.AdoptionExcellent:
		insight.Insights = append(insight.Insights,
			fmt.Sprintf("Adoption excellente : %.1f%% des entreprises actives utilisent ce plan", adoption))
		priority++
	case adoption > a.cfg.AdoptionGood:
		insight.Insights = append(insight.Insights,
			fmt.Sprintf("Bonne adoption : %.1f%% des entreprises actives", adoption))
		priority += 2
	default:
		insight.Insights = append(insight.Insights,
			fmt.Sprintf("Adoption faible : seulement %.1f%% des entreprises actives", adoption))
		insight.Recommendations = append(insight.Recommendations,
			"Revoir le positionnement marketing et la visibilité du plan")
		priority += 4
		insight.RiskLevel = insight.RiskLevel.AtLeast(model.RiskHigh)
	}

	// Utilization tier.
	switch {
	case utilization > a.cfg.UtilizationSaturated:
		suggested := math.Round(float64(plan.UserLimit) * a.cfg.SaturatedLimitFactor)
		insight.Insights = append(insight.Insights,
			fmt.Sprintf("Saturation des sièges : %.1f%% de la limite utilisée", utilization))
		insight.Recommendations = append(insight.Recommendations,
			"Augmenter la limite d'utilisateurs avant que les clients ne soient bloqués")
		insight.SuggestedChanges["userLimit"] = model.SuggestedChange{
			Current:   float64(plan.UserLimit),
			Suggested: suggested,
			Reason:    "Utilisation proche de la saturation",
		}
		priority += 3
		insight.RiskLevel = insight.RiskLevel.AtLeast(model.RiskHigh)
	case utilization > a.cfg.UtilizationHigh:
		insight.SuggestedChanges["userLimit"] = model.SuggestedChange{
			Current:   float64(plan.UserLimit),
			Suggested: math.Round(float64(plan.UserLimit) * a.cfg.HighLimitFactor),
			Reason:    "Utilisation élevée des sièges",
		}
		priority++
	case utilization < a.cfg.UtilizationLow:
		insight.SuggestedChanges["userLimit"] = model.SuggestedChange{
			Current:   float64(plan.UserLimit),
			Suggested: math.Round(float64(plan.UserLimit) * a.cfg.LowLimitFactor),
			Reason:    "Sièges largement sous-utilisés",
		}
	}

	// Pricing.
	if plan.Discount == 0 && adoption < a.cfg.AdoptionGood {
		insight.SuggestedChanges["discount"] = model.SuggestedChange{
			Current:   0,
			Suggested: a.cfg.IntroDiscount,
			Reason:    "Stimuler l'adoption avec une remise d'introduction",
		}
		insight.Recommendations = append(insight.Recommendations,
			fmt.Sprintf("Introduire une remise de %.0f%% pour stimuler l'adoption", a.cfg.IntroDiscount))
		priority += 2
	}
	if plan.Discount > a.cfg.HighDiscount && adoption > a.cfg.AdoptionStrong {
		reduced := math.Max(plan.Discount-a.cfg.DiscountReduction, a.cfg.DiscountFloor)
		insight.SuggestedChanges["discount"] = model.SuggestedChange{
			Current:   plan.Discount,
			Suggested: reduced,
			Reason:    "La forte adoption permet de réduire la remise",
		}
	}

	// Positioning.
	if plan.BasePrice < a.cfg.LowPriceCeiling && adoption > a.cfg.AdoptionStrong {
		insight.SuggestedChanges["basePrice"] = model.SuggestedChange{
			Current:   plan.BasePrice,
			Suggested: round2(plan.BasePrice * a.cfg.PriceRaiseFactor),
			Reason:    "La demande soutenue autorise un repositionnement tarifaire",
		}
	}

	// Feature richness.
	if len(plan.Features) < a.cfg.MinFeatures {
		insight.Recommendations = append(insight.Recommendations,
			"Enrichir la liste des fonctionnalités pour justifier le prix")
		priority += 2
	} else if len(plan.Features) > a.cfg.RichFeatures {
		insight.Insights = append(insight.Insights,
			fmt.Sprintf("Offre riche : %d fonctionnalités incluses", len(plan.Features)))
	}

	// Subscriber volume.
	if entry.Count < a.cfg.LowVolume && adoption > 0 {
		insight.Insights = append(insight.Insights,
			fmt.Sprintf("Base d'abonnés fragile : %d abonnés seulement", entry.Count))
		insight.RiskLevel = insight.RiskLevel.AtLeast(model.RiskMedium)
		priority += 3
	} else if entry.Count > a.cfg.HighVolume {
		insight.Insights = append(insight.Insights,
			fmt.Sprintf("Base d'abonnés solide : %d abonnés", entry.Count))
	}

	// Final risk tier from the raw priority, then clamp the score.
	switch {
	case priority > a.cfg.CriticalPriority:
		insight.RiskLevel = insight.RiskLevel.AtLeast(model.RiskCritical)
	case priority > a.cfg.HighPriority:
		insight.RiskLevel = insight.RiskLevel.AtLeast(model.RiskHigh)
	case priority > a.cfg.MediumPriority:
		insight.RiskLevel = insight.RiskLevel.AtLeast(model.RiskMedium)
	}
	insight.PriorityScore = clampPriority(priority, a.cfg.MaxPriority)

	insight.Update = deriveUpdate(insight.SuggestedChanges)

	return insight, nil
}

// noSubscriberInsight is the fixed suggestion package for plans nobody
// subscribes to.
func (a *Analyzer) noSubscriberInsight(plan model.Plan, avgLimit int) model.PlanInsight {
	insight := model.PlanInsight{
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Metrics:  model.PlanMetrics{},
		Insights: []string{
			"Aucun abonné actif sur ce plan",
		},
		Recommendations: []string{
			"Réviser l'offre en profondeur : tarif, limite d'utilisateurs et fonctionnalités",
		},
		SuggestedChanges: map[string]model.SuggestedChange{
			"basePrice": {
				Current:   plan.BasePrice,
				Suggested: round2(plan.BasePrice * a.cfg.NoSubscriberCut),
				Reason:    "Baisse de prix pour relancer un plan sans abonné",
			},
			// Legacy textual band kept on purpose: exercised by the
			// numeric suggestion parser.
			"discount": {
				Text:   "Remise temporaire de 15-20% pendant trois mois",
				Reason: "Créer une fenêtre d'essai attractive",
			},
			"userLimit": {
				Current:   float64(plan.UserLimit),
				Suggested: float64(avgLimit),
				Reason:    "Aligner la limite de sièges sur la moyenne du marché",
			},
		},
		PriorityScore: clampPriority(a.cfg.NoSubscriberPriority, a.cfg.MaxPriority),
		RiskLevel:     model.RiskHigh,
	}
	insight.Recommendations = append(insight.Recommendations,
		"Enrichir la liste des fonctionnalités avant toute campagne de relance")
	insight.Update = deriveUpdate(insight.SuggestedChanges)
	return insight
}

func (a *Analyzer) fallback(err error) *Analysis {
	return &Analysis{
		Plans: []model.PlanInsight{},
		Market: []model.MarketInsight{
			{
				Type:    "analysis_failure",
				Message: "L'analyse des plans a échoué ; vérifiez les données d'entrée",
				Status:  model.StatusCritical,
			},
		},
		Keywords: []model.RankedKeyword{},
		Fallback: true,
		Reason:   eris.ToString(err, false),
	}
}

func averageUserLimit(planList []model.Plan) int {
	if len(planList) == 0 {
		return 1
	}
	total := 0
	for _, p := range planList {
		total += p.UserLimit
	}
	return int(math.Round(float64(total) / float64(len(planList))))
}

func clampPriority(p, maxP int) int {
	if p < 0 {
		return 0
	}
	if p > maxP {
		return maxP
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
