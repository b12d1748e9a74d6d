package plans

import (
	"context"
	"fmt"
	"strings"

	"github.com/normaudit/insight-cli/internal/linguistic"
	"github.com/normaudit/insight-cli/internal/model"
)

// marketInsights aggregates cross-plan signals: activation health, plan
// popularity, subscriber concentration, feature overlap and the ranked
// keyword list over all plan feature texts.
func (a *Analyzer) marketInsights(ctx context.Context, stats model.SystemStatistics, planList []model.Plan) ([]model.MarketInsight, []model.RankedKeyword) {
	insights := []model.MarketInsight{}

	activation := model.Ratio(stats.ActiveCompanies, stats.TotalCompanies)
	switch {
	case activation >= a.cfg.ActivationGood:
		insights = append(insights, model.MarketInsight{
			Type:    "activation",
			Message: fmt.Sprintf("Taux d'activation sain : %.1f%% des entreprises sont actives", activation),
			Status:  model.StatusGood,
		})
	case activation >= a.cfg.ActivationWarning:
		insights = append(insights, model.MarketInsight{
			Type:    "activation",
			Message: fmt.Sprintf("Taux d'activation moyen : %.1f%%, marge de progression importante", activation),
			Status:  model.StatusWarning,
		})
	default:
		insights = append(insights, model.MarketInsight{
			Type:    "activation",
			Message: fmt.Sprintf("Taux d'activation critique : %.1f%% seulement", activation),
			Status:  model.StatusCritical,
		})
	}

	if top, total := topPlan(stats); total > 0 {
		insights = append(insights, model.MarketInsight{
			Type:    "popularity",
			Message: fmt.Sprintf("Plan le plus populaire : %s (%d abonnés)", top.PlanName, top.Count),
			Status:  model.StatusInfo,
		})

		concentration := 100 * float64(top.Count) / float64(total)
		if concentration > a.cfg.ConcentrationAlert {
			insights = append(insights, model.MarketInsight{
				Type: "concentration",
				Message: fmt.Sprintf("Concentration élevée : %.1f%% des abonnés sur le plan %s",
					concentration, top.PlanName),
				Status: model.StatusWarning,
			})
		} else {
			insights = append(insights, model.MarketInsight{
				Type:    "concentration",
				Message: fmt.Sprintf("Répartition des abonnés équilibrée (top plan : %.1f%%)", concentration),
				Status:  model.StatusInfo,
			})
		}
	}

	insights = append(insights, a.featureOverlap(ctx, planList)...)

	texts := make([]string, 0, len(planList))
	for _, p := range planList {
		texts = append(texts, p.FeatureText())
	}
	keywords := linguistic.ExtractKeywords(texts)
	if len(keywords) > 0 {
		terms := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			terms = append(terms, kw.Term)
		}
		insights = append(insights, model.MarketInsight{
			Type:    "keywords",
			Message: "Termes dominants de l'offre : " + strings.Join(terms, ", "),
			Status:  model.StatusInfo,
		})
	}

	return insights, keywords
}

// featureOverlap flags plan pairs whose feature texts are too similar.
func (a *Analyzer) featureOverlap(ctx context.Context, planList []model.Plan) []model.MarketInsight {
	if a.extractor == nil {
		return nil
	}

	var insights []model.MarketInsight
	for i := 0; i < len(planList); i++ {
		for j := i + 1; j < len(planList); j++ {
			sim := a.extractor.Similarity(ctx, planList[i].FeatureText(), planList[j].FeatureText())
			switch {
			case sim > a.cfg.SimilarityWarning:
				insights = append(insights, model.MarketInsight{
					Type: "cannibalization",
					Message: fmt.Sprintf("Les plans %s et %s sont très similaires (%.0f%%) : risque de cannibalisation",
						planList[i].Name, planList[j].Name, 100*sim),
					Status: model.StatusWarning,
				})
			case sim > a.cfg.SimilarityInfo:
				insights = append(insights, model.MarketInsight{
					Type: "overlap",
					Message: fmt.Sprintf("Recouvrement notable entre les plans %s et %s (%.0f%%)",
						planList[i].Name, planList[j].Name, 100*sim),
					Status: model.StatusInfo,
				})
			}
		}
	}
	return insights
}

// topPlan returns the most subscribed distribution entry and the total
// subscriber count.
func topPlan(stats model.SystemStatistics) (model.SubscriptionDistributionEntry, int) {
	var top model.SubscriptionDistributionEntry
	total := 0
	for _, e := range stats.Distribution {
		total += e.Count
		if e.Count > top.Count {
			top = e
		}
	}
	return top, total
}
