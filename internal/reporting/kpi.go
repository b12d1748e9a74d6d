package reporting

import (
	"github.com/normaudit/insight-cli/internal/model"
)

// extractKPIs builds the four fixed indicators. Percentage KPIs share the
// same cut-points; engagement uses absolute users per company.
func (e *Engine) extractKPIs(stats model.SystemStatistics) []model.KPI {
	activation := model.Ratio(stats.ActiveCompanies, stats.TotalCompanies)
	completion := model.Ratio(stats.CompletedActions, stats.TotalActions)
	compliance := model.Ratio(stats.CompliantTexts, stats.TotalTexts)

	return []model.KPI{
		{
			Name:    "Taux d'activation",
			Value:   activation,
			Unit:    "%",
			Trend:   e.percentTrend(activation),
			Insight: e.percentInsight(activation,
				"Base d'entreprises très engagée, capitaliser sur les références clients",
				"Activation correcte mais perfectible, relancer les comptes dormants",
				"Trop d'entreprises inactives, revoir le parcours d'activation"),
		},
		{
			Name:    "Engagement utilisateurs",
			Value:   stats.AvgUsersPerCompany,
			Unit:    "utilisateurs/entreprise",
			Trend:   e.engagementTrend(stats.AvgUsersPerCompany),
			Insight: e.engagementInsight(stats.AvgUsersPerCompany),
		},
		{
			Name:    "Exécution des actions",
			Value:   completion,
			Unit:    "%",
			Trend:   e.percentTrend(completion),
			Insight: e.percentInsight(completion,
				"Plans d'action bien suivis, discipline d'exécution solide",
				"Exécution moyenne, surveiller les actions en retard",
				"Exécution insuffisante, les plans d'action n'aboutissent pas"),
		},
		{
			Name:    "Conformité des textes",
			Value:   compliance,
			Unit:    "%",
			Trend:   e.percentTrend(compliance),
			Insight: e.percentInsight(compliance,
				"Niveau de conformité exemplaire",
				"Conformité en construction, maintenir le rythme d'évaluation",
				"Conformité dégradée, prioriser les textes critiques"),
		},
	}
}

func (e *Engine) percentTrend(value float64) string {
	switch {
	case value >= e.cfg.KPIHigh:
		return "up"
	case value < e.cfg.KPILow:
		return "down"
	default:
		return "neutral"
	}
}

func (e *Engine) percentInsight(value float64, high, medium, low string) string {
	switch {
	case value >= e.cfg.KPIHigh:
		return high
	case value >= e.cfg.KPILow:
		return medium
	default:
		return low
	}
}

func (e *Engine) engagementTrend(value float64) string {
	switch {
	case value >= e.cfg.EngagementHigh:
		return "up"
	case value < e.cfg.EngagementLow:
		return "down"
	default:
		return "neutral"
	}
}

func (e *Engine) engagementInsight(value float64) string {
	switch {
	case value >= e.cfg.EngagementHigh:
		return "Forte densité d'utilisateurs par compte, terrain favorable à l'upsell"
	case value >= e.cfg.EngagementLow:
		return "Engagement utilisateur dans la norme"
	default:
		return "Peu d'utilisateurs par compte, la valeur du produit reste sous-exploitée"
	}
}
