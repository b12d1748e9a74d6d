package reporting

import (
	"fmt"

	"github.com/normaudit/insight-cli/internal/model"
)

// anomalyContexts maps each anomaly type to its fixed causal payload.
var anomalyContexts = map[string]model.AnomalyContext{
	"low_activation": {
		ProbableCauses: []string{
			"Processus de validation des entreprises trop lent",
			"Onboarding incomplet après l'inscription",
			"Comptes créés puis abandonnés",
		},
		BusinessImpact: "Revenu récurrent limité par la base d'entreprises réellement actives",
		Urgency:        "haute",
		Actions: []string{
			"Relancer les entreprises inscrites non activées",
			"Simplifier le parcours d'activation",
		},
	},
	"low_engagement": {
		ProbableCauses: []string{
			"Licences attribuées mais non distribuées aux équipes",
			"Manque de formation des utilisateurs",
		},
		BusinessImpact: "Valeur perçue faible, risque de résiliation au renouvellement",
		Urgency:        "moyenne",
		Actions: []string{
			"Proposer des sessions de prise en main",
			"Identifier les comptes à un seul utilisateur actif",
		},
	},
	"high_engagement": {
		ProbableCauses: []string{
			"Équipes importantes regroupées sur peu de comptes",
		},
		BusinessImpact: "Opportunité de montée en gamme sur les plans à forte limite de sièges",
		Urgency:        "basse",
		Actions: []string{
			"Proposer un plan supérieur aux comptes les plus denses",
		},
	},
	"low_action_completion": {
		ProbableCauses: []string{
			"Plans d'action trop ambitieux ou mal priorisés",
			"Responsables d'action surchargés",
			"Absence de suivi régulier",
		},
		BusinessImpact: "Les écarts de conformité identifiés ne sont pas corrigés",
		Urgency:        "haute",
		Actions: []string{
			"Revoir la priorisation des actions en retard",
			"Mettre en place des rappels automatiques",
		},
	},
	"low_compliance": {
		ProbableCauses: []string{
			"Veille réglementaire en retard sur les nouveaux textes",
			"Évaluations de conformité incomplètes",
		},
		BusinessImpact: "Exposition juridique accrue des entreprises clientes",
		Urgency:        "haute",
		Actions: []string{
			"Prioriser l'évaluation des textes non conformes",
			"Renforcer l'accompagnement des évaluateurs",
		},
	},
}

// detectAnomalies runs the independent threshold checks. Rate-based checks
// only fire when the corresponding total is non-zero.
func (e *Engine) detectAnomalies(stats model.SystemStatistics) []model.AnomalyRecord {
	anomalies := []model.AnomalyRecord{}

	activation := model.Ratio(stats.ActiveCompanies, stats.TotalCompanies)
	if activation < e.cfg.LowActivation {
		anomalies = append(anomalies, record("low_activation", "high",
			fmt.Sprintf("Taux d'activation de %.1f%%, sous le seuil de %.0f%%", activation, e.cfg.LowActivation),
			activation, e.cfg.LowActivation))
	}

	if stats.AvgUsersPerCompany < e.cfg.LowEngagement {
		anomalies = append(anomalies, record("low_engagement", "medium",
			fmt.Sprintf("Moyenne de %.1f utilisateurs par entreprise, engagement très faible", stats.AvgUsersPerCompany),
			stats.AvgUsersPerCompany, e.cfg.LowEngagement))
	} else if stats.AvgUsersPerCompany > e.cfg.HighEngagement {
		anomalies = append(anomalies, record("high_engagement", "info",
			fmt.Sprintf("Moyenne de %.1f utilisateurs par entreprise : opportunité de montée en gamme", stats.AvgUsersPerCompany),
			stats.AvgUsersPerCompany, e.cfg.HighEngagement))
	}

	if stats.TotalActions > 0 {
		completion := model.Ratio(stats.CompletedActions, stats.TotalActions)
		if completion < e.cfg.LowActionRate {
			anomalies = append(anomalies, record("low_action_completion", "high",
				fmt.Sprintf("Seulement %.1f%% des actions sont terminées", completion),
				completion, e.cfg.LowActionRate))
		}
	}

	if stats.TotalTexts > 0 {
		compliance := model.Ratio(stats.CompliantTexts, stats.TotalTexts)
		if compliance < e.cfg.LowComplianceRate {
			anomalies = append(anomalies, record("low_compliance", "high",
				fmt.Sprintf("Taux de conformité des textes de %.1f%%, sous le seuil de %.0f%%", compliance, e.cfg.LowComplianceRate),
				compliance, e.cfg.LowComplianceRate))
		}
	}

	return anomalies
}

func record(anomalyType, severity, description string, value, threshold float64) model.AnomalyRecord {
	return model.AnomalyRecord{
		Type:        anomalyType,
		Severity:    severity,
		Description: description,
		Value:       value,
		Threshold:   threshold,
		Context:     anomalyContexts[anomalyType],
	}
}
