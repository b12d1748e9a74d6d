package reporting

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/model"
)

// Engine produces performance reports from system statistics. It is
// stateless: every call computes a fresh report.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Generate builds the full report. It never fails: an engine-level error
// yields the fixed fallback report with a single verify-data
// recommendation.
func (e *Engine) Generate(stats model.SystemStatistics) model.PerformanceReport {
	if err := Validate(e.cfg); err != nil {
		zap.L().Error("reporting: invalid configuration, returning fallback report", zap.Error(err))
		return e.fallbackReport(err)
	}

	stats = stats.Normalize()

	sentiment := e.sentimentScore(stats)
	trend := e.detectTrend(stats.Distribution)
	anomalies := e.detectAnomalies(stats)
	kpis := e.extractKPIs(stats)

	report := model.PerformanceReport{
		Sentiment:       sentiment,
		Trend:           trend,
		Anomalies:       anomalies,
		KPIs:            kpis,
		Summary:         e.narrative(stats, sentiment, trend),
		Recommendations: e.recommendations(sentiment, anomalies, kpis, stats),
		Engagement:      e.engagementSection(stats),
		Compliance:      e.complianceSection(stats),
		ActionPerf:      e.actionSection(stats),
		Mix:             e.subscriptionMix(stats),
	}

	zap.L().Info("reporting: report generated",
		zap.Float64("sentiment_score", sentiment.Score),
		zap.String("sentiment_tier", sentiment.Tier),
		zap.String("trend", trend.Direction),
		zap.Int("anomalies", len(anomalies)),
	)

	return report
}

// sentimentTiers maps each tier to its fixed label and color token.
var sentimentTiers = map[string][2]string{
	"excellent": {"Santé excellente de la plateforme", "green"},
	"good":      {"Bonne santé générale", "blue"},
	"moderate":  {"Santé moyenne, vigilance requise", "orange"},
	"critical":  {"Situation critique", "red"},
}

// sentimentScore computes the weighted platform health score.
func (e *Engine) sentimentScore(stats model.SystemStatistics) model.SentimentScore {
	activation := model.Ratio(stats.ActiveCompanies, stats.TotalCompanies)
	completion := model.Ratio(stats.CompletedActions, stats.TotalActions)
	compliance := model.Ratio(stats.CompliantTexts, stats.TotalTexts)

	score := e.cfg.ActivationWeight*activation +
		e.cfg.ActionWeight*completion +
		e.cfg.ComplianceWeight*compliance

	tier := "critical"
	switch {
	case score >= e.cfg.ExcellentScore:
		tier = "excellent"
	case score >= e.cfg.GoodScore:
		tier = "good"
	case score >= e.cfg.ModerateScore:
		tier = "moderate"
	}

	labels := sentimentTiers[tier]
	return model.SentimentScore{
		Score:            score,
		Tier:             tier,
		Label:            labels[0],
		Color:            labels[1],
		ActivationRate:   activation,
		ActionCompletion: completion,
		ComplianceRate:   compliance,
	}
}

// narrative concatenates the fixed template sentences for the sentiment
// tier and each area tier, then appends the trend description and a
// literal restatement of the raw counts. Deterministic given the inputs.
func (e *Engine) narrative(stats model.SystemStatistics, sentiment model.SentimentScore, trend model.TrendResult) string {
	var parts []string

	switch sentiment.Tier {
	case "excellent":
		parts = append(parts, "La plateforme affiche une santé excellente sur l'ensemble des indicateurs.")
	case "good":
		parts = append(parts, "La plateforme est en bonne santé générale.")
	case "moderate":
		parts = append(parts, "La plateforme présente une santé moyenne qui appelle à la vigilance.")
	default:
		parts = append(parts, "La plateforme est dans une situation critique nécessitant une intervention immédiate.")
	}

	switch {
	case sentiment.ActivationRate >= e.cfg.KPIHigh:
		parts = append(parts, "L'activation des entreprises est un point fort.")
	case sentiment.ActivationRate >= e.cfg.KPILow:
		parts = append(parts, "L'activation des entreprises progresse mais reste perfectible.")
	default:
		parts = append(parts, "L'activation des entreprises est le principal point de blocage.")
	}

	switch {
	case sentiment.ActionCompletion >= e.cfg.KPIHigh:
		parts = append(parts, "Les plans d'action sont exécutés avec rigueur.")
	case sentiment.ActionCompletion >= e.cfg.KPILow:
		parts = append(parts, "L'exécution des plans d'action demande un suivi renforcé.")
	default:
		parts = append(parts, "L'exécution des plans d'action est en souffrance.")
	}

	switch {
	case sentiment.ComplianceRate >= e.cfg.KPIHigh:
		parts = append(parts, "La conformité réglementaire est bien maîtrisée.")
	case sentiment.ComplianceRate >= e.cfg.KPILow:
		parts = append(parts, "La conformité réglementaire progresse.")
	default:
		parts = append(parts, "La conformité réglementaire accuse un retard préoccupant.")
	}

	parts = append(parts, trend.Description+".")

	parts = append(parts, fmt.Sprintf(
		"En chiffres : %d entreprises dont %d actives, %d actions dont %d terminées, %d textes dont %d conformes.",
		stats.TotalCompanies, stats.ActiveCompanies,
		stats.TotalActions, stats.CompletedActions,
		stats.TotalTexts, stats.CompliantTexts,
	))

	return strings.Join(parts, " ")
}

// recommendations synthesizes the ranked list: high-severity anomalies
// first, then weak KPIs, then the growth and upsell opportunities.
func (e *Engine) recommendations(sentiment model.SentimentScore, anomalies []model.AnomalyRecord, kpis []model.KPI, stats model.SystemStatistics) []model.Recommendation {
	recs := []model.Recommendation{}

	for _, anomaly := range anomalies {
		if anomaly.Severity != "high" {
			continue
		}
		recs = append(recs, model.Recommendation{
			Title:    "Corriger : " + anomaly.Description,
			Priority: "high",
			Actions:  anomaly.Context.Actions,
		})
	}

	for _, kpi := range kpis {
		if kpi.Trend != "down" && kpi.Value >= e.cfg.WeakKPI {
			continue
		}
		recs = append(recs, model.Recommendation{
			Title:    fmt.Sprintf("Renforcer l'indicateur « %s »", kpi.Name),
			Priority: "medium",
			Actions:  []string{kpi.Insight},
		})
	}

	if sentiment.Tier == "excellent" || sentiment.Tier == "good" {
		recs = append(recs, model.Recommendation{
			Title:    "Capitaliser sur la bonne santé de la plateforme",
			Priority: "low",
			Actions: []string{
				"Lancer une campagne de témoignages clients",
				"Étendre l'offre vers de nouveaux domaines de conformité",
			},
		})
	}

	if stats.AvgUsersPerCompany > e.cfg.UpsellUsers {
		recs = append(recs, model.Recommendation{
			Title:    "Proposer une montée en gamme aux comptes denses",
			Priority: "low",
			Actions: []string{
				fmt.Sprintf("Cibler les comptes au-dessus de %.0f utilisateurs avec un plan supérieur", e.cfg.UpsellUsers),
			},
		})
	}

	return recs
}

func (e *Engine) engagementSection(stats model.SystemStatistics) model.DetailSection {
	value := stats.AvgUsersPerCompany
	tier, insight := "low", "Les comptes restent largement mono-utilisateur"
	switch {
	case value >= e.cfg.EngagementHigh:
		tier, insight = "high", "Les équipes utilisent la plateforme en profondeur"
	case value >= e.cfg.EngagementLow:
		tier, insight = "medium", "Usage régulier mais encore concentré sur quelques utilisateurs"
	}
	return model.DetailSection{Name: "engagement", Tier: tier, Value: value, Insight: insight}
}

func (e *Engine) complianceSection(stats model.SystemStatistics) model.DetailSection {
	value := model.Ratio(stats.CompliantTexts, stats.TotalTexts)
	tier, insight := "low", "La majorité des textes restent à évaluer ou non conformes"
	switch {
	case value >= e.cfg.KPIHigh:
		tier, insight = "high", "Le référentiel réglementaire est sous contrôle"
	case value >= e.cfg.KPILow:
		tier, insight = "medium", "La mise en conformité avance à un rythme correct"
	}
	return model.DetailSection{Name: "compliance", Tier: tier, Value: value, Insight: insight}
}

func (e *Engine) actionSection(stats model.SystemStatistics) model.DetailSection {
	value := model.Ratio(stats.CompletedActions, stats.TotalActions)
	tier, insight := "low", "Les actions correctives s'accumulent sans être soldées"
	switch {
	case value >= e.cfg.KPIHigh:
		tier, insight = "high", "Les actions correctives sont soldées rapidement"
	case value >= e.cfg.KPILow:
		tier, insight = "medium", "Le traitement des actions suit un rythme acceptable"
	}
	return model.DetailSection{Name: "actions", Tier: tier, Value: value, Insight: insight}
}

// subscriptionMix computes the Herfindahl-style concentration index: the
// sum of squared subscriber-share fractions. Order-invariant; equals 1
// when a single plan holds every subscriber.
func (e *Engine) subscriptionMix(stats model.SystemStatistics) model.SubscriptionMix {
	total := stats.TotalSubscribers()
	mix := model.SubscriptionMix{
		PlanCount:        len(stats.Distribution),
		TotalSubscribers: total,
		Classification:   "diversified",
	}
	if total == 0 {
		return mix
	}

	var index float64
	for _, entry := range stats.Distribution {
		share := float64(entry.Count) / float64(total)
		index += share * share
	}
	mix.ConcentrationIndex = index

	switch {
	case index > e.cfg.Concentrated:
		mix.Classification = "concentrated"
	case index >= e.cfg.Diversified:
		mix.Classification = "moderate"
	}
	return mix
}

// fallbackReport is the fixed degraded result: zeroed sections and a
// single high-priority verify-data recommendation.
func (e *Engine) fallbackReport(err error) model.PerformanceReport {
	return model.PerformanceReport{
		Sentiment: model.SentimentScore{
			Tier:  "critical",
			Label: sentimentTiers["critical"][0],
			Color: sentimentTiers["critical"][1],
		},
		Trend: model.TrendResult{
			Direction:   "stable",
			Description: "Tendance indisponible",
		},
		Anomalies: []model.AnomalyRecord{},
		KPIs:      []model.KPI{},
		Summary:   "Le rapport n'a pas pu être généré : " + eris.ToString(err, false),
		Recommendations: []model.Recommendation{
			{
				Title:    "Vérifier les données statistiques sources",
				Priority: "high",
				Actions:  []string{"Contrôler la cohérence des compteurs avant de relancer l'analyse"},
			},
		},
		Engagement: model.DetailSection{Name: "engagement", Tier: "low"},
		Compliance: model.DetailSection{Name: "compliance", Tier: "low"},
		ActionPerf: model.DetailSection{Name: "actions", Tier: "low"},
		Mix:        model.SubscriptionMix{Classification: "diversified"},
		Fallback:   true,
	}
}
