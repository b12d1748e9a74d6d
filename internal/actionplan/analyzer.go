// Package actionplan analyzes free-text action-plan descriptions through
// the text-generation oracle and returns structured French advisory
// results. Oracle failures and malformed output always degrade to the
// fixed French fallback, never to an error.
package actionplan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/normaudit/insight-cli/pkg/textgen"
)

// maxBatchConcurrency bounds parallel oracle calls during batch analysis.
const maxBatchConcurrency = 5

// maxTips caps the recommended tips list.
const maxTips = 5

// Request describes one action to analyze.
type Request struct {
	ActionID    int    `json:"actionId,omitempty"`
	Description string `json:"description"`
	Domain      string `json:"domain,omitempty"`
	Theme       string `json:"theme,omitempty"`
}

// Result is the structured advisory for one action description.
type Result struct {
	PriorityLevel     string   `json:"priority_level"`
	RiskAssessment    string   `json:"risk_assessment"`
	RecommendedTips   []string `json:"recommended_tips"`
	ComplianceAreas   []string `json:"compliance_areas"`
	EstimatedEffort   string   `json:"estimated_effort"`
	SuggestedTimeline string   `json:"suggested_timeline"`
	KeyStakeholders   []string `json:"key_stakeholders"`
	SuccessMetrics    []string `json:"success_metrics"`
	DetailedAnalysis  string   `json:"detailed_analysis,omitempty"`
}

// BatchItem pairs an action ID with its analysis.
type BatchItem struct {
	ActionID int    `json:"actionId"`
	Analysis Result `json:"analysis"`
}

// Analyzer drives the text-generation oracle.
type Analyzer struct {
	generator textgen.Generator
}

// NewAnalyzer creates an Analyzer. A nil generator is valid: every call
// then returns the fallback result.
func NewAnalyzer(generator textgen.Generator) *Analyzer {
	return &Analyzer{generator: generator}
}

// Analyze produces the advisory for one action description.
func (a *Analyzer) Analyze(ctx context.Context, req Request) Result {
	if a.generator == nil {
		return fallbackResult()
	}

	completion, err := a.generator.Generate(ctx, buildPrompt(req))
	if err != nil {
		zap.L().Warn("actionplan: generation failed, using fallback",
			zap.Int("action_id", req.ActionID),
			zap.Error(err),
		)
		return fallbackResult()
	}

	return parseCompletion(completion)
}

// AnalyzeBatch processes actions concurrently. One action's failure never
// aborts the batch: failed items carry the fallback analysis.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, reqs []Request) []BatchItem {
	items := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxBatchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			items[i] = BatchItem{
				ActionID: req.ActionID,
				Analysis: a.Analyze(gctx, req),
			}
			return nil
		})
	}
	_ = g.Wait()

	return items
}

// buildPrompt assembles the French audit-consultant prompt.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Vous êtes un consultant expert en audit spécialisé dans la conformité et la gestion des risques.\n\n")
	b.WriteString("Analysez la description du plan d'action suivant et fournissez des insights structurés EN FRANÇAIS :\n\n")
	fmt.Fprintf(&b, "Description de l'action : %q\n", req.Description)

	if req.Domain != "" {
		fmt.Fprintf(&b, "Domaine : %s\n", req.Domain)
	}
	if req.Theme != "" {
		fmt.Fprintf(&b, "Thème : %s\n", req.Theme)
	}

	b.WriteString(`
Veuillez fournir une réponse JSON avec la structure suivante EN FRANÇAIS :
{
    "priority_level": "Élevée/Moyenne/Faible",
    "risk_assessment": "Analyse brève des risques en français",
    "recommended_tips": ["Conseil actionnable 1", "Conseil actionnable 2", "Conseil actionnable 3"],
    "compliance_areas": ["domaine1", "domaine2"],
    "estimated_effort": "Faible/Moyen/Élevé",
    "suggested_timeline": "Délai de réalisation recommandé",
    "key_stakeholders": ["rôle1", "rôle2"],
    "success_metrics": ["métrique1", "métrique2"]
}

Concentrez-vous sur des insights pratiques et actionnables qui aideraient un auditeur à réussir cette action.
Répondez UNIQUEMENT avec du JSON valide, sans texte supplémentaire.
IMPORTANT : Toutes les valeurs doivent être en français.
`)

	return b.String()
}

// parseCompletion extracts and validates the JSON payload of a completion.
// Non-JSON output becomes a structured result built around the raw text.
func parseCompletion(completion string) Result {
	cleaned := cleanJSON(completion)

	var raw Result
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		zap.L().Warn("actionplan: completion is not valid JSON, using textual fallback", zap.Error(err))
		return textualResult(completion)
	}

	return validate(raw)
}

// textualResult wraps an unstructured completion in a fixed advisory so
// the raw text still reaches the caller.
func textualResult(text string) Result {
	return Result{
		PriorityLevel:  "Moyenne",
		RiskAssessment: "Analyse terminée - veuillez examiner les exigences de l'action",
		RecommendedTips: []string{
			"Examinez attentivement les exigences de l'action",
			"Impliquez les parties prenantes pertinentes dès le début",
			"Surveillez régulièrement les progrès et documentez les résultats",
			"Assurez-vous de la conformité aux réglementations applicables",
		},
		ComplianceAreas:   []string{"Conformité Générale"},
		EstimatedEffort:   "Moyen",
		SuggestedTimeline: "2-4 semaines",
		KeyStakeholders:   []string{"Responsable de l'Action", "Équipe de Conformité"},
		SuccessMetrics:    []string{"Taux de réalisation", "Évaluation de la qualité"},
		DetailedAnalysis:  truncate(text, 200),
	}
}

// validPriorities and validEfforts are the accepted French enum values.
var validPriorities = map[string]bool{"Élevée": true, "Haute": true, "Moyenne": true, "Faible": true, "Basse": true}
var validEfforts = map[string]bool{"Faible": true, "Bas": true, "Moyen": true, "Élevé": true, "Haut": true}

// validate fills every missing or out-of-range field with its French
// default so the caller always receives a complete result.
func validate(r Result) Result {
	if !validPriorities[r.PriorityLevel] {
		r.PriorityLevel = "Moyenne"
	}
	if r.RiskAssessment == "" {
		r.RiskAssessment = "Évaluation des risques de conformité standard requise"
	}
	if len(r.RecommendedTips) == 0 {
		r.RecommendedTips = []string{
			"Examinez attentivement les exigences de l'action",
			"Consultez les parties prenantes pertinentes dès le début",
			"Documentez régulièrement les progrès",
		}
	}
	if len(r.RecommendedTips) > maxTips {
		r.RecommendedTips = r.RecommendedTips[:maxTips]
	}
	if len(r.ComplianceAreas) == 0 {
		r.ComplianceAreas = []string{"Conformité Générale"}
	}
	if !validEfforts[r.EstimatedEffort] {
		r.EstimatedEffort = "Moyen"
	}
	if r.SuggestedTimeline == "" {
		r.SuggestedTimeline = "2-4 semaines"
	}
	if len(r.KeyStakeholders) == 0 {
		r.KeyStakeholders = []string{"Responsable de l'Action", "Équipe de Conformité"}
	}
	if len(r.SuccessMetrics) == 0 {
		r.SuccessMetrics = []string{"Réalisation dans les délais", "Qualité de la mise en œuvre"}
	}
	return r
}

// fallbackResult is the fixed French advisory returned when the oracle is
// unreachable.
func fallbackResult() Result {
	return Result{
		PriorityLevel:  "Moyenne",
		RiskAssessment: "Impossible d'analyser automatiquement - révision manuelle requise",
		RecommendedTips: []string{
			"Examinez attentivement les exigences de l'action",
			"Identifiez les parties prenantes clés et les dépendances",
			"Créez un plan de mise en œuvre détaillé",
			"Établissez des points de contrôle de progrès réguliers",
		},
		ComplianceAreas:   []string{"Conformité Générale"},
		EstimatedEffort:   "Moyen",
		SuggestedTimeline: "2-4 semaines",
		KeyStakeholders:   []string{"Responsable de l'Action", "Responsable de la Conformité"},
		SuccessMetrics:    []string{"Réalisation dans les délais", "Respect des normes de qualité"},
	}
}

// cleanJSON strips markdown fences and isolates the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
