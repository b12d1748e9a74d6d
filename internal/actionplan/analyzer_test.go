package actionplan

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns a canned completion or a fixed error.
type stubGenerator struct {
	completion string
	err        error
	calls      atomic.Int32
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.completion, nil
}

const validCompletion = `{
	"priority_level": "Élevée",
	"risk_assessment": "Risque réglementaire notable",
	"recommended_tips": ["Planifier un audit interne", "Former les équipes"],
	"compliance_areas": ["Sécurité", "Environnement"],
	"estimated_effort": "Élevé",
	"suggested_timeline": "6 semaines",
	"key_stakeholders": ["Responsable HSE"],
	"success_metrics": ["Zéro non-conformité"]
}`

func TestAnalyze_ValidCompletion(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{completion: validCompletion})

	got := a.Analyze(context.Background(), Request{Description: "Mettre à jour le registre ATEX"})
	assert.Equal(t, "Élevée", got.PriorityLevel)
	assert.Equal(t, "Risque réglementaire notable", got.RiskAssessment)
	assert.Equal(t, []string{"Sécurité", "Environnement"}, got.ComplianceAreas)
	assert.Equal(t, "Élevé", got.EstimatedEffort)
	assert.Equal(t, "6 semaines", got.SuggestedTimeline)
}

func TestAnalyze_NilGenerator(t *testing.T) {
	a := NewAnalyzer(nil)
	got := a.Analyze(context.Background(), Request{Description: "test"})
	assert.Equal(t, fallbackResult(), got)
}

func TestAnalyze_GeneratorError(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{err: eris.New("rate limited")})
	got := a.Analyze(context.Background(), Request{Description: "test"})
	assert.Equal(t, fallbackResult(), got)
}

func TestAnalyze_NonJSONCompletion(t *testing.T) {
	long := strings.Repeat("Analyse libre du consultant. ", 20)
	a := NewAnalyzer(&stubGenerator{completion: long})

	got := a.Analyze(context.Background(), Request{Description: "test"})
	assert.Equal(t, "Moyenne", got.PriorityLevel)
	assert.Equal(t, "Analyse terminée - veuillez examiner les exigences de l'action", got.RiskAssessment)
	assert.True(t, strings.HasSuffix(got.DetailedAnalysis, "..."))
	assert.LessOrEqual(t, len([]rune(got.DetailedAnalysis)), 203)

	// Carries its own tips and metrics, not the oracle-failure ones.
	assert.NotEqual(t, fallbackResult().RecommendedTips, got.RecommendedTips)
	assert.Contains(t, got.RecommendedTips, "Assurez-vous de la conformité aux réglementations applicables")
	assert.Equal(t, []string{"Taux de réalisation", "Évaluation de la qualité"}, got.SuccessMetrics)
}

func TestTextualResult_ShortText(t *testing.T) {
	got := textualResult("réponse brève")
	assert.Equal(t, "réponse brève", got.DetailedAnalysis)
	assert.Len(t, got.RecommendedTips, 4)
	assert.Equal(t, "Équipe de Conformité", got.KeyStakeholders[1])
}

func TestAnalyze_FencedCompletion(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{completion: "```json\n" + validCompletion + "\n```"})
	got := a.Analyze(context.Background(), Request{Description: "test"})
	assert.Equal(t, "Élevée", got.PriorityLevel)
}

func TestAnalyzeBatch(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{completion: validCompletion})

	reqs := []Request{
		{ActionID: 1, Description: "Action un"},
		{ActionID: 2, Description: "Action deux"},
		{ActionID: 3, Description: "Action trois"},
	}
	items := a.AnalyzeBatch(context.Background(), reqs)

	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, reqs[i].ActionID, item.ActionID, "order preserved")
		assert.Equal(t, "Élevée", item.Analysis.PriorityLevel)
	}
}

func TestAnalyzeBatch_FailuresIsolated(t *testing.T) {
	a := NewAnalyzer(&stubGenerator{err: eris.New("backend down")})

	items := a.AnalyzeBatch(context.Background(), []Request{
		{ActionID: 7, Description: "Action"},
		{ActionID: 8, Description: "Autre action"},
	})

	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, fallbackResult(), item.Analysis)
	}
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	a := NewAnalyzer(nil)
	assert.Empty(t, a.AnalyzeBatch(context.Background(), nil))
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(Request{
		Description: "Contrôler les extincteurs",
		Domain:      "Sécurité",
		Theme:       "Incendie",
	})

	assert.Contains(t, prompt, `"Contrôler les extincteurs"`)
	assert.Contains(t, prompt, "Domaine : Sécurité")
	assert.Contains(t, prompt, "Thème : Incendie")
	assert.Contains(t, prompt, "priority_level")
	assert.Contains(t, prompt, "EN FRANÇAIS")

	minimal := buildPrompt(Request{Description: "Test"})
	assert.NotContains(t, minimal, "Domaine :")
	assert.NotContains(t, minimal, "Thème :")
}

func TestValidate_FillsDefaults(t *testing.T) {
	got := validate(Result{PriorityLevel: "URGENT", EstimatedEffort: "énorme"})

	assert.Equal(t, "Moyenne", got.PriorityLevel)
	assert.Equal(t, "Moyen", got.EstimatedEffort)
	assert.NotEmpty(t, got.RiskAssessment)
	assert.NotEmpty(t, got.RecommendedTips)
	assert.Equal(t, []string{"Conformité Générale"}, got.ComplianceAreas)
	assert.Equal(t, "2-4 semaines", got.SuggestedTimeline)
	assert.NotEmpty(t, got.KeyStakeholders)
	assert.NotEmpty(t, got.SuccessMetrics)
}

func TestValidate_CapsTips(t *testing.T) {
	tips := []string{"a", "b", "c", "d", "e", "f", "g"}
	got := validate(Result{RecommendedTips: tips})
	assert.Len(t, got.RecommendedTips, maxTips)
}

func TestValidate_AcceptsAlternateEnums(t *testing.T) {
	got := validate(Result{PriorityLevel: "Haute", EstimatedEffort: "Bas"})
	assert.Equal(t, "Haute", got.PriorityLevel)
	assert.Equal(t, "Bas", got.EstimatedEffort)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "Voici le résultat : {\"a\":1} merci", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
		{"no json", "rien ici", "rien ici"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "court", truncate("court", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "éà...", truncate("éàüîô", 2), "truncation counts runes")
}
