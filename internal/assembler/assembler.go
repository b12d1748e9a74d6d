// Package assembler merges the engine outputs into the externally-visible
// insight bundle returned to the transport layer.
package assembler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/model"
	"github.com/normaudit/insight-cli/internal/plans"
	"github.com/normaudit/insight-cli/internal/reporting"
)

// Bundle is the complete analysis result for one request, tagged for
// downstream correlation. It is serialized verbatim by the transport
// layer.
type Bundle struct {
	AnalysisID  string                  `json:"analysisId"`
	GeneratedAt time.Time               `json:"generatedAt"`
	Plans       []model.PlanInsight     `json:"planInsights"`
	Market      []model.MarketInsight   `json:"marketInsights"`
	Keywords    []model.RankedKeyword   `json:"keywords"`
	Report      model.PerformanceReport `json:"performanceReport"`
	Degraded    bool                    `json:"degraded,omitempty"`
}

// Assembler wires the two engines together.
type Assembler struct {
	plans     *plans.Analyzer
	reporting *reporting.Engine
}

// New creates an Assembler over the given engines.
func New(planAnalyzer *plans.Analyzer, reportEngine *reporting.Engine) *Assembler {
	return &Assembler{plans: planAnalyzer, reporting: reportEngine}
}

// Assemble runs both engines over the same statistics snapshot and merges
// their outputs. Like the engines themselves it never fails; Degraded
// flags a bundle built from any fallback result.
func (a *Assembler) Assemble(ctx context.Context, stats model.SystemStatistics, planList []model.Plan) Bundle {
	analysis := a.plans.Analyze(ctx, stats, planList)
	report := a.reporting.Generate(stats)

	bundle := Bundle{
		AnalysisID:  uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Plans:       analysis.Plans,
		Market:      analysis.Market,
		Keywords:    analysis.Keywords,
		Report:      report,
		Degraded:    analysis.Fallback || report.Fallback,
	}

	zap.L().Info("assembler: bundle assembled",
		zap.String("analysis_id", bundle.AnalysisID),
		zap.Int("plan_insights", len(bundle.Plans)),
		zap.Bool("degraded", bundle.Degraded),
	)

	return bundle
}
