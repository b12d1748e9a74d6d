package main

import (
	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/actionplan"
	"github.com/normaudit/insight-cli/internal/assembler"
	"github.com/normaudit/insight-cli/internal/linguistic"
	"github.com/normaudit/insight-cli/internal/plans"
	"github.com/normaudit/insight-cli/internal/reporting"
	"github.com/normaudit/insight-cli/pkg/nlp"
	"github.com/normaudit/insight-cli/pkg/textgen"
)

// engineEnv holds the initialized engines shared by the analyze, report,
// features, action, and serve commands.
type engineEnv struct {
	Extractor  *linguistic.Extractor
	Plans      *plans.Analyzer
	Reporting  *reporting.Engine
	Assembler  *assembler.Assembler
	ActionPlan *actionplan.Analyzer
}

// initEngines builds the extractor and the two analytics engines from the
// loaded configuration. The NLP oracle and the text generator are both
// optional; without them the engines run in their degraded modes.
func initEngines() (*engineEnv, error) {
	lex, err := cfg.Lexicons()
	if err != nil {
		return nil, err
	}

	var oracle nlp.Annotator
	if cfg.NLP.BaseURL != "" {
		oracle = nlp.NewClient(cfg.NLP.BaseURL,
			nlp.WithRateLimit(cfg.NLP.RequestsPerSec, cfg.NLP.Burst),
		)
	} else {
		zap.L().Warn("nlp service not configured, linguistic features disabled")
	}

	var generator textgen.Generator
	if cfg.TextGen.Key != "" {
		generator = textgen.NewGenerator(cfg.TextGen.Key, textgen.Config{
			Model:     cfg.TextGen.Model,
			MaxTokens: cfg.TextGen.MaxTokens,
		})
	} else {
		zap.L().Warn("INSIGHT_TEXTGEN_KEY not set, action analysis will use fallback responses")
	}

	extractor := linguistic.NewExtractor(oracle, lex, cfg.ExtractorConfig())
	planAnalyzer := plans.NewAnalyzer(plans.DefaultConfig(), extractor)
	reportEngine := reporting.NewEngine(reporting.DefaultConfig())

	return &engineEnv{
		Extractor:  extractor,
		Plans:      planAnalyzer,
		Reporting:  reportEngine,
		Assembler:  assembler.New(planAnalyzer, reportEngine),
		ActionPlan: actionplan.NewAnalyzer(generator),
	}, nil
}
