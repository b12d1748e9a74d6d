// Package reporting computes the system-wide performance report: weighted
// sentiment, subscriber trend, threshold anomalies, KPIs, a narrative
// summary and ranked recommendations.
package reporting

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds the reporting weights and cut-points, injected at
// construction.
type Config struct {
	// Sentiment weights (must sum to 1).
	ActivationWeight float64
	ActionWeight     float64
	ComplianceWeight float64

	// Sentiment tiers.
	ExcellentScore float64
	GoodScore      float64
	ModerateScore  float64

	// Trend rules.
	StrongSlope    float64
	StrongRSquared float64
	DeclineSlope   float64

	// Anomaly thresholds.
	LowActivation     float64
	LowEngagement     float64
	HighEngagement    float64
	LowActionRate     float64
	LowComplianceRate float64

	// KPI cut-points (percent KPIs).
	KPIHigh float64
	KPILow  float64
	// Engagement KPI uses absolute users per company.
	EngagementHigh float64
	EngagementLow  float64

	// Subscription-mix concentration (Herfindahl).
	Diversified  float64
	Concentrated float64

	// Recommendation triggers.
	UpsellUsers float64
	WeakKPI     float64
}

// DefaultConfig returns the standard reporting thresholds.
func DefaultConfig() Config {
	return Config{
		ActivationWeight: 0.3,
		ActionWeight:     0.4,
		ComplianceWeight: 0.3,

		ExcellentScore: 75,
		GoodScore:      60,
		ModerateScore:  40,

		StrongSlope:    0.5,
		StrongRSquared: 0.5,
		DeclineSlope:   -0.5,

		LowActivation:     50,
		LowEngagement:     2,
		HighEngagement:    50,
		LowActionRate:     40,
		LowComplianceRate: 60,

		KPIHigh:        70,
		KPILow:         40,
		EngagementHigh: 8,
		EngagementLow:  3,

		Diversified:  0.4,
		Concentrated: 0.6,

		UpsellUsers: 10,
		WeakKPI:     50,
	}
}

// Validate checks that a Config is internally consistent.
func Validate(c Config) error {
	var errs []string

	sum := c.ActivationWeight + c.ActionWeight + c.ComplianceWeight
	if sum < 0.99 || sum > 1.01 {
		errs = append(errs, "sentiment weights must sum to 1")
	}
	if c.ModerateScore <= 0 || c.GoodScore <= c.ModerateScore || c.ExcellentScore <= c.GoodScore {
		errs = append(errs, "sentiment tiers must satisfy 0 < moderate < good < excellent")
	}
	if c.StrongSlope <= 0 || c.DeclineSlope >= 0 {
		errs = append(errs, "trend slopes must satisfy decline < 0 < strong")
	}
	if c.KPILow <= 0 || c.KPIHigh <= c.KPILow {
		errs = append(errs, "kpi cut-points must satisfy 0 < low < high")
	}
	if c.EngagementLow <= 0 || c.EngagementHigh <= c.EngagementLow {
		errs = append(errs, "engagement cut-points must satisfy 0 < low < high")
	}
	if c.Diversified <= 0 || c.Concentrated <= c.Diversified || c.Concentrated > 1 {
		errs = append(errs, "concentration cut-points must satisfy 0 < diversified < concentrated <= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("reporting: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
