// Package plans implements the per-plan and market-level subscription
// analytics engine: adoption, utilization and pricing diagnostics, priority
// scoring, risk tiering and machine-applicable suggested updates.
package plans

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds the analytics thresholds. All cut-points are injected at
// construction so they can be tuned without touching the rules.
type Config struct {
	// Adoption-rate cut-points (percent of active companies).
	AdoptionExcellent float64
	AdoptionGood      float64
	AdoptionStrong    float64 // demand strong enough to trim discounts or raise prices

	// Utilization cut-points (percent of seat limit).
	UtilizationSaturated float64
	UtilizationHigh      float64
	UtilizationLow       float64

	// Seat-limit growth/shrink factors applied on those cut-points.
	SaturatedLimitFactor float64
	HighLimitFactor      float64
	LowLimitFactor       float64

	// Pricing rules.
	IntroDiscount     float64 // suggested when no discount and low adoption
	DiscountReduction float64 // points removed from oversized discounts
	DiscountFloor     float64
	HighDiscount      float64 // discount considered oversized
	LowPriceCeiling   float64 // base price eligible for repositioning
	PriceRaiseFactor  float64

	// Feature-richness bounds.
	MinFeatures  int
	RichFeatures int

	// Subscriber-volume bounds.
	LowVolume  int
	HighVolume int

	// Priority-to-risk tiering.
	CriticalPriority int
	HighPriority     int
	MediumPriority   int
	MaxPriority      int

	// Market aggregation.
	ActivationGood       float64
	ActivationWarning    float64
	ConcentrationAlert   float64 // percent held by the top plan
	SimilarityWarning    float64 // pairwise feature similarity
	SimilarityInfo       float64
	NoSubscriberCut      float64 // price reduction factor for empty plans
	NoSubscriberPriority int
}

// DefaultConfig returns the standard analytics thresholds.
func DefaultConfig() Config {
	return Config{
		AdoptionExcellent: 50,
		AdoptionGood:      25,
		AdoptionStrong:    40,

		UtilizationSaturated: 85,
		UtilizationHigh:      70,
		UtilizationLow:       30,

		SaturatedLimitFactor: 1.5,
		HighLimitFactor:      1.3,
		LowLimitFactor:       0.7,

		IntroDiscount:     12,
		DiscountReduction: 5,
		DiscountFloor:     5,
		HighDiscount:      15,
		LowPriceCeiling:   50,
		PriceRaiseFactor:  1.15,

		MinFeatures:  3,
		RichFeatures: 5,

		LowVolume:  3,
		HighVolume: 20,

		CriticalPriority: 10,
		HighPriority:     7,
		MediumPriority:   5,
		MaxPriority:      10,

		ActivationGood:       70,
		ActivationWarning:    40,
		ConcentrationAlert:   60,
		SimilarityWarning:    0.7,
		SimilarityInfo:       0.5,
		NoSubscriberCut:      0.8,
		NoSubscriberPriority: 9,
	}
}

// Validate checks that a Config is internally consistent.
func Validate(c Config) error {
	var errs []string

	if c.AdoptionGood <= 0 || c.AdoptionExcellent <= c.AdoptionGood {
		errs = append(errs, "adoption cut-points must satisfy 0 < good < excellent")
	}
	if c.AdoptionStrong <= 0 {
		errs = append(errs, "strong adoption cut-point must be > 0")
	}
	if c.UtilizationLow <= 0 || c.UtilizationHigh <= c.UtilizationLow || c.UtilizationSaturated <= c.UtilizationHigh {
		errs = append(errs, "utilization cut-points must satisfy 0 < low < high < saturated")
	}
	if c.SaturatedLimitFactor <= 1 || c.HighLimitFactor <= 1 {
		errs = append(errs, "limit growth factors must be > 1")
	}
	if c.LowLimitFactor <= 0 || c.LowLimitFactor >= 1 {
		errs = append(errs, "low limit factor must be in (0, 1)")
	}
	if c.DiscountFloor < 0 || c.DiscountFloor > c.HighDiscount {
		errs = append(errs, fmt.Sprintf("discount floor must be in [0, %.0f]", c.HighDiscount))
	}
	if c.MaxPriority <= 0 {
		errs = append(errs, "max priority must be > 0")
	}
	if c.MediumPriority >= c.HighPriority || c.HighPriority >= c.CriticalPriority {
		errs = append(errs, "priority tiers must satisfy medium < high < critical")
	}
	if c.ActivationWarning <= 0 || c.ActivationGood <= c.ActivationWarning {
		errs = append(errs, "activation cut-points must satisfy 0 < warning < good")
	}
	if c.NoSubscriberCut <= 0 || c.NoSubscriberCut >= 1 {
		errs = append(errs, "no-subscriber price cut must be in (0, 1)")
	}

	if len(errs) > 0 {
		return eris.Errorf("plans: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
