package model

// InsightStatus classifies a market insight for dashboard rendering.
type InsightStatus string

const (
	StatusGood     InsightStatus = "good"
	StatusWarning  InsightStatus = "warning"
	StatusCritical InsightStatus = "critical"
	StatusInfo     InsightStatus = "info"
)

// SuggestedChange is a structured recommendation for one plan field.
// Current and Suggested carry machine-usable numbers when the engine could
// derive them; Text carries the human-readable form. Legacy free-text
// suggestions (e.g. a discount band) may leave the numeric pair at zero
// and rely on Text alone.
type SuggestedChange struct {
	Current   float64 `json:"current"`
	Suggested float64 `json:"suggested"`
	Text      string  `json:"text,omitempty"`
	Reason    string  `json:"reason"`
}

// ActionableUpdate holds only machine-consumable values extracted from the
// suggested changes, ready to post to the plan update API.
type ActionableUpdate struct {
	BasePrice *float64 `json:"basePrice,omitempty"`
	Discount  *float64 `json:"discount,omitempty"`
	UserLimit *int     `json:"userLimit,omitempty"`
}

// HasChanges reports whether any field carries a suggested value.
func (u ActionableUpdate) HasChanges() bool {
	return u.BasePrice != nil || u.Discount != nil || u.UserLimit != nil
}

// PlanMetrics is the measured state of one plan.
type PlanMetrics struct {
	AdoptionRate    float64 `json:"adoptionRate"` // percent of active companies
	Utilization     float64 `json:"utilization"`  // percent of seat limit
	AvgUsers        float64 `json:"avgUsers"`
	SubscriberCount int     `json:"subscriberCount"`
}

// PlanInsight is the full diagnostic for one plan.
type PlanInsight struct {
	PlanID           int                        `json:"planId"`
	PlanName         string                     `json:"planName"`
	Metrics          PlanMetrics                `json:"metrics"`
	Insights         []string                   `json:"insights"`
	Recommendations  []string                   `json:"recommendations"`
	SuggestedChanges map[string]SuggestedChange `json:"suggestedChanges"`
	Update           ActionableUpdate           `json:"actionableUpdate"`
	PriorityScore    int                        `json:"priorityScore"` // clamped to [0,10]
	RiskLevel        RiskLevel                  `json:"riskLevel"`
	Features         *LinguisticFeatures        `json:"linguisticFeatures,omitempty"`
}

// MarketInsight is a typed, human-readable market-level statement.
type MarketInsight struct {
	Type    string        `json:"type"`
	Message string        `json:"message"`
	Status  InsightStatus `json:"status"`
}
