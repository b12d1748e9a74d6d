package model

// SentimentScore is the weighted health score of the whole platform.
type SentimentScore struct {
	Score            float64 `json:"score"` // 0-100
	Tier             string  `json:"tier"`  // excellent, good, moderate, critical
	Label            string  `json:"label"`
	Color            string  `json:"color"`
	ActivationRate   float64 `json:"activationRate"`
	ActionCompletion float64 `json:"actionCompletionRate"`
	ComplianceRate   float64 `json:"complianceRate"`
}

// TrendResult is the fitted subscriber-count trend.
type TrendResult struct {
	Direction   string  `json:"direction"`
	Description string  `json:"description"`
	Slope       float64 `json:"slope"`
	RSquared    float64 `json:"rSquared"`
	Variance    float64 `json:"variance"`
	StdDev      float64 `json:"stdDev"`
}

// AnomalyContext is the fixed causal payload attached to an anomaly type.
type AnomalyContext struct {
	ProbableCauses []string `json:"probableCauses"`
	BusinessImpact string   `json:"businessImpact"`
	Urgency        string   `json:"urgency"`
	Actions        []string `json:"actions"`
}

// AnomalyRecord flags one statistic that breached its threshold.
type AnomalyRecord struct {
	Type        string         `json:"type"`
	Severity    string         `json:"severity"` // high, medium, info
	Description string         `json:"description"`
	Value       float64        `json:"value"`
	Threshold   float64        `json:"threshold"`
	Context     AnomalyContext `json:"context"`
}

// KPI is one extracted key performance indicator.
type KPI struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Trend   string  `json:"trend"` // up, down, neutral
	Insight string  `json:"insight"`
}

// Recommendation is a prioritized, actionable suggestion.
type Recommendation struct {
	Title    string   `json:"title"`
	Priority string   `json:"priority"` // high, medium, low
	Actions  []string `json:"actions"`
}

// DetailSection is one focused sub-analysis of the report.
type DetailSection struct {
	Name    string  `json:"name"`
	Tier    string  `json:"tier"`
	Value   float64 `json:"value"`
	Insight string  `json:"insight"`
}

// SubscriptionMix describes how concentrated the subscriber base is.
type SubscriptionMix struct {
	ConcentrationIndex float64 `json:"concentrationIndex"` // Herfindahl, 0-1
	Classification     string  `json:"classification"`     // diversified, moderate, concentrated
	PlanCount          int     `json:"planCount"`
	TotalSubscribers   int     `json:"totalSubscribers"`
}

// PerformanceReport is the full executive report produced per request.
type PerformanceReport struct {
	Sentiment       SentimentScore   `json:"sentiment"`
	Trend           TrendResult      `json:"trend"`
	Anomalies       []AnomalyRecord  `json:"anomalies"`
	KPIs            []KPI            `json:"kpis"`
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	Engagement      DetailSection    `json:"engagement"`
	Compliance      DetailSection    `json:"compliance"`
	ActionPerf      DetailSection    `json:"actionPerformance"`
	Mix             SubscriptionMix  `json:"subscriptionMix"`
	Fallback        bool             `json:"fallback,omitempty"`
}
