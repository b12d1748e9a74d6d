package model

// Plan is a subscription plan as configured in the back office. Plans are
// immutable inputs to analysis: the engines only recommend new values, the
// actual update goes through the plans API.
type Plan struct {
	ID        int      `json:"planId"`
	Name      string   `json:"name"`
	BasePrice float64  `json:"basePrice"`
	Discount  float64  `json:"discount"` // percentage, 0-100
	UserLimit int      `json:"userLimit"`
	Features  []string `json:"features"`
}

// Normalize applies defensive defaults: price floored at zero, discount
// clamped to [0,100], seat limit floored at 1, nil feature list replaced
// with an empty one. Returns a copy.
func (p Plan) Normalize() Plan {
	out := p
	if out.BasePrice < 0 {
		out.BasePrice = 0
	}
	if out.Discount < 0 {
		out.Discount = 0
	}
	if out.Discount > 100 {
		out.Discount = 100
	}
	if out.UserLimit < 1 {
		out.UserLimit = 1
	}
	if out.Features == nil {
		out.Features = []string{}
	}
	return out
}

// FeatureText joins the plan name and feature list into a single text used
// for linguistic similarity and keyword extraction.
func (p Plan) FeatureText() string {
	text := p.Name
	for _, f := range p.Features {
		text += " " + f
	}
	return text
}
