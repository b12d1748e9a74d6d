package model

// SubscriptionDistributionEntry aggregates active subscriptions for one plan.
// There is one entry per plan that has at least one subscriber.
type SubscriptionDistributionEntry struct {
	PlanID   int     `json:"planId"`
	Count    int     `json:"count"`
	PlanName string  `json:"planName"`
	AvgUsers float64 `json:"avgUsers"`
}

// SystemStatistics is the platform-wide counter snapshot received from the
// back office. All analysis is value-computed from one of these plus the
// plan list; nothing here is ever mutated by the engines.
type SystemStatistics struct {
	TotalCompanies     int                             `json:"totalCompanies"`
	ActiveCompanies    int                             `json:"activeCompanies"`
	AvgUsersPerCompany float64                         `json:"avgUsersPerCompany"`
	TotalActions       int                             `json:"totalActions"`
	CompletedActions   int                             `json:"completedActions"`
	TotalTexts         int                             `json:"totalTexts"`
	CompliantTexts     int                             `json:"compliantTexts"`
	Distribution       []SubscriptionDistributionEntry `json:"subscriptionDistribution"`
}

// Normalize applies the boundary defaulting pass: negative counters are
// floored at zero and the part/whole invariants (active <= total,
// completed <= total actions, compliant <= total texts) are enforced by
// clamping. Returns a copy; the input is left untouched.
func (s SystemStatistics) Normalize() SystemStatistics {
	out := s

	out.TotalCompanies = max(out.TotalCompanies, 0)
	out.TotalActions = max(out.TotalActions, 0)
	out.TotalTexts = max(out.TotalTexts, 0)

	out.ActiveCompanies = clampInt(out.ActiveCompanies, 0, out.TotalCompanies)
	out.CompletedActions = clampInt(out.CompletedActions, 0, out.TotalActions)
	out.CompliantTexts = clampInt(out.CompliantTexts, 0, out.TotalTexts)

	if out.AvgUsersPerCompany < 0 {
		out.AvgUsersPerCompany = 0
	}

	if out.Distribution == nil {
		out.Distribution = []SubscriptionDistributionEntry{}
	}
	dist := make([]SubscriptionDistributionEntry, 0, len(out.Distribution))
	for _, e := range out.Distribution {
		if e.Count < 0 {
			e.Count = 0
		}
		if e.AvgUsers < 0 {
			e.AvgUsers = 0
		}
		dist = append(dist, e)
	}
	out.Distribution = dist

	return out
}

// TotalSubscribers sums subscriber counts across the distribution.
func (s SystemStatistics) TotalSubscribers() int {
	total := 0
	for _, e := range s.Distribution {
		total += e.Count
	}
	return total
}

// EntryForPlan looks up the distribution entry for a plan. The second
// return is false when the plan has no subscribers.
func (s SystemStatistics) EntryForPlan(planID int) (SubscriptionDistributionEntry, bool) {
	for _, e := range s.Distribution {
		if e.PlanID == planID {
			return e, true
		}
	}
	return SubscriptionDistributionEntry{}, false
}

// Ratio returns 100*num/den with the denominator floored at 1, so a zero
// total yields 0 instead of a division by zero.
func Ratio(num, den int) float64 {
	return 100 * float64(num) / float64(max(den, 1))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
