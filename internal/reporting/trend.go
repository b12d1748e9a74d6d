package reporting

import (
	"fmt"
	"math"

	"github.com/normaudit/insight-cli/internal/model"
)

// detectTrend fits an ordinary least-squares line of subscriber count
// against entry index. Fewer than two entries yields the insufficient-data
// result; exactly two yields a descriptive comparison without a fit.
func (e *Engine) detectTrend(dist []model.SubscriptionDistributionEntry) model.TrendResult {
	if len(dist) < 2 {
		return model.TrendResult{
			Direction:   "stable",
			Description: "Données insuffisantes pour détecter une tendance d'abonnement",
		}
	}

	counts := make([]float64, len(dist))
	for i, entry := range dist {
		counts[i] = float64(entry.Count)
	}

	if len(counts) == 2 {
		direction := "stable"
		switch {
		case counts[1] > counts[0]:
			direction = "stable growth"
		case counts[1] < counts[0]:
			direction = "decline"
		}
		return model.TrendResult{
			Direction: direction,
			Description: fmt.Sprintf("Deux plans observés (%d puis %d abonnés) : comparaison descriptive sans régression",
				dist[0].Count, dist[1].Count),
			Variance: variance(counts),
			StdDev:   math.Sqrt(variance(counts)),
		}
	}

	slope, r2 := leastSquares(counts)

	direction := "stable"
	description := "Niveau d'abonnement stable sur la séquence observée"
	switch {
	case slope > e.cfg.StrongSlope && r2 > e.cfg.StrongRSquared:
		direction = "strong growth"
		description = fmt.Sprintf("Croissance forte et régulière des abonnements (pente %.2f, R² %.2f)", slope, r2)
	case slope > 0:
		direction = "stable growth"
		description = fmt.Sprintf("Croissance modérée des abonnements (pente %.2f)", slope)
	case slope < e.cfg.DeclineSlope:
		direction = "decline"
		description = fmt.Sprintf("Déclin des abonnements (pente %.2f) : une action corrective s'impose", slope)
	}

	v := variance(counts)
	return model.TrendResult{
		Direction:   direction,
		Description: description,
		Slope:       slope,
		RSquared:    r2,
		Variance:    v,
		StdDev:      math.Sqrt(v),
	}
}

// leastSquares fits y = a + b*x over x = 0..n-1 using the closed-form
// normal equations and returns the slope and coefficient of determination.
func leastSquares(y []float64) (slope, rSquared float64) {
	n := float64(len(y))

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, v := range y {
		fit := intercept + slope*float64(i)
		ssTot += (v - meanY) * (v - meanY)
		ssRes += (v - fit) * (v - fit)
	}
	if ssTot == 0 {
		return slope, 0
	}
	return slope, 1 - ssRes/ssTot
}

func variance(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for _, v := range y {
		sum += v
	}
	mean := sum / float64(len(y))

	var sq float64
	for _, v := range y {
		sq += (v - mean) * (v - mean)
	}
	return sq / float64(len(y))
}
