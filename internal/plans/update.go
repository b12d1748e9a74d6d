package plans

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/normaudit/insight-cli/internal/model"
)

var (
	decimalPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	integerPattern = regexp.MustCompile(`\d+`)
)

// deriveUpdate extracts machine-usable values from the suggested changes.
// Structured suggestions are used directly; legacy free-text suggestions
// fall back to number parsing (first decimal for a price, mean of the
// first two integers for a discount band, first integer otherwise).
func deriveUpdate(changes map[string]model.SuggestedChange) model.ActionableUpdate {
	var update model.ActionableUpdate

	if change, ok := changes["basePrice"]; ok {
		if v, ok := suggestedPrice(change); ok {
			update.BasePrice = &v
		}
	}
	if change, ok := changes["discount"]; ok {
		if v, ok := suggestedDiscount(change); ok {
			update.Discount = &v
		}
	}
	if change, ok := changes["userLimit"]; ok {
		if v, ok := suggestedLimit(change); ok {
			update.UserLimit = &v
		}
	}

	return update
}

func suggestedPrice(c model.SuggestedChange) (float64, bool) {
	if c.Text == "" {
		return c.Suggested, true
	}
	return parseDecimal(c.Text)
}

func suggestedDiscount(c model.SuggestedChange) (float64, bool) {
	if c.Text == "" {
		return c.Suggested, true
	}
	ints := integerPattern.FindAllString(c.Text, 2)
	switch len(ints) {
	case 0:
		return 0, false
	case 1:
		v, err := strconv.ParseFloat(ints[0], 64)
		return v, err == nil
	default:
		lo, errLo := strconv.ParseFloat(ints[0], 64)
		hi, errHi := strconv.ParseFloat(ints[1], 64)
		if errLo != nil || errHi != nil {
			return 0, false
		}
		return (lo + hi) / 2, true
	}
}

func suggestedLimit(c model.SuggestedChange) (int, bool) {
	if c.Text == "" {
		return int(math.Round(c.Suggested)), true
	}
	m := integerPattern.FindString(c.Text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDecimal(text string) (float64, bool) {
	m := decimalPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
