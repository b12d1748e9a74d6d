package linguistic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "reglementation", fold("Réglementation"))
	assert.Equal(t, "securite", fold("SÉCURITÉ"))
	assert.Equal(t, "non-conformite", fold("non-conformité"))
	assert.Equal(t, "audit", fold("audit"))
}

func TestTermSet(t *testing.T) {
	set := newTermSet([]string{"Sécurité", "écart"})

	assert.True(t, set.contains("securite"))
	assert.True(t, set.contains("SÉCURITÉ"))
	assert.True(t, set.contains("ecart"))
	assert.False(t, set.contains("budget"))

	assert.Equal(t, 2, set.matchCount([]string{"sécurité", "budget", "écart"}))
}

func TestDefaultLexicons(t *testing.T) {
	lex := DefaultLexicons()
	assert.NotEmpty(t, lex.HighRisk)
	assert.NotEmpty(t, lex.MediumRisk)
	assert.NotEmpty(t, lex.LowRisk)
	assert.NotEmpty(t, lex.Positive)
	assert.NotEmpty(t, lex.Negative)
	assert.Contains(t, lex.Domains, "juridique")
	assert.Contains(t, lex.Domains, "sécurité")
}
