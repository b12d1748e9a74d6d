// Package linguistic derives domain features (risk, domain, complexity,
// sentiment, key terms, topics, relations) from annotated French text.
package linguistic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lexicons holds the fixed keyword lists used by the classifiers. They are
// immutable configuration injected at construction so thresholds can be
// tuned per deployment and tests stay deterministic.
type Lexicons struct {
	HighRisk   []string            `yaml:"high_risk"`
	MediumRisk []string            `yaml:"medium_risk"`
	LowRisk    []string            `yaml:"low_risk"`
	Domains    map[string][]string `yaml:"domains"`
	Positive   []string            `yaml:"positive"`
	Negative   []string            `yaml:"negative"`
}

// DefaultLexicons returns the built-in French compliance lexicons.
func DefaultLexicons() Lexicons {
	return Lexicons{
		HighRisk: []string{
			"urgent", "critique", "danger", "sanction", "amende",
			"violation", "non-conformité", "grave", "pénalité", "interdiction",
		},
		MediumRisk: []string{
			"attention", "vigilance", "retard", "incident", "écart",
			"anomalie", "manquement", "avertissement", "risque",
		},
		LowRisk: []string{
			"conforme", "maîtrisé", "stable", "validé", "satisfaisant", "contrôlé",
		},
		Domains: map[string][]string{
			"juridique": {
				"loi", "décret", "réglementation", "article", "code",
				"juridique", "légal", "contrat", "arrêté",
			},
			"environnement": {
				"environnement", "pollution", "déchet", "émission",
				"eau", "énergie", "climat", "recyclage",
			},
			"sécurité": {
				"sécurité", "accident", "protection", "prévention",
				"incendie", "équipement", "epi", "évacuation",
			},
			"ressources humaines": {
				"formation", "salarié", "employé", "travail",
				"personnel", "recrutement", "congé", "habilitation",
			},
			"finance": {
				"budget", "coût", "facture", "paiement",
				"finance", "comptabilité", "taxe", "investissement",
			},
		},
		Positive: []string{
			"améliorer", "progrès", "réussite", "conforme", "efficace",
			"succès", "positif", "excellent", "satisfaisant", "renforcer",
		},
		Negative: []string{
			"problème", "échec", "retard", "risque", "danger",
			"insuffisant", "négatif", "mauvais", "grave", "difficulté",
		},
	}
}

// foldTransformer strips combining marks so "réglementation" and
// "reglementation" compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and removes diacritics for lexicon comparison.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// termSet is a folded lookup set built from a lexicon list.
type termSet map[string]struct{}

func newTermSet(terms []string) termSet {
	set := make(termSet, len(terms))
	for _, t := range terms {
		set[fold(t)] = struct{}{}
	}
	return set
}

func (s termSet) contains(lemma string) bool {
	_, ok := s[fold(lemma)]
	return ok
}

// matchCount counts lemmas whose folded form is in the set.
func (s termSet) matchCount(lemmas []string) int {
	n := 0
	for _, l := range lemmas {
		if s.contains(l) {
			n++
		}
	}
	return n
}
