package linguistic

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/normaudit/insight-cli/internal/model"
)

const (
	keywordCandidates = 20
	keywordLimit      = 10
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'-]+`)

// frenchStopwords covers the function words excluded from keyword
// candidates. The oracle's stop flags are not available here because
// cross-document extraction runs without annotation.
var frenchStopwords = map[string]bool{
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true,
	"de": true, "du": true, "et": true, "ou": true, "en": true, "dans": true,
	"sur": true, "pour": true, "par": true, "avec": true, "sans": true,
	"est": true, "sont": true, "aux": true, "au": true, "ce": true, "cette": true,
	"ces": true, "son": true, "sa": true, "ses": true, "qui": true, "que": true,
	"the": true, "of": true, "and": true, "to": true, "a": true, "in": true,
}

// ExtractKeywords ranks terms across a batch of texts by mean TF-IDF
// weight over unigrams and bigrams. The top candidate terms are truncated
// to the final limit. An empty batch yields an empty list.
func ExtractKeywords(texts []string) []model.RankedKeyword {
	docs := make([][]string, 0, len(texts))
	for _, t := range texts {
		terms := termsOf(t)
		if len(terms) > 0 {
			docs = append(docs, terms)
		}
	}
	if len(docs) == 0 {
		return []model.RankedKeyword{}
	}

	// Document frequency per term.
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, dup := seen[term]; !dup {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	n := float64(len(docs))
	sums := make(map[string]float64)
	for _, doc := range docs {
		tf := make(map[string]float64, len(doc))
		for _, term := range doc {
			tf[term]++
		}
		for term, count := range tf {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			sums[term] += (count / float64(len(doc))) * idf
		}
	}

	ranked := make([]model.RankedKeyword, 0, len(sums))
	for term, sum := range sums {
		ranked = append(ranked, model.RankedKeyword{Term: term, Score: sum / n})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if len(ranked) > keywordCandidates {
		ranked = ranked[:keywordCandidates]
	}
	if len(ranked) > keywordLimit {
		ranked = ranked[:keywordLimit]
	}
	return ranked
}

// termsOf tokenizes a text into folded unigrams and bigrams, stopwords
// excluded.
func termsOf(text string) []string {
	words := wordPattern.FindAllString(fold(text), -1)
	unigrams := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if !frenchStopwords[w] {
			unigrams = append(unigrams, w)
		}
	}

	terms := make([]string, 0, 2*len(unigrams))
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}
