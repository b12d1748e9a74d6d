package linguistic

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/normaudit/insight-cli/internal/model"
	"github.com/normaudit/insight-cli/pkg/nlp"
)

// Config holds the extractor's tunable caps and thresholds.
type Config struct {
	MaxKeyTerms  int
	MaxTopics    int
	MaxRelations int
}

// DefaultConfig returns the standard extractor limits.
func DefaultConfig() Config {
	return Config{
		MaxKeyTerms:  15,
		MaxTopics:    10,
		MaxRelations: 5,
	}
}

// Extractor turns oracle annotations into domain features. A nil annotator
// is valid: every extraction then returns the empty-features default.
type Extractor struct {
	oracle nlp.Annotator
	lex    Lexicons
	cfg    Config

	highRisk   termSet
	mediumRisk termSet
	lowRisk    termSet
	domains    map[string]termSet
	positive   termSet
	negative   termSet
}

// NewExtractor builds an Extractor with the given oracle and lexicons.
func NewExtractor(oracle nlp.Annotator, lex Lexicons, cfg Config) *Extractor {
	e := &Extractor{
		oracle:     oracle,
		lex:        lex,
		cfg:        cfg,
		highRisk:   newTermSet(lex.HighRisk),
		mediumRisk: newTermSet(lex.MediumRisk),
		lowRisk:    newTermSet(lex.LowRisk),
		positive:   newTermSet(lex.Positive),
		negative:   newTermSet(lex.Negative),
		domains:    make(map[string]termSet, len(lex.Domains)),
	}
	for name, terms := range lex.Domains {
		e.domains[name] = newTermSet(terms)
	}
	return e
}

// EmptyFeatures is the documented degraded result used when the oracle is
// unavailable: all collections empty, neutral classifications, zero
// confidence.
func EmptyFeatures() model.LinguisticFeatures {
	return model.LinguisticFeatures{
		Entities: model.EntitySet{
			Organizations: []string{},
			Persons:       []string{},
			Locations:     []string{},
			Dates:         []string{},
			Regulations:   []string{},
			Other:         []model.TaggedEntity{},
		},
		KeyTerms:   []model.KeyTerm{},
		Topics:     []model.Topic{},
		Actions:    []model.ActionVerb{},
		Risk:       model.RiskClassification{Level: model.RiskMedium},
		Domain:     model.DomainClassification{Domain: "general", Scores: map[string]float64{}},
		Complexity: model.ComplexityClassification{Level: "medium"},
		Sentiment:  model.SentimentClassification{Label: "neutral"},
		Relations:  []model.Relation{},
	}
}

// Extract computes the full feature set for a text. It never fails: any
// oracle error degrades to EmptyFeatures.
func (e *Extractor) Extract(ctx context.Context, text string) model.LinguisticFeatures {
	if e.oracle == nil {
		return EmptyFeatures()
	}

	ann, err := e.oracle.Annotate(ctx, text)
	if err != nil || ann == nil {
		zap.L().Warn("linguistic: annotation unavailable, using empty features", zap.Error(err))
		return EmptyFeatures()
	}

	return model.LinguisticFeatures{
		Entities:   e.categorizeEntities(text, ann.Entities),
		KeyTerms:   e.rankKeyTerms(ann.Tokens),
		Topics:     e.extractTopics(ann),
		Actions:    e.extractActions(ann.Tokens),
		Risk:       e.classifyRisk(ann.Tokens),
		Domain:     e.classifyDomain(ann.Tokens),
		Complexity: e.classifyComplexity(ann),
		Sentiment:  e.classifySentiment(ann.Tokens),
		Relations:  e.extractRelations(ann),
		WordCount:  countWords(ann.Tokens),
		SentCount:  len(ann.Sentences),
	}
}

// Similarity delegates to the oracle's pairwise vector similarity. It
// returns the neutral 0.5 when the oracle is unavailable or errors.
func (e *Extractor) Similarity(ctx context.Context, a, b string) float64 {
	if e.oracle == nil {
		return 0.5
	}
	sim, err := e.oracle.Similarity(ctx, a, b)
	if err != nil {
		zap.L().Warn("linguistic: similarity unavailable, using neutral", zap.Error(err))
		return 0.5
	}
	return sim
}

// regulationPattern recognizes standard-code-like tokens: 2-4 letter codes
// followed by digits (ISO 14001, NF C15-100) and fixed acronyms.
var regulationPattern = regexp.MustCompile(`\b(?:[A-Z]{2,4}[- ]?\d{1,5}(?:[-:.]\d+)*|RGPD|GDPR|REACH|ATEX|ICPE|SEVESO)\b`)

func (e *Extractor) categorizeEntities(text string, entities []nlp.Entity) model.EntitySet {
	set := model.EntitySet{
		Organizations: []string{},
		Persons:       []string{},
		Locations:     []string{},
		Dates:         []string{},
		Regulations:   []string{},
		Other:         []model.TaggedEntity{},
	}

	for _, ent := range entities {
		switch ent.Label {
		case "ORG":
			set.Organizations = append(set.Organizations, ent.Text)
		case "PER", "PERSON":
			set.Persons = append(set.Persons, ent.Text)
		case "LOC", "GPE":
			set.Locations = append(set.Locations, ent.Text)
		case "DATE":
			set.Dates = append(set.Dates, ent.Text)
		default:
			set.Other = append(set.Other, model.TaggedEntity{Text: ent.Text, Label: ent.Label})
		}
	}

	seen := make(map[string]struct{})
	for _, m := range regulationPattern.FindAllString(text, -1) {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		set.Regulations = append(set.Regulations, m)
	}

	return set
}

// contentPOS are the grammatical categories eligible for key-term ranking.
var contentPOS = map[string]bool{"NOUN": true, "VERB": true, "ADJ": true, "PROPN": true}

var subjectDeps = map[string]bool{"nsubj": true, "nsubj:pass": true, "nsubjpass": true}
var objectDeps = map[string]bool{"obj": true, "dobj": true, "iobj": true, "pobj": true}

func (e *Extractor) rankKeyTerms(tokens []nlp.Token) []model.KeyTerm {
	terms := make([]model.KeyTerm, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsStop || tok.IsPunct || !contentPOS[tok.POS] {
			continue
		}

		score := 1.0
		if tok.POS == "PROPN" {
			score += 0.5
		}
		if tok.Dep == "ROOT" {
			score += 0.3
		}
		if subjectDeps[tok.Dep] || objectDeps[tok.Dep] {
			score += 0.2
		}
		switch {
		case e.highRisk.contains(tok.Lemma):
			score += 0.5
		case e.mediumRisk.contains(tok.Lemma):
			score += 0.3
		case e.lowRisk.contains(tok.Lemma):
			score += 0.1
		}

		terms = append(terms, model.KeyTerm{
			Text:  tok.Text,
			Lemma: tok.Lemma,
			POS:   tok.POS,
			Score: score,
		})
	}

	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Score > terms[j].Score })
	if len(terms) > e.cfg.MaxKeyTerms {
		terms = terms[:e.cfg.MaxKeyTerms]
	}
	return terms
}

func (e *Extractor) extractTopics(ann *nlp.Annotation) []model.Topic {
	topics := make([]model.Topic, 0, len(ann.Chunks))
	for _, chunk := range ann.Chunks {
		if !chunkHasContent(ann.Tokens, chunk) {
			continue
		}
		topic := model.Topic{Text: chunk.Text}
		if chunk.Root >= 0 && chunk.Root < len(ann.Tokens) {
			topic.Head = ann.Tokens[chunk.Root].Text
			topic.HeadLemma = ann.Tokens[chunk.Root].Lemma
		}
		topics = append(topics, topic)
		if len(topics) == e.cfg.MaxTopics {
			break
		}
	}
	return topics
}

// chunkHasContent reports whether a noun chunk contains at least one
// non-stopword, non-punctuation token.
func chunkHasContent(tokens []nlp.Token, chunk nlp.Chunk) bool {
	for _, part := range strings.Fields(chunk.Text) {
		for _, tok := range tokens {
			if tok.Text == part && !tok.IsStop && !tok.IsPunct {
				return true
			}
		}
	}
	return false
}

func (e *Extractor) extractActions(tokens []nlp.Token) []model.ActionVerb {
	actions := make([]model.ActionVerb, 0)
	for i, tok := range tokens {
		if tok.POS != "VERB" || tok.IsStop {
			continue
		}
		objects := []string{}
		for j, child := range tokens {
			if j != i && child.Head == i && objectDeps[child.Dep] {
				objects = append(objects, child.Text)
			}
		}
		actions = append(actions, model.ActionVerb{
			Verb:    tok.Text,
			Lemma:   tok.Lemma,
			Objects: objects,
			IsRoot:  tok.Dep == "ROOT",
		})
	}
	return actions
}

func (e *Extractor) classifyRisk(tokens []nlp.Token) model.RiskClassification {
	lemmas := lemmasOf(tokens)
	high := e.highRisk.matchCount(lemmas)
	medium := e.mediumRisk.matchCount(lemmas)
	low := e.lowRisk.matchCount(lemmas)

	level := model.RiskLow
	switch {
	case high >= 2 || (high >= 1 && medium >= 2):
		level = model.RiskHigh
	case high >= 1 || medium >= 2:
		level = model.RiskMedium
	}

	confidence := float64(high+medium+low) / 5
	if confidence > 1 {
		confidence = 1
	}

	return model.RiskClassification{
		Level:      level,
		HighHits:   high,
		MediumHits: medium,
		LowHits:    low,
		Confidence: confidence,
	}
}

func (e *Extractor) classifyDomain(tokens []nlp.Token) model.DomainClassification {
	scores := make(map[string]float64, len(e.domains))
	var total float64
	best := ""
	var bestScore float64

	for name, set := range e.domains {
		var score float64
		for _, tok := range tokens {
			lemma := fold(tok.Lemma)
			if set.contains(tok.Lemma) {
				score++
				continue
			}
			// Substring match catches compounds like "non-conformité".
			for term := range set {
				if len(term) > 3 && strings.Contains(lemma, term) {
					score++
					break
				}
			}
		}
		scores[name] = score
		total += score
		if score > bestScore || (score == bestScore && best != "" && name < best) {
			best = name
			bestScore = score
		}
	}

	if bestScore == 0 {
		return model.DomainClassification{Domain: "general", Confidence: 0.5, Scores: scores}
	}
	return model.DomainClassification{
		Domain:     best,
		Confidence: bestScore / total,
		Scores:     scores,
	}
}

func (e *Extractor) classifyComplexity(ann *nlp.Annotation) model.ComplexityClassification {
	tokenCount := countWords(ann.Tokens)
	if tokenCount == 0 {
		return model.ComplexityClassification{Level: "low"}
	}

	sentCount := max(len(ann.Sentences), 1)
	avgSentLen := float64(tokenCount) / float64(sentCount)

	var totalLen int
	distinct := make(map[string]struct{})
	technical := 0
	for _, tok := range ann.Tokens {
		if tok.IsPunct {
			continue
		}
		totalLen += len([]rune(tok.Text))
		if !tok.IsStop {
			distinct[fold(tok.Lemma)] = struct{}{}
		}
		if len([]rune(tok.Text)) > 8 || tok.POS == "PROPN" {
			technical++
		}
	}

	avgWordLen := float64(totalLen) / float64(tokenCount)
	richness := float64(len(distinct)) / float64(tokenCount)
	density := float64(technical) / float64(tokenCount)

	score := 0.3*(avgSentLen/20) + 0.2*(avgWordLen/8) + 0.3*richness + 0.2*density

	level := "low"
	switch {
	case score > 0.6:
		level = "high"
	case score > 0.4:
		level = "medium"
	}

	return model.ComplexityClassification{
		Level:             level,
		AvgSentenceLength: avgSentLen,
		AvgWordLength:     avgWordLen,
		VocabRichness:     richness,
		TechnicalDensity:  density,
		Score:             score,
	}
}

func (e *Extractor) classifySentiment(tokens []nlp.Token) model.SentimentClassification {
	lemmas := lemmasOf(tokens)
	pos := e.positive.matchCount(lemmas)
	neg := e.negative.matchCount(lemmas)

	var polarity float64
	if pos+neg > 0 {
		polarity = float64(pos-neg) / float64(pos+neg)
	}

	label := "neutral"
	switch {
	case polarity > 0.1:
		label = "positive"
	case polarity < -0.1:
		label = "negative"
	}

	return model.SentimentClassification{
		Label:         label,
		Polarity:      polarity,
		PositiveWords: pos,
		NegativeWords: neg,
	}
}

func (e *Extractor) extractRelations(ann *nlp.Annotation) []model.Relation {
	relations := []model.Relation{}
	for _, sent := range ann.Sentences {
		if sent.Start < 0 || sent.End > len(ann.Tokens) {
			continue
		}
		for i := sent.Start; i < sent.End; i++ {
			if ann.Tokens[i].POS != "VERB" {
				continue
			}
			var subjects, objects []string
			for j := sent.Start; j < sent.End; j++ {
				if j == i || ann.Tokens[j].Head != i {
					continue
				}
				switch {
				case subjectDeps[ann.Tokens[j].Dep]:
					subjects = append(subjects, ann.Tokens[j].Text)
				case objectDeps[ann.Tokens[j].Dep]:
					objects = append(objects, ann.Tokens[j].Text)
				}
			}
			if len(subjects) == 0 && len(objects) == 0 {
				continue
			}
			relations = append(relations, model.Relation{
				Subjects: subjects,
				Verb:     ann.Tokens[i].Text,
				Objects:  objects,
			})
			if len(relations) == e.cfg.MaxRelations {
				return relations
			}
		}
	}
	return relations
}

func lemmasOf(tokens []nlp.Token) []string {
	lemmas := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.IsPunct {
			lemmas = append(lemmas, tok.Lemma)
		}
	}
	return lemmas
}

func countWords(tokens []nlp.Token) int {
	n := 0
	for _, tok := range tokens {
		if !tok.IsPunct {
			n++
		}
	}
	return n
}
