package model

// RiskLevel grades how risky a text or plan situation is.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskOrder = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// AtLeast returns the more severe of the two levels.
func (r RiskLevel) AtLeast(floor RiskLevel) RiskLevel {
	if riskOrder[floor] > riskOrder[r] {
		return floor
	}
	return r
}

// EntitySet partitions named-entity spans by category.
type EntitySet struct {
	Organizations []string       `json:"organizations"`
	Persons       []string       `json:"persons"`
	Locations     []string       `json:"locations"`
	Dates         []string       `json:"dates"`
	Regulations   []string       `json:"regulations"`
	Other         []TaggedEntity `json:"other"`
}

// TaggedEntity is an entity span outside the known categories, kept with
// its raw oracle label.
type TaggedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// KeyTerm is a ranked term with its grammatical context.
type KeyTerm struct {
	Text  string  `json:"text"`
	Lemma string  `json:"lemma"`
	POS   string  `json:"pos"`
	Score float64 `json:"score"`
}

// Topic is a noun phrase with its syntactic head.
type Topic struct {
	Text      string `json:"text"`
	Head      string `json:"head"`
	HeadLemma string `json:"headLemma"`
}

// ActionVerb pairs a verb with its objects.
type ActionVerb struct {
	Verb    string   `json:"verb"`
	Lemma   string   `json:"lemma"`
	Objects []string `json:"objects"`
	IsRoot  bool     `json:"isRoot"`
}

// RiskClassification is the keyword-lexicon risk verdict for a text.
type RiskClassification struct {
	Level      RiskLevel `json:"level"`
	HighHits   int       `json:"highHits"`
	MediumHits int       `json:"mediumHits"`
	LowHits    int       `json:"lowHits"`
	Confidence float64   `json:"confidence"`
}

// DomainClassification labels a text with its subject domain.
type DomainClassification struct {
	Domain     string             `json:"domain"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}

// ComplexityClassification grades reading complexity.
type ComplexityClassification struct {
	Level             string  `json:"level"`
	AvgSentenceLength float64 `json:"avgSentenceLength"`
	AvgWordLength     float64 `json:"avgWordLength"`
	VocabRichness     float64 `json:"vocabRichness"`
	TechnicalDensity  float64 `json:"technicalDensity"`
	Score             float64 `json:"score"`
}

// SentimentClassification is the lexicon polarity verdict.
type SentimentClassification struct {
	Label         string  `json:"label"`
	Polarity      float64 `json:"polarity"` // [-1, 1]
	PositiveWords int     `json:"positiveWords"`
	NegativeWords int     `json:"negativeWords"`
}

// Relation is a subject-verb-object triple extracted from one sentence.
type Relation struct {
	Subjects []string `json:"subjects"`
	Verb     string   `json:"verb"`
	Objects  []string `json:"objects"`
}

// LinguisticFeatures is everything the extractor derives from one text.
// Ephemeral: recomputed per request, never persisted.
type LinguisticFeatures struct {
	Entities   EntitySet                `json:"entities"`
	KeyTerms   []KeyTerm                `json:"keyTerms"`
	Topics     []Topic                  `json:"topics"`
	Actions    []ActionVerb             `json:"actions"`
	Risk       RiskClassification       `json:"risk"`
	Domain     DomainClassification     `json:"domain"`
	Complexity ComplexityClassification `json:"complexity"`
	Sentiment  SentimentClassification  `json:"sentiment"`
	Relations  []Relation               `json:"relations"`
	WordCount  int                      `json:"wordCount"`
	SentCount  int                      `json:"sentenceCount"`
}

// RankedKeyword is a cross-document keyword with its mean TF-IDF weight.
type RankedKeyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}
