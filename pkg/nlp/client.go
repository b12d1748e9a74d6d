// Package nlp provides a client for the external linguistic annotation
// service. The service is an opaque oracle: the engines depend only on the
// annotation shapes defined here and must degrade to documented defaults
// when it is unreachable.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Annotator defines the linguistic oracle operations used by the extractor.
type Annotator interface {
	// Annotate runs the full linguistic pipeline over a text.
	Annotate(ctx context.Context, text string) (*Annotation, error)
	// Similarity returns the pairwise vector similarity of two texts in [0,1].
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Token is one token of the annotation stream.
type Token struct {
	Text    string `json:"text"`
	Lemma   string `json:"lemma"`
	POS     string `json:"pos"`
	Dep     string `json:"dep"`
	Head    int    `json:"head"` // index of the syntactic head token
	IsStop  bool   `json:"isStop"`
	IsPunct bool   `json:"isPunct"`
}

// Entity is a named-entity span.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Chunk is a noun-phrase span.
type Chunk struct {
	Text string `json:"text"`
	Root int    `json:"root"` // index of the chunk's root token
}

// Sentence is a token index range [Start, End).
type Sentence struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Annotation is the oracle's full output for one text.
type Annotation struct {
	Tokens    []Token    `json:"tokens"`
	Entities  []Entity   `json:"entities"`
	Chunks    []Chunk    `json:"chunks"`
	Sentences []Sentence `json:"sentences"`
}

// Option configures the HTTP client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps requests per second against the annotation service.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Annotator backed by the annotation service HTTP API.
func NewClient(baseURL string, opts ...Option) Annotator {
	c := &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Annotate(ctx context.Context, text string) (*Annotation, error) {
	body, err := c.post(ctx, "/annotate", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	var result Annotation
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "nlp: unmarshal annotation")
	}
	return &result, nil
}

func (c *httpClient) Similarity(ctx context.Context, a, b string) (float64, error) {
	body, err := c.post(ctx, "/similarity", map[string]string{"a": a, "b": b})
	if err != nil {
		return 0, err
	}

	var result struct {
		Similarity float64 `json:"similarity"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, eris.Wrap(err, "nlp: unmarshal similarity")
	}
	return result.Similarity, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nlp: rate limit wait")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "nlp: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "nlp: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nlp: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nlp: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nlp: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
