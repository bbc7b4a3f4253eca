package intent

import (
	"math"
	"strings"
)

const (
	// MinSimilarity is the vector score a message must exceed before the
	// vector pass is trusted.
	MinSimilarity = 0.1

	keywordBoost      = 0.1
	keywordOnlyWeight = 0.2
	defaultConfidence = 0.1
)

// Result is the outcome of classifying one message.
type Result struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

type reference struct {
	intent string
	vec    vector
}

// Classifier combines exact keyword hits with TF-IDF similarity against the
// catalog keywords. It is immutable after NewClassifier and safe for
// concurrent use.
type Classifier struct {
	catalog *Catalog
	model   *tfidfModel
	refs    []reference
}

func NewClassifier(catalog *Catalog) (*Classifier, error) {
	if catalog == nil {
		return nil, ErrDefaultNotDefined
	}

	var (
		corpus []string
		labels []string
	)
	for _, d := range catalog.defs {
		for _, kw := range d.Keywords {
			corpus = append(corpus, kw)
			labels = append(labels, d.Name)
		}
	}

	model := fitTFIDF(corpus)
	refs := make([]reference, len(corpus))
	for i, kw := range corpus {
		refs[i] = reference{intent: labels[i], vec: model.transform(kw)}
	}
	return &Classifier{catalog: catalog, model: model, refs: refs}, nil
}

func (c *Classifier) Catalog() *Catalog { return c.catalog }

func (c *Classifier) Classify(message string) Result {
	msg := strings.ToLower(message)

	// keyword pass: ties keep the earliest intent in catalog order
	bestKeywordIntent := c.catalog.defaultIntent
	matches := 0
	for _, d := range c.catalog.defs {
		n := 0
		for _, kw := range d.Keywords {
			if strings.Contains(msg, kw) {
				n++
			}
		}
		if n > matches {
			matches = n
			bestKeywordIntent = d.Name
		}
	}

	// vector pass: first maximum wins
	msgVec := c.model.transform(msg)
	maxSim := 0.0
	vectorIntent := ""
	for _, ref := range c.refs {
		sim := cosine(msgVec, ref.vec)
		if vectorIntent == "" || sim > maxSim {
			maxSim = sim
			vectorIntent = ref.intent
		}
	}

	if maxSim > MinSimilarity {
		if matches > 0 {
			return Result{Intent: bestKeywordIntent, Confidence: clamp01(maxSim + keywordBoost*float64(matches))}
		}
		return Result{Intent: vectorIntent, Confidence: clamp01(maxSim)}
	}

	if matches > 0 {
		return Result{Intent: bestKeywordIntent, Confidence: clamp01(keywordOnlyWeight * float64(matches))}
	}
	return Result{Intent: c.catalog.defaultIntent, Confidence: defaultConfidence}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(1, v)
}
