package intent

import (
	"math"
	"strings"
	"unicode"
)

// vector is a sparse, L2-normalized term-weight vector.
type vector map[string]float64

// tfidfModel is fitted once over the reference corpus and never mutated.
type tfidfModel struct {
	idf map[string]float64
}

// tokenize lowercases s and returns runs of two or more word characters.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	var (
		out []string
		cur []rune
	)
	flush := func() {
		if len(cur) >= 2 {
			out = append(out, string(cur))
		}
		cur = cur[:0]
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return out
}

// analyze produces unigrams and bigrams after stop-word removal.
func analyze(s string) []string {
	toks := tokenize(s)
	kept := toks[:0]
	for _, t := range toks {
		if !isStopWord(t) {
			kept = append(kept, t)
		}
	}
	terms := make([]string, 0, 2*len(kept))
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}

// fitTFIDF learns smoothed inverse document frequencies:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func fitTFIDF(corpus []string) *tfidfModel {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, t := range analyze(doc) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}
	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for t, d := range df {
		idf[t] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return &tfidfModel{idf: idf}
}

// transform weights raw term counts by idf and L2-normalizes. Terms outside
// the fitted vocabulary are dropped.
func (m *tfidfModel) transform(s string) vector {
	v := make(vector)
	for _, t := range analyze(s) {
		w, ok := m.idf[t]
		if !ok {
			continue
		}
		v[t] += w
	}
	var norm float64
	for _, w := range v {
		norm += w * w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for t := range v {
		v[t] /= norm
	}
	return v
}

// cosine of two normalized vectors; zero vectors score 0.
func cosine(a, b vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}
