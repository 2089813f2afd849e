// Package vectorspace builds a shared term-weighted vector space over a small
// corpus and compares documents in it.
//
// The recipe is fixed: lowercase, tokens of two or more word characters,
// English stop words removed, vocabulary capped by corpus frequency, smoothed
// inverse document frequency and L2-normalized rows.
package vectorspace

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"
)

// DefaultMaxFeatures caps the vocabulary when no option is given.
const DefaultMaxFeatures = 5000

// minTokenRunes is the shortest token kept.
const minTokenRunes = 2

// Option configures a Vectorizer.
type Option func(*Vectorizer)

// WithMaxFeatures caps the vocabulary size. Non-positive values are ignored.
func WithMaxFeatures(n int) Option {
	return func(v *Vectorizer) {
		if n > 0 {
			v.maxFeatures = n
		}
	}
}

// Vectorizer turns documents into TF-IDF rows. It holds no state between
// Fit calls and is safe for concurrent use.
type Vectorizer struct {
	maxFeatures int
}

// New creates a Vectorizer.
func New(opts ...Option) *Vectorizer {
	v := &Vectorizer{maxFeatures: DefaultMaxFeatures}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Matrix is a fitted document-term matrix. Row i belongs to document i and
// columns follow Terms, which are sorted ascending.
type Matrix struct {
	Terms []string
	Rows  [][]float64
}

// Dims returns the vocabulary size.
func (m Matrix) Dims() int { return len(m.Terms) }

// Dense copies rows [from, len) into a gonum matrix. It returns nil when the
// slice is empty.
func (m Matrix) Dense(from int) *mat.Dense {
	if from >= len(m.Rows) || len(m.Terms) == 0 {
		return nil
	}
	rows := m.Rows[from:]
	d := mat.NewDense(len(rows), len(m.Terms), nil)
	for i, r := range rows {
		d.SetRow(i, r)
	}
	return d
}

// Fit builds the vocabulary over docs and returns their weighted rows.
// It returns ErrEmptyVocabulary when no document has a usable token.
func (v *Vectorizer) Fit(docs []string) (Matrix, error) {
	counts := make([]map[string]int, len(docs))
	corpus := map[string]int{}
	df := map[string]int{}
	for i, d := range docs {
		c := map[string]int{}
		for _, tok := range Tokenize(d) {
			if IsStopWord(tok) {
				continue
			}
			c[tok]++
			corpus[tok]++
		}
		for tok := range c {
			df[tok]++
		}
		counts[i] = c
	}
	if len(corpus) == 0 {
		return Matrix{}, ErrEmptyVocabulary
	}

	terms := selectTerms(corpus, v.maxFeatures)
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i, c := range counts {
		row := make([]float64, len(terms))
		for tok, cnt := range c {
			if j, ok := index[tok]; ok {
				row[j] = float64(cnt) * idf[j]
			}
		}
		normalize(row)
		rows[i] = row
	}
	return Matrix{Terms: terms, Rows: rows}, nil
}

// selectTerms keeps the limit most frequent terms (ties by term) and returns
// them sorted ascending.
func selectTerms(corpus map[string]int, limit int) []string {
	terms := make([]string, 0, len(corpus))
	for t := range corpus {
		terms = append(terms, t)
	}
	if limit > 0 && len(terms) > limit {
		sort.Slice(terms, func(i, j int) bool {
			if corpus[terms[i]] != corpus[terms[j]] {
				return corpus[terms[i]] > corpus[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:limit]
	}
	sort.Strings(terms)
	return terms
}

func normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}

// Tokenize lowercases s and returns its runs of word characters that are at
// least two runes long.
func Tokenize(s string) []string {
	var (
		out []string
		b   strings.Builder
		n   int
	)
	flush := func() {
		if n >= minTokenRunes {
			out = append(out, b.String())
		}
		b.Reset()
		n = 0
	}
	for _, r := range strings.ToLower(s) {
		if isWordRune(r) {
			b.WriteRune(r)
			n++
			continue
		}
		flush()
	}
	flush()
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
