package rank

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// DefaultFuzzyMinSimilarity is the minimum fuzzy ratio for a match.
const DefaultFuzzyMinSimilarity = 0.6

// Ratio computes a normalized edit-distance similarity between two strings.
// The comparison is case-insensitive and symmetric; 1.0 means the strings
// are equal after case folding, 0.0 means maximally dissimilar.
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	longest := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}

// FuzzyMatcher finds products whose textual fields approximately match
// query terms, tolerating typos and partial words.
type FuzzyMatcher struct {
	catalog       catalog.Catalog
	minSimilarity float64
	logger        *slog.Logger
}

// FuzzyOption configures a FuzzyMatcher.
type FuzzyOption func(*FuzzyMatcher) error

// WithFuzzyMinSimilarity overrides the minimum ratio for a match.
// Default is DefaultFuzzyMinSimilarity.
func WithFuzzyMinSimilarity(min float64) FuzzyOption {
	return func(m *FuzzyMatcher) error {
		m.minSimilarity = min
		return nil
	}
}

// WithFuzzyLogger sets a custom logger.
// Default is slog.Default().
func WithFuzzyLogger(logger *slog.Logger) FuzzyOption {
	return func(m *FuzzyMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewFuzzyMatcher creates a new fuzzy matcher.
func NewFuzzyMatcher(cat catalog.Catalog, opts ...FuzzyOption) (*FuzzyMatcher, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	m := &FuzzyMatcher{
		catalog:       cat,
		minSimilarity: DefaultFuzzyMinSimilarity,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Match finds products approximately matching the query terms.
// Each whitespace-delimited query term is compared against the product name,
// short description, brand, and each tag; a candidate's score is the maximum
// ratio across all term/field pairs, so one strong field match is enough to
// surface a product. Results are ordered by descending score with ties kept
// in retrieval order. No top-N cap is applied at this layer.
func (m *FuzzyMatcher) Match(ctx context.Context, query string, filter *core.ProductFilter) ([]*core.Product, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if err := core.ValidateFilter(filter); err != nil {
		return nil, err
	}

	terms := strings.Fields(query)

	candidates, err := m.catalog.FindProducts(ctx, filter)
	if err != nil {
		m.logger.Error("error retrieving candidate products", "err", err)
		return nil, err
	}

	type scoredCandidate struct {
		product *core.Product
		score   float64
	}

	matches := make([]scoredCandidate, 0, len(candidates))
	for _, product := range candidates {
		best := bestFieldRatio(product, terms)
		if best >= m.minSimilarity {
			matches = append(matches, scoredCandidate{product: product, score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	results := make([]*core.Product, len(matches))
	for i, match := range matches {
		results[i] = match.product
	}
	return results, nil
}

// bestFieldRatio returns the maximum ratio across all query terms and
// matchable product fields.
func bestFieldRatio(product *core.Product, terms []string) float64 {
	fields := make([]string, 0, 3+len(product.Tags))
	fields = append(fields, product.Name, product.ShortDescription, product.Brand)
	fields = append(fields, product.Tags...)

	var best float64
	for _, term := range terms {
		for _, field := range fields {
			if field == "" {
				continue
			}
			if ratio := Ratio(term, field); ratio > best {
				best = ratio
			}
		}
	}
	return best
}
