package rank

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// CollaborativeRecommender suggests products a customer has not bought yet,
// scored by tag overlap with the customer's purchase history.
type CollaborativeRecommender struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// RecommenderOption configures a CollaborativeRecommender.
type RecommenderOption func(*CollaborativeRecommender) error

// WithRecommenderLogger sets a custom logger.
// Default is slog.Default().
func WithRecommenderLogger(logger *slog.Logger) RecommenderOption {
	return func(r *CollaborativeRecommender) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewCollaborativeRecommender creates a new collaborative recommender.
func NewCollaborativeRecommender(cat catalog.Catalog, opts ...RecommenderOption) (*CollaborativeRecommender, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	r := &CollaborativeRecommender{
		catalog: cat,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Recommend suggests up to maxHits products for a customer based on tag
// overlap with their purchase history. A customer with no purchase history
// yields an empty list, not an error. Verifying that the customer exists is
// the caller's concern.
func (r *CollaborativeRecommender) Recommend(ctx context.Context, customerID core.ID, maxHits int) ([]*core.ScoredProduct, error) {
	if maxHits < 0 {
		return nil, core.ErrInvalidTopN
	}
	if maxHits == 0 {
		return []*core.ScoredProduct{}, nil
	}

	purchased, err := r.catalog.FindPurchasedProducts(ctx, customerID)
	if err != nil {
		r.logger.Error("error retrieving purchase history", "customerId", customerID, "err", err)
		return nil, err
	}
	if len(purchased) == 0 {
		return []*core.ScoredProduct{}, nil
	}

	// Union the tags of everything the customer bought into an interest set
	interests := make(map[string]struct{})
	excluded := make(map[core.ID]struct{}, len(purchased))
	for _, product := range purchased {
		excluded[product.Id] = struct{}{}
		for tag := range product.TagSet() {
			interests[tag] = struct{}{}
		}
	}

	candidates, err := r.catalog.FindUnpurchasedProducts(ctx, excluded)
	if err != nil {
		r.logger.Error("error retrieving unpurchased products", "err", err)
		return nil, err
	}

	results := make([]*core.ScoredProduct, 0, len(candidates))
	for _, product := range candidates {
		var overlap int
		for tag := range product.TagSet() {
			if _, ok := interests[tag]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		results = append(results, &core.ScoredProduct{
			Product: product,
			Score:   float32(overlap),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}

	return results, nil
}
