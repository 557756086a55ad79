package rank

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/shoprank/ai"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

const (
	// DefaultSimilarityThreshold is the minimum cosine similarity for a hit.
	DefaultSimilarityThreshold = 0.3

	// DefaultMaxHits caps the number of results returned by a ranking call.
	DefaultMaxHits = 5
)

// SimilarityRanker ranks catalog products against a free-text query by
// cosine similarity of embeddings.
type SimilarityRanker struct {
	catalog   catalog.Catalog
	embedder  ai.Embedder
	pool      *ants.Pool
	threshold float32
	logger    *slog.Logger
}

// SimilarityOption configures a SimilarityRanker.
type SimilarityOption func(*SimilarityRanker) error

// WithSimilarityThreshold overrides the minimum similarity score.
// Default is DefaultSimilarityThreshold.
func WithSimilarityThreshold(threshold float32) SimilarityOption {
	return func(r *SimilarityRanker) error {
		r.threshold = threshold
		return nil
	}
}

// WithSimilarityLogger sets a custom logger.
// Default is slog.Default().
func WithSimilarityLogger(logger *slog.Logger) SimilarityOption {
	return func(r *SimilarityRanker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithScoringPoolSize sets the worker pool size for per-candidate scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithScoringPoolSize(size int) SimilarityOption {
	return func(r *SimilarityRanker) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// NewSimilarityRanker creates a new similarity ranker.
func NewSimilarityRanker(cat catalog.Catalog, embedder ai.Embedder, opts ...SimilarityOption) (*SimilarityRanker, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &SimilarityRanker{
		catalog:   cat,
		embedder:  embedder,
		pool:      pool,
		threshold: DefaultSimilarityThreshold,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.pool.Release()
			return nil, err
		}
	}

	return r, nil
}

// Release releases the scoring worker pool.
// The ranker should not be used after calling Release.
func (r *SimilarityRanker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Rank searches for products semantically similar to the query.
// Returns up to maxHits results ordered by descending similarity score.
func (r *SimilarityRanker) Rank(ctx context.Context, query string, filter *core.ProductFilter, maxHits int) ([]*core.ScoredProduct, error) {
	return r.RankWithMonitor(ctx, query, filter, maxHits, nil)
}

// RankWithMonitor searches for products semantically similar to the query
// with monitoring. The monitor receives callbacks at each stage.
// Returns up to maxHits results ordered by descending similarity score.
func (r *SimilarityRanker) RankWithMonitor(ctx context.Context, query string, filter *core.ProductFilter, maxHits int, monitor SearchMonitor) ([]*core.ScoredProduct, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	// Input rejection happens before any catalog or embedder call
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if err := core.ValidateFilter(filter); err != nil {
		return nil, err
	}
	if maxHits < 0 {
		return nil, core.ErrInvalidTopN
	}
	if maxHits == 0 {
		return []*core.ScoredProduct{}, nil
	}

	monitor.Start(query)

	queryEmbedding, err := r.embedder.EmbedText(ctx, Normalize(query))
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	candidates, err := r.catalog.FindProducts(ctx, filter)
	if err != nil {
		r.logger.Error("error retrieving candidate products", "err", err)
		return nil, err
	}

	candidateIds := make([]uint64, len(candidates))
	for i, product := range candidates {
		candidateIds[i] = uint64(product.Id)
	}
	monitor.AfterCandidateRetrieval(candidateIds)

	if len(candidates) == 0 {
		results := []*core.ScoredProduct{}
		monitor.Finish(results)
		return results, nil
	}

	// Score candidates concurrently into retrieval-indexed slots so the
	// final ordering never depends on goroutine scheduling.
	scores := make([]float32, len(candidates))
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup

	for i, product := range candidates {
		wg.Add(1)
		task := func(i int, product *core.Product) func() {
			return func() {
				defer wg.Done()
				scores[i], errs[i] = r.scoreCandidate(ctx, product, queryEmbedding)
			}
		}(i, product)

		if submitErr := r.pool.Submit(task); submitErr != nil {
			// Pool unavailable, score inline
			task()
		}
	}
	wg.Wait()

	for i, scoreErr := range errs {
		if scoreErr != nil {
			r.logger.Error("error scoring candidate", "productId", candidates[i].Id, "err", scoreErr)
			return nil, scoreErr
		}
	}

	results := make([]*core.ScoredProduct, 0, len(candidates))
	for i, product := range candidates {
		monitor.Scored(product, scores[i])
		if scores[i] >= r.threshold {
			monitor.Hit(product, scores[i])
			results = append(results, &core.ScoredProduct{
				Product: product,
				Score:   scores[i],
			})
		}
	}

	// Stable sort keeps ties in retrieval order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)

	return results, nil
}

// scoreCandidate computes the similarity between the query embedding and a
// candidate. A stored embedding is reused when its dimension matches the
// query embedding; otherwise the candidate text is embedded fresh.
func (r *SimilarityRanker) scoreCandidate(ctx context.Context, product *core.Product, queryEmbedding []float32) (float32, error) {
	candidateEmbedding := product.Embedding
	if len(candidateEmbedding) != len(queryEmbedding) {
		fresh, err := r.embedder.EmbedText(ctx, Normalize(product.DescriptiveText()))
		if err != nil {
			return 0, err
		}
		candidateEmbedding = fresh
	}

	return CosineSimilarity(queryEmbedding, candidateEmbedding), nil
}
