package rank

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/shoprank/ai/mock"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog is a deterministic in-memory catalog.Catalog for ranker tests.
// Products are returned in insertion order so retrieval order is predictable.
type stubCatalog struct {
	products  []*core.Product
	purchased map[core.ID][]*core.Product
	findErr   error
}

var _ catalog.Catalog = (*stubCatalog)(nil)

func (s *stubCatalog) FindProducts(ctx context.Context, filter *core.ProductFilter) ([]*core.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	results := make([]*core.Product, 0, len(s.products))
	for _, product := range s.products {
		if filter == nil || filter.Matches(product) {
			results = append(results, product)
		}
	}
	return results, nil
}

func (s *stubCatalog) FindPurchasedProducts(ctx context.Context, customerID core.ID) ([]*core.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.purchased[customerID], nil
}

func (s *stubCatalog) FindUnpurchasedProducts(ctx context.Context, excluded map[core.ID]struct{}) ([]*core.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	results := make([]*core.Product, 0, len(s.products))
	for _, product := range s.products {
		if _, skip := excluded[product.Id]; !skip {
			results = append(results, product)
		}
	}
	return results, nil
}

// embeddingAt builds a unit vector whose cosine against [1, 0] equals score.
func embeddingAt(score float64) []float32 {
	return []float32{float32(score), float32(math.Sqrt(1 - score*score))}
}

func queryEmbedder(t *testing.T) *mock.MockEmbedder {
	t.Helper()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	return embedder
}

func TestNewSimilarityRanker(t *testing.T) {
	cat := &stubCatalog{}
	embedder := mock.NewMockEmbedder()

	t.Run("valid configuration", func(t *testing.T) {
		ranker, err := NewSimilarityRanker(cat, embedder)
		require.NoError(t, err)
		assert.NotNil(t, ranker)
		ranker.Release()
	})

	t.Run("with custom threshold", func(t *testing.T) {
		ranker, err := NewSimilarityRanker(cat, embedder, WithSimilarityThreshold(0.5))
		require.NoError(t, err)
		assert.Equal(t, float32(0.5), ranker.threshold)
		ranker.Release()
	})

	t.Run("with pool size", func(t *testing.T) {
		ranker, err := NewSimilarityRanker(cat, embedder, WithScoringPoolSize(4))
		require.NoError(t, err)
		assert.NotNil(t, ranker)
		ranker.Release()
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := NewSimilarityRanker(nil, embedder)
		assert.Equal(t, ErrCatalogRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSimilarityRanker(cat, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestSimilarityRanker_Rank(t *testing.T) {
	// Query embeds to [1, 0]; stored product embeddings are unit vectors
	// positioned so their cosine against the query is the given score.
	summer := &core.Product{Id: 1, Name: "Summer Shirt", Tags: []string{"summer", "cotton"}, Embedding: embeddingAt(0.42)}
	winter := &core.Product{Id: 2, Name: "Winter Sweater", Tags: []string{"winter", "wool"}, Embedding: embeddingAt(0.10)}
	cat := &stubCatalog{products: []*core.Product{summer, winter}}

	ranker, err := NewSimilarityRanker(cat, queryEmbedder(t))
	require.NoError(t, err)
	defer ranker.Release()

	ctx := context.Background()

	t.Run("threshold excludes weak matches", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "light cotton shirt", nil, 5)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, summer.Id, results[0].Product.Id)
		assert.InDelta(t, 0.42, float64(results[0].Score), 1e-6)
	})

	t.Run("results never score below threshold", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "anything", nil, 5)
		require.NoError(t, err)
		for _, result := range results {
			assert.GreaterOrEqual(t, result.Score, float32(DefaultSimilarityThreshold))
		}
	})

	t.Run("idempotent for identical inputs", func(t *testing.T) {
		first, err := ranker.Rank(ctx, "light cotton shirt", nil, 5)
		require.NoError(t, err)
		second, err := ranker.Rank(ctx, "light cotton shirt", nil, 5)
		require.NoError(t, err)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Product.Id, second[i].Product.Id)
			assert.Equal(t, first[i].Score, second[i].Score)
		}
	})
}

func TestSimilarityRanker_Ordering(t *testing.T) {
	products := []*core.Product{
		{Id: 1, Name: "A", Embedding: embeddingAt(0.5)},
		{Id: 2, Name: "B", Embedding: embeddingAt(0.9)},
		{Id: 3, Name: "C", Embedding: embeddingAt(0.5)},
		{Id: 4, Name: "D", Embedding: embeddingAt(0.7)},
	}
	cat := &stubCatalog{products: products}

	ranker, err := NewSimilarityRanker(cat, queryEmbedder(t))
	require.NoError(t, err)
	defer ranker.Release()

	results, err := ranker.Rank(context.Background(), "query", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Non-increasing scores
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}

	// Ties keep retrieval order: A (id 1) before C (id 3)
	assert.Equal(t, core.ID(2), results[0].Product.Id)
	assert.Equal(t, core.ID(4), results[1].Product.Id)
	assert.Equal(t, core.ID(1), results[2].Product.Id)
	assert.Equal(t, core.ID(3), results[3].Product.Id)
}

func TestSimilarityRanker_MaxHits(t *testing.T) {
	products := make([]*core.Product, 0, 8)
	for i := 1; i <= 8; i++ {
		products = append(products, &core.Product{Id: core.ID(i), Name: "P", Embedding: embeddingAt(0.8)})
	}
	cat := &stubCatalog{products: products}

	embedder := queryEmbedder(t)
	ranker, err := NewSimilarityRanker(cat, embedder)
	require.NoError(t, err)
	defer ranker.Release()

	ctx := context.Background()

	t.Run("caps results at maxHits", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "query", nil, 5)
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})

	t.Run("zero maxHits yields empty without embedding", func(t *testing.T) {
		embedder.Reset()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0}, nil
		}
		results, err := ranker.Rank(ctx, "query", nil, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, 0, embedder.CallCount())
	})

	t.Run("negative maxHits is rejected", func(t *testing.T) {
		_, err := ranker.Rank(ctx, "query", nil, -1)
		assert.ErrorIs(t, err, core.ErrInvalidTopN)
	})
}

func TestSimilarityRanker_InputRejection(t *testing.T) {
	cat := &stubCatalog{products: []*core.Product{{Id: 1, Name: "P", Embedding: embeddingAt(0.9)}}}
	embedder := queryEmbedder(t)

	ranker, err := NewSimilarityRanker(cat, embedder)
	require.NoError(t, err)
	defer ranker.Release()

	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		embedder.Reset()
		_, err := ranker.Rank(ctx, "   ", nil, 5)
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
		assert.Equal(t, 0, embedder.CallCount())
	})

	t.Run("inverted price range", func(t *testing.T) {
		embedder.Reset()
		filter := &core.ProductFilter{MinPrice: price(100), MaxPrice: price(10)}
		_, err := ranker.Rank(ctx, "query", filter, 5)
		assert.ErrorIs(t, err, core.ErrInvalidPriceRange)
		assert.Equal(t, 0, embedder.CallCount())
	})
}

func price(v float64) *float64 { return &v }

func TestSimilarityRanker_EmbeddingReuse(t *testing.T) {
	ctx := context.Background()

	t.Run("stored embedding with matching dimension is reused", func(t *testing.T) {
		cat := &stubCatalog{products: []*core.Product{
			{Id: 1, Name: "P", Embedding: embeddingAt(0.9)},
		}}
		embedder := queryEmbedder(t)

		ranker, err := NewSimilarityRanker(cat, embedder)
		require.NoError(t, err)
		defer ranker.Release()

		_, err = ranker.Rank(ctx, "query", nil, 5)
		require.NoError(t, err)
		// Only the query itself was embedded
		assert.Equal(t, 1, embedder.CallCount())
	})

	t.Run("missing embedding is computed fresh", func(t *testing.T) {
		cat := &stubCatalog{products: []*core.Product{
			{Id: 1, Name: "Summer Shirt", Tags: []string{"cotton"}},
		}}
		embedder := queryEmbedder(t)

		ranker, err := NewSimilarityRanker(cat, embedder)
		require.NoError(t, err)
		defer ranker.Release()

		results, err := ranker.Rank(ctx, "query", nil, 5)
		require.NoError(t, err)
		// Query plus one candidate
		assert.Equal(t, 2, embedder.CallCount())
		// Identical embeddings, so the candidate scores 1.0
		require.Len(t, results, 1)
		assert.InDelta(t, 1.0, float64(results[0].Score), 1e-6)
	})

	t.Run("dimension mismatch triggers recompute", func(t *testing.T) {
		cat := &stubCatalog{products: []*core.Product{
			{Id: 1, Name: "P", Embedding: []float32{0.1, 0.2, 0.3}},
		}}
		embedder := queryEmbedder(t)

		ranker, err := NewSimilarityRanker(cat, embedder)
		require.NoError(t, err)
		defer ranker.Release()

		_, err = ranker.Rank(ctx, "query", nil, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, embedder.CallCount())
	})
}

func TestSimilarityRanker_ParallelFreshEmbedding(t *testing.T) {
	// Many candidates without stored embeddings, so every score goes
	// through the embedder concurrently on the scoring pool.
	products := make([]*core.Product, 0, 64)
	for i := 1; i <= 64; i++ {
		products = append(products, &core.Product{Id: core.ID(i), Name: "Cotton Shirt", Tags: []string{"cotton"}})
	}
	cat := &stubCatalog{products: products}

	embedder := mock.NewMockEmbedder()
	ranker, err := NewSimilarityRanker(cat, embedder, WithScoringPoolSize(8))
	require.NoError(t, err)
	defer ranker.Release()

	results, err := ranker.Rank(context.Background(), "cotton shirt", nil, 64)
	require.NoError(t, err)

	// Query plus one embedding per candidate
	assert.Equal(t, 65, embedder.CallCount())

	// Identical descriptive text means identical scores, so the result
	// order must be the retrieval order regardless of worker scheduling.
	require.Len(t, results, 64)
	for i, result := range results {
		assert.Equal(t, core.ID(i+1), result.Product.Id)
		assert.Equal(t, results[0].Score, result.Score)
	}
}

func TestSimilarityRanker_DependencyFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("embedder failure propagates", func(t *testing.T) {
		cat := &stubCatalog{products: []*core.Product{{Id: 1, Name: "P"}}}
		embedder := mock.NewMockEmbedder()
		wantErr := errors.New("model service unavailable")
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, wantErr
		}

		ranker, err := NewSimilarityRanker(cat, embedder)
		require.NoError(t, err)
		defer ranker.Release()

		_, err = ranker.Rank(ctx, "query", nil, 5)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("catalog failure propagates", func(t *testing.T) {
		wantErr := errors.New("storage offline")
		cat := &stubCatalog{findErr: wantErr}

		ranker, err := NewSimilarityRanker(cat, queryEmbedder(t))
		require.NoError(t, err)
		defer ranker.Release()

		_, err = ranker.Rank(ctx, "query", nil, 5)
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestSimilarityRanker_EmptyCatalog(t *testing.T) {
	cat := &stubCatalog{}
	ranker, err := NewSimilarityRanker(cat, queryEmbedder(t))
	require.NoError(t, err)
	defer ranker.Release()

	results, err := ranker.Rank(context.Background(), "query", nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSimilarityRanker_Monitor(t *testing.T) {
	cat := &stubCatalog{products: []*core.Product{
		{Id: 1, Name: "P", Embedding: embeddingAt(0.9)},
		{Id: 2, Name: "Q", Embedding: embeddingAt(0.1)},
	}}
	ranker, err := NewSimilarityRanker(cat, queryEmbedder(t))
	require.NoError(t, err)
	defer ranker.Release()

	monitor := &recordingMonitor{}
	results, err := ranker.RankWithMonitor(context.Background(), "query", nil, 5, monitor)
	require.NoError(t, err)

	assert.Equal(t, "query", monitor.query)
	assert.Equal(t, []uint64{1, 2}, monitor.candidateIds)
	assert.Equal(t, 2, monitor.scored)
	assert.Equal(t, 1, monitor.hits)
	assert.Equal(t, len(results), monitor.finished)
}

// recordingMonitor captures monitor callbacks for assertions.
type recordingMonitor struct {
	query        string
	candidateIds []uint64
	scored       int
	hits         int
	finished     int
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)                  { m.query = query }
func (m *recordingMonitor) AfterCandidateRetrieval(ids []uint64) { m.candidateIds = ids }
func (m *recordingMonitor) Scored(_ *core.Product, _ float32)   { m.scored++ }
func (m *recordingMonitor) Hit(_ *core.Product, _ float32)      { m.hits++ }
func (m *recordingMonitor) Finish(results []*core.ScoredProduct) { m.finished = len(results) }
