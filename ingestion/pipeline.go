package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/shoprank/ai"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// Pipeline orchestrates the ingestion of product records.
// Products are validated and stored synchronously; embedding generation
// happens asynchronously on a worker pool.
type Pipeline struct {
	productRepository catalog.ProductRepository
	embeddingPool     *ants.Pool
	embeddingProc     processor
	inflight          sync.WaitGroup
	logger            *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	productRepository catalog.ProductRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if productRepository == nil {
		return nil, ErrProductRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		productRepository: productRepository,
		embeddingPool:     embeddingPool,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	embeddingProc, err := newEmbeddingProcessor(productRepository, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// IngestProducts validates and stores products, then generates embeddings
// asynchronously. All products must pass validation before any are stored.
// Errors during async processing are logged but do not fail the ingestion.
func (p *Pipeline) IngestProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	for _, product := range products {
		if err := core.ValidateProduct(product); err != nil {
			return nil, fmt.Errorf("%w: %q", err, product.Name)
		}
	}

	added, err := p.productRepository.AddProducts(ctx, products...)
	if err != nil {
		return nil, err
	}

	if len(added) == 0 {
		return added, nil
	}

	ids := make([]core.ID, len(added))
	for i, product := range added {
		ids[i] = product.Id
	}

	p.inflight.Add(1)
	submitErr := p.embeddingPool.Submit(func() {
		defer p.inflight.Done()
		if err := p.embeddingProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
			return
		}
		if err := p.embeddingProc.checkpoint(); err != nil {
			p.logger.Error("error applying embedding checkpoint", "err", err)
		}
	})
	if submitErr != nil {
		p.inflight.Done()
		p.logger.Error("error submitting embedding work", "err", submitErr)
	}

	return added, nil
}

// Wait blocks until all submitted embedding work has finished.
func (p *Pipeline) Wait() {
	p.inflight.Wait()
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
