package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/shoprank/ai"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
	"github.com/poiesic/shoprank/rank"
)

// embeddingProcessor generates embeddings for product records from their
// normalized descriptive text.
type embeddingProcessor struct {
	productRepository catalog.ProductRepository
	embedder          ai.Embedder
	lastID            core.ID
	logger            *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(productRepository catalog.ProductRepository, embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if productRepository == nil {
		return nil, ErrProductRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		productRepository: productRepository,
		embedder:          embedder,
		logger:            logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified products.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Info("processing products for embeddings", "products", len(ids))

	// Sort first so checkpointing works correctly
	slices.Sort(ids)

	products, err := ep.productRepository.GetProducts(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving products", "err", err)
		return err
	}
	if len(products) == 0 {
		return nil
	}

	texts := make([]string, len(products))
	for i, product := range products {
		texts[i] = rank.Normalize(product.DescriptiveText())
	}

	ep.logger.Debug("generating embeddings for products", "products", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(products) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(products), len(embeddings))
	}

	for i := range embeddings {
		products[i].Embedding = embeddings[i]
	}

	updated, err := ep.productRepository.UpdateProducts(ctx, products...)
	if err != nil {
		return err
	}

	highestID := updated[len(updated)-1].Id
	if highestID > ep.lastID {
		ep.lastID = highestID
	}

	return nil
}

// checkpoint saves the processor's current state.
// Currently unimplemented - reserved for future checkpointing support.
func (ep *embeddingProcessor) checkpoint() error {
	// TODO: Implement checkpoint storage via repository
	return nil
}
