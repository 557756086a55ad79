// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package shoprank

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/shoprank/ai"
	"github.com/poiesic/shoprank/ai/openai"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/catalog/badger"
	"github.com/poiesic/shoprank/core"
	"github.com/poiesic/shoprank/ingestion"
	"github.com/poiesic/shoprank/rank"
	"github.com/poiesic/shoprank/reembed"
)

// Database bundles the catalog storage, the AI provider, and factories for
// the rankers into one handle.
type Database struct {
	backend      *badger.Backend
	productRepo  catalog.ProductRepository
	customerRepo catalog.CustomerRepository
	txnRepo      catalog.TransactionRepository
	catalogView  catalog.Catalog
	provider     ai.AIProvider
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the AI service configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithInMemory opens the storage backend in memory, without touching disk.
// Intended for tests and experiments; all data is lost on Close.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the catalog at filePath and wires up all services.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	productRepo, err := badger.NewProductRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	customerRepo, err := badger.NewCustomerRepository(backend)
	if err != nil {
		productRepo.Close()
		backend.Close()
		return nil, err
	}

	txnRepo, err := badger.NewTransactionRepository(backend)
	if err != nil {
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:      backend,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txnRepo:      txnRepo,
		catalogView:  badger.NewCatalog(productRepo, txnRepo),
		provider:     provider,
		logger:       slog.Default(),
	}, nil
}

// Close shuts down the AI provider, the repositories, and the backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.txnRepo.Close(); err != nil {
		db.logger.Error("error closing transaction repository", "err", err)
		return err
	}
	if err := db.customerRepo.Close(); err != nil {
		db.logger.Error("error closing customer repository", "err", err)
		return err
	}
	if err := db.productRepo.Close(); err != nil {
		db.logger.Error("error closing product repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ProductRepository returns the product storage.
func (db *Database) ProductRepository() catalog.ProductRepository {
	return db.productRepo
}

// CustomerRepository returns the customer storage.
func (db *Database) CustomerRepository() catalog.CustomerRepository {
	return db.customerRepo
}

// TransactionRepository returns the transaction storage.
func (db *Database) TransactionRepository() catalog.TransactionRepository {
	return db.txnRepo
}

// Catalog returns the ranker-facing read view over the storage.
func (db *Database) Catalog() catalog.Catalog {
	return db.catalogView
}

// NewIngestionPipeline creates a pipeline that stores products and embeds
// them asynchronously.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.productRepo, db.provider, opts...)
}

// NewSimilarityRanker creates a ranker for semantic product search.
func (db *Database) NewSimilarityRanker(opts ...rank.SimilarityOption) (*rank.SimilarityRanker, error) {
	return rank.NewSimilarityRanker(db.catalogView, db.provider.Embedder(), opts...)
}

// NewFuzzyMatcher creates a matcher for typo-tolerant product search.
func (db *Database) NewFuzzyMatcher(opts ...rank.FuzzyOption) (*rank.FuzzyMatcher, error) {
	return rank.NewFuzzyMatcher(db.catalogView, opts...)
}

// NewRecommender creates a collaborative recommender.
func (db *Database) NewRecommender(opts ...rank.RecommenderOption) (*rank.CollaborativeRecommender, error) {
	return rank.NewCollaborativeRecommender(db.catalogView, opts...)
}

// NewReembedder creates a reembedder over the whole product catalog.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.productRepo, db.provider.Embedder(), config, progress)
}

// RecommendForCustomer recommends products for a known customer.
// Unlike the recommender itself, this rejects identifiers that don't exist
// in the catalog with catalog.ErrNotFound.
func (db *Database) RecommendForCustomer(ctx context.Context, customerID core.ID, maxHits int) ([]*core.ScoredProduct, error) {
	if _, err := db.customerRepo.GetCustomer(ctx, customerID); err != nil {
		return nil, fmt.Errorf("customer %d: %w", customerID, err)
	}

	recommender, err := db.NewRecommender()
	if err != nil {
		return nil, err
	}
	return recommender.Recommend(ctx, customerID, maxHits)
}
