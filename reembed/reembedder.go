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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/shoprank/ai"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of products to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of products)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of the whole product catalog.
type Reembedder struct {
	repo      catalog.ProductRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ProductIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo catalog.ProductRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewProductIterator(repo, config.BatchSize)

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the reembedding operation.
// Every product in the catalog is reembedded with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	allProducts, err := r.repo.FindProducts(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to query products: %w", err)
	}

	totalProducts := len(allProducts)
	if totalProducts == 0 {
		fmt.Fprintf(r.progress, "No products found in catalog (0 products)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d products (batch size: %d)\n",
		totalProducts, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalProducts, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, func(products []*core.Product) error {
		if err := r.processor.Process(ctx, products); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(products)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d products in %v (%.1f products/sec)\n",
		totalProducts, elapsed.Round(time.Second), float64(totalProducts)/elapsed.Seconds())

	return nil
}
