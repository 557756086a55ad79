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

	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

const (
	// DefaultBatchSize is the default number of products to process in each batch
	DefaultBatchSize = 100
)

// ProductIterator iterates over all catalog products in batches.
type ProductIterator struct {
	repo      catalog.ProductRepository
	batchSize int
}

// NewProductIterator creates a new product iterator.
// batchSize: number of products to process in each batch (must be > 0)
func NewProductIterator(repo catalog.ProductRepository, batchSize int) *ProductIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ProductIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all products, calling fn for each batch.
// Iteration stops on first error from fn or when all products are processed.
// Context cancellation is checked between batches.
func (it *ProductIterator) ForEach(ctx context.Context, fn func([]*core.Product) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// A nil filter matches the whole catalog
	products, err := it.repo.FindProducts(ctx, nil)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		return nil
	}

	for i := 0; i < len(products); i += it.batchSize {
		end := i + it.batchSize
		if end > len(products) {
			end = len(products)
		}

		if err := fn(products[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
