package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// ProductRepository implements catalog.ProductRepository for BadgerDB.
type ProductRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(backend *Backend) (*ProductRepository, error) {
	idSeq, err := backend.GetSequence(productIDSeq)
	if err != nil {
		return nil, err
	}

	return &ProductRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ProductRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ProductRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddProducts adds one or more products to the catalog.
func (r *ProductRepository) AddProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, product := range products {
			if product.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				product.Id = core.ID(nextID)
			}

			product.InsertedAt = time.Now().UTC()
			product.UpdatedAt = product.InsertedAt

			key := makeProductKey(product.Id)
			value := catalog.MarshalProduct(product)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return products, err
}

// UpdateProducts updates existing products.
func (r *ProductRepository) UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, product := range products {
			key := makeProductKey(product.Id)

			old, err := readProduct(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return catalog.ErrNotFound
			}

			product.UpdatedAt = time.Now().UTC()

			value := catalog.MarshalProduct(product)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return products, err
}

// DeleteProducts removes products by their IDs.
func (r *ProductRepository) DeleteProducts(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeProductKey(id)

			product, err := readProduct(tx, key)
			if err != nil {
				return err
			}
			if product == nil {
				return catalog.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetProduct retrieves a single product by ID.
func (r *ProductRepository) GetProduct(ctx context.Context, id core.ID) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProductKey(id)
		var err error
		result, err = readProduct(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return catalog.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetProducts retrieves multiple products by their IDs.
func (r *ProductRepository) GetProducts(ctx context.Context, ids ...core.ID) ([]*core.Product, error) {
	var result []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeProductKey(id)
			product, err := readProduct(tx, key)
			if err != nil {
				return err
			}
			if product != nil {
				result = append(result, product)
			}
		}
		return nil
	}, false)
	return result, err
}

// FindProducts retrieves products matching the filter, in key order.
// Filters are evaluated as a conjunctive predicate during the scan; a nil
// filter matches everything. The scan order is deterministic, which gives
// callers the stable retrieval order tie-breaking relies on.
func (r *ProductRepository) FindProducts(ctx context.Context, filter *core.ProductFilter) ([]*core.Product, error) {
	var results []*core.Product

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var product *core.Product
			err := iter.Item().Value(func(val []byte) error {
				var err error
				product, err = catalog.UnmarshalProduct(val)
				return err
			})
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}

			if filter.Matches(product) {
				results = append(results, product)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// FindUnpurchasedProducts retrieves products whose IDs are not in the
// excluded set, in the same deterministic scan order as FindProducts.
func (r *ProductRepository) FindUnpurchasedProducts(ctx context.Context, excluded map[core.ID]struct{}) ([]*core.Product, error) {
	var results []*core.Product

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var product *core.Product
			err := iter.Item().Value(func(val []byte) error {
				var err error
				product, err = catalog.UnmarshalProduct(val)
				return err
			})
			if err != nil {
				return err
			}
			if product == nil {
				continue
			}

			if _, skip := excluded[product.Id]; skip {
				continue
			}
			results = append(results, product)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// readProduct reads a product from the transaction.
func readProduct(tx *badger.Txn, key []byte) (*core.Product, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var product *core.Product
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		product, unmarshalErr = catalog.UnmarshalProduct(val)
		return unmarshalErr
	})
	return product, err
}
