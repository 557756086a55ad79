package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// TransactionRepository implements catalog.TransactionRepository for BadgerDB.
// Besides the primary records it maintains a customer purchase index so the
// recommender can reconstruct a purchase set without scanning every transaction.
type TransactionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ catalog.TransactionRepository = (*TransactionRepository)(nil)

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(backend *Backend) (*TransactionRepository, error) {
	idSeq, err := backend.GetSequence(txnIDSeq)
	if err != nil {
		return nil, err
	}

	return &TransactionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *TransactionRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *TransactionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddTransactions adds one or more transactions and updates the purchase index.
func (r *TransactionRepository) AddTransactions(ctx context.Context, txns ...*core.Transaction) ([]*core.Transaction, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, txn := range txns {
			if txn.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				txn.Id = core.ID(nextID)
			}

			txn.InsertedAt = time.Now().UTC()
			txn.UpdatedAt = txn.InsertedAt

			// Store primary record
			key := makeTxnKey(txn.Id)
			value := catalog.MarshalTransaction(txn)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update purchase index: value is the purchased product ID
			indexKey := makeTxnCustomerKey(txn.CustomerId, txn.Id)
			if err := tx.Set(indexKey, catalog.MarshalID(txn.ProductId)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return txns, err
}

// GetTransaction retrieves a single transaction by ID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, id core.ID) (*core.Transaction, error) {
	var result *core.Transaction
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTxnKey(id)
		var err error
		result, err = readTransaction(tx, key)
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

// GetTransactionsByCustomer retrieves all transactions recorded for a customer.
// An unknown customer yields an empty slice, not an error.
func (r *TransactionRepository) GetTransactionsByCustomer(ctx context.Context, customerID core.ID) ([]*core.Transaction, error) {
	var results []*core.Transaction
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialTxnCustomerKey(customerID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			// Check if key still has our customerID prefix
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// The transaction ID is the trailing 8 bytes of the index key;
			// reading the primary record by key keeps the value format
			// uniform (product ID) for both index consumers.
			txnID := txnIDFromIndexKey(key)
			txn, err := readTransaction(tx, makeTxnKey(txnID))
			if err != nil {
				return err
			}
			if txn != nil {
				results = append(results, txn)
			}
		}
		return nil
	}, false)

	return results, err
}

// FindPurchasedProducts retrieves the distinct products a customer has any
// transaction for, including returned purchases, in first-purchase order.
func (r *TransactionRepository) FindPurchasedProducts(ctx context.Context, customerID core.ID) ([]*core.Product, error) {
	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialTxnCustomerKey(customerID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		seen := make(map[core.ID]struct{})
		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) {
				break
			}
			if slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			// Read the product ID from the index value
			var productID core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				productID, err = catalog.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			if _, dup := seen[productID]; dup {
				continue
			}
			seen[productID] = struct{}{}

			// Look up the full product; skip if it was deleted since
			product, err := readProduct(tx, makeProductKey(productID))
			if err != nil {
				return err
			}
			if product != nil {
				results = append(results, product)
			}
		}
		return nil
	}, false)

	return results, err
}

// txnIDFromIndexKey extracts the transaction ID from a purchase index key.
func txnIDFromIndexKey(key []byte) core.ID {
	var id uint64
	for _, b := range key[len(key)-8:] {
		id = id<<8 | uint64(b)
	}
	return core.ID(id)
}

// readTransaction reads a transaction from the badger transaction.
func readTransaction(tx *badger.Txn, key []byte) (*core.Transaction, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var txn *core.Transaction
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		txn, unmarshalErr = catalog.UnmarshalTransaction(val)
		return unmarshalErr
	})
	return txn, err
}
