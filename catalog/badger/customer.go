package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// CustomerRepository implements catalog.CustomerRepository for BadgerDB.
type CustomerRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ catalog.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(backend *Backend) (*CustomerRepository, error) {
	idSeq, err := backend.GetSequence(customerIDSeq)
	if err != nil {
		return nil, err
	}

	return &CustomerRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CustomerRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *CustomerRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddCustomers adds one or more customers.
func (r *CustomerRepository) AddCustomers(ctx context.Context, customers ...*core.Customer) ([]*core.Customer, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, customer := range customers {
			if customer.Id == 0 {
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
				customer.Id = core.ID(nextID)
			}

			customer.InsertedAt = time.Now().UTC()
			customer.UpdatedAt = customer.InsertedAt

			key := makeCustomerKey(customer.Id)
			value := catalog.MarshalCustomer(customer)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return customers, err
}

// GetCustomer retrieves a single customer by ID.
func (r *CustomerRepository) GetCustomer(ctx context.Context, id core.ID) (*core.Customer, error) {
	var result *core.Customer
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCustomerKey(id)
		var err error
		result, err = readCustomer(tx, key)
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

// GetCustomers retrieves multiple customers by their IDs.
func (r *CustomerRepository) GetCustomers(ctx context.Context, ids ...core.ID) ([]*core.Customer, error) {
	var result []*core.Customer
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCustomerKey(id)
			customer, err := readCustomer(tx, key)
			if err != nil {
				return err
			}
			if customer != nil {
				result = append(result, customer)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeleteCustomers removes customers by their IDs.
func (r *CustomerRepository) DeleteCustomers(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCustomerKey(id)

			customer, err := readCustomer(tx, key)
			if err != nil {
				return err
			}
			if customer == nil {
				return catalog.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readCustomer reads a customer from the transaction.
func readCustomer(tx *badger.Txn, key []byte) (*core.Customer, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var customer *core.Customer
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		customer, unmarshalErr = catalog.UnmarshalCustomer(val)
		return unmarshalErr
	})
	return customer, err
}
