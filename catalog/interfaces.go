package catalog

import (
	"context"

	"github.com/poiesic/shoprank/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ProductRepository provides operations for managing catalog products.
type ProductRepository interface {
	Repository
	// AddProducts adds one or more products to the catalog.
	// For products with ID=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns the products with generated IDs and timestamps populated.
	AddProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)

	// UpdateProducts updates existing products.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any product doesn't exist.
	UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error)

	// DeleteProducts removes products by their IDs.
	// Returns ErrNotFound if any product doesn't exist.
	DeleteProducts(ctx context.Context, ids ...core.ID) error

	// GetProduct retrieves a single product by ID.
	// Returns ErrNotFound if the product doesn't exist.
	GetProduct(ctx context.Context, id core.ID) (*core.Product, error)

	// GetProducts retrieves multiple products by their IDs.
	// Returns only the products that exist (no error for missing products).
	GetProducts(ctx context.Context, ids ...core.ID) ([]*core.Product, error)

	// FindProducts retrieves products matching the filter, in stable
	// catalog iteration order. A nil filter matches everything.
	FindProducts(ctx context.Context, filter *core.ProductFilter) ([]*core.Product, error)

	// FindUnpurchasedProducts retrieves products whose IDs are not in the
	// excluded set, in stable catalog iteration order.
	FindUnpurchasedProducts(ctx context.Context, excluded map[core.ID]struct{}) ([]*core.Product, error)
}

// CustomerRepository provides operations for managing customers.
type CustomerRepository interface {
	Repository
	// AddCustomers adds one or more customers.
	// For customers with ID=0, generates new IDs from sequence.
	AddCustomers(ctx context.Context, customers ...*core.Customer) ([]*core.Customer, error)

	// GetCustomer retrieves a single customer by ID.
	// Returns ErrNotFound if the customer doesn't exist.
	GetCustomer(ctx context.Context, id core.ID) (*core.Customer, error)

	// GetCustomers retrieves multiple customers by their IDs.
	// Returns only the customers that exist (no error for missing customers).
	GetCustomers(ctx context.Context, ids ...core.ID) ([]*core.Customer, error)

	// DeleteCustomers removes customers by their IDs.
	// Returns ErrNotFound if any customer doesn't exist.
	DeleteCustomers(ctx context.Context, ids ...core.ID) error
}

// TransactionRepository provides operations for managing purchase transactions.
type TransactionRepository interface {
	Repository
	// AddTransactions adds one or more transactions.
	// For transactions with ID=0, generates new IDs from sequence.
	// Also maintains the customer purchase index.
	AddTransactions(ctx context.Context, txns ...*core.Transaction) ([]*core.Transaction, error)

	// GetTransaction retrieves a single transaction by ID.
	// Returns ErrNotFound if the transaction doesn't exist.
	GetTransaction(ctx context.Context, id core.ID) (*core.Transaction, error)

	// GetTransactionsByCustomer retrieves all transactions recorded for a
	// customer, in insertion order. An unknown customer yields an empty slice.
	GetTransactionsByCustomer(ctx context.Context, customerID core.ID) ([]*core.Transaction, error)

	// FindPurchasedProducts retrieves the distinct products a customer has
	// any transaction for, including returned purchases, in first-purchase
	// order. An unknown customer yields an empty slice.
	FindPurchasedProducts(ctx context.Context, customerID core.ID) ([]*core.Product, error)
}

// Catalog is the read-side view the rankers consume. It is a snapshot
// interface: implementations never let rankers write through it.
type Catalog interface {
	// FindProducts retrieves filter-matching products in stable order.
	FindProducts(ctx context.Context, filter *core.ProductFilter) ([]*core.Product, error)

	// FindPurchasedProducts retrieves the distinct products a customer purchased.
	FindPurchasedProducts(ctx context.Context, customerID core.ID) ([]*core.Product, error)

	// FindUnpurchasedProducts retrieves products outside the excluded ID set.
	FindUnpurchasedProducts(ctx context.Context, excluded map[core.ID]struct{}) ([]*core.Product, error)
}
