package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository_AddAndGet(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	products, err := productRepo.AddProducts(ctx, newTestProducts()...)
	require.NoError(t, err)

	customers, err := customerRepo.AddCustomers(ctx, &core.Customer{Name: "Alice Example"})
	require.NoError(t, err)

	added, err := txnRepo.AddTransactions(ctx, &core.Transaction{
		ProductId:    products[0].Id,
		CustomerId:   customers[0].Id,
		AmountPaid:   29.99,
		PurchaseDate: time.Now().UTC().Add(-24 * time.Hour),
		Rating:       4.5,
		ReviewText:   "Fits well",
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)

	got, err := txnRepo.GetTransaction(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, products[0].Id, got.ProductId)
	assert.Equal(t, customers[0].Id, got.CustomerId)
	assert.Equal(t, "Fits well", got.ReviewText)

	_, err = txnRepo.GetTransaction(ctx, core.ID(8888))
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestTransactionRepository_GetTransactionsByCustomer(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	products, err := productRepo.AddProducts(ctx, newTestProducts()...)
	require.NoError(t, err)

	customers, err := customerRepo.AddCustomers(ctx,
		&core.Customer{Name: "Alice Example"},
		&core.Customer{Name: "Bob Example"},
	)
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = txnRepo.AddTransactions(ctx,
		&core.Transaction{ProductId: products[0].Id, CustomerId: customers[0].Id, AmountPaid: 29.99, PurchaseDate: now},
		&core.Transaction{ProductId: products[1].Id, CustomerId: customers[0].Id, AmountPaid: 119.99, PurchaseDate: now},
		&core.Transaction{ProductId: products[2].Id, CustomerId: customers[1].Id, AmountPaid: 89.99, PurchaseDate: now},
	)
	require.NoError(t, err)

	txns, err := txnRepo.GetTransactionsByCustomer(ctx, customers[0].Id)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, customers[0].Id, txn.CustomerId)
	}

	t.Run("unknown customer yields empty slice", func(t *testing.T) {
		txns, err := txnRepo.GetTransactionsByCustomer(ctx, core.ID(7777))
		require.NoError(t, err)
		assert.Empty(t, txns)
	})
}

func TestTransactionRepository_FindPurchasedProducts(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	products, err := productRepo.AddProducts(ctx, newTestProducts()...)
	require.NoError(t, err)

	customers, err := customerRepo.AddCustomers(ctx, &core.Customer{Name: "Alice Example"})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = txnRepo.AddTransactions(ctx,
		&core.Transaction{ProductId: products[0].Id, CustomerId: customers[0].Id, AmountPaid: 29.99, PurchaseDate: now},
		// Repeat purchase of the same product must not duplicate it
		&core.Transaction{ProductId: products[0].Id, CustomerId: customers[0].Id, AmountPaid: 29.99, PurchaseDate: now},
		// Returned purchases still count as purchase history
		&core.Transaction{ProductId: products[1].Id, CustomerId: customers[0].Id, AmountPaid: 119.99, PurchaseDate: now, Returned: true},
	)
	require.NoError(t, err)

	purchased, err := txnRepo.FindPurchasedProducts(ctx, customers[0].Id)
	require.NoError(t, err)
	require.Len(t, purchased, 2)
	assert.Equal(t, products[0].Id, purchased[0].Id)
	assert.Equal(t, products[1].Id, purchased[1].Id)

	t.Run("deleted products are skipped", func(t *testing.T) {
		require.NoError(t, productRepo.DeleteProducts(ctx, products[1].Id))

		purchased, err := txnRepo.FindPurchasedProducts(ctx, customers[0].Id)
		require.NoError(t, err)
		require.Len(t, purchased, 1)
		assert.Equal(t, products[0].Id, purchased[0].Id)
	})

	t.Run("customer with no purchases", func(t *testing.T) {
		purchased, err := txnRepo.FindPurchasedProducts(ctx, core.ID(7777))
		require.NoError(t, err)
		assert.Empty(t, purchased)
	})
}

func TestCustomerRepository_Roundtrip(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := customerRepo.AddCustomers(ctx, &core.Customer{
		Name:    "Alice Example",
		Age:     34,
		Gender:  core.GenderFemale,
		City:    "Lisbon",
		Country: "Portugal",
		Email:   "alice@example.com",
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	got, err := customerRepo.GetCustomer(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", got.Name)
	assert.Equal(t, core.GenderFemale, got.Gender)

	many, err := customerRepo.GetCustomers(ctx, added[0].Id, core.ID(5555))
	require.NoError(t, err)
	assert.Len(t, many, 1)

	require.NoError(t, customerRepo.DeleteCustomers(ctx, added[0].Id))
	_, err = customerRepo.GetCustomer(ctx, added[0].Id)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
