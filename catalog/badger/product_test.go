package badger

import (
	"context"
	"testing"

	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func newTestProducts() []*core.Product {
	return []*core.Product{
		{
			Name:     "Zara T-Shirt 1001",
			Category: "t-shirt",
			Brand:    "Zara",
			Price:    29.99,
			Currency: "USD",
			Tags:     []string{"casual", "summer", "cotton"},
		},
		{
			Name:     "Nike Shoes 2002",
			Category: "shoes",
			Brand:    "Nike",
			Price:    119.99,
			Currency: "USD",
			Tags:     []string{"sports", "comfortable"},
		},
		{
			Name:     "Zara Dress 3003",
			Category: "dress",
			Brand:    "Zara",
			Price:    89.99,
			Currency: "USD",
			Tags:     []string{"formal", "elegant"},
		},
	}
}

func TestProductRepository_AddAndGet(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := productRepo.AddProducts(ctx, newTestProducts()...)
	require.NoError(t, err)
	require.Len(t, added, 3)

	for _, product := range added {
		assert.NotZero(t, product.Id)
		assert.False(t, product.InsertedAt.IsZero())

		got, err := productRepo.GetProduct(ctx, product.Id)
		require.NoError(t, err)
		assert.Equal(t, product.Name, got.Name)
		assert.Equal(t, product.Tags, got.Tags)
	}
}

func TestProductRepository_GetMissing(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	_, err = productRepo.GetProduct(context.Background(), core.ID(9999))
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductRepository_Update(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := productRepo.AddProducts(ctx, newTestProducts()[0])
	require.NoError(t, err)

	product := added[0]
	product.Embedding = []float32{0.1, 0.2, 0.3}

	_, err = productRepo.UpdateProducts(ctx, product)
	require.NoError(t, err)

	got, err := productRepo.GetProduct(ctx, product.Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.Embedding)

	t.Run("updating a missing product fails", func(t *testing.T) {
		missing := &core.Product{Id: core.ID(4242), Name: "Ghost Product", Price: 1}
		_, err := productRepo.UpdateProducts(ctx, missing)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestProductRepository_Delete(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := productRepo.AddProducts(ctx, newTestProducts()...)
	require.NoError(t, err)

	require.NoError(t, productRepo.DeleteProducts(ctx, added[0].Id))

	_, err = productRepo.GetProduct(ctx, added[0].Id)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	assert.ErrorIs(t, productRepo.DeleteProducts(ctx, added[0].Id), catalog.ErrNotFound)
}

func TestProductRepository_FindProducts(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	_, err = productRepo.AddProducts(ctx, newTestProducts()...)
	require.NoError(t, err)

	t.Run("nil filter matches everything", func(t *testing.T) {
		results, err := productRepo.FindProducts(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("category filter", func(t *testing.T) {
		results, err := productRepo.FindProducts(ctx, &core.ProductFilter{Category: "shoes"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Nike Shoes 2002", results[0].Name)
	})

	t.Run("brand filter", func(t *testing.T) {
		results, err := productRepo.FindProducts(ctx, &core.ProductFilter{Brand: "Zara"})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("price range filter", func(t *testing.T) {
		results, err := productRepo.FindProducts(ctx, &core.ProductFilter{MinPrice: price(50), MaxPrice: price(100)})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Zara Dress 3003", results[0].Name)
	})

	t.Run("conjunctive filters", func(t *testing.T) {
		results, err := productRepo.FindProducts(ctx, &core.ProductFilter{Brand: "Zara", Category: "shoes"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("scan order is stable", func(t *testing.T) {
		first, err := productRepo.FindProducts(ctx, nil)
		require.NoError(t, err)
		second, err := productRepo.FindProducts(ctx, nil)
		require.NoError(t, err)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Id, second[i].Id)
		}
	})
}

func TestProductRepository_FindUnpurchasedProducts(t *testing.T) {
	productRepo, customerRepo, txnRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		txnRepo.Close()
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := productRepo.AddProducts(ctx, newTestProducts()...)
	require.NoError(t, err)

	excluded := map[core.ID]struct{}{added[1].Id: {}}
	results, err := productRepo.FindUnpurchasedProducts(ctx, excluded)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, product := range results {
		assert.NotEqual(t, added[1].Id, product.Id)
	}
}
