package seed

import (
	"testing"

	"github.com/poiesic/shoprank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Deterministic(t *testing.T) {
	first := NewGenerator(42)
	second := NewGenerator(42)

	a := first.GenerateProducts(10)
	b := second.GenerateProducts(10)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Price, b[i].Price)
		assert.Equal(t, a[i].Tags, b[i].Tags)
	}
}

func TestGenerator_GenerateCustomers(t *testing.T) {
	customers := NewGenerator(1).GenerateCustomers(25)
	require.Len(t, customers, 25)

	for _, customer := range customers {
		assert.NoError(t, core.ValidateCustomer(customer))
		assert.GreaterOrEqual(t, customer.Age, 18)
		assert.LessOrEqual(t, customer.Age, 70)
		assert.Contains(t, customer.Email, "@example.com")
	}
}

func TestGenerator_GenerateProducts(t *testing.T) {
	products := NewGenerator(1).GenerateProducts(50)
	require.Len(t, products, 50)

	for _, product := range products {
		require.NoError(t, core.ValidateProduct(product))

		prices, known := brandPrices[product.Brand]
		require.True(t, known, "unknown brand %q", product.Brand)
		assert.GreaterOrEqual(t, product.Price, prices.min)
		assert.LessOrEqual(t, product.Price, prices.max+0.01)

		// Category tags plus one to three promotional tags
		base := productCategories[product.Category]
		require.NotNil(t, base, "unknown category %q", product.Category)
		assert.GreaterOrEqual(t, len(product.Tags), len(base)+1)
		assert.LessOrEqual(t, len(product.Tags), len(base)+3)

		assert.Empty(t, product.Embedding)
		assert.Equal(t, "USD", product.Currency)
	}
}

func TestGenerator_GenerateTransactions(t *testing.T) {
	generator := NewGenerator(7)

	customers := generator.GenerateCustomers(10)
	for i, customer := range customers {
		customer.Id = core.ID(i + 1)
	}
	products := generator.GenerateProducts(20)
	for i, product := range products {
		product.Id = core.ID(i + 1)
	}

	transactions := generator.GenerateTransactions(400, customers, products)
	require.Len(t, transactions, 400)

	returned := 0
	rated := 0
	for _, txn := range transactions {
		require.NoError(t, core.ValidateTransaction(txn))
		if txn.Returned {
			returned++
			assert.Zero(t, txn.Rating, "returned purchases carry no rating")
		}
		if txn.Rating != 0 {
			rated++
			assert.GreaterOrEqual(t, txn.Rating, 3.0)
			assert.LessOrEqual(t, txn.Rating, 5.0)
			assert.NotEmpty(t, txn.ReviewText)
		}
	}

	// Roughly 10% returns and 70% of kept purchases rated
	assert.InDelta(t, 40, returned, 30)
	assert.Greater(t, rated, 150)

	t.Run("no customers or products yields nil", func(t *testing.T) {
		assert.Nil(t, generator.GenerateTransactions(5, nil, products))
		assert.Nil(t, generator.GenerateTransactions(5, customers, nil))
	})
}
