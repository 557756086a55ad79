package badger

import (
	"context"

	"github.com/poiesic/shoprank/catalog"
	"github.com/poiesic/shoprank/core"
)

// catalogView composes the product and transaction repositories into the
// narrow read-side view the rankers consume.
type catalogView struct {
	products     catalog.ProductRepository
	transactions catalog.TransactionRepository
}

var _ catalog.Catalog = (*catalogView)(nil)

// NewCatalog creates the ranker-facing catalog view over the repositories.
//
// Returns catalog.Catalog interface to enforce abstraction.
func NewCatalog(products catalog.ProductRepository, transactions catalog.TransactionRepository) catalog.Catalog {
	return &catalogView{
		products:     products,
		transactions: transactions,
	}
}

func (c *catalogView) FindProducts(ctx context.Context, filter *core.ProductFilter) ([]*core.Product, error) {
	return c.products.FindProducts(ctx, filter)
}

func (c *catalogView) FindPurchasedProducts(ctx context.Context, customerID core.ID) ([]*core.Product, error) {
	return c.transactions.FindPurchasedProducts(ctx, customerID)
}

func (c *catalogView) FindUnpurchasedProducts(ctx context.Context, excluded map[core.ID]struct{}) ([]*core.Product, error) {
	return c.products.FindUnpurchasedProducts(ctx, excluded)
}
