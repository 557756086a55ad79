// Package seed generates sample catalog data for demos and local testing.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/poiesic/shoprank/core"
)

// Categories and their associated tags
var productCategories = map[string][]string{
	"t-shirt":  {"casual", "summer", "cotton", "comfortable"},
	"trousers": {"formal", "casual", "denim", "cotton"},
	"dress":    {"formal", "party", "elegant", "summer"},
	"jacket":   {"winter", "outdoor", "casual", "warm"},
	"shoes":    {"comfortable", "casual", "formal", "sports"},
}

// categoryNames keeps iteration order deterministic for a seeded generator.
var categoryNames = []string{"t-shirt", "trousers", "dress", "jacket", "shoes"}

type priceRange struct {
	min, max float64
}

// Brands and their typical price ranges
var brandPrices = map[string]priceRange{
	"Zara":   {29.99, 199.99},
	"H&M":    {19.99, 99.99},
	"Nike":   {39.99, 199.99},
	"Adidas": {34.99, 179.99},
	"Mango":  {25.99, 149.99},
	"Uniqlo": {14.99, 89.99},
	"Puma":   {29.99, 159.99},
	"Levi's": {39.99, 199.99},
	"Zudio":  {9.99, 49.99},
}

var brandNames = []string{"Zara", "H&M", "Nike", "Adidas", "Mango", "Uniqlo", "Puma", "Levi's", "Zudio"}

var colors = []string{"Black", "White", "Red", "Blue", "Green", "Yellow", "Pink", "Gray", "Navy", "Brown"}

var extraTags = []string{"trending", "bestseller", "new", "limited", "sale"}

var adjectives = []string{"Stylish", "Modern", "Comfortable", "Trendy", "Classic", "Elegant"}

var materials = []string{"Cotton", "Polyester", "Denim", "Wool", "Linen"}

var firstNames = []string{
	"Alice", "Bruno", "Clara", "Daniel", "Elena", "Felix", "Greta", "Hugo",
	"Ines", "Jonas", "Katja", "Liam", "Mara", "Noah", "Olivia", "Pavel",
	"Quinn", "Rosa", "Samir", "Tessa",
}

var lastNames = []string{
	"Almeida", "Berger", "Costa", "Dubois", "Eriksen", "Fischer", "Garcia",
	"Hansen", "Ivanov", "Jensen", "Keller", "Lopez", "Moreau", "Novak",
	"Olsen", "Pereira", "Rossi", "Silva", "Torres", "Weber",
}

var cities = []string{
	"Lisbon", "Berlin", "Madrid", "Paris", "Oslo", "Vienna", "Prague",
	"Milan", "Porto", "Amsterdam",
}

var countries = []string{
	"Portugal", "Germany", "Spain", "France", "Norway", "Austria",
	"Czechia", "Italy", "Netherlands", "Denmark",
}

// Generator produces sample customers, products, and transactions.
// The same seed always produces the same data.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// GenerateCustomers generates n sample customers.
func (g *Generator) GenerateCustomers(n int) []*core.Customer {
	customers := make([]*core.Customer, n)
	for i := range customers {
		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]
		cityIdx := g.rng.Intn(len(cities))

		customers[i] = &core.Customer{
			Name:    first + " " + last,
			Age:     18 + g.rng.Intn(53),
			Gender:  core.Gender(g.rng.Intn(4)),
			City:    cities[cityIdx],
			Country: countries[cityIdx],
			Email:   strings.ToLower(first) + "." + strings.ToLower(last) + "@example.com",
			Phone:   fmt.Sprintf("+49 %d %d", 100+g.rng.Intn(900), 1000000+g.rng.Intn(9000000)),
		}
	}
	return customers
}

// GenerateProducts generates n sample products. Embeddings are left empty;
// the ingestion pipeline or reembedder fills them in.
func (g *Generator) GenerateProducts(n int) []*core.Product {
	products := make([]*core.Product, n)
	for i := range products {
		category := categoryNames[g.rng.Intn(len(categoryNames))]
		brand := brandNames[g.rng.Intn(len(brandNames))]
		prices := brandPrices[brand]

		shortDesc, longDesc := g.describe(category, brand)

		// Category tags plus one to three promotional tags
		tags := append([]string{}, productCategories[category]...)
		tags = append(tags, g.sampleTags(1+g.rng.Intn(3))...)

		products[i] = &core.Product{
			Name:             fmt.Sprintf("%s %s %d", brand, titleCase(category), 1000+g.rng.Intn(9000)),
			Category:         category,
			Brand:            brand,
			ShortDescription: shortDesc,
			Description:      longDesc,
			Color:            colors[g.rng.Intn(len(colors))],
			Price:            round2(prices.min + g.rng.Float64()*(prices.max-prices.min)),
			Currency:         "USD",
			Tags:             tags,
		}
	}
	return products
}

// GenerateTransactions generates n sample transactions between the given
// customers and products, spread over the past year. Roughly 10% of
// purchases are returned; 70% of the kept ones carry a rating between
// 3.0 and 5.0.
func (g *Generator) GenerateTransactions(n int, customers []*core.Customer, products []*core.Product) []*core.Transaction {
	if len(customers) == 0 || len(products) == 0 {
		return nil
	}

	now := time.Now().UTC()
	transactions := make([]*core.Transaction, n)
	for i := range transactions {
		product := products[g.rng.Intn(len(products))]
		customer := customers[g.rng.Intn(len(customers))]

		returned := g.rng.Float64() < 0.1

		var rating float64
		var review string
		if !returned && g.rng.Float64() < 0.7 {
			rating = 3.0 + g.rng.Float64()*2.0
			review = g.reviewText(product)
		}

		transactions[i] = &core.Transaction{
			ProductId:    product.Id,
			CustomerId:   customer.Id,
			AmountPaid:   product.Price,
			PurchaseDate: now.Add(-time.Duration(g.rng.Intn(365*24)) * time.Hour),
			Returned:     returned,
			Rating:       rating,
			ReviewText:   review,
		}
	}
	return transactions
}

// describe builds short and long product descriptions.
func (g *Generator) describe(category, brand string) (string, string) {
	shortDesc := fmt.Sprintf("%s %s by %s", adjectives[g.rng.Intn(len(adjectives))], category, brand)

	wear := []string{"casual", "formal", "everyday"}
	style := []string{"Featuring a modern design", "With classic styling", "In a timeless style"}
	closer := []string{"will complement any wardrobe", "is a must-have this season", "offers both style and comfort"}

	longDesc := fmt.Sprintf("This %s %s from %s is made from high-quality %s. Perfect for %s wear. %s, this piece %s.",
		strings.ToLower(adjectives[g.rng.Intn(len(adjectives))]),
		category,
		brand,
		strings.ToLower(materials[g.rng.Intn(len(materials))]),
		wear[g.rng.Intn(len(wear))],
		style[g.rng.Intn(len(style))],
		closer[g.rng.Intn(len(closer))],
	)

	return shortDesc, longDesc
}

// sampleTags picks count distinct promotional tags.
func (g *Generator) sampleTags(count int) []string {
	indexes := g.rng.Perm(len(extraTags))
	if count > len(extraTags) {
		count = len(extraTags)
	}

	tags := make([]string, count)
	for i := 0; i < count; i++ {
		tags[i] = extraTags[indexes[i]]
	}
	return tags
}

func (g *Generator) reviewText(product *core.Product) string {
	openers := []string{"Really happy with this", "Decent purchase", "Exceeded my expectations", "Good value for money"}
	return fmt.Sprintf("%s. The %s fits well and the quality feels solid.", openers[g.rng.Intn(len(openers))], product.Category)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
