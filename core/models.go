package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Gender identifies a customer's declared gender.
type Gender int

const (
	// GenderUnspecified means the customer did not declare a gender.
	GenderUnspecified Gender = iota
	// GenderFemale represents a female customer.
	GenderFemale
	// GenderMale represents a male customer.
	GenderMale
	// GenderOther represents any other declared gender.
	GenderOther
)

// Product represents a catalog item available for ranking and recommendation.
// It may carry a precomputed embedding vector populated by the ingestion
// pipeline or a reembedding run.
type Product struct {
	Id               ID
	Name             string
	Category         string
	Brand            string
	ShortDescription string
	Description      string
	Color            string
	Price            float64
	Currency         string
	Tags             []string  // Unordered tag set; duplicates are meaningless
	Embedding        []float32 // Embedding vector for semantic search (populated by processors)
	InsertedAt       time.Time // When the record was inserted into the catalog
	UpdatedAt        time.Time // When the record was last updated
}

// DescriptiveText returns the text used to embed a product for semantic
// search: name, long description, and tags joined by spaces.
func (p *Product) DescriptiveText() string {
	parts := make([]string, 0, 2+len(p.Tags))
	parts = append(parts, p.Name, p.Description)
	parts = append(parts, p.Tags...)
	return strings.Join(parts, " ")
}

// TagSet returns the product's tags with set semantics (duplicates collapsed).
func (p *Product) TagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Tags))
	for _, tag := range p.Tags {
		set[tag] = struct{}{}
	}
	return set
}

// Customer represents a shopper. The ranking core only uses the identifier
// as a lookup key; the demographic attributes exist for the catalog surface.
type Customer struct {
	Id         ID
	Name       string
	Age        int
	Gender     Gender
	City       string
	Country    string
	Email      string
	Phone      string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Transaction links a customer to a purchased product.
// It is used by the recommender only to reconstruct a customer's purchase set.
type Transaction struct {
	Id           ID
	ProductId    ID
	CustomerId   ID
	AmountPaid   float64
	PurchaseDate time.Time
	Returned     bool
	Rating       float64 // 0 means no rating was given
	ReviewText   string
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// ProductFilter restricts a catalog scan. Zero-value fields are no-ops;
// set fields combine conjunctively.
type ProductFilter struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
}

// Matches reports whether a product satisfies every set condition.
func (f *ProductFilter) Matches(p *Product) bool {
	if f == nil {
		return true
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// ScoredProduct is a ranked candidate produced by one ranking call.
// Score semantics depend on the ranker that produced it.
type ScoredProduct struct {
	Product *Product
	Score   float32
}
