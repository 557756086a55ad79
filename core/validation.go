// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Price must not be negative
//
// NOT validated (populated by processors):
//   - Embedding (can be empty until the embedding processor runs)
//   - ID (0 is valid from database sequences)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyName)
	}

	if product.Price < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrNegativePrice)
	}

	return nil
}

// ValidateCustomer validates a Customer according to domain rules.
func ValidateCustomer(customer *Customer) error {
	if customer == nil {
		return fmt.Errorf("%w: customer is nil", ErrInvalidCustomer)
	}

	if customer.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, ErrEmptyName)
	}

	if err := ValidateGender(customer.Gender); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}

	return nil
}

// ValidateTransaction validates a Transaction according to domain rules.
//
// Validation rules:
//   - ProductId and CustomerId must be non-zero
//   - AmountPaid must not be negative
//   - Rating, when given, must be within [1, 5]
//   - PurchaseDate must not be in the future
func ValidateTransaction(txn *Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction is nil", ErrInvalidTransaction)
	}

	if txn.ProductId == 0 || txn.CustomerId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrMissingReference)
	}

	if txn.AmountPaid < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrNegativePrice)
	}

	if txn.Rating != 0 && (txn.Rating < 1 || txn.Rating > 5) {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrInvalidRating)
	}

	if !IsValidTimestamp(txn.PurchaseDate) {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateGender validates that a Gender has a valid value.
func ValidateGender(gender Gender) error {
	switch gender {
	case GenderUnspecified, GenderFemale, GenderMale, GenderOther:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidGender, gender)
}

// ValidateQuery rejects blank search queries.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateFilter rejects malformed filter ranges. A nil filter is valid.
func ValidateFilter(filter *ProductFilter) error {
	if filter == nil {
		return nil
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return ErrInvalidPriceRange
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
