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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidCustomer indicates a Customer failed validation.
	ErrInvalidCustomer = errors.New("invalid customer")

	// ErrInvalidTransaction indicates a Transaction failed validation.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrEmptyName indicates a required name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNegativePrice indicates a price or amount is negative.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrInvalidRating indicates a rating is outside the 1-5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidGender indicates an invalid Gender value.
	ErrInvalidGender = errors.New("invalid gender")

	// ErrMissingReference indicates a transaction references a zero entity ID.
	ErrMissingReference = errors.New("transaction must reference a product and a customer")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)

// Query input errors. Rankers reject these before any catalog or
// embedding call; an empty result is never used to signal them.
var (
	// ErrEmptyQuery indicates a blank search query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidPriceRange indicates a filter with min price above max price.
	ErrInvalidPriceRange = errors.New("minimum price cannot exceed maximum price")

	// ErrInvalidTopN indicates a negative result cap.
	ErrInvalidTopN = errors.New("top-n cannot be negative")
)
