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


// Package catalog provides the storage abstraction layer for shoprank.
//
// This package defines repository interfaces that decouple storage
// implementation from the ranking logic. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	repo, err := badger.NewProductRepository(backend)  // returns catalog.ProductRepository
//
// Internal package constructors may return concrete types since they are
// only used within the implementation package.
//
// # Architecture
//
// The catalog layer follows the Repository pattern:
//
//   - ProductRepository: Operations for products, including filter scans
//   - CustomerRepository: Operations for customers
//   - TransactionRepository: Operations for transactions and the purchase index
//   - Catalog: The narrow read-side view the rankers consume
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines. The rankers only read
// through the Catalog view and never write.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support. Pass context.Background() for operations without
// specific timeout requirements.
package catalog
