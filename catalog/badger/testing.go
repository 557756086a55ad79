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


package badger

import "github.com/poiesic/shoprank/catalog"

// NewMemoryRepositories creates in-memory product, customer, and transaction
// repositories for testing.
// Returns productRepo, customerRepo, txnRepo, backend, and error.
// Caller must close all three repos and the backend when done.
func NewMemoryRepositories() (catalog.ProductRepository, catalog.CustomerRepository, catalog.TransactionRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	productRepo, err := NewProductRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	customerRepo, err := NewCustomerRepository(backend)
	if err != nil {
		productRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	txnRepo, err := NewTransactionRepository(backend)
	if err != nil {
		customerRepo.Close()
		productRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return productRepo, customerRepo, txnRepo, backend, nil
}
