// Package ingestion provides pipeline orchestration for loading products
// into the catalog.
//
// The Pipeline type manages the ingestion workflow, including:
//   - Validating and adding product records to storage
//   - Generating embeddings for their descriptive text asynchronously
//
// Embedding generation runs on a worker pool so ingestion calls return as
// soon as the records are durable. Errors during async processing are
// logged but do not fail the ingestion operation.
package ingestion
