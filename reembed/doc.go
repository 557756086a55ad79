// Package reembed provides functionality for reembedding the product
// catalog with new or updated embedding models.
//
// This package supports batch processing of products, progress tracking,
// retry logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reembed
