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


// Package rank implements the product ranking strategies of Shoprank.
//
// Three independent rankers operate over the same catalog view:
//
//   - SimilarityRanker: embeds the query and candidate descriptions and
//     ranks by cosine similarity
//   - FuzzyMatcher: typo-tolerant lexical matching across product fields
//     using normalized edit distance
//   - CollaborativeRecommender: scores unpurchased products by tag overlap
//     with a customer's purchase history
//
// The rankers hold no mutable state between calls and may be invoked
// concurrently against the same catalog. All of them reject invalid input
// (empty query, inverted price range, negative result cap) before touching
// the catalog or the embedder, and none of them treat an empty result set
// as an error.
//
// Scores are ranker-specific: cosine similarity in [-1,1] for the
// similarity ranker, shared-tag counts for the recommender. The fuzzy
// matcher keeps its ratio scores internal and returns products only.
package rank
