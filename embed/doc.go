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


// Package embed provides the embedding backend boundary for toolrank.
//
// It defines two interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - NeighborSearcher: returns an ordered nearest-neighbor list over a
//     node space containing both tool nodes and category "domain" nodes
//
// NodeIndex is the in-memory NeighborSearcher used in production: it embeds
// every catalog tool plus one hub node per category (concurrently, through
// a worker pool) and ranks by cosine similarity.
//
// Implementation sub-packages:
//
//   - embed/openai: production Embedder using OpenAI-compatible APIs
//   - embed/mock: deterministic test doubles
//
// The whole package is optional at runtime: a ranking pipeline without an
// embedder or query vector simply skips the embedding-graph signal.
package embed
