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


// Package catalog holds the immutable tool index and its derived,
// process-lifetime caches.
//
// A Catalog is built once from a static definition list. Three derived
// structures are computed lazily on first use and cached forever:
//
//   - searchable documents (the tokenized text surface per tool)
//   - the tag IDF index, ln(N/df), which upweights rare, discriminative tags
//   - TF-IDF document vectors for dense cosine scoring
//
// All lazy builds go through sync.Once, so concurrent first access is safe
// and every reader observes a fully built structure or none at all.
package catalog
