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


// Package rank fuses lexical, synonym, dense TF-IDF, embedding-graph, and
// usage-trace signals into a single additive relevance score for tool
// candidates. Strategies never depend on each other's output, so each can
// be disabled per query for ablation without changing the rest.
//
// Optional signals degrade gracefully: a missing query vector, an absent
// neighbor index, or an unreachable call log simply removes that signal's
// contribution, it never fails the search.
package rank
