// Package trace mines the execution call log for tool co-occurrence.
//
// The miner groups logged calls by session in timestamp order and counts
// every unordered pair of distinct tools that appear within a sliding
// window of five calls. Pairs observed at least twice become symmetric
// edges; each tool keeps its ten most frequent neighbors.
//
// The mined adjacency list is cached with a TTL so at most one bounded
// read hits the log store per refresh interval. Every failure mode of the
// store degrades to an empty graph, never an error.
package trace
