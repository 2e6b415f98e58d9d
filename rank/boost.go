package rank

import (
	"fmt"
	"slices"
)

// applyBoosts runs the relationship boosters over the base-scored set.
// Boosts are computed against a snapshot of the pre-boost top set so the
// result is independent of application order.
func (r *Ranker) applyBoosts(scored []*scoredEntry, q *queryContext, opts Options, monitor RankMonitor) {
	topSet := topEntries(r.sortPositive(scored), r.tunables.BoostTopSetSize)
	if len(topSet) == 0 {
		return
	}

	topCategories := make(map[string]bool, len(topSet))
	topNames := make(map[string]bool, len(topSet))
	for _, e := range topSet {
		topCategories[e.doc.Category] = true
		topNames[e.doc.Name] = true
	}

	// traceTargets maps boosted tools to the top tool they co-occur with.
	traceTargets := make(map[string]string)
	if !opts.Ablation.TraceEdges && q.graph != nil {
		for _, e := range topSet {
			for _, neighbor := range q.graph[e.doc.Name] {
				if topNames[neighbor] {
					continue
				}
				if _, taken := traceTargets[neighbor]; !taken {
					traceTargets[neighbor] = e.doc.Name
				}
			}
		}
	}

	for _, e := range scored {
		if !opts.Ablation.DomainCluster {
			if cluster, ok := r.clusterFor(e.doc.Category, topCategories); ok {
				e.add(r.tunables.DomainClusterBoost, q.explain, func() string {
					return fmt.Sprintf("cluster:%s", cluster)
				})
				monitor.Boosted(e.doc.Name, "cluster:"+cluster)
			}
		}
		if source, ok := traceTargets[e.doc.Name]; ok {
			e.add(r.tunables.TraceEdgeBoost, q.explain, func() string {
				return fmt.Sprintf("trace:cooccur(%s)", source)
			})
			monitor.Boosted(e.doc.Name, "trace:cooccur("+source+")")
		}
	}
}

// clusterFor reports whether the category shares a cluster with a
// different top-ranked category.
func (r *Ranker) clusterFor(category string, topCategories map[string]bool) (string, bool) {
	for _, name := range r.clusterOrder {
		members := r.clusters[name]
		if !slices.Contains(members, category) {
			continue
		}
		for _, member := range members {
			if member != category && topCategories[member] {
				return name, true
			}
		}
	}
	return "", false
}

// topEntries returns the n highest base-scored entries with the usual
// deterministic tie-break.
func topEntries(scored []*scoredEntry, n int) []*scoredEntry {
	if len(scored) < n {
		n = len(scored)
	}
	return scored[:n]
}
