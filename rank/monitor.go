package rank

import "github.com/poiesic/toolrank/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results during search.
type RankMonitor interface {
	Start(query string, mode Mode)
	AfterCandidateFilter(names []string)
	AfterGraphSearch(toolRanks map[string]int, domainRanks map[string]int)
	AfterBaseScores(scored map[string]float64)
	Boosted(name string, reason string)
	Finish(results []core.RankedResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Mode)                         {}
func (n *noopMonitor) AfterCandidateFilter(_ []string)                {}
func (n *noopMonitor) AfterGraphSearch(_, _ map[string]int)           {}
func (n *noopMonitor) AfterBaseScores(_ map[string]float64)           {}
func (n *noopMonitor) Boosted(_ string, _ string)                     {}
func (n *noopMonitor) Finish(_ []core.RankedResult)                   {}
