package rank

import "github.com/poiesic/shoprank/core"

// SearchMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results during a search.
type SearchMonitor interface {
	Start(query string)
	AfterCandidateRetrieval(ids []uint64)
	Scored(product *core.Product, score float32)
	Hit(product *core.Product, score float32)
	Finish(results []*core.ScoredProduct)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []uint64)     {}
func (n *noopMonitor) Scored(_ *core.Product, _ float32)      {}
func (n *noopMonitor) Hit(_ *core.Product, _ float32)         {}
func (n *noopMonitor) Finish(_ []*core.ScoredProduct)         {}
