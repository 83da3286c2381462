package routingalgorithm

import "github.com/lintang-b-s/streetmap/pkg/datastructure"

// searchNode per-query state of one intersection.
type searchNode struct {
	bestTime     float64
	reachingEdge int32
	defined      bool
}

// wavefrontEntry open frontier item. priority lives in the heap node rank.
type wavefrontEntry struct {
	node int32
	edge int32 // segment used to reach node, NO_EDGE for the source
	g    float64
}

// searchArena search nodes indexed by intersection id. only touched nodes are reset between queries.
type searchArena struct {
	nodes    []searchNode
	touched  []int32
	frontier *datastructure.MinHeap[wavefrontEntry]
}

func newSearchArena(numIntersections int) *searchArena {
	arena := &searchArena{
		nodes:    make([]searchNode, numIntersections),
		touched:  make([]int32, 0, 64),
		frontier: datastructure.NewMinHeap[wavefrontEntry](),
	}
	for i := range arena.nodes {
		arena.nodes[i] = searchNode{bestTime: datastructure.INF_WEIGHT, reachingEdge: datastructure.NO_EDGE}
	}
	return arena
}

func (a *searchArena) reset() {
	for _, id := range a.touched {
		a.nodes[id] = searchNode{bestTime: datastructure.INF_WEIGHT, reachingEdge: datastructure.NO_EDGE}
	}
	a.touched = a.touched[:0]
	a.frontier.Clear()
}

// improves whether g is strictly better than the best recorded for node, or node has none yet.
func (a *searchArena) improves(node int32, g float64) bool {
	n := &a.nodes[node]
	return !n.defined || g < n.bestTime
}

// accept records entry as the best label of its node. false when the entry is stale.
func (a *searchArena) accept(entry wavefrontEntry) bool {
	if !a.improves(entry.node, entry.g) {
		return false
	}
	n := &a.nodes[entry.node]
	if !n.defined {
		a.touched = append(a.touched, entry.node)
	}
	n.defined = true
	n.bestTime = entry.g
	n.reachingEdge = entry.edge
	return true
}

func (a *searchArena) isDefined(node int32) bool {
	return a.nodes[node].defined
}
