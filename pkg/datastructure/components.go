package datastructure

import (
	"github.com/lintang-b-s/streetmap/pkg/util"
)

// Components strongly connected components of the drivable street graph (Kosaraju) and the
// condensation DAG between them.
type Components struct {
	componentOf []int32
	sizes       []int32
	condAdj     [][]int32 // sorted, no self edges
}

func NewComponents(rn *RoadNetwork) *Components {
	n := int32(rn.NumIntersections())

	reverseAdj := make([][]int32, n)
	for v := int32(0); v < n; v++ {
		for _, w := range rn.Adjacent(v) {
			if w != v {
				reverseAdj[w] = append(reverseAdj[w], v)
			}
		}
	}
	forward := func(v int32) []int32 { return rn.Adjacent(v) }
	backward := func(v int32) []int32 { return reverseAdj[v] }

	order := make([]int32, 0, n)
	visited := make([]bool, n)
	for i := int32(0); i < n; i++ {
		if !visited[i] {
			order = dfsPostOrder(i, forward, visited, order)
		}
	}
	order = util.ReverseG(order)

	visited = make([]bool, n)
	components := make([][]int32, 0)
	for _, v := range order {
		if visited[v] {
			continue
		}
		component := dfsPostOrder(v, backward, visited, make([]int32, 0))
		components = append(components, component)
	}

	c := &Components{
		componentOf: make([]int32, n),
		sizes:       make([]int32, len(components)),
		condAdj:     make([][]int32, len(components)),
	}
	for i, component := range components {
		for _, v := range component {
			c.componentOf[v] = int32(i)
		}
		c.sizes[i] = int32(len(component))
	}

	for v := int32(0); v < n; v++ {
		from := c.componentOf[v]
		for _, w := range rn.Adjacent(v) {
			if to := c.componentOf[w]; to != from {
				c.condAdj[from] = append(c.condAdj[from], to)
			}
		}
	}
	for i := range c.condAdj {
		c.condAdj[i] = util.SortedUnique(c.condAdj[i])
	}
	return c
}

// dfsPostOrder iterative dfs from v appending nodes to output in post order.
func dfsPostOrder(v int32, neighbours func(int32) []int32, visited []bool, output []int32) []int32 {
	type frame struct {
		node int32
		next int
	}
	visited[v] = true
	stack := []frame{{node: v}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		adj := neighbours(top.node)
		if top.next < len(adj) {
			w := adj[top.next]
			top.next++
			if !visited[w] {
				visited[w] = true
				stack = append(stack, frame{node: w})
			}
			continue
		}
		output = append(output, top.node)
		stack = stack[:len(stack)-1]
	}
	return output
}

func (c *Components) Count() int {
	return len(c.sizes)
}

func (c *Components) ComponentOf(intersection int32) int32 {
	return c.componentOf[intersection]
}

func (c *Components) Size(component int32) int32 {
	return c.sizes[component]
}

// Largest component with the most intersections, the lowest id on ties.
func (c *Components) Largest() int32 {
	best := int32(0)
	for i, s := range c.sizes {
		if s > c.sizes[best] {
			best = int32(i)
		}
	}
	return best
}

// CanReach whether some drivable path leads from a to b.
func (c *Components) CanReach(a, b int32) bool {
	from, to := c.componentOf[a], c.componentOf[b]
	if from == to {
		return true
	}
	visited := map[int32]struct{}{from: {}}
	queue := []int32{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range c.condAdj[cur] {
			if next == to {
				return true
			}
			if _, ok := visited[next]; !ok {
				visited[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return false
}
