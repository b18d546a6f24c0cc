// Package topology models the neighbor graph over island indices. Vertices
// are always exactly {0, …, N-1}; migration flows along directed edges.
package topology

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
)

// Topology is a directed graph over island indices with neighbor queries.
type Topology interface {
	Clone() Topology
	PushBack()
	Neighbors(v int) []int
	NumVertices() int
	HumanReadable() string
}

// ByName resolves a topology shape from its registry name. The returned
// topology starts empty; the archipelago grows it via PushBack.
func ByName(name string) (Topology, error) {
	switch strings.ToLower(name) {
	case "", "unconnected":
		return NewUnconnected(), nil
	case "ring":
		return NewRing(), nil
	case "fully_connected", "fully-connected", "full":
		return NewFullyConnected(), nil
	case "custom":
		return NewCustom(), nil
	default:
		return nil, fmt.Errorf("unknown topology: %s", name)
	}
}

// Custom is an explicit edge-list topology over a gonum directed graph.
type Custom struct {
	g *simple.DirectedGraph
	n int
}

func NewCustom() *Custom {
	return &Custom{g: simple.NewDirectedGraph()}
}

func (c *Custom) Clone() Topology {
	out := NewCustom()
	out.copyFrom(c)
	return out
}

func (c *Custom) copyFrom(src *Custom) {
	c.n = src.n
	for i := 0; i < src.n; i++ {
		c.g.AddNode(simple.Node(i))
	}
	edges := src.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		c.g.SetEdge(simple.Edge{F: simple.Node(e.From().ID()), T: simple.Node(e.To().ID())})
	}
}

func (c *Custom) PushBack() {
	c.g.AddNode(simple.Node(c.n))
	c.n++
}

func (c *Custom) NumVertices() int {
	return c.n
}

// Connect adds a directed edge a -> b.
func (c *Custom) Connect(a, b int) error {
	if a < 0 || a >= c.n || b < 0 || b >= c.n {
		return fmt.Errorf("vertex out of range: %d -> %d with %d vertices", a, b, c.n)
	}
	if a == b {
		return fmt.Errorf("self edge not allowed: %d", a)
	}
	c.g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
	return nil
}

func (c *Custom) Neighbors(v int) []int {
	return neighborsOf(c.g, v, c.n)
}

func (c *Custom) HumanReadable() string {
	return describe("custom", c.g, c.n)
}

func neighborsOf(g *simple.DirectedGraph, v, n int) []int {
	if v < 0 || v >= n {
		return nil
	}
	var out []int
	nodes := g.From(int64(v))
	for nodes.Next() {
		out = append(out, int(nodes.Node().ID()))
	}
	sort.Ints(out)
	return out
}

func describe(kind string, g *simple.DirectedGraph, n int) string {
	edges := 0
	it := g.Edges()
	for it.Next() {
		edges++
	}
	return fmt.Sprintf("%s: %d vertices, %d edges", kind, n, edges)
}

// rebuild recreates a graph with n vertices and the edges produced by fill.
func rebuild(n int, fill func(g *simple.DirectedGraph)) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	if fill != nil {
		fill(g)
	}
	return g
}

func setEdge(g *simple.DirectedGraph, a, b int) {
	g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
}
