package topology

import "gonum.org/v1/gonum/graph/simple"

// Unconnected has vertices but no edges; islands evolve in isolation.
type Unconnected struct {
	n int
	g *simple.DirectedGraph
}

func NewUnconnected() *Unconnected {
	return &Unconnected{g: simple.NewDirectedGraph()}
}

func (t *Unconnected) Clone() Topology {
	out := NewUnconnected()
	out.n = t.n
	out.g = rebuild(t.n, nil)
	return out
}

func (t *Unconnected) PushBack() {
	t.n++
	t.g = rebuild(t.n, nil)
}

func (t *Unconnected) NumVertices() int { return t.n }

func (t *Unconnected) Neighbors(v int) []int {
	return neighborsOf(t.g, v, t.n)
}

func (t *Unconnected) HumanReadable() string {
	return describe("unconnected", t.g, t.n)
}

// Ring connects each vertex to both ring neighbors. With two vertices the
// ring degenerates to a single bidirectional edge.
type Ring struct {
	n int
	g *simple.DirectedGraph
}

func NewRing() *Ring {
	return &Ring{g: simple.NewDirectedGraph()}
}

func (t *Ring) Clone() Topology {
	out := NewRing()
	out.n = t.n
	out.g = ringGraph(t.n)
	return out
}

func (t *Ring) PushBack() {
	t.n++
	t.g = ringGraph(t.n)
}

func ringGraph(n int) *simple.DirectedGraph {
	return rebuild(n, func(g *simple.DirectedGraph) {
		switch {
		case n == 2:
			setEdge(g, 0, 1)
			setEdge(g, 1, 0)
		case n >= 3:
			for i := 0; i < n; i++ {
				next := (i + 1) % n
				setEdge(g, i, next)
				setEdge(g, next, i)
			}
		}
	})
}

func (t *Ring) NumVertices() int { return t.n }

func (t *Ring) Neighbors(v int) []int {
	return neighborsOf(t.g, v, t.n)
}

func (t *Ring) HumanReadable() string {
	return describe("ring", t.g, t.n)
}

// FullyConnected keeps a complete digraph over all vertices.
type FullyConnected struct {
	n int
	g *simple.DirectedGraph
}

func NewFullyConnected() *FullyConnected {
	return &FullyConnected{g: simple.NewDirectedGraph()}
}

func (t *FullyConnected) Clone() Topology {
	out := NewFullyConnected()
	out.n = t.n
	out.g = completeGraph(t.n)
	return out
}

func (t *FullyConnected) PushBack() {
	t.n++
	t.g = completeGraph(t.n)
}

func completeGraph(n int) *simple.DirectedGraph {
	return rebuild(n, func(g *simple.DirectedGraph) {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i != j {
					setEdge(g, i, j)
				}
			}
		}
	})
}

func (t *FullyConnected) NumVertices() int { return t.n }

func (t *FullyConnected) Neighbors(v int) []int {
	return neighborsOf(t.g, v, t.n)
}

func (t *FullyConnected) HumanReadable() string {
	return describe("fully_connected", t.g, t.n)
}
