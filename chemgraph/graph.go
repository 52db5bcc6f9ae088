package chemgraph

import (
	"fmt"

	"github.com/Ladme/gcenter"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Unwrapper makes molecules broken by the periodic boundary whole, using
// the bonds of the system as a graph. Atoms are nodes, with the atom index
// as ID. It implements gcenter.Unwrapper.
type Unwrapper struct {
	g      *simple.UndirectedGraph
	natoms int
}

// NewUnwrapper builds the bond graph of a system with natoms atoms.
// It returns gcenter.ErrNoConnectivity if there are no bonds.
func NewUnwrapper(conn gcenter.ConnectivityProvider, natoms int) (*Unwrapper, error) {
	if conn == nil {
		return nil, gcenter.ErrNoConnectivity
	}
	bonds := conn.Bonds()
	if len(bonds) == 0 {
		return nil, gcenter.ErrNoConnectivity
	}
	g := simple.NewUndirectedGraph()
	for i := 0; i < natoms; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, b := range bonds {
		if b[0] < 0 || b[1] < 0 || b[0] >= natoms || b[1] >= natoms {
			return nil, fmt.Errorf("bond %d-%d: %w", b[0], b[1], gcenter.ErrIndexOutOfRange)
		}
		if b[0] == b[1] {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(b[0]), simple.Node(b[1])))
	}
	return &Unwrapper{g: g, natoms: natoms}, nil
}

// Components returns the number of connected components (molecules)
// in the graph, counting isolated atoms.
func (U *Unwrapper) Components() int {
	visited := make([]bool, U.natoms)
	n := 0
	for root := 0; root < U.natoms; root++ {
		if visited[root] {
			continue
		}
		n++
		var bf traverse.BreadthFirst
		bf.Walk(U.g, simple.Node(root), func(nd graph.Node, _ int) bool {
			visited[nd.ID()] = true
			return false
		})
	}
	return n
}

// MakeWhole walks every molecule breadth-first from its lowest index. The
// first atom is put inside the box and every other atom is placed at the
// periodic image closest to the atom it was reached from. The box of f must
// be a valid orthogonal box.
func (U *Unwrapper) MakeWhole(f *gcenter.Frame) error {
	if f.Len() != U.natoms {
		return fmt.Errorf("frame has %d atoms but the bond graph has %d", f.Len(), U.natoms)
	}
	if err := gcenter.CheckBox(f.Box); err != nil {
		return err
	}
	l := f.Box.Lengths()
	c := f.Coords
	placed := make([]bool, U.natoms)
	for root := 0; root < U.natoms; root++ {
		if placed[root] {
			continue
		}
		v := c.Vec(root)
		for ax := range v {
			v[ax] = gcenter.Wrap(v[ax], l[ax])
		}
		c.SetVec(root, v)
		placed[root] = true
		if U.g.From(int64(root)).Len() == 0 {
			continue
		}
		bf := traverse.BreadthFirst{
			Traverse: func(e graph.Edge) bool {
				from, to := e.From().ID(), e.To().ID()
				if placed[to] {
					from, to = to, from
				}
				if placed[to] || !placed[from] {
					return true
				}
				p := c.Vec(int(from))
				q := c.Vec(int(to))
				for ax := range q {
					q[ax] = p[ax] + gcenter.WrapDelta(q[ax]-p[ax], l[ax])
				}
				c.SetVec(int(to), q)
				placed[to] = true
				return true
			},
		}
		bf.Walk(U.g, simple.Node(root), nil)
	}
	return nil
}
