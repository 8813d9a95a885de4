package render

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/shaderdemos/ecs"
)

var (
	ErrDuplicateNode = errors.New("render: duplicate node label")
	ErrUnknownNode   = errors.New("render: unknown node label")
	ErrGraphCycle    = errors.New("render: graph contains a cycle")
)

// Context is passed to every node while the graph runs.
type Context struct {
	Storage *ecs.Storage
	// Target is the frame's screen image. It is nil when running headless.
	Target *ebiten.Image
	Frame  uint64
}

// Node is one pass of the render graph. Update runs for every node before
// any node runs, so nodes can advance internal state from the world.
type Node interface {
	Update(storage *ecs.Storage)
	Run(ctx *Context) error
}

type graphNode struct {
	label string
	node  Node
	next  []int
}

// Graph is a DAG of nodes executed once per frame. Independent nodes run in
// insertion order.
type Graph struct {
	nodes []*graphNode
	index map[string]int
	order []int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode inserts node under label.
func (g *Graph) AddNode(label string, node Node) error {
	if _, ok := g.index[label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, label)
	}
	g.index[label] = len(g.nodes)
	g.nodes = append(g.nodes, &graphNode{label: label, node: node})
	g.order = nil
	return nil
}

// AddNodeEdge makes from run before to.
func (g *Graph) AddNodeEdge(from, to string) error {
	fi, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	ti, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	g.nodes[fi].next = append(g.nodes[fi].next, ti)
	g.order = nil
	return nil
}

// Node returns the node registered under label, or nil.
func (g *Graph) Node(label string) Node {
	i, ok := g.index[label]
	if !ok {
		return nil
	}
	return g.nodes[i].node
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Order returns node labels in execution order.
func (g *Graph) Order() ([]string, error) {
	order, err := g.sort()
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(order))
	for i, idx := range order {
		labels[i] = g.nodes[idx].label
	}
	return labels, nil
}

// sort is Kahn's algorithm that always picks the earliest inserted ready node.
func (g *Graph) sort() ([]int, error) {
	if g.order != nil {
		return g.order, nil
	}

	indegree := make([]int, len(g.nodes))
	for _, n := range g.nodes {
		for _, to := range n.next {
			indegree[to]++
		}
	}

	done := make([]bool, len(g.nodes))
	order := make([]int, 0, len(g.nodes))
	for len(order) < len(g.nodes) {
		picked := -1
		for i := range g.nodes {
			if !done[i] && indegree[i] == 0 {
				picked = i
				break
			}
		}
		if picked == -1 {
			return nil, ErrGraphCycle
		}
		done[picked] = true
		order = append(order, picked)
		for _, to := range g.nodes[picked].next {
			indegree[to]--
		}
	}

	g.order = order
	return order, nil
}

// Run updates every node and then runs them in dependency order. The first
// node error stops the frame.
func (g *Graph) Run(ctx *Context) error {
	order, err := g.sort()
	if err != nil {
		return err
	}

	for _, idx := range order {
		g.nodes[idx].node.Update(ctx.Storage)
	}
	for _, idx := range order {
		n := g.nodes[idx]
		if err := n.node.Run(ctx); err != nil {
			return fmt.Errorf("render node %q: %w", n.label, err)
		}
	}
	return nil
}
