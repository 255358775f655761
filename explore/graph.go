package explore

import (
	"github.com/Comcast/soup/core"
)

// Node is a state that a search visited.
type Node struct {
	Id        int               `json:"id"`
	Model     *core.Environment `json:"model"`
	Property  *core.Environment `json:"property,omitempty"`
	Initial   bool              `json:"initial,omitempty"`
	Accepting bool              `json:"accepting,omitempty"`
}

// Edge is a transition between two Nodes.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`

	// Action is the name of the model piece that fired.
	Action  string `json:"action,omitempty"`
	Stutter bool   `json:"stutter,omitempty"`

	// PropertyAction is the name of the property piece in a
	// product search.
	PropertyAction string `json:"propertyAction,omitempty"`
}

// Graph records the states and transitions explored by a search.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	index map[string]*Node
}

func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]*Node, 0, 64),
		Edges: make([]*Edge, 0, 64),
		index: make(map[string]*Node, 64),
	}
}

// Lookup returns the node with the given state key.
func (g *Graph) Lookup(key string) *Node {
	return g.index[key]
}

func (g *Graph) node(key string, model, property *core.Environment) *Node {
	if n, have := g.index[key]; have {
		return n
	}
	n := &Node{
		Id:       len(g.Nodes),
		Model:    model,
		Property: property,
	}
	g.Nodes = append(g.Nodes, n)
	g.index[key] = n
	return n
}

func (g *Graph) edge(from, to *Node, s *Stride) *Edge {
	e := &Edge{
		From:    from.Id,
		To:      to.Id,
		Stutter: s.Step.IsStutter(),
	}
	if name, fired := s.Step.ActionName(); fired {
		e.Action = name
	}
	if s.PropertyAction != nil {
		e.PropertyAction = s.PropertyAction.Name
	}
	g.Edges = append(g.Edges, e)
	return e
}

// Out returns the edges that leave the given node.
func (g *Graph) Out(id int) []*Edge {
	var acc []*Edge
	for _, e := range g.Edges {
		if e.From == id {
			acc = append(acc, e)
		}
	}
	return acc
}
