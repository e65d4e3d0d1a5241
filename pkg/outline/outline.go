// Package outline renders a scene's node hierarchy into a JSON-friendly
// tree for display. It is rebuilt from scratch after every evaluation;
// nothing here is mutated in place.
package outline

import (
	"github.com/chazu/tether/pkg/proxy"
	"github.com/chazu/tether/pkg/scene"
)

// Lister is the view of a scene the outline needs: the engine contract
// plus root enumeration. *memory.Scene satisfies it; any host adapter
// with root listing does too.
type Lister interface {
	scene.Engine
	Roots() []string
}

// Node is one row of the outline tree. Position is the world position,
// present for transform-class nodes only.
type Node struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	UUID     string      `json:"uuid"`
	Position *[3]float64 `json:"position,omitempty"`
	Children []Node      `json:"children,omitempty"`
}

// Outline is the full tree plus a flat node count for the status bar.
type Outline struct {
	Roots []Node `json:"roots"`
	Count int    `json:"count"`
}

// Build walks the scene from its roots and returns the outline tree.
// Shape nodes are listed under their parent transform, before any
// child transforms.
func Build(src Lister) (Outline, error) {
	var out Outline
	for _, root := range src.Roots() {
		n, count, err := buildNode(src, root)
		if err != nil {
			return Outline{}, err
		}
		out.Roots = append(out.Roots, n)
		out.Count += count
	}
	return out, nil
}

func buildNode(src Lister, name string) (Node, int, error) {
	h, err := proxy.Wrap(src, name)
	if err != nil {
		return Node{}, 0, err
	}
	id, err := h.UUID()
	if err != nil {
		return Node{}, 0, err
	}
	n := Node{Name: h.Name(), Type: h.Class(), UUID: id}
	count := 1

	if h.IsTransform() {
		pos, err := h.WorldPosition()
		if err != nil {
			return Node{}, 0, err
		}
		n.Position = &[3]float64{pos.X, pos.Y, pos.Z}
	}

	shapes, err := src.Relatives(name, scene.RelShapes)
	if err != nil {
		return Node{}, 0, err
	}
	kids, err := src.Relatives(name, scene.RelChildren)
	if err != nil {
		return Node{}, 0, err
	}
	for _, child := range append(shapes, kids...) {
		c, cnt, err := buildNode(src, child)
		if err != nil {
			return Node{}, 0, err
		}
		n.Children = append(n.Children, c)
		count += cnt
	}
	return n, count, nil
}
