// Package memory implements scene.Engine with an in-process scene
// graph. It is the reference host used by tests, the script console and
// the desktop session; a binding to a real DCC host would be linked in
// its place.
package memory

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"

	"github.com/chazu/tether/pkg/scene"
)

// Compile-time interface checks.
var (
	_ scene.Engine  = (*Scene)(nil)
	_ scene.Creator = (*Scene)(nil)
)

// transformTypes are the node classes that carry transform state.
var transformTypes = map[string]bool{
	"transform": true,
	"joint":     true,
}

// shapeTypes are the node classes Relatives(RelShapes) lists.
var shapeTypes = map[string]bool{
	"mesh":         true,
	"camera":       true,
	"nurbsCurve":   true,
	"nurbsSurface": true,
	"locator":      true,
}

// rotateOrderLabels are the enum labels of the seeded rotateOrder
// attribute on transform nodes.
var rotateOrderLabels = []string{"xyz", "yzx", "zxy", "xzy", "yxz", "zyx"}

// Scene is an in-memory scene graph. Not safe for concurrent use; all
// access is expected from a single scripting thread.
type Scene struct {
	nodes map[string]*node
	order []string // creation order, for stable listings
}

type node struct {
	name     string
	typ      string
	uuid     string
	parent   *node
	children []*node // insertion order

	attrs     map[string]*attribute
	attrOrder []string

	// Transform state; meaningful only for transform-class nodes.
	// Rotation is Euler degrees, composed Rz*Ry*Rx. Pivots are points in
	// object space.
	translation v3.Vec
	rotation    v3.Vec
	scale       v3.Vec
	rotatePivot v3.Vec
	scalePivot  v3.Vec
}

type attribute struct {
	typ        scene.AttrType
	value      scene.Value
	multi      bool
	elems      map[int]scene.Value
	enumLabels []string

	locked     bool
	keyable    bool
	channelBox bool

	// alias routes get/set to the owner's transform state instead of
	// the stored value.
	alias scene.Component

	input   string   // source address connected into this attribute
	outputs []string // destination addresses fed by this attribute
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{nodes: make(map[string]*node)}
}

// ---------------------------------------------------------------------------
// Creation and hierarchy
// ---------------------------------------------------------------------------

// CreateNode adds a node of the given type. An empty name defaults to
// the type with a uniquing placeholder; a trailing '#' expands to the
// smallest numeric suffix that makes the name unique. Returns the
// resolved name.
func (s *Scene) CreateNode(typ, name string) (string, error) {
	if typ == "" {
		return "", fmt.Errorf("node type is empty")
	}
	if name == "" {
		name = typ + "#"
	}
	if err := scene.ValidateName(name); err != nil {
		return "", err
	}
	resolved, err := s.uniqueName(name)
	if err != nil {
		return "", err
	}

	n := &node{
		name:  resolved,
		typ:   typ,
		uuid:  uuid.NewString(),
		attrs: make(map[string]*attribute),
		scale: v3.Vec{X: 1, Y: 1, Z: 1},
	}
	if transformTypes[typ] {
		seedTransformAttrs(n)
	}
	if typ == "joint" {
		n.addAttr("jointOrient", &attribute{typ: scene.TypeVector, value: v3.Vec{}})
	}

	s.nodes[resolved] = n
	s.order = append(s.order, resolved)
	return resolved, nil
}

func seedTransformAttrs(n *node) {
	n.addAttr("translate", &attribute{typ: scene.TypeVector, alias: scene.Translation, keyable: true})
	n.addAttr("rotate", &attribute{typ: scene.TypeVector, alias: scene.Rotation, keyable: true})
	n.addAttr("scale", &attribute{typ: scene.TypeVector, alias: scene.Scale, keyable: true})
	n.addAttr("rotatePivot", &attribute{typ: scene.TypeVector, alias: scene.RotatePivot})
	n.addAttr("scalePivot", &attribute{typ: scene.TypeVector, alias: scene.ScalePivot})
	n.addAttr("rotateAxis", &attribute{typ: scene.TypeVector, value: v3.Vec{}})
	n.addAttr("visibility", &attribute{typ: scene.TypeBool, value: true, keyable: true})
	n.addAttr("rotateOrder", &attribute{
		typ:        scene.TypeEnum,
		value:      int64(0),
		enumLabels: rotateOrderLabels,
	})
}

func (n *node) addAttr(name string, a *attribute) {
	n.attrs[name] = a
	n.attrOrder = append(n.attrOrder, name)
}

// uniqueName expands a trailing '#' placeholder, or verifies the literal
// name is free.
func (s *Scene) uniqueName(name string) (string, error) {
	if !strings.HasSuffix(name, "#") {
		if _, exists := s.nodes[name]; exists {
			return "", fmt.Errorf("a node named %q already exists", name)
		}
		return name, nil
	}
	base := name[:len(name)-1]
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if _, exists := s.nodes[candidate]; !exists {
			return candidate, nil
		}
	}
}

// SetParent moves child under parent. An empty parent name reparents to
// the scene root. The parent must be a transform-class node.
func (s *Scene) SetParent(child, parent string) error {
	c, err := s.lookup(child)
	if err != nil {
		return err
	}
	if parent == "" {
		s.detach(c)
		return nil
	}
	p, err := s.lookup(parent)
	if err != nil {
		return err
	}
	if !transformTypes[p.typ] {
		return fmt.Errorf("cannot parent %q under non-transform %q", child, parent)
	}
	for a := p; a != nil; a = a.parent {
		if a == c {
			return fmt.Errorf("cannot parent %q under its own descendant %q", child, parent)
		}
	}
	s.detach(c)
	c.parent = p
	p.children = append(p.children, c)
	return nil
}

func (s *Scene) detach(n *node) {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Delete removes a node and its whole subtree, breaking every
// connection that touches a removed node.
func (s *Scene) Delete(name string) error {
	n, err := s.lookup(name)
	if err != nil {
		return err
	}
	s.detach(n)
	s.deleteSubtree(n)
	return nil
}

func (s *Scene) deleteSubtree(n *node) {
	for _, c := range append([]*node(nil), n.children...) {
		s.deleteSubtree(c)
	}
	for attrName, a := range n.attrs {
		addr := scene.Addr(n.name, attrName)
		if a.input != "" {
			s.removeOutput(a.input, addr)
		}
		for _, dst := range a.outputs {
			s.clearInput(dst)
		}
	}
	delete(s.nodes, n.name)
	for i, name := range s.order {
		if name == n.name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ---------------------------------------------------------------------------
// Identity
// ---------------------------------------------------------------------------

// Exists reports whether a node of that name is present.
func (s *Scene) Exists(name string) bool {
	_, ok := s.nodes[name]
	return ok
}

// NodeType returns the node's type tag.
func (s *Scene) NodeType(name string) (string, error) {
	n, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return n.typ, nil
}

// UUID returns the node's uuid.
func (s *Scene) UUID(name string) (string, error) {
	n, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return n.uuid, nil
}

// FindUUID returns the names of all nodes carrying the uuid. The result
// has at most one element unless the scene is corrupt.
func (s *Scene) FindUUID(id string) ([]string, error) {
	var matches []string
	for _, name := range s.order {
		if s.nodes[name].uuid == id {
			matches = append(matches, name)
		}
	}
	return matches, nil
}

// Rename gives the node a new name, expanding a trailing '#'
// placeholder into a uniquing suffix. Connections referencing the node
// follow the rename; outstanding name strings held by callers do not.
func (s *Scene) Rename(name, newName string) (string, error) {
	n, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	if err := scene.ValidateName(newName); err != nil {
		return "", err
	}
	resolved, err := s.uniqueName(newName)
	if err != nil {
		return "", err
	}

	delete(s.nodes, name)
	n.name = resolved
	s.nodes[resolved] = n
	for i, o := range s.order {
		if o == name {
			s.order[i] = resolved
			break
		}
	}
	s.rewriteConnections(name, resolved)
	return resolved, nil
}

// rewriteConnections updates stored connection addresses after a rename.
func (s *Scene) rewriteConnections(oldName, newName string) {
	oldPrefix := oldName + "."
	rewrite := func(addr string) string {
		if strings.HasPrefix(addr, oldPrefix) {
			return newName + addr[len(oldName):]
		}
		return addr
	}
	for _, n := range s.nodes {
		for _, a := range n.attrs {
			a.input = rewrite(a.input)
			for i, dst := range a.outputs {
				a.outputs[i] = rewrite(dst)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Listings
// ---------------------------------------------------------------------------

// ListNodes returns every node name in creation order.
func (s *Scene) ListNodes() []string {
	return append([]string(nil), s.order...)
}

// Roots returns the names of nodes directly under the scene root, in
// creation order.
func (s *Scene) Roots() []string {
	var roots []string
	for _, name := range s.order {
		if s.nodes[name].parent == nil {
			roots = append(roots, name)
		}
	}
	return roots
}

// Relatives lists related node names. Children and descendants are
// restricted to transform-class nodes; shapes lists shape-class
// children. Order is the scene's native child insertion order, with
// descendants traversed depth-first.
func (s *Scene) Relatives(name string, rel scene.Relation) ([]string, error) {
	n, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	switch rel {
	case scene.RelParent:
		if n.parent == nil {
			return nil, nil
		}
		return []string{n.parent.name}, nil
	case scene.RelChildren:
		var out []string
		for _, c := range n.children {
			if transformTypes[c.typ] {
				out = append(out, c.name)
			}
		}
		return out, nil
	case scene.RelShapes:
		var out []string
		for _, c := range n.children {
			if shapeTypes[c.typ] {
				out = append(out, c.name)
			}
		}
		return out, nil
	case scene.RelDescendants:
		var out []string
		var walk func(*node)
		walk = func(p *node) {
			for _, c := range p.children {
				if transformTypes[c.typ] {
					out = append(out, c.name)
				}
				walk(c)
			}
		}
		walk(n)
		return out, nil
	}
	return nil, fmt.Errorf("unknown relation %d", rel)
}

// ---------------------------------------------------------------------------
// Internal lookup
// ---------------------------------------------------------------------------

func (s *Scene) lookup(name string) (*node, error) {
	n, ok := s.nodes[name]
	if !ok {
		return nil, scene.NotFoundError{Name: name}
	}
	return n, nil
}

// lookupAttr resolves "node.attr" or "node.attr[i]" to its node and
// attribute. index is -1 for non-indexed addresses.
func (s *Scene) lookupAttr(addr string) (*node, *attribute, string, int, error) {
	nodeName, attrName, err := scene.SplitAddr(addr)
	if err != nil {
		return nil, nil, "", 0, err
	}
	n, err := s.lookup(nodeName)
	if err != nil {
		return nil, nil, "", 0, err
	}
	base, index, err := scene.SplitIndex(attrName)
	if err != nil {
		return nil, nil, "", 0, err
	}
	a, ok := n.attrs[base]
	if !ok {
		return nil, nil, "", 0, scene.AttributeNotFoundError{Node: nodeName, Attr: base}
	}
	return n, a, base, index, nil
}
