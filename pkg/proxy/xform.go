package proxy

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tether/pkg/scene"
)

// The transform extension: specialized coordinate and hierarchy access
// for transform-class handles. Property names here resolve ahead of
// generic attributes (see resolver.go); the methods below are the typed
// face of the same operations.

type xformProp struct {
	comp     scene.Component
	space    scene.Space
	matrix   bool
	readOnly bool // world scale cannot be assigned by any host
}

var xformProps = map[string]xformProp{
	"local_position":     {comp: scene.Translation, space: scene.Local},
	"local_rotation":     {comp: scene.Rotation, space: scene.Local},
	"local_scale":        {comp: scene.Scale, space: scene.Local},
	"local_rotate_pivot": {comp: scene.RotatePivot, space: scene.Local},
	"local_scale_pivot":  {comp: scene.ScalePivot, space: scene.Local},
	"local_matrix":       {comp: scene.Matrix, space: scene.Local, matrix: true},

	"world_position":     {comp: scene.Translation, space: scene.World},
	"world_rotation":     {comp: scene.Rotation, space: scene.World},
	"world_scale":        {comp: scene.Scale, space: scene.World, readOnly: true},
	"world_rotate_pivot": {comp: scene.RotatePivot, space: scene.World},
	"world_scale_pivot":  {comp: scene.ScalePivot, space: scene.World},
	"world_matrix":       {comp: scene.Matrix, space: scene.World, matrix: true},
}

// setTransformProp routes a resolver-level write into the engine,
// coercing sequences for vector components. readOnly props are rejected
// before this point.
func (h Handle) setTransformProp(name string, p xformProp, v scene.Value) error {
	if p.matrix {
		return h.eng.SetTransform(h.name, p.comp, p.space, v)
	}
	vec, ok := asVector(v)
	if !ok {
		return scene.AttributeNotFoundError{Node: h.name, Attr: name}
	}
	return h.eng.SetTransform(h.name, p.comp, p.space, vec)
}

func (h Handle) vectorProp(name string) (v3.Vec, error) {
	if !h.xform {
		return v3.Vec{}, scene.AttributeNotFoundError{Node: h.name, Attr: name}
	}
	p := xformProps[name]
	raw, err := h.eng.Transform(h.name, p.comp, p.space)
	if err != nil {
		return v3.Vec{}, err
	}
	vec, _ := asVector(raw)
	return vec, nil
}

func (h Handle) setVectorProp(name string, v scene.Value) error {
	if !h.xform {
		return scene.AttributeNotFoundError{Node: h.name, Attr: name}
	}
	p := xformProps[name]
	if p.readOnly {
		return scene.ReadOnlyError{Property: name}
	}
	return h.setTransformProp(name, p, v)
}

// LocalPosition returns the node's translation in its parent's space.
func (h Handle) LocalPosition() (v3.Vec, error) { return h.vectorProp("local_position") }

// SetLocalPosition accepts a vector or a 3-component sequence.
func (h Handle) SetLocalPosition(v scene.Value) error { return h.setVectorProp("local_position", v) }

// LocalRotation returns Euler degrees in local space.
func (h Handle) LocalRotation() (v3.Vec, error)       { return h.vectorProp("local_rotation") }
func (h Handle) SetLocalRotation(v scene.Value) error { return h.setVectorProp("local_rotation", v) }

func (h Handle) LocalScale() (v3.Vec, error)       { return h.vectorProp("local_scale") }
func (h Handle) SetLocalScale(v scene.Value) error { return h.setVectorProp("local_scale", v) }

func (h Handle) LocalRotatePivot() (v3.Vec, error) { return h.vectorProp("local_rotate_pivot") }
func (h Handle) SetLocalRotatePivot(v scene.Value) error {
	return h.setVectorProp("local_rotate_pivot", v)
}

func (h Handle) LocalScalePivot() (v3.Vec, error) { return h.vectorProp("local_scale_pivot") }
func (h Handle) SetLocalScalePivot(v scene.Value) error {
	return h.setVectorProp("local_scale_pivot", v)
}

func (h Handle) WorldPosition() (v3.Vec, error)       { return h.vectorProp("world_position") }
func (h Handle) SetWorldPosition(v scene.Value) error { return h.setVectorProp("world_position", v) }

func (h Handle) WorldRotation() (v3.Vec, error)       { return h.vectorProp("world_rotation") }
func (h Handle) SetWorldRotation(v scene.Value) error { return h.setVectorProp("world_rotation", v) }

// WorldScale is read-only: no host supports assigning an absolute world
// scale. SetWorldScale always fails with ReadOnlyError, before any
// engine call.
func (h Handle) WorldScale() (v3.Vec, error) { return h.vectorProp("world_scale") }
func (h Handle) SetWorldScale(scene.Value) error {
	return scene.ReadOnlyError{Property: "world_scale"}
}

func (h Handle) WorldRotatePivot() (v3.Vec, error) { return h.vectorProp("world_rotate_pivot") }
func (h Handle) SetWorldRotatePivot(v scene.Value) error {
	return h.setVectorProp("world_rotate_pivot", v)
}

func (h Handle) WorldScalePivot() (v3.Vec, error) { return h.vectorProp("world_scale_pivot") }
func (h Handle) SetWorldScalePivot(v scene.Value) error {
	return h.setVectorProp("world_scale_pivot", v)
}

func (h Handle) matrixProp(name string) (sdf.M44, error) {
	if !h.xform {
		return sdf.M44{}, scene.AttributeNotFoundError{Node: h.name, Attr: name}
	}
	p := xformProps[name]
	raw, err := h.eng.Transform(h.name, p.comp, p.space)
	if err != nil {
		return sdf.M44{}, err
	}
	m, ok := raw.(sdf.M44)
	if !ok {
		return sdf.M44{}, scene.AttributeNotFoundError{Node: h.name, Attr: name}
	}
	return m, nil
}

// LocalMatrix returns the node's local transformation matrix.
func (h Handle) LocalMatrix() (sdf.M44, error) { return h.matrixProp("local_matrix") }

// SetLocalMatrix assigns the local matrix; the engine decomposes it
// into its transform state.
func (h Handle) SetLocalMatrix(m sdf.M44) error {
	if !h.xform {
		return scene.AttributeNotFoundError{Node: h.name, Attr: "local_matrix"}
	}
	return h.eng.SetTransform(h.name, scene.Matrix, scene.Local, m)
}

// WorldMatrix returns the node's world transformation matrix.
func (h Handle) WorldMatrix() (sdf.M44, error) { return h.matrixProp("world_matrix") }

func (h Handle) SetWorldMatrix(m sdf.M44) error {
	if !h.xform {
		return scene.AttributeNotFoundError{Node: h.name, Attr: "world_matrix"}
	}
	return h.eng.SetTransform(h.name, scene.Matrix, scene.World, m)
}

// ---------------------------------------------------------------------------
// Hierarchy navigation
// ---------------------------------------------------------------------------

// Shape returns the node's first attached shape in the engine's native
// relative-listing order, or nil when the node has none. Nodes with
// several shapes surface only the first; the order is the host's, never
// re-derived here.
func (h Handle) Shape() (*Handle, error) {
	if !h.xform {
		return nil, scene.AttributeNotFoundError{Node: h.name, Attr: "shape"}
	}
	shapes, err := h.eng.Relatives(h.name, scene.RelShapes)
	if err != nil {
		return nil, err
	}
	if len(shapes) == 0 {
		return nil, nil
	}
	sh, err := Wrap(h.eng, shapes[0])
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// Parent returns the immediate parent transform, or nil when the node
// sits directly under the scene root.
func (h Handle) Parent() (*Handle, error) {
	if !h.xform {
		return nil, scene.AttributeNotFoundError{Node: h.name, Attr: "parent"}
	}
	parents, err := h.eng.Relatives(h.name, scene.RelParent)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, nil
	}
	p, err := Wrap(h.eng, parents[0])
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Children returns the immediate transform-class children, shapes
// excluded, in the engine's native listing order.
func (h Handle) Children() ([]Handle, error) {
	if !h.xform {
		return nil, scene.AttributeNotFoundError{Node: h.name, Attr: "children"}
	}
	return h.wrapRelatives(scene.RelChildren)
}

// Descendants returns every transform-class node below this one as a
// flat sequence in engine traversal order. The node itself and shape
// nodes never appear.
func (h Handle) Descendants() ([]Handle, error) {
	if !h.xform {
		return nil, scene.AttributeNotFoundError{Node: h.name, Attr: "descendants"}
	}
	return h.wrapRelatives(scene.RelDescendants)
}

func (h Handle) wrapRelatives(rel scene.Relation) ([]Handle, error) {
	names, err := h.eng.Relatives(h.name, rel)
	if err != nil {
		return nil, err
	}
	out := make([]Handle, 0, len(names))
	for _, name := range names {
		c, err := Wrap(h.eng, name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
