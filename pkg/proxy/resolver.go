package proxy

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tether/pkg/scene"
)

// Property resolution order, fixed and total:
//
//  1. node metadata ("type", "uuid") — read-only, always wins
//  2. transform-specialized names, when the handle is transform-class
//  3. class-registered shorthand aliases
//  4. generic dynamic attribute
//
// A name resolving to none of these fails with AttributeNotFoundError.
// GetAttr/SetAttr skip steps 1-3 and are the escape hatch for dynamic
// attributes shadowed by built-ins.

// Get resolves and reads a property by name.
func (h Handle) Get(name string) (scene.Value, error) {
	switch name {
	case "type":
		return h.Type()
	case "uuid":
		return h.UUID()
	}

	if h.xform {
		if p, ok := xformProps[name]; ok {
			return h.eng.Transform(h.name, p.comp, p.space)
		}
		switch name {
		case "shape":
			sh, err := h.Shape()
			if err != nil || sh == nil {
				return nil, err
			}
			return *sh, nil
		case "parent":
			p, err := h.Parent()
			if err != nil || p == nil {
				return nil, err
			}
			return *p, nil
		case "children":
			return h.Children()
		case "descendants":
			return h.Descendants()
		}
	}

	if target, ok := aliasFor(h.class, name); ok {
		name = target
	}
	return h.GetAttr(name)
}

// Set resolves and writes a property by name. Metadata and hierarchy
// properties, and the world-space scale, are read-only.
func (h Handle) Set(name string, v scene.Value) error {
	switch name {
	case "type", "uuid":
		return scene.ReadOnlyError{Property: name}
	}

	if h.xform {
		if p, ok := xformProps[name]; ok {
			if p.readOnly {
				return scene.ReadOnlyError{Property: name}
			}
			return h.setTransformProp(name, p, v)
		}
		switch name {
		case "shape", "parent", "children", "descendants":
			return scene.ReadOnlyError{Property: name}
		}
	}

	if target, ok := aliasFor(h.class, name); ok {
		name = target
	}
	return h.SetAttr(name, v)
}

// GetAttr reads a dynamic attribute by name, bypassing metadata and
// transform-specialized resolution. Enum values come back as their
// symbolic label; 3-component values come back as vectors.
func (h Handle) GetAttr(name string) (scene.Value, error) {
	addr := scene.Addr(h.name, name)
	info, err := h.eng.AttrInfo(addr)
	if err != nil {
		return nil, err
	}
	raw, err := h.eng.GetAttr(addr)
	if err != nil {
		return nil, err
	}
	return shapeValue(info, raw), nil
}

// SetAttr writes a dynamic attribute by name, bypassing metadata and
// transform-specialized resolution. Enum attributes accept the symbolic
// label or the raw index; string attributes get the engine's string
// type hint supplied automatically.
func (h Handle) SetAttr(name string, v scene.Value) error {
	addr := scene.Addr(h.name, name)
	info, err := h.eng.AttrInfo(addr)
	if err != nil {
		return err
	}

	var hint scene.AttrType
	switch info.Type {
	case scene.TypeString, scene.TypeStringArray:
		hint = info.Type
	case scene.TypeEnum:
		if label, ok := v.(string); ok {
			idx := labelIndex(info.EnumLabels, label)
			if idx < 0 {
				return scene.InvalidEnumError{Address: addr, Label: label}
			}
			v = int64(idx)
		}
	case scene.TypeVector:
		if vec, ok := asVector(v); ok {
			v = vec
		}
	}
	return h.eng.SetAttr(addr, v, hint)
}

// AddAttribute creates a dynamic attribute on the node; name is always
// installed as the attribute's long name. Returns a reference to the
// new attribute.
func (h Handle) AddAttribute(name string, def scene.AttrDef) (Attr, error) {
	if err := h.eng.AddAttr(h.name, name, def); err != nil {
		return Attr{}, err
	}
	return h.Attr(name), nil
}

// DeleteAttribute removes a dynamic attribute from the node.
func (h Handle) DeleteAttribute(name string) error {
	return h.eng.DeleteAttr(scene.Addr(h.name, name))
}

// shapeValue coerces a raw engine value into the form the caller sees:
// enum labels instead of indices, vectors instead of bare sequences.
func shapeValue(info scene.AttrInfo, raw scene.Value) scene.Value {
	switch info.Type {
	case scene.TypeEnum:
		if idx, ok := rawInt(raw); ok && idx >= 0 && int(idx) < len(info.EnumLabels) {
			return info.EnumLabels[idx]
		}
	case scene.TypeVector:
		if vec, ok := asVector(raw); ok {
			return vec
		}
	}
	return raw
}

func labelIndex(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

func rawInt(v scene.Value) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

// asVector accepts the sequence shapes admitted for vector values.
func asVector(v scene.Value) (v3.Vec, bool) {
	switch s := v.(type) {
	case v3.Vec:
		return s, true
	case [3]float64:
		return v3.Vec{X: s[0], Y: s[1], Z: s[2]}, true
	case []float64:
		if len(s) == 3 {
			return v3.Vec{X: s[0], Y: s[1], Z: s[2]}, true
		}
	}
	return v3.Vec{}, false
}
