package memory

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tether/pkg/scene"
)

// ---------------------------------------------------------------------------
// Attribute access
// ---------------------------------------------------------------------------

// AttrInfo describes an attribute's storage type, multi layout and enum
// labels.
func (s *Scene) AttrInfo(addr string) (scene.AttrInfo, error) {
	_, a, _, _, err := s.lookupAttr(addr)
	if err != nil {
		return scene.AttrInfo{}, err
	}
	info := scene.AttrInfo{
		Type:       a.typ,
		Multi:      a.multi,
		Size:       len(a.elems),
		EnumLabels: append([]string(nil), a.enumLabels...),
	}
	return info, nil
}

// GetAttr returns the attribute value. Transform aliases read through to
// the node's transform state; enum attributes return the raw index;
// multi-attributes return a scene.Multi unless the address is indexed.
func (s *Scene) GetAttr(addr string) (scene.Value, error) {
	n, a, _, index, err := s.lookupAttr(addr)
	if err != nil {
		return nil, err
	}
	if a.alias != "" {
		return n.transformComponent(a.alias), nil
	}
	if a.multi {
		if index < 0 {
			out := make(scene.Multi, len(a.elems))
			for i, v := range a.elems {
				out[i] = v
			}
			return out, nil
		}
		v, ok := a.elems[index]
		if !ok {
			return nil, scene.UnsetIndexError{Address: addr, Index: index}
		}
		return v, nil
	}
	if index >= 0 {
		return nil, fmt.Errorf("attribute %q is not a multi-attribute", addr)
	}
	return a.value, nil
}

// SetAttr writes the attribute. Locked attributes refuse the write.
// String-typed attributes require the string type hint, mirroring hosts
// that cannot infer the wire type of string data.
func (s *Scene) SetAttr(addr string, v scene.Value, hint scene.AttrType) error {
	n, a, _, index, err := s.lookupAttr(addr)
	if err != nil {
		return err
	}
	if a.locked {
		return scene.LockedAttributeError{Address: addr}
	}
	if (a.typ == scene.TypeString || a.typ == scene.TypeStringArray) && hint != a.typ {
		return fmt.Errorf("attribute %q requires type hint %q", addr, a.typ)
	}
	if a.alias != "" {
		vec, err := toVec(v)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", addr, err)
		}
		n.setTransformComponent(a.alias, vec)
		return nil
	}
	coerced, err := coerce(a, v)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", addr, err)
	}
	if a.multi {
		if index < 0 {
			return fmt.Errorf("multi-attribute %q requires an index", addr)
		}
		if a.elems == nil {
			a.elems = make(map[int]scene.Value)
		}
		a.elems[index] = coerced
		return nil
	}
	if index >= 0 {
		return fmt.Errorf("attribute %q is not a multi-attribute", addr)
	}
	a.value = coerced
	return nil
}

// Flag returns a per-attribute state flag.
func (s *Scene) Flag(addr string, f scene.Flag) (bool, error) {
	_, a, _, _, err := s.lookupAttr(addr)
	if err != nil {
		return false, err
	}
	switch f {
	case scene.FlagLocked:
		return a.locked, nil
	case scene.FlagKeyable:
		return a.keyable, nil
	case scene.FlagChannelBox:
		return a.channelBox, nil
	}
	return false, fmt.Errorf("unknown attribute flag %q", f)
}

// SetFlag sets a per-attribute state flag.
func (s *Scene) SetFlag(addr string, f scene.Flag, on bool) error {
	_, a, _, _, err := s.lookupAttr(addr)
	if err != nil {
		return err
	}
	switch f {
	case scene.FlagLocked:
		a.locked = on
	case scene.FlagKeyable:
		a.keyable = on
	case scene.FlagChannelBox:
		a.channelBox = on
	default:
		return fmt.Errorf("unknown attribute flag %q", f)
	}
	return nil
}

// AddAttr creates a dynamic attribute on the node.
func (s *Scene) AddAttr(name, longName string, def scene.AttrDef) error {
	n, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := scene.ValidateAttrName(longName); err != nil {
		return err
	}
	if _, exists := n.attrs[longName]; exists {
		return fmt.Errorf("%q already has an attribute %q", name, longName)
	}
	if def.Type == "" {
		return fmt.Errorf("attribute %q: no type given", longName)
	}
	a := &attribute{
		typ:        def.Type,
		keyable:    def.Keyable,
		multi:      def.Multi,
		enumLabels: append([]string(nil), def.EnumLabels...),
	}
	if def.Multi {
		a.elems = make(map[int]scene.Value)
	} else if def.Default != nil {
		coerced, err := coerce(a, def.Default)
		if err != nil {
			return fmt.Errorf("attribute %q: default: %w", longName, err)
		}
		a.value = coerced
	} else {
		a.value = zeroValue(def.Type)
	}
	n.addAttr(longName, a)
	return nil
}

// DeleteAttr removes a dynamic attribute. Built-in transform aliases
// cannot be removed.
func (s *Scene) DeleteAttr(addr string) error {
	n, a, base, _, err := s.lookupAttr(addr)
	if err != nil {
		return err
	}
	if a.alias != "" {
		return fmt.Errorf("cannot delete built-in attribute %q", addr)
	}
	if a.input != "" {
		s.removeOutput(a.input, addr)
	}
	for _, dst := range a.outputs {
		s.clearInput(dst)
	}
	delete(n.attrs, base)
	for i, o := range n.attrOrder {
		if o == base {
			n.attrOrder = append(n.attrOrder[:i], n.attrOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Connections
// ---------------------------------------------------------------------------

// Connect wires src into dst. A destination holds at most one input.
func (s *Scene) Connect(src, dst string) error {
	_, sa, _, _, err := s.lookupAttr(src)
	if err != nil {
		return err
	}
	_, da, _, _, err := s.lookupAttr(dst)
	if err != nil {
		return err
	}
	if da.locked {
		return fmt.Errorf("destination attribute %q is locked", dst)
	}
	if da.input == src {
		return fmt.Errorf("%q is already connected to %q", src, dst)
	}
	if da.input != "" {
		return fmt.Errorf("destination %q already has an incoming connection from %q", dst, da.input)
	}
	if !compatible(sa.typ, da.typ) {
		return fmt.Errorf("type mismatch: cannot connect %s %q to %s %q", sa.typ, src, da.typ, dst)
	}
	da.input = src
	sa.outputs = append(sa.outputs, dst)
	return nil
}

// Disconnect breaks an existing src -> dst connection.
func (s *Scene) Disconnect(src, dst string) error {
	_, da, _, _, err := s.lookupAttr(dst)
	if err != nil {
		return err
	}
	if da.input != src {
		return fmt.Errorf("%q is not connected to %q", src, dst)
	}
	da.input = ""
	s.removeOutput(src, dst)
	return nil
}

// Connections lists the addresses connected to addr on the given side.
func (s *Scene) Connections(addr string, dir scene.Direction) ([]string, error) {
	_, a, _, _, err := s.lookupAttr(addr)
	if err != nil {
		return nil, err
	}
	if dir == scene.Inputs {
		if a.input == "" {
			return nil, nil
		}
		return []string{a.input}, nil
	}
	return append([]string(nil), a.outputs...), nil
}

func (s *Scene) removeOutput(src, dst string) {
	_, a, _, _, err := s.lookupAttr(src)
	if err != nil {
		return
	}
	for i, o := range a.outputs {
		if o == dst {
			a.outputs = append(a.outputs[:i], a.outputs[i+1:]...)
			return
		}
	}
}

func (s *Scene) clearInput(dst string) {
	_, a, _, _, err := s.lookupAttr(dst)
	if err != nil {
		return
	}
	a.input = ""
}

// compatible reports whether a src attribute type may feed a dst type.
func compatible(src, dst scene.AttrType) bool {
	if src == dst {
		return true
	}
	numeric := func(t scene.AttrType) bool {
		return t == scene.TypeDouble || t == scene.TypeLong || t == scene.TypeBool || t == scene.TypeEnum
	}
	return numeric(src) && numeric(dst)
}

// ---------------------------------------------------------------------------
// Value coercion
// ---------------------------------------------------------------------------

func coerce(a *attribute, v scene.Value) (scene.Value, error) {
	switch a.typ {
	case scene.TypeDouble:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return f, nil
	case scene.TypeLong:
		i, err := toInt(v)
		if err != nil {
			return nil, err
		}
		return i, nil
	case scene.TypeBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int, int64, float64:
			i, _ := toInt(b)
			return i != 0, nil
		}
		return nil, fmt.Errorf("expected bool, got %T", v)
	case scene.TypeEnum:
		i, err := toInt(v)
		if err != nil {
			return nil, fmt.Errorf("expected enum index, got %T", v)
		}
		if len(a.enumLabels) > 0 && (i < 0 || int(i) >= len(a.enumLabels)) {
			return nil, fmt.Errorf("enum index %d out of range", i)
		}
		return i, nil
	case scene.TypeString:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return str, nil
	case scene.TypeVector:
		return toVec(v)
	case scene.TypeMatrix:
		m, ok := v.(sdf.M44)
		if !ok {
			return nil, fmt.Errorf("expected matrix, got %T", v)
		}
		return m, nil
	case scene.TypeDoubleArray:
		switch arr := v.(type) {
		case []float64:
			return append([]float64(nil), arr...), nil
		}
		return nil, fmt.Errorf("expected []float64, got %T", v)
	case scene.TypeStringArray:
		arr, ok := v.([]string)
		if !ok {
			return nil, fmt.Errorf("expected []string, got %T", v)
		}
		return append([]string(nil), arr...), nil
	}
	return nil, fmt.Errorf("unsupported attribute type %q", a.typ)
}

func zeroValue(t scene.AttrType) scene.Value {
	switch t {
	case scene.TypeDouble:
		return float64(0)
	case scene.TypeLong, scene.TypeEnum:
		return int64(0)
	case scene.TypeBool:
		return false
	case scene.TypeString:
		return ""
	case scene.TypeVector:
		return v3.Vec{}
	case scene.TypeMatrix:
		return sdf.Identity3d()
	case scene.TypeDoubleArray:
		return []float64(nil)
	case scene.TypeStringArray:
		return []string(nil)
	}
	return nil
}

func toFloat(v scene.Value) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

func toInt(v scene.Value) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

// toVec accepts the sequence shapes the engine admits for vector data.
func toVec(v scene.Value) (v3.Vec, error) {
	switch s := v.(type) {
	case v3.Vec:
		return s, nil
	case [3]float64:
		return v3.Vec{X: s[0], Y: s[1], Z: s[2]}, nil
	case []float64:
		if len(s) == 3 {
			return v3.Vec{X: s[0], Y: s[1], Z: s[2]}, nil
		}
	}
	return v3.Vec{}, fmt.Errorf("expected vector or 3-component sequence, got %T", v)
}
