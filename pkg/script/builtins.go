package script

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/tether/pkg/proxy"
	"github.com/chazu/tether/pkg/scene"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpHandle wraps a proxy.Handle so node references flow between
// builtins.
type sexpHandle struct {
	h proxy.Handle
}

func (s *sexpHandle) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %q)", s.h.Name())
}
func (s *sexpHandle) Type() *zygo.RegisteredType { return nil }

// sexpAttr wraps a proxy.Attr.
type sexpAttr struct {
	a proxy.Attr
}

func (s *sexpAttr) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(attr %q)", s.a.Address())
}
func (s *sexpAttr) Type() *zygo.RegisteredType { return nil }

// Address lets a sexpAttr satisfy connection normalization directly.
func (s *sexpAttr) Address() string { return s.a.Address() }

// sexpVec wraps a vector value.
type sexpVec struct {
	vec v3.Vec
}

func (s *sexpVec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", s.vec.X, s.vec.Y, s.vec.Z)
}
func (s *sexpVec) Type() *zygo.RegisteredType { return nil }

// sexpMatrix wraps a matrix value.
type sexpMatrix struct {
	m sdf.M44
}

func (s *sexpMatrix) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(matrix %v)", s.m)
}
func (s *sexpMatrix) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if len(str.S) > len(kwPrefix) && str.S[:len(kwPrefix)] == kwPrefix {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toHandle accepts a node reference or a node name string.
func toHandle(eng scene.Engine, s zygo.Sexp) (proxy.Handle, error) {
	switch v := s.(type) {
	case *sexpHandle:
		return v.h, nil
	case *zygo.SexpStr:
		return proxy.Wrap(eng, v.S)
	}
	return proxy.Handle{}, fmt.Errorf("expected node, got %T (%s)", s, s.SexpString(nil))
}

// toAttrRef accepts an attribute reference or an address string.
func toAttrRef(s zygo.Sexp) (any, error) {
	switch v := s.(type) {
	case *sexpAttr:
		return v.a, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return nil, fmt.Errorf("expected attribute or address string, got %T (%s)", s, s.SexpString(nil))
}

// toValue converts a Sexp into an attribute value.
func toValue(s zygo.Sexp) (scene.Value, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpStr:
		return v.S, nil
	case *zygo.SexpBool:
		return v.Val, nil
	case *sexpVec:
		return v.vec, nil
	case *sexpMatrix:
		return v.m, nil
	case *zygo.SexpArray:
		out := make([]float64, 0, len(v.Val))
		for _, e := range v.Val {
			f, err := toFloat64(e)
			if err != nil {
				return nil, fmt.Errorf("array element: %w", err)
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %T (%s)", s, s.SexpString(nil))
}

// fromValue converts an attribute value into a Sexp.
func fromValue(v scene.Value) zygo.Sexp {
	switch t := v.(type) {
	case nil:
		return zygo.SexpNull
	case float64:
		return &zygo.SexpFloat{Val: t}
	case int64:
		return &zygo.SexpInt{Val: t}
	case int:
		return &zygo.SexpInt{Val: int64(t)}
	case bool:
		return &zygo.SexpBool{Val: t}
	case string:
		return &zygo.SexpStr{S: t}
	case v3.Vec:
		return &sexpVec{vec: t}
	case sdf.M44:
		return &sexpMatrix{m: t}
	case proxy.Handle:
		return &sexpHandle{h: t}
	case []proxy.Handle:
		arr := make([]zygo.Sexp, len(t))
		for i, h := range t {
			arr[i] = &sexpHandle{h: h}
		}
		return &zygo.SexpArray{Val: arr}
	case []float64:
		arr := make([]zygo.Sexp, len(t))
		for i, f := range t {
			arr[i] = &zygo.SexpFloat{Val: f}
		}
		return &zygo.SexpArray{Val: arr}
	case []string:
		arr := make([]zygo.Sexp, len(t))
		for i, s := range t {
			arr[i] = &zygo.SexpStr{S: s}
		}
		return &zygo.SexpArray{Val: arr}
	}
	return &zygo.SexpStr{S: fmt.Sprintf("%v", v)}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the console builtins into a zygomys
// environment, all bound to the session's engine. Source must be run
// through preprocessSource first so keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, eng scene.Engine) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (node "name")  /  (node-from-uuid "...")
	// -----------------------------------------------------------------------
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("node requires a name argument")
		}
		n, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		h, err := proxy.Wrap(eng, n)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpHandle{h: h}, nil
	})

	env.AddFunction("node_from_uuid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("node-from-uuid requires a uuid argument")
		}
		id, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node-from-uuid: %w", err)
		}
		h, err := proxy.FromUUID(eng, id)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpHandle{h: h}, nil
	})

	// -----------------------------------------------------------------------
	// (exists "name")
	// -----------------------------------------------------------------------
	env.AddFunction("exists", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("exists requires one argument")
		}
		switch v := args[0].(type) {
		case *sexpHandle:
			return &zygo.SexpBool{Val: v.h.Exists()}, nil
		case *zygo.SexpStr:
			return &zygo.SexpBool{Val: eng.Exists(v.S)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("exists: expected node or name")
	})

	// -----------------------------------------------------------------------
	// (get n "prop")  /  (set-prop n "prop" value)
	// "set" is a zygomys assignment form, so the write side gets its own
	// name.
	// -----------------------------------------------------------------------
	env.AddFunction("get", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("get requires a node and a property name")
		}
		h, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("get: %w", err)
		}
		prop, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("get: %w", err)
		}
		v, err := h.Get(prop)
		if err != nil {
			return zygo.SexpNull, err
		}
		return fromValue(v), nil
	})

	env.AddFunction("set_prop", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("set-prop requires a node, a property name and a value")
		}
		h, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-prop: %w", err)
		}
		prop, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-prop: %w", err)
		}
		v, err := toValue(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-prop: %w", err)
		}
		if err := h.Set(prop, v); err != nil {
			return zygo.SexpNull, err
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (get-attr n "name") / (set-attr n "name" v)
	// Escape hatch past built-in property shadowing.
	// -----------------------------------------------------------------------
	env.AddFunction("get_attr", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("get-attr requires a node and an attribute name")
		}
		h, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("get-attr: %w", err)
		}
		attr, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("get-attr: %w", err)
		}
		v, err := h.GetAttr(attr)
		if err != nil {
			return zygo.SexpNull, err
		}
		return fromValue(v), nil
	})

	env.AddFunction("set_attr", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("set-attr requires a node, an attribute name and a value")
		}
		h, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-attr: %w", err)
		}
		attr, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-attr: %w", err)
		}
		v, err := toValue(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-attr: %w", err)
		}
		if err := h.SetAttr(attr, v); err != nil {
			return zygo.SexpNull, err
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (attr n "name") -> attribute reference
	// -----------------------------------------------------------------------
	env.AddFunction("attr", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("attr requires a node and an attribute name")
		}
		h, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("attr: %w", err)
		}
		attrName, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("attr: %w", err)
		}
		return &sexpAttr{a: h.Attr(attrName)}, nil
	})

	// -----------------------------------------------------------------------
	// (address a) -> "node.attribute"
	// -----------------------------------------------------------------------
	env.AddFunction("address", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("address requires one argument")
		}
		ref, err := toAttrRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("address: %w", err)
		}
		addr, err := proxy.AddressOf(ref)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpStr{S: addr}, nil
	})

	// -----------------------------------------------------------------------
	// (add-attr n "name" :type "double" :keyable true)
	// (delete-attr n "name")
	// -----------------------------------------------------------------------
	env.AddFunction("add_attr", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("add-attr requires a node and an attribute name")
		}
		h, err := toHandle(eng, pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-attr: %w", err)
		}
		attrName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-attr: %w", err)
		}

		def := scene.AttrDef{Type: scene.TypeDouble}
		if v, ok := pa.kw["type"]; ok {
			t, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-attr: type: %w", err)
			}
			def.Type = scene.AttrType(t)
		}
		if v, ok := pa.kw["keyable"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-attr: keyable: %w", err)
			}
			def.Keyable = b
		}
		if v, ok := pa.kw["multi"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-attr: multi: %w", err)
			}
			def.Multi = b
		}
		if v, ok := pa.kw["default"]; ok {
			d, err := toValue(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-attr: default: %w", err)
			}
			def.Default = d
		}
		if v, ok := pa.kw["enum"]; ok {
			arr, ok := v.(*zygo.SexpArray)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("add-attr: enum: expected array of labels")
			}
			for _, e := range arr.Val {
				label, err := toString(e)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("add-attr: enum: %w", err)
				}
				def.EnumLabels = append(def.EnumLabels, label)
			}
			def.Type = scene.TypeEnum
		}

		a, err := h.AddAttribute(attrName, def)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpAttr{a: a}, nil
	})

	env.AddFunction("delete_attr", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("delete-attr requires a node and an attribute name")
		}
		h, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-attr: %w", err)
		}
		attrName, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete-attr: %w", err)
		}
		if err := h.DeleteAttribute(attrName); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (lock a true) / (keyable a false)
	// -----------------------------------------------------------------------
	env.AddFunction("lock", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return flagBuiltin(eng, "lock", scene.FlagLocked, args)
	})
	env.AddFunction("keyable", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return flagBuiltin(eng, "keyable", scene.FlagKeyable, args)
	})

	// -----------------------------------------------------------------------
	// (connect a b) / (disconnect a b) / (inputs a) / (outputs a)
	// -----------------------------------------------------------------------
	env.AddFunction("connect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		src, dst, err := connArgs("connect", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := proxy.Connect(eng, src, dst); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	env.AddFunction("disconnect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		src, dst, err := connArgs("disconnect", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := proxy.Disconnect(eng, src, dst); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	env.AddFunction("inputs", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("inputs requires one argument")
		}
		ref, err := toAttrRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inputs: %w", err)
		}
		hs, err := proxy.InputsOf(eng, ref)
		if err != nil {
			return zygo.SexpNull, err
		}
		return fromValue(hs), nil
	})

	env.AddFunction("outputs", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("outputs requires one argument")
		}
		ref, err := toAttrRef(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("outputs: %w", err)
		}
		hs, err := proxy.OutputsOf(eng, ref)
		if err != nil {
			return zygo.SexpNull, err
		}
		return fromValue(hs), nil
	})

	// -----------------------------------------------------------------------
	// (rename n "new_name")  -- returns the NEW node reference
	// -----------------------------------------------------------------------
	env.AddFunction("rename", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rename requires a node and a new name")
		}
		h, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rename: %w", err)
		}
		newName, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rename: %w", err)
		}
		renamed, err := proxy.Rename(h, newName)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpHandle{h: renamed}, nil
	})

	// -----------------------------------------------------------------------
	// (parent n) / (children n) / (descendants n) / (shape n)
	// -----------------------------------------------------------------------
	env.AddFunction("parent", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		h, err := oneHandle(eng, "parent", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		p, err := h.Parent()
		if err != nil {
			return zygo.SexpNull, err
		}
		if p == nil {
			return zygo.SexpNull, nil
		}
		return &sexpHandle{h: *p}, nil
	})

	env.AddFunction("children", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		h, err := oneHandle(eng, "children", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		kids, err := h.Children()
		if err != nil {
			return zygo.SexpNull, err
		}
		return fromValue(kids), nil
	})

	env.AddFunction("descendants", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		h, err := oneHandle(eng, "descendants", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		desc, err := h.Descendants()
		if err != nil {
			return zygo.SexpNull, err
		}
		return fromValue(desc), nil
	})

	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		h, err := oneHandle(eng, "shape", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		sh, err := h.Shape()
		if err != nil {
			return zygo.SexpNull, err
		}
		if sh == nil {
			return zygo.SexpNull, nil
		}
		return &sexpHandle{h: *sh}, nil
	})

	// Creation builtins only when the engine can build content.
	if creator, ok := eng.(scene.Creator); ok {
		registerCreatorBuiltins(env, eng, creator)
	}
}

// registerCreatorBuiltins installs the scene-building builtins.
func registerCreatorBuiltins(env *zygo.Zlisp, eng scene.Engine, creator scene.Creator) {

	// (create "transform" "name") -- name optional
	env.AddFunction("create", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 || len(args) > 2 {
			return zygo.SexpNull, fmt.Errorf("create requires a type and an optional name")
		}
		typ, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("create: %w", err)
		}
		var nodeName string
		if len(args) == 2 {
			nodeName, err = toString(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("create: %w", err)
			}
		}
		resolved, err := creator.CreateNode(typ, nodeName)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := proxy.Wrap(eng, resolved)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpHandle{h: h}, nil
	})

	// (delete n)
	env.AddFunction("delete", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		h, err := oneHandle(eng, "delete", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := creator.Delete(h.Name()); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// (set-parent child parent) -- parent nil reparents to the root
	env.AddFunction("set_parent", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("set-parent requires a child and a parent")
		}
		child, err := toHandle(eng, args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-parent: %w", err)
		}
		var parentName string
		if args[1] != zygo.SexpNull {
			p, err := toHandle(eng, args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("set-parent: %w", err)
			}
			parentName = p.Name()
		}
		if err := creator.SetParent(child.Name(), parentName); err != nil {
			return zygo.SexpNull, err
		}
		return args[0], nil
	})
}

func oneHandle(eng scene.Engine, builtin string, args []zygo.Sexp) (proxy.Handle, error) {
	if len(args) != 1 {
		return proxy.Handle{}, fmt.Errorf("%s requires a node argument", builtin)
	}
	h, err := toHandle(eng, args[0])
	if err != nil {
		return proxy.Handle{}, fmt.Errorf("%s: %w", builtin, err)
	}
	return h, nil
}

func flagBuiltin(eng scene.Engine, builtin string, f scene.Flag, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("%s requires an attribute and a bool", builtin)
	}
	ref, err := toAttrRef(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
	}
	addr, err := proxy.AddressOf(ref)
	if err != nil {
		return zygo.SexpNull, err
	}
	on, err := toBool(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
	}
	if err := eng.SetFlag(addr, f, on); err != nil {
		return zygo.SexpNull, err
	}
	return zygo.SexpNull, nil
}

func connArgs(builtin string, args []zygo.Sexp) (any, any, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s requires a source and a destination", builtin)
	}
	src, err := toAttrRef(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: source: %w", builtin, err)
	}
	dst, err := toAttrRef(args[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: destination: %w", builtin, err)
	}
	return src, dst, nil
}
