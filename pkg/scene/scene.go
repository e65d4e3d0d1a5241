// Package scene defines the abstract host-engine contract the proxy
// layer is written against. Implementations (an in-memory scene, a
// binding to a real DCC host) provide node storage, attributes,
// connections and transform math behind this interface. The abstraction
// allows swapping hosts without changing the rest of the system.
package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is an attribute payload crossing the engine boundary.
// Concrete types: float64, int64, bool, string, v3.Vec, sdf.M44,
// []float64, []string, and Multi for indexed multi-attributes.
type Value = any

// Multi holds the sparse elements of a multi-attribute, keyed by index.
type Multi map[int]Value

// AttrType tags the storage type of an attribute.
type AttrType string

const (
	TypeDouble      AttrType = "double"
	TypeLong        AttrType = "long"
	TypeBool        AttrType = "bool"
	TypeString      AttrType = "string"
	TypeEnum        AttrType = "enum"
	TypeVector      AttrType = "double3"
	TypeMatrix      AttrType = "matrix"
	TypeDoubleArray AttrType = "doubleArray"
	TypeStringArray AttrType = "stringArray"
)

// Flag identifies a per-attribute state flag.
type Flag string

const (
	FlagLocked     Flag = "locked"
	FlagKeyable    Flag = "keyable"
	FlagChannelBox Flag = "channelBox"
)

// Direction selects which side of a connection to list.
type Direction int

const (
	Inputs  Direction = iota // sources feeding into the attribute
	Outputs                  // destinations fed by the attribute
)

// Component identifies a transform component for world/local queries.
type Component string

const (
	Translation Component = "translation"
	Rotation    Component = "rotation"
	Scale       Component = "scale"
	RotatePivot Component = "rotatePivot"
	ScalePivot  Component = "scalePivot"
	Matrix      Component = "matrix"
)

// Space selects the coordinate space of a transform query.
type Space int

const (
	Local Space = iota
	World
)

// Relation selects which related nodes Relatives lists.
type Relation int

const (
	RelParent      Relation = iota // immediate parent transform
	RelChildren                    // immediate transform-class children, shapes excluded
	RelShapes                      // immediate shape-class children
	RelDescendants                 // all transform-class nodes below, engine traversal order
)

// AttrInfo describes an existing attribute.
type AttrInfo struct {
	Type       AttrType
	Multi      bool
	Size       int      // element count for multi-attributes
	EnumLabels []string // symbolic labels for enum attributes, index order
}

// AttrDef describes a dynamic attribute to create.
type AttrDef struct {
	Type       AttrType
	Keyable    bool
	Default    Value
	EnumLabels []string
	Multi      bool
}

// Engine is the abstract host scene-graph interface. All calls are
// synchronous; they either succeed or fail immediately. Every address
// argument is a "node.attribute" string.
type Engine interface {
	// Node identity
	Exists(name string) bool
	NodeType(name string) (string, error)
	UUID(name string) (string, error)
	FindUUID(uuid string) ([]string, error)
	Rename(name, newName string) (string, error)

	// Attributes
	AttrInfo(addr string) (AttrInfo, error)
	GetAttr(addr string) (Value, error)
	// SetAttr writes an attribute. String-typed attributes require the
	// hint to carry TypeString; other types may pass the zero hint.
	SetAttr(addr string, v Value, hint AttrType) error
	Flag(addr string, f Flag) (bool, error)
	SetFlag(addr string, f Flag, on bool) error
	AddAttr(name, longName string, def AttrDef) error
	DeleteAttr(addr string) error

	// Connections
	Connect(src, dst string) error
	Disconnect(src, dst string) error
	Connections(addr string, dir Direction) ([]string, error)

	// Transforms and hierarchy. World-scale assignment is not supported
	// by any host; SetTransform rejects it.
	Transform(name string, c Component, s Space) (Value, error)
	SetTransform(name string, c Component, s Space, v Value) error
	Relatives(name string, rel Relation) ([]string, error)
}

// Creator is implemented by engines that can build scene content.
// The proxy core never requires it; the script console, the desktop
// session and tests do.
type Creator interface {
	CreateNode(typ, name string) (string, error)
	Delete(name string) error
	SetParent(child, parent string) error
}

// Addr joins a node name and an attribute name into an address.
func Addr(node, attr string) string {
	return node + "." + attr
}

// IndexedAddr addresses one element of a multi-attribute.
func IndexedAddr(node, attr string, index int) string {
	return fmt.Sprintf("%s.%s[%d]", node, attr, index)
}

// SplitAddr splits "node.attribute" at the first dot. The attribute part
// may carry a multi index suffix ("attr[3]").
func SplitAddr(addr string) (node, attr string, err error) {
	i := strings.IndexByte(addr, '.')
	if i <= 0 || i == len(addr)-1 {
		return "", "", fmt.Errorf("malformed attribute address %q", addr)
	}
	return addr[:i], addr[i+1:], nil
}

// SplitIndex splits an attribute name like "attr[3]" into its base name
// and index. Names without an index return index -1.
func SplitIndex(attr string) (base string, index int, err error) {
	open := strings.IndexByte(attr, '[')
	if open < 0 {
		return attr, -1, nil
	}
	if !strings.HasSuffix(attr, "]") {
		return "", 0, fmt.Errorf("malformed indexed attribute %q", attr)
	}
	n, err := strconv.Atoi(attr[open+1 : len(attr)-1])
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("malformed indexed attribute %q", attr)
	}
	return attr[:open], n, nil
}
