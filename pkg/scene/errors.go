package scene

import (
	"fmt"
	"strings"
)

// NotFoundError reports a node name or UUID that matches nothing in the
// scene.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("node %q does not exist", e.Name)
}

// AmbiguousError reports a UUID lookup that unexpectedly matched more
// than one node.
type AmbiguousError struct {
	UUID    string
	Matches []string
}

func (e AmbiguousError) Error() string {
	return fmt.Sprintf("uuid %q matches %d nodes (%s)", e.UUID, len(e.Matches), strings.Join(e.Matches, ", "))
}

// AttributeNotFoundError reports a dynamic attribute missing from a node.
type AttributeNotFoundError struct {
	Node string
	Attr string
}

func (e AttributeNotFoundError) Error() string {
	return fmt.Sprintf("%q has no attribute %q", e.Node, e.Attr)
}

// ReadOnlyError reports a write to a property that cannot be assigned:
// node metadata, or a world-space scale.
type ReadOnlyError struct {
	Property string
}

func (e ReadOnlyError) Error() string {
	return fmt.Sprintf("property %q is read-only", e.Property)
}

// LockedAttributeError reports a write refused because the attribute is
// locked in the host.
type LockedAttributeError struct {
	Address string
}

func (e LockedAttributeError) Error() string {
	return fmt.Sprintf("attribute %q is locked", e.Address)
}

// ConnectionError reports a connect or disconnect the host rejected.
// Reason carries the host's own failure text.
type ConnectionError struct {
	Src    string
	Dst    string
	Reason string
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect %q -> %q: %s", e.Src, e.Dst, e.Reason)
}

// InvalidEnumError reports a symbolic enum label the attribute does not
// define.
type InvalidEnumError struct {
	Address string
	Label   string
}

func (e InvalidEnumError) Error() string {
	return fmt.Sprintf("enum value %q is invalid for %q", e.Label, e.Address)
}

// UnsetIndexError reports a read of a multi-attribute index that holds
// no data.
type UnsetIndexError struct {
	Address string
	Index   int
}

func (e UnsetIndexError) Error() string {
	return fmt.Sprintf("%q has no data at index %d", e.Address, e.Index)
}
