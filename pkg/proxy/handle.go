// Package proxy provides ergonomic handles to nodes of a host scene
// graph. A Handle stands in for the node's name wherever a plain
// identifier is expected, and resolves property names against the host:
// node metadata first, then transform-specialized properties, then
// generic dynamic attributes.
package proxy

import (
	"iter"

	"github.com/chazu/tether/pkg/scene"
)

// Handle is an immutable reference to one scene node by name.
//
// A Handle is a snapshot of the name at wrap time. Deleting the node
// makes the handle stale (Exists reports false); renaming the node does
// NOT retarget existing handles — Rename returns a fresh handle and the
// old one keeps pointing at the old name. Callers must discard it.
type Handle struct {
	name  string
	class string // node type at wrap time
	xform bool   // class is transform-like
	eng   scene.Engine
}

// Wrap builds a handle for an existing node, attaching the transform
// extension when the node's class is transform-like.
func Wrap(eng scene.Engine, name string) (Handle, error) {
	class, err := eng.NodeType(name)
	if err != nil {
		return Handle{}, err
	}
	return Handle{
		name:  name,
		class: class,
		xform: isTransformClass(class),
		eng:   eng,
	}, nil
}

// WrapUntyped builds a generic handle without consulting the node's
// class, and without requiring the node to exist yet. The handle gains
// no transform extension even if the node later turns out to be one.
func WrapUntyped(eng scene.Engine, name string) Handle {
	return Handle{name: name, eng: eng}
}

// FromUUID builds a handle for the node carrying the uuid.
func FromUUID(eng scene.Engine, id string) (Handle, error) {
	matches, err := eng.FindUUID(id)
	if err != nil {
		return Handle{}, err
	}
	switch len(matches) {
	case 0:
		return Handle{}, scene.NotFoundError{Name: id}
	case 1:
		return Wrap(eng, matches[0])
	}
	return Handle{}, scene.AmbiguousError{UUID: id, Matches: matches}
}

// WrapAll lazily yields handles for a list of names. Names that no
// longer resolve are skipped, matching host listing semantics for
// vanished objects. The sequence is restartable by re-ranging it.
func WrapAll(eng scene.Engine, names []string) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for _, name := range names {
			h, err := Wrap(eng, name)
			if err != nil {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}
}

// Rename renames the underlying node and returns a handle bound to the
// resulting name. A trailing '#' in newName expands to a uniquing
// suffix. The receiver handle is stale afterwards; continued use targets
// the old name.
func Rename(h Handle, newName string) (Handle, error) {
	resolved, err := h.eng.Rename(h.name, newName)
	if err != nil {
		return Handle{}, err
	}
	return Wrap(h.eng, resolved)
}

// String returns the node name, letting a handle stand in for the
// identifier anywhere a string is built from it.
func (h Handle) String() string { return h.name }

// Name is the explicit as-identifier conversion.
func (h Handle) Name() string { return h.name }

// Class returns the node type cached at wrap time.
func (h Handle) Class() string { return h.class }

// IsTransform reports whether the transform extension is attached.
func (h Handle) IsTransform() bool { return h.xform }

// Exists re-queries the host on every call, so it reflects deletions
// that happened after the handle was created.
func (h Handle) Exists() bool {
	return h.eng != nil && h.eng.Exists(h.name)
}

// Type returns the node's current type from the host.
func (h Handle) Type() (string, error) {
	return h.eng.NodeType(h.name)
}

// UUID returns the node's uuid from the host.
func (h Handle) UUID() (string, error) {
	return h.eng.UUID(h.name)
}

// SameNode reports whether two handles name the same node. Equality is
// by current resolved name, the identifier contract of a handle.
func SameNode(a, b Handle) bool {
	return a.name == b.name
}

// Attr returns a transient reference to one attribute on this node. No
// engine call is made; resolution happens when the reference is used.
func (h Handle) Attr(name string) Attr {
	return Attr{h: h, name: name}
}
