package proxy

import (
	"fmt"

	"github.com/chazu/tether/pkg/scene"
)

// Attr identifies one attribute on one node. It is created transiently
// by Handle.Attr and carries no engine state of its own; every action
// resolves against the host at call time.
//
// Attr is the chaining point for secondary actions on a property:
// locking, keyability, channel-box visibility, and connections.
type Attr struct {
	h    Handle
	name string
}

// Address returns the fully-qualified "node.attribute" string.
func (a Attr) Address() string {
	return scene.Addr(a.h.name, a.name)
}

// Node returns the owning handle.
func (a Attr) Node() Handle { return a.h }

// AttrName returns the attribute short name.
func (a Attr) AttrName() string { return a.name }

// String returns the address, letting an Attr stand in for it.
func (a Attr) String() string { return a.Address() }

// Index addresses one element of a multi-attribute.
func (a Attr) Index(i int) Attr {
	return Attr{h: a.h, name: fmt.Sprintf("%s[%d]", a.name, i)}
}

// Get reads the attribute through the generic path.
func (a Attr) Get() (scene.Value, error) {
	return a.h.GetAttr(a.name)
}

// Set writes the attribute through the generic path.
func (a Attr) Set(v scene.Value) error {
	return a.h.SetAttr(a.name, v)
}

// Size returns the element count of a multi-attribute. A scalar
// attribute also reports 0; IsMulti tells the two apart.
func (a Attr) Size() (int, error) {
	info, err := a.h.eng.AttrInfo(a.Address())
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// IsMulti reports whether the attribute is a multi.
func (a Attr) IsMulti() (bool, error) {
	info, err := a.h.eng.AttrInfo(a.Address())
	if err != nil {
		return false, err
	}
	return info.Multi, nil
}

// Locked reports the host's lock flag for the attribute.
func (a Attr) Locked() (bool, error) {
	return a.h.eng.Flag(a.Address(), scene.FlagLocked)
}

// SetLocked locks or unlocks the attribute.
func (a Attr) SetLocked(on bool) error {
	return a.h.eng.SetFlag(a.Address(), scene.FlagLocked, on)
}

// Keyable reports whether the attribute is keyable.
func (a Attr) Keyable() (bool, error) {
	return a.h.eng.Flag(a.Address(), scene.FlagKeyable)
}

func (a Attr) SetKeyable(on bool) error {
	return a.h.eng.SetFlag(a.Address(), scene.FlagKeyable, on)
}

// ChannelBox reports whether the attribute shows in the channel box.
func (a Attr) ChannelBox() (bool, error) {
	return a.h.eng.Flag(a.Address(), scene.FlagChannelBox)
}

func (a Attr) SetChannelBox(on bool) error {
	return a.h.eng.SetFlag(a.Address(), scene.FlagChannelBox, on)
}

// Connect wires this attribute into dst, which may be an Attr or a raw
// "node.attribute" string.
func (a Attr) Connect(dst any) error {
	return Connect(a.h.eng, a, dst)
}

// Disconnect breaks the connection from this attribute into dst.
func (a Attr) Disconnect(dst any) error {
	return Disconnect(a.h.eng, a, dst)
}

// Inputs returns handles for the nodes feeding into this attribute.
func (a Attr) Inputs() ([]Handle, error) {
	return InputsOf(a.h.eng, a)
}

// Outputs returns handles for the nodes this attribute feeds.
func (a Attr) Outputs() ([]Handle, error) {
	return OutputsOf(a.h.eng, a)
}
