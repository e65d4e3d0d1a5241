package proxy

import (
	"fmt"

	"github.com/chazu/tether/pkg/scene"
)

// Connection operations accept attribute references and raw
// "node.attribute" strings interchangeably. Both are normalized to
// address strings before touching the host engine; host failure text is
// preserved inside the ConnectionError.

// Addresser is anything that resolves to an attribute address string.
// Attr implements it.
type Addresser interface {
	Address() string
}

// AddressOf normalizes an Attr, Addresser or raw string to an address.
// Pure formatting; no engine call is made.
func AddressOf(ref any) (string, error) {
	switch r := ref.(type) {
	case string:
		return r, nil
	case Addresser:
		return r.Address(), nil
	}
	return "", fmt.Errorf("cannot resolve %T to an attribute address", ref)
}

// Connect wires src into dst.
func Connect(eng scene.Engine, src, dst any) error {
	srcAddr, dstAddr, err := normalizePair(src, dst)
	if err != nil {
		return err
	}
	if err := eng.Connect(srcAddr, dstAddr); err != nil {
		return scene.ConnectionError{Src: srcAddr, Dst: dstAddr, Reason: err.Error()}
	}
	return nil
}

// Disconnect breaks the src -> dst connection.
func Disconnect(eng scene.Engine, src, dst any) error {
	srcAddr, dstAddr, err := normalizePair(src, dst)
	if err != nil {
		return err
	}
	if err := eng.Disconnect(srcAddr, dstAddr); err != nil {
		return scene.ConnectionError{Src: srcAddr, Dst: dstAddr, Reason: err.Error()}
	}
	return nil
}

// InputsOf returns handles for the nodes feeding into the attribute.
// An unconnected attribute yields an empty slice, not an error.
func InputsOf(eng scene.Engine, ref any) ([]Handle, error) {
	return connectedNodes(eng, ref, scene.Inputs)
}

// OutputsOf returns handles for the nodes the attribute feeds.
func OutputsOf(eng scene.Engine, ref any) ([]Handle, error) {
	return connectedNodes(eng, ref, scene.Outputs)
}

func connectedNodes(eng scene.Engine, ref any, dir scene.Direction) ([]Handle, error) {
	addr, err := AddressOf(ref)
	if err != nil {
		return nil, err
	}
	addrs, err := eng.Connections(addr, dir)
	if err != nil {
		return nil, err
	}
	out := make([]Handle, 0, len(addrs))
	for _, a := range addrs {
		nodeName, _, err := scene.SplitAddr(a)
		if err != nil {
			return nil, err
		}
		h, err := Wrap(eng, nodeName)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func normalizePair(src, dst any) (string, string, error) {
	srcAddr, err := AddressOf(src)
	if err != nil {
		return "", "", err
	}
	dstAddr, err := AddressOf(dst)
	if err != nil {
		return "", "", err
	}
	if err := scene.ValidateAddress(srcAddr); err != nil {
		return "", "", err
	}
	if err := scene.ValidateAddress(dstAddr); err != nil {
		return "", "", err
	}
	return srcAddr, dstAddr, nil
}
