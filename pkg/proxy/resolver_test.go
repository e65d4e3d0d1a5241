package proxy

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tether/pkg/scene"
)

func TestMetadataProperties(t *testing.T) {
	s := newScene(t)
	h := create(t, s, "joint", "hand")

	typ, err := h.Get("type")
	if err != nil || typ != "joint" {
		t.Errorf("type: got %v, %v", typ, err)
	}
	id, err := h.Get("uuid")
	if err != nil || id == "" {
		t.Errorf("uuid: got %v, %v", id, err)
	}

	var ro scene.ReadOnlyError
	if err := h.Set("type", "transform"); !errors.As(err, &ro) {
		t.Errorf("expected ReadOnlyError, got %v", err)
	}
	if err := h.Set("uuid", "x"); !errors.As(err, &ro) {
		t.Errorf("expected ReadOnlyError, got %v", err)
	}
}

// Metadata always wins over a dynamic attribute of the same name; the
// shadowed attribute stays reachable through GetAttr/SetAttr.
func TestMetadataShadowsDynamicAttr(t *testing.T) {
	s := newScene(t)
	h := create(t, s, "transform", "n")

	if _, err := h.AddAttribute("type", scene.AttrDef{Type: scene.TypeString}); err != nil {
		t.Fatal(err)
	}
	if err := h.SetAttr("type", "custom"); err != nil {
		t.Fatal(err)
	}

	got, err := h.Get("type")
	if err != nil || got != "transform" {
		t.Errorf("Get(type): got %v, %v; metadata must win", got, err)
	}
	shadowed, err := h.GetAttr("type")
	if err != nil || shadowed != "custom" {
		t.Errorf("GetAttr(type): got %v, %v", shadowed, err)
	}
}

func TestGenericAttributeResolution(t *testing.T) {
	s := newScene(t)
	h := create(t, s, "transform", "n")

	if _, err := h.AddAttribute("amount", scene.AttrDef{Type: scene.TypeDouble, Default: 0.25}); err != nil {
		t.Fatal(err)
	}
	v, err := h.Get("amount")
	if err != nil || v != 0.25 {
		t.Errorf("amount: got %v, %v", v, err)
	}
	if err := h.Set("amount", 0.75); err != nil {
		t.Fatal(err)
	}
	v, _ = h.Get("amount")
	if v != 0.75 {
		t.Errorf("after set: got %v", v)
	}

	var anf scene.AttributeNotFoundError
	if _, err := h.Get("nonsense"); !errors.As(err, &anf) {
		t.Errorf("expected AttributeNotFoundError, got %v", err)
	}
	if err := h.Set("nonsense", 1); !errors.As(err, &anf) {
		t.Errorf("expected AttributeNotFoundError, got %v", err)
	}
}

func TestEnumRoundTripsAsLabel(t *testing.T) {
	s := newScene(t)
	h := create(t, s, "transform", "n")

	v, err := h.Get("rotate_order")
	if err != nil || v != "xyz" {
		t.Errorf("default rotate_order: got %v, %v", v, err)
	}

	if err := h.Set("rotate_order", "yzx"); err != nil {
		t.Fatal(err)
	}
	v, _ = h.Get("rotate_order")
	if v != "yzx" {
		t.Errorf("after set: got %v", v)
	}

	// The raw index is accepted too.
	if err := h.Set("rotate_order", 2); err != nil {
		t.Fatal(err)
	}
	v, _ = h.Get("rotate_order")
	if v != "zxy" {
		t.Errorf("after index set: got %v", v)
	}

	var bad scene.InvalidEnumError
	if err := h.Set("rotate_order", "abc"); !errors.As(err, &bad) {
		t.Errorf("expected InvalidEnumError, got %v", err)
	}
	if bad.Label != "abc" {
		t.Errorf("label: got %q", bad.Label)
	}
}

func TestClassAliases(t *testing.T) {
	s := newScene(t)
	j := create(t, s, "joint", "hand")

	// Shorthand and long form hit the same attribute.
	if err := j.Set("ro", "zxy"); err != nil {
		t.Fatal(err)
	}
	v, err := j.Get("rotate_order")
	if err != nil || v != "zxy" {
		t.Errorf("rotate_order: got %v, %v", v, err)
	}

	// jo is a joint-only alias.
	if err := j.Set("jo", []float64{0, 90, 0}); err != nil {
		t.Fatalf("jo: %v", err)
	}
	raw, err := j.Get("jointOrient")
	if err != nil {
		t.Fatal(err)
	}
	if vec := raw.(v3.Vec); vec.Y != 90 {
		t.Errorf("jointOrient: got %v", vec)
	}

	tr := create(t, s, "transform", "plain")
	var anf scene.AttributeNotFoundError
	if _, err := tr.Get("jo"); !errors.As(err, &anf) {
		t.Errorf("jo on a transform: expected AttributeNotFoundError, got %v", err)
	}
}

func TestRegisterTransformClass(t *testing.T) {
	s := newScene(t)

	// Custom node classes are generic until registered.
	s.CreateNode("ikHandle", "ik")
	h, err := Wrap(s, "ik")
	if err != nil {
		t.Fatal(err)
	}
	if h.IsTransform() {
		t.Fatal("unregistered class must not be transform-like")
	}

	RegisterTransformClass("ikHandle")
	h, err = Wrap(s, "ik")
	if err != nil {
		t.Fatal(err)
	}
	if !h.IsTransform() {
		t.Error("registered class should be transform-like")
	}
}

func TestRegisterAliases(t *testing.T) {
	s := newScene(t)
	h := create(t, s, "transform", "n")
	if _, err := h.AddAttribute("stretchFactor", scene.AttrDef{Type: scene.TypeDouble}); err != nil {
		t.Fatal(err)
	}

	RegisterAliases("transform", map[string]string{"stretch": "stretchFactor"})

	if err := h.Set("stretch", 1.5); err != nil {
		t.Fatal(err)
	}
	v, err := h.Get("stretchFactor")
	if err != nil || v != 1.5 {
		t.Errorf("stretchFactor: got %v, %v", v, err)
	}
}

func TestDeleteAttribute(t *testing.T) {
	s := newScene(t)
	h := create(t, s, "transform", "n")
	if _, err := h.AddAttribute("temp", scene.AttrDef{Type: scene.TypeBool}); err != nil {
		t.Fatal(err)
	}
	if err := h.DeleteAttribute("temp"); err != nil {
		t.Fatal(err)
	}
	var anf scene.AttributeNotFoundError
	if _, err := h.Get("temp"); !errors.As(err, &anf) {
		t.Errorf("expected AttributeNotFoundError, got %v", err)
	}
}
