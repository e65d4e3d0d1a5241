package memory

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tether/pkg/scene"
)

func TestSeededTransformAttrs(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")

	info, err := s.AttrInfo("n.rotateOrder")
	if err != nil {
		t.Fatalf("AttrInfo: %v", err)
	}
	if info.Type != scene.TypeEnum {
		t.Errorf("rotateOrder type: got %q", info.Type)
	}
	if len(info.EnumLabels) != 6 || info.EnumLabels[0] != "xyz" {
		t.Errorf("rotateOrder labels: got %v", info.EnumLabels)
	}

	v, err := s.GetAttr("n.visibility")
	if err != nil {
		t.Fatalf("GetAttr visibility: %v", err)
	}
	if v != true {
		t.Errorf("visibility default: got %v", v)
	}

	var anf scene.AttributeNotFoundError
	if _, err := s.GetAttr("n.nope"); !errors.As(err, &anf) {
		t.Errorf("expected AttributeNotFoundError, got %v", err)
	}
}

func TestAliasAttrsRouteToTransform(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")

	if err := s.SetAttr("n.translate", []float64{1, 2, 3}, ""); err != nil {
		t.Fatalf("SetAttr translate: %v", err)
	}

	// The transform query and the attribute read see the same state.
	v, err := s.Transform("n", scene.Translation, scene.Local)
	if err != nil {
		t.Fatal(err)
	}
	if vec := v.(v3.Vec); vec.X != 1 || vec.Y != 2 || vec.Z != 3 {
		t.Errorf("translation: got %v", vec)
	}
	got, err := s.GetAttr("n.translate")
	if err != nil {
		t.Fatal(err)
	}
	if vec := got.(v3.Vec); vec != (v3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("translate attr: got %v", vec)
	}
}

func TestLockedAttributeRefusesWrite(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")
	s.AddAttr("n", "amount", scene.AttrDef{Type: scene.TypeDouble})

	if err := s.SetFlag("n.amount", scene.FlagLocked, true); err != nil {
		t.Fatal(err)
	}
	err := s.SetAttr("n.amount", 1.5, "")
	var locked scene.LockedAttributeError
	if !errors.As(err, &locked) {
		t.Fatalf("expected LockedAttributeError, got %v", err)
	}
	if locked.Address != "n.amount" {
		t.Errorf("locked address: got %q", locked.Address)
	}

	// Unlock and the write goes through.
	s.SetFlag("n.amount", scene.FlagLocked, false)
	if err := s.SetAttr("n.amount", 1.5, ""); err != nil {
		t.Fatalf("unexpected error after unlock: %v", err)
	}
}

func TestStringAttrRequiresHint(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")
	s.AddAttr("n", "note", scene.AttrDef{Type: scene.TypeString})

	if err := s.SetAttr("n.note", "hello", ""); err == nil {
		t.Fatal("expected error without string type hint")
	}
	if err := s.SetAttr("n.note", "hello", scene.TypeString); err != nil {
		t.Fatalf("unexpected error with hint: %v", err)
	}
	v, _ := s.GetAttr("n.note")
	if v != "hello" {
		t.Errorf("note: got %v", v)
	}
}

func TestMultiAttribute(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")
	if err := s.AddAttr("n", "weights", scene.AttrDef{Type: scene.TypeDouble, Multi: true}); err != nil {
		t.Fatal(err)
	}

	// Writes require an index.
	if err := s.SetAttr("n.weights", 0.5, ""); err == nil {
		t.Error("expected error writing a multi without an index")
	}
	if err := s.SetAttr("n.weights[4]", 0.5, ""); err != nil {
		t.Fatalf("indexed write: %v", err)
	}

	// Sparse storage: size counts set elements only.
	info, _ := s.AttrInfo("n.weights")
	if !info.Multi || info.Size != 1 {
		t.Errorf("info: got %+v", info)
	}

	v, err := s.GetAttr("n.weights[4]")
	if err != nil || v != 0.5 {
		t.Errorf("indexed read: got %v, %v", v, err)
	}

	var unset scene.UnsetIndexError
	if _, err := s.GetAttr("n.weights[7]"); !errors.As(err, &unset) {
		t.Errorf("expected UnsetIndexError, got %v", err)
	}

	whole, err := s.GetAttr("n.weights")
	if err != nil {
		t.Fatal(err)
	}
	m := whole.(scene.Multi)
	if len(m) != 1 || m[4] != 0.5 {
		t.Errorf("whole multi: got %v", m)
	}
}

func TestAddAttr(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")

	if err := s.AddAttr("n", "count", scene.AttrDef{Type: scene.TypeLong, Default: 3}); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetAttr("n.count")
	if v != int64(3) {
		t.Errorf("default: got %v (%T)", v, v)
	}

	// Duplicate attribute names are refused.
	if err := s.AddAttr("n", "count", scene.AttrDef{Type: scene.TypeLong}); err == nil {
		t.Error("expected error for duplicate attribute")
	}
	// Shadowing a built-in is refused the same way.
	if err := s.AddAttr("n", "translate", scene.AttrDef{Type: scene.TypeVector}); err == nil {
		t.Error("expected error shadowing a built-in attribute")
	}
	// A type is mandatory.
	if err := s.AddAttr("n", "untyped", scene.AttrDef{}); err == nil {
		t.Error("expected error for missing type")
	}
}

func TestDeleteAttr(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")
	mustCreate(t, s, "transform", "m")
	s.AddAttr("n", "out", scene.AttrDef{Type: scene.TypeDouble})
	s.AddAttr("m", "in", scene.AttrDef{Type: scene.TypeDouble})
	if err := s.Connect("n.out", "m.in"); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteAttr("n.out"); err != nil {
		t.Fatalf("DeleteAttr: %v", err)
	}
	if _, err := s.GetAttr("n.out"); err == nil {
		t.Error("attribute should be gone")
	}
	ins, _ := s.Connections("m.in", scene.Inputs)
	if len(ins) != 0 {
		t.Errorf("dangling input after attribute delete: %v", ins)
	}

	// Built-in aliases cannot be removed.
	if err := s.DeleteAttr("n.translate"); err == nil {
		t.Error("expected error deleting a built-in attribute")
	}
}

func TestConnectSingleInput(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "a")
	mustCreate(t, s, "transform", "b")
	mustCreate(t, s, "transform", "c")
	s.AddAttr("a", "out", scene.AttrDef{Type: scene.TypeDouble})
	s.AddAttr("b", "out", scene.AttrDef{Type: scene.TypeDouble})
	s.AddAttr("c", "in", scene.AttrDef{Type: scene.TypeDouble})

	if err := s.Connect("a.out", "c.in"); err != nil {
		t.Fatal(err)
	}
	// Re-connecting the same pair is an error.
	if err := s.Connect("a.out", "c.in"); err == nil {
		t.Error("expected error for duplicate connection")
	}
	// A destination holds at most one input.
	if err := s.Connect("b.out", "c.in"); err == nil {
		t.Error("expected error for second input")
	}

	if err := s.Disconnect("a.out", "c.in"); err != nil {
		t.Fatal(err)
	}
	if err := s.Connect("b.out", "c.in"); err != nil {
		t.Fatalf("connect after disconnect: %v", err)
	}

	// Disconnecting a pair that is not connected fails.
	if err := s.Disconnect("a.out", "c.in"); err == nil {
		t.Error("expected error disconnecting unconnected pair")
	}
}

func TestConnectTypeCompatibility(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "a")
	mustCreate(t, s, "transform", "b")
	s.AddAttr("a", "num", scene.AttrDef{Type: scene.TypeDouble})
	s.AddAttr("a", "txt", scene.AttrDef{Type: scene.TypeString})
	s.AddAttr("b", "count", scene.AttrDef{Type: scene.TypeLong})
	s.AddAttr("b", "label", scene.AttrDef{Type: scene.TypeString})

	// Numeric types interconnect.
	if err := s.Connect("a.num", "b.count"); err != nil {
		t.Errorf("double -> long should connect: %v", err)
	}
	// String to numeric does not.
	if err := s.Connect("a.txt", "b.count"); err == nil {
		t.Error("expected type mismatch error")
	}
	// Same type always connects.
	if err := s.Connect("a.txt", "b.label"); err != nil {
		t.Errorf("string -> string should connect: %v", err)
	}
}

func TestConnectLockedDestination(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "a")
	mustCreate(t, s, "transform", "b")
	s.AddAttr("a", "out", scene.AttrDef{Type: scene.TypeDouble})
	s.AddAttr("b", "in", scene.AttrDef{Type: scene.TypeDouble})
	s.SetFlag("b.in", scene.FlagLocked, true)

	if err := s.Connect("a.out", "b.in"); err == nil {
		t.Fatal("expected error connecting into a locked attribute")
	}
}

func TestCoerceNumeric(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")
	s.AddAttr("n", "amount", scene.AttrDef{Type: scene.TypeDouble})
	s.AddAttr("n", "count", scene.AttrDef{Type: scene.TypeLong})

	// Ints coerce into doubles.
	if err := s.SetAttr("n.amount", int64(2), ""); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetAttr("n.amount")
	if f, ok := v.(float64); !ok || math.Abs(f-2) > 1e-12 {
		t.Errorf("amount: got %v (%T)", v, v)
	}

	// Whole floats coerce into longs.
	if err := s.SetAttr("n.count", 3.0, ""); err != nil {
		t.Fatal(err)
	}
	v, _ = s.GetAttr("n.count")
	if v != int64(3) {
		t.Errorf("count: got %v (%T)", v, v)
	}
}

func TestFlags(t *testing.T) {
	s := New()
	mustCreate(t, s, "transform", "n")
	s.AddAttr("n", "amount", scene.AttrDef{Type: scene.TypeDouble, Keyable: true})

	keyable, err := s.Flag("n.amount", scene.FlagKeyable)
	if err != nil || !keyable {
		t.Errorf("keyable: got %v, %v", keyable, err)
	}

	cb, _ := s.Flag("n.amount", scene.FlagChannelBox)
	if cb {
		t.Error("channelBox should default to false")
	}
	s.SetFlag("n.amount", scene.FlagChannelBox, true)
	cb, _ = s.Flag("n.amount", scene.FlagChannelBox)
	if !cb {
		t.Error("channelBox should be set")
	}
}
