package outline

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tether/pkg/scene"
	"github.com/chazu/tether/pkg/scene/memory"
)

func TestBuildEmptyScene(t *testing.T) {
	out, err := Build(memory.New())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out.Count != 0 || len(out.Roots) != 0 {
		t.Errorf("expected empty outline, got %+v", out)
	}
}

func TestBuildHierarchy(t *testing.T) {
	s := memory.New()
	for _, n := range [][2]string{
		{"transform", "rig"},
		{"transform", "arm"},
		{"joint", "hand"},
		{"mesh", "handShape"},
		{"transform", "loose"},
	} {
		if _, err := s.CreateNode(n[0], n[1]); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range [][2]string{{"arm", "rig"}, {"hand", "arm"}, {"handShape", "hand"}} {
		if err := s.SetParent(p[0], p[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SetTransform("rig", scene.Translation, scene.Local, v3.Vec{X: 1, Y: 2, Z: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTransform("arm", scene.Translation, scene.Local, v3.Vec{X: 10}); err != nil {
		t.Fatal(err)
	}

	out, err := Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out.Count != 5 {
		t.Errorf("count: got %d", out.Count)
	}
	if len(out.Roots) != 2 {
		t.Fatalf("roots: got %v", out.Roots)
	}
	rig := out.Roots[0]
	if rig.Name != "rig" || rig.Type != "transform" || rig.UUID == "" {
		t.Errorf("rig: got %+v", rig)
	}
	if rig.Position == nil || *rig.Position != [3]float64{1, 2, 3} {
		t.Errorf("rig position: got %v", rig.Position)
	}
	if out.Roots[1].Name != "loose" {
		t.Errorf("second root: got %q", out.Roots[1].Name)
	}

	if len(rig.Children) != 1 || rig.Children[0].Name != "arm" {
		t.Fatalf("rig children: got %v", rig.Children)
	}
	arm := rig.Children[0]
	if arm.Position == nil || *arm.Position != [3]float64{11, 2, 3} {
		t.Errorf("arm world position: got %v", arm.Position)
	}
	hand := arm.Children[0]
	if hand.Name != "hand" || hand.Type != "joint" {
		t.Fatalf("hand: got %+v", hand)
	}
	// Shapes list before child transforms, under their owner.
	if len(hand.Children) != 1 || hand.Children[0].Name != "handShape" || hand.Children[0].Type != "mesh" {
		t.Errorf("hand children: got %v", hand.Children)
	}
	if hand.Children[0].Position != nil {
		t.Errorf("shape node must carry no position, got %v", hand.Children[0].Position)
	}
}
