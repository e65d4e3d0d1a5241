package memory

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/tether/pkg/scene"
)

// The engine composes local matrices as Translate * Rz * Ry * Rx *
// Scale. The rotateOrder attribute round-trips but does not change the
// composition; pivots are points carried in object space and do not
// enter the matrix.

// Transform answers a world/local transform query for a transform-class
// node. Vector components return v3.Vec, the matrix component returns
// sdf.M44.
func (s *Scene) Transform(name string, c scene.Component, sp scene.Space) (scene.Value, error) {
	n, err := s.transformNode(name)
	if err != nil {
		return nil, err
	}
	if sp == scene.Local {
		if c == scene.Matrix {
			return n.localMatrix(), nil
		}
		return n.transformComponent(c), nil
	}

	world := n.worldMatrix()
	switch c {
	case scene.Matrix:
		return world, nil
	case scene.Translation:
		return world.MulPosition(v3.Vec{}), nil
	case scene.Rotation:
		_, rot, _ := decompose(world)
		return rot, nil
	case scene.Scale:
		_, _, scl := decompose(world)
		return scl, nil
	case scene.RotatePivot:
		return world.MulPosition(n.rotatePivot), nil
	case scene.ScalePivot:
		return world.MulPosition(n.scalePivot), nil
	}
	return nil, fmt.Errorf("unknown transform component %q", c)
}

// SetTransform assigns a transform component. World-space scale cannot
// be assigned; every other component is writable in both spaces.
func (s *Scene) SetTransform(name string, c scene.Component, sp scene.Space, v scene.Value) error {
	n, err := s.transformNode(name)
	if err != nil {
		return err
	}
	if sp == scene.World && c == scene.Scale {
		return fmt.Errorf("cannot assign world-space scale on %q", name)
	}

	if c == scene.Matrix {
		m, ok := v.(sdf.M44)
		if !ok {
			return fmt.Errorf("transform %q: expected matrix, got %T", name, v)
		}
		if sp == scene.World {
			m = n.parentWorldMatrix().Inverse().Mul(m)
		}
		t, rot, scl := decompose(m)
		n.translation, n.rotation, n.scale = t, rot, scl
		return nil
	}

	vec, err := toVec(v)
	if err != nil {
		return fmt.Errorf("transform %q: %w", name, err)
	}
	if sp == scene.Local {
		n.setTransformComponent(c, vec)
		return nil
	}

	switch c {
	case scene.Translation:
		n.translation = n.parentWorldMatrix().Inverse().MulPosition(vec)
	case scene.Rotation:
		world := eulerMatrix(vec)
		local := rotationOf(n.parentWorldMatrix()).Inverse().Mul(world)
		_, rot, _ := decompose(local)
		n.rotation = rot
	case scene.RotatePivot:
		n.rotatePivot = n.worldMatrix().Inverse().MulPosition(vec)
	case scene.ScalePivot:
		n.scalePivot = n.worldMatrix().Inverse().MulPosition(vec)
	default:
		return fmt.Errorf("unknown transform component %q", c)
	}
	return nil
}

func (s *Scene) transformNode(name string) (*node, error) {
	n, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if !transformTypes[n.typ] {
		return nil, fmt.Errorf("%q is not a transform node", name)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Node transform state
// ---------------------------------------------------------------------------

func (n *node) transformComponent(c scene.Component) v3.Vec {
	switch c {
	case scene.Translation:
		return n.translation
	case scene.Rotation:
		return n.rotation
	case scene.Scale:
		return n.scale
	case scene.RotatePivot:
		return n.rotatePivot
	case scene.ScalePivot:
		return n.scalePivot
	}
	return v3.Vec{}
}

func (n *node) setTransformComponent(c scene.Component, v v3.Vec) {
	switch c {
	case scene.Translation:
		n.translation = v
	case scene.Rotation:
		n.rotation = v
	case scene.Scale:
		n.scale = v
	case scene.RotatePivot:
		n.rotatePivot = v
	case scene.ScalePivot:
		n.scalePivot = v
	}
}

func (n *node) localMatrix() sdf.M44 {
	return sdf.Translate3d(n.translation).
		Mul(eulerMatrix(n.rotation)).
		Mul(sdf.Scale3d(n.scale))
}

func (n *node) worldMatrix() sdf.M44 {
	return n.parentWorldMatrix().Mul(n.localMatrix())
}

func (n *node) parentWorldMatrix() sdf.M44 {
	if n.parent == nil {
		return sdf.Identity3d()
	}
	return n.parent.worldMatrix()
}

// ---------------------------------------------------------------------------
// Matrix helpers
// ---------------------------------------------------------------------------

// eulerMatrix builds a rotation matrix from Euler degrees, x applied
// first.
func eulerMatrix(deg v3.Vec) sdf.M44 {
	return sdf.RotateZ(sdf.DtoR(deg.Z)).
		Mul(sdf.RotateY(sdf.DtoR(deg.Y))).
		Mul(sdf.RotateX(sdf.DtoR(deg.X)))
}

// basisOf reads a matrix's translation and basis vectors through
// MulPosition, avoiding any dependence on the matrix memory layout.
func basisOf(m sdf.M44) (t, bx, by, bz v3.Vec) {
	t = m.MulPosition(v3.Vec{})
	bx = m.MulPosition(v3.Vec{X: 1}).Sub(t)
	by = m.MulPosition(v3.Vec{Y: 1}).Sub(t)
	bz = m.MulPosition(v3.Vec{Z: 1}).Sub(t)
	return
}

// rotationOf strips translation and scale from an affine TRS matrix,
// leaving the pure rotation.
func rotationOf(m sdf.M44) sdf.M44 {
	_, rot, _ := decompose(m)
	return eulerMatrix(rot)
}

// decompose splits an affine TRS matrix into translation, Euler degrees
// and per-axis scale. Shear is not representable and is discarded.
func decompose(m sdf.M44) (t, rotDeg, scl v3.Vec) {
	t, bx, by, bz := basisOf(m)
	scl = v3.Vec{X: bx.Length(), Y: by.Length(), Z: bz.Length()}

	// Guard degenerate axes before normalizing.
	nx, ny, nz := safeNormalize(bx, v3.Vec{X: 1}), safeNormalize(by, v3.Vec{Y: 1}), safeNormalize(bz, v3.Vec{Z: 1})

	// Column-major rotation elements: column i is the image of axis i.
	// For R = Rz*Ry*Rx: r20 = -sin(y), r21 = cos(y)sin(x),
	// r22 = cos(y)cos(x), r10 = sin(z)cos(y), r00 = cos(z)cos(y).
	r20, r21, r22 := nx.Z, ny.Z, nz.Z
	r10, r00 := nx.Y, nx.X

	var x, y, z float64
	y = math.Asin(clamp(-r20, -1, 1))
	if math.Abs(r20) < 1-1e-9 {
		x = math.Atan2(r21, r22)
		z = math.Atan2(r10, r00)
	} else {
		// Gimbal lock: fold z into x.
		x = math.Atan2(-ny.X, ny.Y)
		z = 0
	}
	rotDeg = v3.Vec{X: sdf.RtoD(x), Y: sdf.RtoD(y), Z: sdf.RtoD(z)}
	return
}

func safeNormalize(v, fallback v3.Vec) v3.Vec {
	l := v.Length()
	if l < 1e-12 {
		return fallback
	}
	return v.MulScalar(1 / l)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
