package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is re-exported so packages outside common (value nodes, root-motion
// override settings) can name the vector type without importing mgl32
// directly.
type Vec3 = mgl32.Vec3

// Transform is a decomposed rigid(-ish) transform: translation, rotation, and
// scale, composable and interpolable independently of one another. It is the
// currency the animation graph passes between nodes and tasks — local-space
// bone transforms, root-motion deltas, and desired-facing/heading inputs are
// all Transform values.
type Transform struct {
	Translation mgl32.Vec3
	Rotation mgl32.Quat
	Scale mgl32.Vec3
}

// IdentityTransform is the neutral transform: zero translation, identity
// rotation, unit scale.
var IdentityTransform = Transform{
	Translation: mgl32.Vec3{0, 0, 0},
	Rotation: mgl32.QuatIdent(),
	Scale: mgl32.Vec3{1, 1, 1},
}

// NewTransform builds a Transform from its three components.
func NewTransform(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	return Transform{Translation: translation, Rotation: rotation, Scale: scale}
}

// Mul composes two transforms, t followed by other (other * t in the sense
// that a point is first transformed by t, then by other). Scale is applied
// component-wise before rotation, matching the engine's column-major
// model-matrix convention (BuildModelMatrix: scale, then rotate, then
// translate) without materializing a 4x4 matrix.
func (t Transform) Mul(other Transform) Transform {
	return Transform{
 Translation: other.Rotation.Rotate(componentMul(t.Translation, other.Scale)).Add(other.Translation),
 Rotation: other.Rotation.Mul(t.Rotation),
 Scale: componentMul(t.Scale, other.Scale),
	}
}

// componentMul multiplies two vectors component-wise. mgl32.Vec3 has no
// built-in Hadamard product.
func componentMul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	invRot := t.Rotation.Inverse()
	invScale := mgl32.Vec3{1 / t.Scale[0], 1 / t.Scale[1], 1 / t.Scale[2]}
	invTrans := componentMul(invRot.Rotate(t.Translation.Mul(-1)), invScale)
	return Transform{Translation: invTrans, Rotation: invRot, Scale: invScale}
}

// Interpolate blends two transforms: Lerp for translation and scale, Slerp
// for rotation, matching ("Composable; supports interpolation:
// Slerp for rotation, Lerp for translation and scale").
func Interpolate(a, b Transform, w float32) Transform {
	if w <= 0 {
 return a
	}
	if w >= 1 {
 return b
	}
	return Transform{
 Translation: lerpVec3(a.Translation, b.Translation, w),
 Rotation: mgl32.QuatSlerp(a.Rotation, b.Rotation, w),
 Scale: lerpVec3(a.Scale, b.Scale, w),
	}
}

func lerpVec3(a, b mgl32.Vec3, w float32) mgl32.Vec3 {
	return mgl32.Vec3{
 a[0] + (b[0]-a[0])*w,
 a[1] + (b[1]-a[1])*w,
 a[2] + (b[2]-a[2])*w,
	}
}

// Mat4 converts the transform to a column-major 4x4 matrix for GPU upload or
// skinning math, matching mgl32's column-major Mat4 convention
// (translate * rotate * scale).
func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
 Mul4(t.Rotation.Mat4()).
 Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}
