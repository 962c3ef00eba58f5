// pkg/physics/vector.go
package physics

import "math"

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are exactly zero
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite
func (v Vector2D) IsFinite() bool {
	return finite(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to the zero vector.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Angle returns the angle of the vector in radians
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Rotate is the free-function form of Vector2D.Rotate.
func Rotate(v Vector2D, angle float64) Vector2D {
	return v.Rotate(angle)
}

// SplitParallelPerpendicular decomposes v into the component parallel to
// reference and the remainder perpendicular to it. The two always sum to v.
// A zero reference has no direction and panics with a PreconditionError.
func SplitParallelPerpendicular(v, reference Vector2D) (parallel, perpendicular Vector2D) {
	if reference.IsZero() {
		panic(preconditionf("SplitParallelPerpendicular", "zero reference vector"))
	}
	dir := reference.Normalize()
	parallel = dir.Scale(v.Dot(dir))
	perpendicular = v.Sub(parallel)
	return parallel, perpendicular
}

// WithLength returns v rescaled to newLength. A negative length flips the
// direction. The zero vector stays zero whatever length is asked for.
func WithLength(v Vector2D, newLength float64) Vector2D {
	if v.IsZero() {
		return Vector2D{}
	}
	return v.Normalize().Scale(newLength)
}

// ReduceTowardZero moves x toward zero by amount without crossing it.
func ReduceTowardZero(x, amount float64) float64 {
	if x >= 0 {
		return math.Max(x-amount, 0)
	}
	return math.Min(x+amount, 0)
}

// ReduceLengthTowardZero shortens v by amount, keeping its direction.
func ReduceLengthTowardZero(v Vector2D, amount float64) Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	reduced := ReduceTowardZero(length, amount)
	if reduced == 0 {
		return Vector2D{}
	}
	return v.Scale(reduced / length)
}

// SignedAngleBetween returns the angle that rotates a onto b, in (-pi, pi].
func SignedAngleBetween(a, b Vector2D) float64 {
	return math.Atan2(a.Cross(b), a.Dot(b))
}

// LengthAngle is the polar form of a vector: a non-negative length and an
// angle in radians.
type LengthAngle struct {
	Length float64 `json:"length" yaml:"length" toml:"length"`
	Angle  float64 `json:"angle" yaml:"angle" toml:"angle"`
}

// ToLengthAngle converts v to polar form. The zero vector has angle 0.
func ToLengthAngle(v Vector2D) LengthAngle {
	length := v.Length()
	if length == 0 {
		return LengthAngle{}
	}
	return LengthAngle{Length: length, Angle: v.Angle()}
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Vector converts la back to Cartesian form.
func (la LengthAngle) Vector() Vector2D {
	return FromAngle(la.Angle, la.Length)
}
