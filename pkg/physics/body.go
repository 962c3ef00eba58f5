package physics

import (
	"fmt"
	"math"
)

// MaxTuggers is the number of tugger slots every body carries.
const MaxTuggers = 4

// LiveSlot is the slot driven by the pointer. Every other slot holds a
// pre-authored rope.
const LiveSlot = 0

// proportionTolerance absorbs rounding when an anchor sits exactly on the
// tug range boundary and has been rotated into world space. Proportions
// within it are accepted as rounding error and clamped to 1.
const proportionTolerance = 1e-9

// AxisCoefficients tunes how one axis (linear or angular) responds to force
// and how quickly it loses speed.
type AxisCoefficients struct {
	// AccelScalar converts a force magnitude into an acceleration magnitude.
	AccelScalar float64 `json:"accelScalar" yaml:"accel_scalar" toml:"accel_scalar"`
	// LinearFriction multiplies velocity every step, in (0,1].
	LinearFriction float64 `json:"linearFriction" yaml:"linear_friction" toml:"linear_friction"`
	// ConstantFriction is removed from the velocity magnitude every step.
	ConstantFriction float64 `json:"constantFriction" yaml:"constant_friction" toml:"constant_friction"`
}

// ResponseCoefficients holds the linear and angular tuning of a body.
type ResponseCoefficients struct {
	Linear  AxisCoefficients `json:"linear" yaml:"linear" toml:"linear"`
	Angular AxisCoefficients `json:"angular" yaml:"angular" toml:"angular"`
}

// Tugger pulls a point on a body toward a world-space target.
type Tugger struct {
	Anchor    LengthAngle // body frame, unrotated
	Target    Vector2D    // world space
	Suspended bool        // suspended tuggers exert no force
}

// Body is a rigid body with simplified scalar response coefficients.
type Body struct {
	Coefficients   ResponseCoefficients
	Pose           KinematicState
	Velocity       KinematicState
	Extent         Vector2D
	Tuggers        [MaxTuggers]*Tugger
	MaxTugDistance float64
}

// Validate checks the construction-time invariants of a body.
func (b *Body) Validate() error {
	if !(b.MaxTugDistance > 0) || math.IsInf(b.MaxTugDistance, 0) {
		return fmt.Errorf("%w: max tug distance must be positive and finite, got %v", ErrInvalidBody, b.MaxTugDistance)
	}
	if err := validateAxis("linear", b.Coefficients.Linear); err != nil {
		return err
	}
	if err := validateAxis("angular", b.Coefficients.Angular); err != nil {
		return err
	}
	if !finiteState(b.Pose) || !finiteState(b.Velocity) {
		return fmt.Errorf("%w: pose and velocity must be finite", ErrInvalidBody)
	}
	if b.Extent.X < 0 || b.Extent.Y < 0 {
		return fmt.Errorf("%w: extent must not be negative, got %+v", ErrInvalidBody, b.Extent)
	}
	for slot, t := range b.Tuggers {
		if t == nil {
			continue
		}
		if !(t.Anchor.Length >= 0 && t.Anchor.Length <= b.MaxTugDistance) {
			return fmt.Errorf("%w: tugger %d anchor length %v outside [0, %v]",
				ErrInvalidBody, slot, t.Anchor.Length, b.MaxTugDistance)
		}
		if !finite(t.Anchor.Angle, t.Target.X, t.Target.Y) {
			return fmt.Errorf("%w: tugger %d anchor angle and target must be finite", ErrInvalidBody, slot)
		}
	}
	return nil
}

func validateAxis(name string, a AxisCoefficients) error {
	if a.AccelScalar < 0 || math.IsNaN(a.AccelScalar) || math.IsInf(a.AccelScalar, 0) {
		return fmt.Errorf("%w: %s accel scalar must be finite and non-negative, got %v", ErrInvalidBody, name, a.AccelScalar)
	}
	if !(a.LinearFriction > 0 && a.LinearFriction <= 1) {
		return fmt.Errorf("%w: %s linear friction must be in (0,1], got %v", ErrInvalidBody, name, a.LinearFriction)
	}
	if !(a.ConstantFriction >= 0) || math.IsInf(a.ConstantFriction, 0) {
		return fmt.Errorf("%w: %s constant friction must be finite and non-negative, got %v", ErrInvalidBody, name, a.ConstantFriction)
	}
	return nil
}

func finiteState(k KinematicState) bool {
	return finite(k.Position.X, k.Position.Y, k.Angle)
}

func finite(values ...float64) bool {
	for _, f := range values {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ComputeTugAcceleration converts a force applied at anchorRelative (world
// orientation, relative to the centre of mass) into linear and angular
// acceleration. It does not modify the body.
//
// The share of the force eligible to rotate the body grows linearly with the
// anchor's distance from the centre: none at the centre, all of it at
// MaxTugDistance. Of that rotatable share, the perpendicular component turns
// the body and the magnitude of the parallel component still translates it,
// along the direction of the rotatable share itself.
func (b *Body) ComputeTugAcceleration(anchorRelative, force Vector2D) KinematicState {
	if force.IsZero() {
		return KinematicState{}
	}

	proportion := anchorRelative.Length() / b.MaxTugDistance
	if math.IsNaN(proportion) || proportion < 0 || proportion > 1+proportionTolerance {
		panic(preconditionf("ComputeTugAcceleration",
			"anchor distance %v outside [0, %v]", anchorRelative.Length(), b.MaxTugDistance))
	}
	proportion = math.Min(proportion, 1)

	rotatable := force.Scale(proportion)
	unrotatable := force.Sub(rotatable)

	linear := unrotatable
	var angular float64
	if !rotatable.IsZero() && !anchorRelative.IsZero() {
		parallel, perpendicular := SplitParallelPerpendicular(rotatable, anchorRelative)
		linear = linear.Add(WithLength(rotatable, parallel.Length()))

		angular = perpendicular.Length()
		if SignedAngleBetween(anchorRelative, perpendicular) < 0 {
			angular = -angular
		}
	}

	return KinematicState{
		Position: linear.Scale(b.Coefficients.Linear.AccelScalar),
		Angle:    angular * b.Coefficients.Angular.AccelScalar,
	}
}

// Integrate advances the body by one step: the acceleration is added to the
// velocity, the velocity to the pose, then both frictions decay the
// velocity. The order matters; friction only affects the next step.
func (b *Body) Integrate(acc KinematicState) {
	b.Velocity = b.Velocity.Add(acc)
	b.Pose = b.Pose.Add(b.Velocity)

	lin, ang := b.Coefficients.Linear, b.Coefficients.Angular
	b.Velocity.Position = b.Velocity.Position.Scale(lin.LinearFriction)
	b.Velocity.Angle *= ang.LinearFriction

	b.Velocity.Position = ReduceLengthTowardZero(b.Velocity.Position, lin.ConstantFriction)
	b.Velocity.Angle = ReduceTowardZero(b.Velocity.Angle, ang.ConstantFriction)
}

// RelativeAnchorWorldOffset rotates a body-frame anchor into world
// orientation, still relative to the body's position.
func (b *Body) RelativeAnchorWorldOffset(anchor LengthAngle) Vector2D {
	return anchor.Vector().Rotate(b.Pose.Angle)
}

// WorldAnchor returns the world position of a body-frame anchor.
func (b *Body) WorldAnchor(anchor LengthAngle) Vector2D {
	return b.Pose.Position.Add(b.RelativeAnchorWorldOffset(anchor))
}

// BodyFramePoint expresses a world point in the body's unrotated frame.
func (b *Body) BodyFramePoint(world Vector2D) LengthAngle {
	return ToLengthAngle(world.Sub(b.Pose.Position).Rotate(-b.Pose.Angle))
}

// TugAcceleration sums the accelerations of every active tugger.
func (b *Body) TugAcceleration() KinematicState {
	var acc KinematicState
	for _, t := range b.Tuggers {
		if t == nil || t.Suspended {
			continue
		}
		offset := b.RelativeAnchorWorldOffset(t.Anchor)
		force := t.Target.Sub(b.Pose.Position.Add(offset))
		acc = acc.Add(b.ComputeTugAcceleration(offset, force))
	}
	return acc
}

// Clone returns a deep copy of the body, tuggers included.
func (b *Body) Clone() *Body {
	c := *b
	for i, t := range b.Tuggers {
		if t != nil {
			tc := *t
			c.Tuggers[i] = &tc
		}
	}
	return &c
}
