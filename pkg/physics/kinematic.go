package physics

// KinematicState is a position plus an angle. The same shape serves as a
// body's pose, its velocity and an acceleration.
type KinematicState struct {
	Position Vector2D `json:"position" yaml:"position" toml:"position"`
	Angle    float64  `json:"angle" yaml:"angle" toml:"angle"`
}

// Add returns the component-wise sum of two states
func (k KinematicState) Add(other KinematicState) KinematicState {
	return KinematicState{
		Position: k.Position.Add(other.Position),
		Angle:    k.Angle + other.Angle,
	}
}

// IsZero reports whether both the linear and angular parts are zero
func (k KinematicState) IsZero() bool {
	return k.Position.IsZero() && k.Angle == 0
}
