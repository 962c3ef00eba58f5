package engine

import "github.com/opd-ai/torque2d/pkg/physics"

// BodyView is a read-only snapshot of one body for rendering.
type BodyView struct {
	Index  int
	Pose   physics.KinematicState
	Extent physics.Vector2D
	Tugs   []TugView
}

// TugView is an active tugger in world coordinates.
type TugView struct {
	Slot   int
	Live   bool
	Anchor physics.Vector2D
	Target physics.Vector2D
}

// Views snapshots every body. Suspended ropes are left out.
func (s *Simulation) Views() []BodyView {
	views := make([]BodyView, len(s.bodies))
	for i, b := range s.bodies {
		v := BodyView{
			Index:  i,
			Pose:   b.Pose,
			Extent: b.Extent,
		}
		for slot, t := range b.Tuggers {
			if t == nil || t.Suspended {
				continue
			}
			v.Tugs = append(v.Tugs, TugView{
				Slot:   slot,
				Live:   slot == physics.LiveSlot,
				Anchor: b.WorldAnchor(t.Anchor),
				Target: t.Target,
			})
		}
		views[i] = v
	}
	return views
}
