// Package actuator models the robotic arm the simulation directs.
//
// The model has no kinematics: positions are accepted as given and the
// tremor correction is a fixed scaling of the requested delta.
package actuator

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultDamping scales incremental adjustments to suppress small motions.
const DefaultDamping = 0.1

// Actuator reports and accepts a 3D position.
type Actuator interface {
	Position() r3.Vec
	MoveTo(x, y, z float64)
	Adjust(dx, dy, dz float64)
}

// Ensure Arm implements Actuator
var _ Actuator = (*Arm)(nil)

// Arm is the simulated arm. Its position only changes through MoveTo and
// Adjust. Not safe for concurrent use.
type Arm struct {
	pos     r3.Vec
	damping float64
	logger  *zap.Logger
}

// NewArm creates an arm at the origin. A nil logger disables logging.
func NewArm(damping float64, logger *zap.Logger) *Arm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arm{damping: damping, logger: logger.Named("arm")}
}

// Position returns the current position.
func (a *Arm) Position() r3.Vec {
	return a.pos
}

// Damping returns the factor applied by Adjust.
func (a *Arm) Damping() float64 {
	return a.damping
}

// MoveTo overwrites the position unconditionally.
func (a *Arm) MoveTo(x, y, z float64) {
	a.pos = r3.Vec{X: x, Y: y, Z: z}
	a.logger.Info("robotic arm moved", positionFields(a.pos)...)
}

// Adjust moves by the requested delta scaled by the damping factor.
func (a *Arm) Adjust(dx, dy, dz float64) {
	delta := r3.Scale(a.damping, r3.Vec{X: dx, Y: dy, Z: dz})
	a.pos = r3.Add(a.pos, delta)
	a.logger.Info("tremor reduced position", positionFields(a.pos)...)
}

func positionFields(p r3.Vec) []zap.Field {
	return []zap.Field{zap.Float64("x", p.X), zap.Float64("y", p.Y), zap.Float64("z", p.Z)}
}
