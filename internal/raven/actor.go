package raven

import "github.com/vovakirdan/raven-flight/internal/core"

// Frame is the raven's visual state.
type Frame int

const (
	FrameResting Frame = iota
	FrameFlapping
)

// Actor is the raven. X never changes during a session.
type Actor struct {
	X, Y     float64 // centre of the sprite
	Velocity float64 // positive is down
	Radius   float64 // collision radius
	Width    float64 // sprite size
	Height   float64
	Frame    Frame
}

// Hitbox is the bounding box of the collision circle. Gameplay and the
// debug overlay both use it.
func (a Actor) Hitbox() core.RectF {
	return core.BoxAround(a.X, a.Y, a.Radius)
}

// Sprite is the rectangle the sprite image is drawn into.
func (a Actor) Sprite() core.RectF {
	return core.RectF{X: a.X - a.Width/2, Y: a.Y - a.Height/2, W: a.Width, H: a.Height}
}
