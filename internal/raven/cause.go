package raven

// Cause says how a run ended.
type Cause int

const (
	CauseNone    Cause = iota
	CauseMud           // touched the ground band
	CauseSkyWind       // hit the ceiling or an upper gate
	CauseRoots         // hit a lower gate
)

// DefaultDeathTitle is shown when a run ended without a recorded cause.
const DefaultDeathTitle = "Hel has claimed you."

// String returns the death message for the cause.
func (c Cause) String() string {
	switch c {
	case CauseMud:
		return "Sunk in the mud of Niflheim."
	case CauseSkyWind:
		return "Crushed by the sky wind."
	case CauseRoots:
		return "Slain by Midgard's roots."
	default:
		return ""
	}
}

// Title is the heading of the game-over panel.
func (c Cause) Title() string {
	if c == CauseNone {
		return DefaultDeathTitle
	}
	return c.String()
}
