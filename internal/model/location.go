package model

// Location represents a position inside one map instance.
// Value type, passed by value (immutable).
type Location struct {
	X int32
	Y int32
}

// NewLocation creates a Location with the given coordinates.
func NewLocation(x, y int32) Location {
	return Location{X: x, Y: y}
}

// DistanceSquared returns the squared distance to another point
// (no sqrt for performance).
func (l Location) DistanceSquared(other Location) int64 {
	dx := int64(l.X - other.X)
	dy := int64(l.Y - other.Y)
	return dx*dx + dy*dy
}

// StepToward returns a new Location advanced by at most step units
// toward the target. If the target is closer than step, returns the target.
func (l Location) StepToward(target Location, step int32) Location {
	dx := target.X - l.X
	dy := target.Y - l.Y
	if abs32(dx) <= step && abs32(dy) <= step {
		return target
	}
	return Location{
		X: l.X + clamp32(dx, -step, step),
		Y: l.Y + clamp32(dy, -step, step),
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
