package dungeon

import "errors"

var (
	// ErrUnknownMap is returned for a map id no template describes.
	ErrUnknownMap = errors.New("unknown map template")

	// ErrFloorLocked is returned when a royal-base floor is entered
	// before the preceding floor's bosses are down.
	ErrFloorLocked = errors.New("previous floor not cleared")
)
