package geom

import (
	"fmt"
	"strings"
)

// Orientation names the side of the footprint that carries the entrance.
type Orientation uint8

const (
	None Orientation = iota
	North
	South
	East
	West
)

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return None, nil
	case "N", "NORTH":
		return North, nil
	case "S", "SOUTH":
		return South, nil
	case "E", "EAST":
		return East, nil
	case "W", "WEST":
		return West, nil
	default:
		return None, fmt.Errorf("unknown orientation %q", s)
	}
}

func (o Orientation) String() string {
	switch o {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	default:
		return "none"
	}
}

// quarterTurns is the clockwise rotation that maps north onto o.
func (o Orientation) quarterTurns() int {
	switch o {
	case West:
		return 1
	case South:
		return 2
	case East:
		return 3
	default:
		return 0
	}
}

// Normal returns the outward unit step of o. North points to -Z.
func (o Orientation) Normal() (dx, dz int) {
	if o == None {
		return 0, 0
	}
	return RotateXZ(0, -1, o.quarterTurns())
}

func (o Orientation) Opposite() Orientation {
	switch o {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return None
	}
}

// AlongX reports whether a wall facing o runs along the X axis.
func (o Orientation) AlongX() bool { return o == North || o == South }

// Facing is the lowercase block-state name of the direction.
func (o Orientation) Facing() string {
	switch o {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return ""
	}
}

// AxisFacing returns the orientation pointing along the X axis (alongX) or the
// Z axis, towards increasing coordinates when positive is true.
func AxisFacing(alongX, positive bool) Orientation {
	switch {
	case alongX && positive:
		return East
	case alongX:
		return West
	case positive:
		return South
	default:
		return North
	}
}
