package house

import (
	"errors"
	"fmt"

	"voxelhouse.ai/internal/sim/house/logic/geom"
)

var (
	// ErrSearchExhausted means the room search could not place every
	// secondary room. The rooms placed so far stay in the skeleton.
	ErrSearchExhausted = errors.New("room search exhausted")
	// ErrNoPrimaryRoom means the centered primary room did not fit.
	ErrNoPrimaryRoom = errors.New("primary room does not fit the volume")
)

// OutOfBoundsError is raised (as a panic value) when a stage addresses a grid
// cell outside the allocated extent.
type OutOfBoundsError struct {
	Pos geom.Vec3i
	Min geom.Vec3i
	Max geom.Vec3i
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("grid access %s outside %s..%s", e.Pos, e.Min, e.Max)
}
