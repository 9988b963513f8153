package house

import (
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

// EntranceGeometry describes the front door. Positions in Opening and Ramp
// are coordinates along the wall's running axis, inclusive.
type EntranceGeometry struct {
	Facing  geom.Orientation
	Room    int
	Wall    geom.Segment
	Opening [2]int
	Ramp    [2]int
}

// Line is the wall's fixed coordinate: z for north/south walls, x otherwise.
func (e *EntranceGeometry) Line() int {
	_, _, line := e.Wall.Span()
	return line
}

// covers reports whether position t along s lies in front of the ramp.
func (e *EntranceGeometry) covers(s geom.Segment, t int) bool {
	if e == nil || s.AlongX() != e.Wall.AlongX() {
		return false
	}
	_, _, line := s.Span()
	return line == e.Line() && t >= e.Ramp[0] && t <= e.Ramp[1]
}

// extremity scores how far a room reaches towards o; larger is further.
func extremity(o geom.Orientation, r geom.Room) int {
	switch o {
	case geom.North:
		return -r.Z
	case geom.South:
		return r.MaxZ()
	case geom.East:
		return r.MaxX()
	default:
		return -r.X
	}
}

// entranceGeometry picks the room reaching furthest towards the configured
// orientation, lowest index first on ties, and centres the opening on its
// outward wall. The result is computed once per build.
func (h *House) entranceGeometry() *EntranceGeometry {
	if h.entranceDone {
		return h.entrance
	}
	h.entranceDone = true
	o := h.params.Orientation
	if o == geom.None || h.skel.Len() == 0 {
		return nil
	}
	best := 0
	for i := 1; i < h.skel.Len(); i++ {
		if extremity(o, h.skel.At(i)) > extremity(o, h.skel.At(best)) {
			best = i
		}
	}
	segs := wallRing(best, h.skel.At(best)).Segments()
	var wall geom.Segment
	switch o {
	case geom.North:
		wall = segs[0]
	case geom.West:
		wall = segs[1]
	case geom.South:
		wall = segs[2]
	default:
		wall = segs[3]
	}
	lo, hi, _ := wall.Span()
	a, b := geom.OpeningSpan(lo+1, hi-1)
	h.entrance = &EntranceGeometry{
		Facing:  o,
		Room:    best,
		Wall:    wall,
		Opening: [2]int{a, b},
		Ramp:    [2]int{a - 1, b + 1},
	}
	return h.entrance
}

// placeEntrance opens the front wall and builds the ramp outside it: stairs
// climbing into the house in front of the opening, flanking stairs turned
// towards it, and an upside-down copy three blocks higher as a porch lintel.
func (h *House) placeEntrance() {
	e := h.entranceGeometry()
	if e == nil {
		return
	}
	base := h.base()
	alongX := e.Wall.AlongX()
	h.cutDoorway(e.Wall, e.Opening[0], e.Opening[1], base+1, e.Facing, catalogs.SlotEntrance)

	dx, dz := e.Facing.Normal()
	line := e.Line()
	outside := func(t, y int) geom.Vec3i {
		if alongX {
			return geom.Vec3i{X: t, Y: y, Z: line + dz}
		}
		return geom.Vec3i{X: line + dx, Y: y, Z: t}
	}
	stairs := h.block(catalogs.SlotStairs).With("shape", "straight")
	for t := e.Ramp[0]; t <= e.Ramp[1]; t++ {
		facing := e.Facing.Opposite()
		switch {
		case t < e.Opening[0]:
			facing = geom.AxisFacing(alongX, true)
		case t > e.Opening[1]:
			facing = geom.AxisFacing(alongX, false)
		}
		step := stairs.With("facing", facing.Facing())
		low := outside(t, base)
		high := outside(t, base+3)
		h.place(low, step.With("half", "bottom"))
		h.place(high, step.With("half", "top"))
		h.grid.Mark(low)
		h.grid.Mark(high)
	}
}
