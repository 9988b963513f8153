package house

import (
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/house/logic/mathx"
)

// adjacentWall is a stretch of a secondary room's wall lying on the primary
// room's wall ring. Into points from the secondary room into the primary.
type adjacentWall struct {
	Seg  geom.Segment
	Into geom.Orientation
}

// adjacentWalls derives the walls shared between the primary room and the
// secondary rooms. Segments covering two cells or fewer are dropped.
func (h *House) adjacentWalls() []adjacentWall {
	primary, ok := h.skel.Primary()
	if !ok {
		return nil
	}
	ring := primary.Inset(-1)
	var out []adjacentWall
	for i := 1; i < h.skel.Len(); i++ {
		for _, s := range h.skel.At(i).Segments() {
			lo, hi, line := s.Span()
			var into geom.Orientation
			if s.AlongX() {
				switch line {
				case ring.Z:
					into = geom.South
				case ring.MaxZ() - 1:
					into = geom.North
				default:
					continue
				}
				if hi < primary.X || lo > primary.MaxX()-1 {
					continue
				}
				lo = mathx.MaxInt(lo, ring.X)
				hi = mathx.MinInt(hi, ring.MaxX()-1)
				s = geom.Segment{X1: lo, Z1: line, X2: hi, Z2: line}
			} else {
				switch line {
				case ring.X:
					into = geom.East
				case ring.MaxX() - 1:
					into = geom.West
				default:
					continue
				}
				if hi < primary.Z || lo > primary.MaxZ()-1 {
					continue
				}
				lo = mathx.MaxInt(lo, ring.Z)
				hi = mathx.MinInt(hi, ring.MaxZ()-1)
				s = geom.Segment{X1: line, Z1: lo, X2: line, Z2: hi}
			}
			if hi-lo > 1 {
				out = append(out, adjacentWall{Seg: s, Into: into})
			}
		}
	}
	return out
}

// exteriorWalls lists every wall-ring side that is not part of a shared wall.
func (h *House) exteriorWalls(adj []adjacentWall) []geom.Segment {
	var out []geom.Segment
	for i, r := range h.skel.rooms {
	sides:
		for _, s := range wallRing(i, r).Segments() {
			for _, a := range adj {
				if geom.Nested(s, a.Seg) {
					continue sides
				}
			}
			out = append(out, s)
		}
	}
	return out
}

// segmentCell maps a position along a segment's running axis to a block position.
func segmentCell(s geom.Segment, t, y int) geom.Vec3i {
	if s.AlongX() {
		return geom.Vec3i{X: t, Y: y, Z: s.Z1}
	}
	return geom.Vec3i{X: s.X1, Y: y, Z: t}
}

// placeDoors cuts a doorway through every shared wall on every storey.
func (h *House) placeDoors() {
	base := h.base()
	for _, a := range h.adjacentWalls() {
		lo, hi, _ := a.Seg.Span()
		from, to := geom.OpeningSpan(lo, hi)
		for f := 0; f < h.floors; f++ {
			y := base + 1 + FloorHeight*f
			h.cutDoorway(a.Seg, from, to, y, a.Into, catalogs.SlotDoor)
		}
	}
}

// cutDoorway clears a two-high opening with its lower cells at y and, with
// HangDoors set, fills it with door halves of the given slot.
func (h *House) cutDoorway(s geom.Segment, from, to, y int, facing geom.Orientation, slot string) {
	for t := from; t <= to; t++ {
		lower := segmentCell(s, t, y)
		upper := segmentCell(s, t, y+1)
		if !h.params.HangDoors {
			h.place(lower, catalogs.Air)
			h.place(upper, catalogs.Air)
			continue
		}
		hinge := "left"
		if t == to && from != to {
			hinge = "right"
		}
		door := h.block(slot).
			With("facing", facing.Facing()).
			With("hinge", hinge).
			With("open", "false").
			With("powered", "false")
		h.place(lower, door.With("half", "lower"))
		h.place(upper, door.With("half", "upper"))
	}
}
