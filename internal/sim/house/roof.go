package house

import (
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/house/logic/mathx"
)

// roofFrame maps roof-local coordinates onto the world. u runs across the
// short axis (0..short-1 over the room), v along the long axis.
type roofFrame struct {
	room  geom.Room
	zLong bool
	short int
	long  int
	top   int
}

func newRoofFrame(r geom.Room, top int) roofFrame {
	f := roofFrame{room: r, top: top}
	if r.Width <= r.Depth {
		f.zLong = true
		f.short, f.long = r.Width, r.Depth
	} else {
		f.short, f.long = r.Depth, r.Width
	}
	return f
}

func (f roofFrame) at(u, v, y int) geom.Vec3i {
	if f.zLong {
		return geom.Vec3i{X: f.room.X + u, Y: y, Z: f.room.Z + v}
	}
	return geom.Vec3i{X: f.room.X + v, Y: y, Z: f.room.Z + u}
}

// halfUnits is the roof surface height of column u above top, in half blocks.
// Columns -1 and short are the eaves over the wall ring.
func (f roofFrame) halfUnits(u int) int {
	i := mathx.MinInt(u, f.short-1-u)
	if half := f.short / 2; i >= half {
		return half + 2
	}
	return i + 2
}

// surfaceY is the block layer holding the surface of a column with hu half units.
func (f roofFrame) surfaceY(hu int) int { return f.top + (hu-1)/2 }

// foldCount is the number of full ridge courses for a room.
func foldCount(idx int, r geom.Room) int {
	if idx == 0 {
		return mathx.MaxInt(r.Width, r.Depth) / 4
	}
	switch short := mathx.MinInt(r.Width, r.Depth); {
	case short <= 5:
		return 1
	case short <= 10:
		return 2
	default:
		return 3
	}
}

// placeRoof roofs rooms from the last placed to the primary, so the primary
// roof is written last and wins where roofs meet.
func (h *House) placeRoof() {
	for i := h.skel.Len() - 1; i >= 0; i-- {
		r := interior(i, h.skel.At(i))
		if r.Width <= 0 || r.Depth <= 0 {
			continue
		}
		f := newRoofFrame(r, h.base()+r.Height)
		n := foldCount(i, r)
		h.roofRidge(f, n)
		h.roofSlope(f, n)
		h.roofEaves(f)
	}
}

// closeGable writes a gable closure block unless the cell is taken.
func (h *House) closeGable(p geom.Vec3i, b catalogs.Block) {
	if h.grid.Occupied(p) {
		return
	}
	h.place(p, b)
	h.grid.Mark(p)
}

// roofRidge stacks n full courses, each column stopping below its surface.
func (h *House) roofRidge(f roofFrame, n int) {
	roof := h.block(catalogs.SlotRoof)
	ceiling := h.block(catalogs.SlotCeiling)
	for k := 0; k < n; k++ {
		y := f.top + k
		for u := -1; u <= f.short; u++ {
			if f.surfaceY(f.halfUnits(u)) <= y {
				continue
			}
			for v := -1; v <= f.long; v++ {
				p := f.at(u, v, y)
				h.place(p, roof)
				h.grid.Mark(p)
			}
			h.closeGable(f.at(u, -2, y), ceiling)
			h.closeGable(f.at(u, f.long+1, y), ceiling)
		}
	}
}

// roofSlope lays the surface: top slabs on even half units, bottom slabs
// over a full block on odd ones. The gable planes are closed from the last
// ridge course up to the surface.
func (h *House) roofSlope(f roofFrame, n int) {
	roof := h.block(catalogs.SlotRoof)
	slab := h.block(catalogs.SlotRoofSlab)
	ceiling := h.block(catalogs.SlotCeiling)
	ceilingSlab := h.block(catalogs.SlotCeilingSlab)
	for u := -1; u <= f.short; u++ {
		hu := f.halfUnits(u)
		sy := f.surfaceY(hu)
		for v := -1; v <= f.long; v++ {
			p := f.at(u, v, sy)
			if hu%2 == 0 {
				h.place(p, slab.With("type", "top"))
			} else {
				h.place(p, slab.With("type", "bottom"))
				if hu >= 3 {
					below := f.at(u, v, sy-1)
					h.place(below, roof)
					h.grid.Mark(below)
				}
			}
			h.grid.Mark(p)
		}
		for _, v := range [2]int{-2, f.long + 1} {
			if hu%2 == 0 {
				h.closeGable(f.at(u, v, sy), ceiling)
			} else {
				h.closeGable(f.at(u, v, sy), ceilingSlab.With("type", "bottom"))
			}
			for y := f.top + n; y < sy; y++ {
				h.closeGable(f.at(u, v, y), ceiling)
			}
			if hu == 1 {
				h.closeGable(f.at(u, v, f.top-1), ceilingSlab.With("type", "top"))
			}
		}
	}
}

// roofEaves trims the long edges one cell outside the slope.
func (h *House) roofEaves(f roofFrame) {
	trim := h.block(catalogs.SlotCeilingSlab).With("type", "top")
	for v := -2; v <= f.long+1; v++ {
		for _, u := range [2]int{-2, f.short + 1} {
			h.closeGable(f.at(u, v, f.top-1), trim)
		}
	}
}
