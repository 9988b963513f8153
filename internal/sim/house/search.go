package house

import "voxelhouse.ai/internal/sim/house/logic/geom"

const (
	minRoomSide = 5
	minRoomArea = minRoomSide * minRoomSide
)

// primaryRoom is the centered seed room: half the footprint on each axis.
func primaryRoom(vol Volume) geom.Room {
	w, d := vol.Width(), vol.Depth()
	return geom.Room{
		X:      vol.Min.X + w/4,
		Z:      vol.Min.Z + d/4,
		Width:  w / 2,
		Depth:  d / 2,
		Height: vol.Height(),
	}
}

// createSkeleton places the primary room and then searches for the
// configured number of secondary rooms.
func (h *House) createSkeleton() error {
	primary := primaryRoom(h.params.Volume)
	if !h.placeRoom(primary) {
		return ErrNoPrimaryRoom
	}
	if !h.expand(primary, h.params.SecondaryRooms) {
		return ErrSearchExhausted
	}
	return nil
}

// roomValid reports whether r lies inside the volume and its footprint is
// free at base elevation.
func (h *House) roomValid(r geom.Room) bool {
	vol := h.params.Volume
	if r.Width <= 0 || r.Depth <= 0 {
		return false
	}
	if r.X < vol.Min.X || r.MaxX() > vol.Max.X || r.Z < vol.Min.Z || r.MaxZ() > vol.Max.Z {
		return false
	}
	base := vol.Min.Y
	for x := r.X; x < r.MaxX(); x++ {
		for z := r.Z; z < r.MaxZ(); z++ {
			if h.grid.Occupied(geom.Vec3i{X: x, Y: base, Z: z}) {
				return false
			}
		}
	}
	return true
}

// placeRoom claims r's footprint and appends it to the skeleton.
func (h *House) placeRoom(r geom.Room) bool {
	if !h.roomValid(r) {
		return false
	}
	base := h.params.Volume.Min.Y
	for x := r.X; x < r.MaxX(); x++ {
		for z := r.Z; z < r.MaxZ(); z++ {
			h.grid.Set(geom.Vec3i{X: x, Y: base, Z: z}, true, TagFloor)
		}
	}
	h.skel.push(r)
	return true
}

// rollback undoes every placement made after mark.
func (h *House) rollback(mark int) {
	base := h.params.Volume.Min.Y
	for _, r := range h.skel.truncate(mark) {
		for x := r.X; x < r.MaxX(); x++ {
			for z := r.Z; z < r.MaxZ(); z++ {
				h.grid.Clear(geom.Vec3i{X: x, Y: base, Z: z})
			}
		}
	}
}

// roomFits prunes candidates that leave too little room towards the far
// corner of the volume for the remaining rooms.
func (h *House) roomFits(r geom.Room, left int) bool {
	vol := h.params.Volume
	restX := vol.Max.X - r.MaxX()
	restZ := vol.Max.Z - r.MaxZ()
	if restX < minRoomSide || restZ < minRoomSide {
		return false
	}
	return restX*restZ >= left*minRoomArea
}

// expand grows the chain from cur until left rooms have been placed.
// Candidates are swept by width, depth, x, then z, and must share a side
// with cur.
func (h *House) expand(cur geom.Room, left int) bool {
	if left <= 0 {
		return true
	}
	for w := minRoomSide; w <= cur.Width; w++ {
		for d := minRoomSide; d <= cur.Depth; d++ {
			for x := cur.X - w; x <= cur.MaxX(); x++ {
				for z := cur.Z - d; z <= cur.MaxZ(); z++ {
					cand := geom.Room{X: x, Z: z, Width: w, Depth: d, Height: cur.Height}
					if !cand.SharesAxis(cur) || !h.roomFits(cand, left) {
						continue
					}
					mark := h.skel.Len()
					if !h.placeRoom(cand) {
						continue
					}
					if h.expand(cand, left-1) {
						return true
					}
					h.rollback(mark)
				}
			}
		}
	}
	return false
}
