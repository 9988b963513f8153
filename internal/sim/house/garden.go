package house

import (
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

// gardenHeight is the number of outline layers above ground.
const gardenHeight = 3

// placeGarden lays the garden floor under the whole footprint and fences the
// volume's edge, leaving a gap in front of the entrance ramp. Cells the house
// already occupies at ground level are left alone. Without an entrance the
// garden is floor only.
func (h *House) placeGarden() {
	vol := h.params.Volume
	floor := h.block(catalogs.SlotGardenFloor)
	outline := h.block(catalogs.SlotGardenOutline)
	base := h.base()
	e := h.entranceGeometry()
	for x := vol.Min.X; x < vol.Max.X; x++ {
		for z := vol.Min.Z; z < vol.Max.Z; z++ {
			h.place(geom.Vec3i{X: x, Y: base - 1, Z: z}, floor)
		}
	}
	if e == nil {
		return
	}
	edgeCells(vol, func(x, z int, side geom.Orientation) {
		if side == e.Facing {
			t := x
			if !e.Facing.AlongX() {
				t = z
			}
			if t >= e.Ramp[0] && t <= e.Ramp[1] {
				return
			}
		}
		if h.grid.Occupied(geom.Vec3i{X: x, Y: base, Z: z}) {
			return
		}
		for y := base; y < base+gardenHeight; y++ {
			h.place(geom.Vec3i{X: x, Y: y, Z: z}, outline)
		}
	})
}

// edgeCells visits the outermost ring of the volume's footprint once per
// cell. Corner cells report the north or south side.
func edgeCells(vol Volume, fn func(x, z int, side geom.Orientation)) {
	x2, z2 := vol.Max.X-1, vol.Max.Z-1
	for x := vol.Min.X; x <= x2; x++ {
		fn(x, vol.Min.Z, geom.North)
		if z2 != vol.Min.Z {
			fn(x, z2, geom.South)
		}
	}
	for z := vol.Min.Z + 1; z < z2; z++ {
		fn(vol.Min.X, z, geom.West)
		if x2 != vol.Min.X {
			fn(x2, z, geom.East)
		}
	}
}
