package house

import "voxelhouse.ai/internal/sim/catalogs"

// windowOffsets returns window positions, counted from a wall's first cell,
// for a wall with span interior cells between its two end cells.
func windowOffsets(span int) []int {
	var out []int
	switch {
	case span <= 0:
	case span == 2:
		out = []int{1, 2}
	case span == 4:
		out = []int{2, 3}
	case span <= 5:
		for o := 1; o <= span; o += 2 {
			out = append(out, o)
		}
	default:
		for o := 1; o <= span; o += 4 {
			out = append(out, o)
			if o+1 <= span {
				out = append(out, o+1)
			}
		}
	}
	return out
}

// placeWindows glazes every exterior wall at mid-height of each storey.
// The ground-floor cells in front of the entrance ramp stay as they are.
func (h *House) placeWindows() {
	window := h.block(catalogs.SlotWindow)
	base := h.base()
	entrance := h.entranceGeometry()
	for _, s := range h.exteriorWalls(h.adjacentWalls()) {
		lo, hi, _ := s.Span()
		offsets := windowOffsets(hi - lo - 1)
		for f := 0; f < h.floors; f++ {
			y := base + 2 + FloorHeight*f
			for _, o := range offsets {
				t := lo + o
				if f == 0 && entrance.covers(s, t) {
					continue
				}
				h.place(segmentCell(s, t, y), window)
			}
		}
	}
}
