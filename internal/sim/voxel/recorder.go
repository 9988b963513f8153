package voxel

import (
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

type Placement struct {
	Pos   geom.Vec3i
	Block catalogs.Block
}

// Recorder keeps placements in arrival order so they can be replayed later.
// It is not safe for concurrent use.
type Recorder struct {
	Placements []Placement
}

func (r *Recorder) PlaceBlock(p geom.Vec3i, b catalogs.Block) {
	r.Placements = append(r.Placements, Placement{Pos: p, Block: b})
}

func (r *Recorder) Len() int { return len(r.Placements) }

// Replay forwards every recorded placement in order.
func (r *Recorder) Replay(sink interface {
	PlaceBlock(geom.Vec3i, catalogs.Block)
}) {
	for _, pl := range r.Placements {
		sink.PlaceBlock(pl.Pos, pl.Block)
	}
}
