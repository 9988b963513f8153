package house

import (
	"fmt"

	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/house/logic/mathx"
)

// Volume is the bounding box a house is generated in. Max is exclusive for
// footprint checks and is the last cleared layer.
type Volume struct {
	Min geom.Vec3i
	Max geom.Vec3i
}

// NewVolume orders two arbitrary corners.
func NewVolume(a, b geom.Vec3i) Volume {
	return Volume{
		Min: geom.Vec3i{X: mathx.MinInt(a.X, b.X), Y: mathx.MinInt(a.Y, b.Y), Z: mathx.MinInt(a.Z, b.Z)},
		Max: geom.Vec3i{X: mathx.MaxInt(a.X, b.X), Y: mathx.MaxInt(a.Y, b.Y), Z: mathx.MaxInt(a.Z, b.Z)},
	}
}

func (v Volume) Width() int  { return v.Max.X - v.Min.X }
func (v Volume) Depth() int  { return v.Max.Z - v.Min.Z }
func (v Volume) Height() int { return v.Max.Y - v.Min.Y }

func (v Volume) Validate() error {
	if v.Width() <= 0 || v.Depth() <= 0 || v.Height() <= 0 {
		return fmt.Errorf("volume %s..%s has an empty extent", v.Min, v.Max)
	}
	return nil
}

func (v Volume) String() string { return fmt.Sprintf("%s..%s", v.Min, v.Max) }
