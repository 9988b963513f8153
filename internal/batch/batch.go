package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"voxelhouse.ai/internal/persistence/snapshot"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house"
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/tuning"
	"voxelhouse.ai/internal/sim/voxel"
)

type Config struct {
	Tuning   tuning.Tuning
	Catalogs *catalogs.Catalogs
	Logger   *log.Logger
}

// Result is one finished build. Its placements are held in memory until
// Replay forwards them to a shared sink.
type Result struct {
	HouseID string
	Seq     uint64
	Params  house.Params
	Outcome house.Outcome

	rec *voxel.Recorder
}

// Placements is the number of recorded block writes.
func (r *Result) Placements() int { return r.rec.Len() }

// HouseID names the i-th house of a batch.
func HouseID(i int) string { return fmt.Sprintf("house-%03d", i) }

// Params derives the build parameters of the i-th house.
func Params(t tuning.Tuning, i int) (house.Params, error) {
	o, err := geom.ParseOrientation(t.Orientation)
	if err != nil {
		return house.Params{}, err
	}
	lo, hi := t.VolumeAt(i)
	return house.Params{
		Volume:         house.NewVolume(geom.FromArray(lo), geom.FromArray(hi)),
		Orientation:    o,
		SecondaryRooms: t.SecondaryRooms,
		Garden:         t.Garden,
		HangDoors:      t.HangDoors,
	}, nil
}

// Build generates every house of the batch concurrently. Each house records
// into its own buffer; results are returned in batch order.
func Build(ctx context.Context, cfg Config) ([]*Result, error) {
	if cfg.Catalogs == nil {
		return nil, errors.New("batch: nil catalogs")
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	n := cfg.Tuning.Batch.Count
	results := make([]*Result, n)

	g, gctx := errgroup.WithContext(ctx)
	if p := cfg.Tuning.Batch.Parallelism; p > 0 {
		g.SetLimit(p)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := Params(cfg.Tuning, i)
			if err != nil {
				return err
			}
			id := HouseID(i)
			rec := &voxel.Recorder{}
			hl := log.New(logger.Writer(), fmt.Sprintf("%s[%s] ", logger.Prefix(), id), logger.Flags())
			h, err := house.New(p, cfg.Catalogs.Materials, rec, hl)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			results[i] = &Result{
				HouseID: id,
				Seq:     uint64(i + 1),
				Params:  p,
				Outcome: h.Build(),
				rec:     rec,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Tagger is implemented by sinks that label placements with the house they
// belong to.
type Tagger interface {
	SetHouse(houseID string)
}

// Replay forwards every result's placements to sink in batch order and
// flushes once at the end when sink buffers.
func Replay(ctx context.Context, results []*Result, sink house.Sink) error {
	tagger, _ := sink.(Tagger)
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tagger != nil {
			tagger.SetHouse(r.HouseID)
		}
		r.rec.Replay(sink)
	}
	if f, ok := sink.(house.Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}

// Snapshot captures the build and the voxels it produced.
func Snapshot(r *Result, materialsDigest string) snapshot.SnapshotV1 {
	store := voxel.NewStore()
	r.rec.Replay(store)
	palette, chunks := store.ExportChunks()

	vol := r.Params.Volume
	snap := snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			HouseID: r.HouseID,
			Seq:     r.Seq,
		},
		Min:             vol.Min.Array(),
		Max:             vol.Max.Array(),
		Orientation:     r.Params.Orientation.String(),
		SecondaryRooms:  r.Params.SecondaryRooms,
		Garden:          r.Params.Garden,
		HangDoors:       r.Params.HangDoors,
		MaterialsDigest: materialsDigest,
		Status:          r.Outcome.Status(),
		Floors:          r.Outcome.Floors,
		Placements:      r.Outcome.Placements,
		Rooms:           RoomsV1(r.Outcome.Rooms),
		Palette:         palette,
		Chunks:          chunks,
	}
	if e := r.Outcome.Entrance; e != nil {
		snap.Entrance = &snapshot.EntranceV1{
			Facing:  e.Facing.String(),
			Room:    e.Room,
			Wall:    [4]int{e.Wall.X1, e.Wall.Z1, e.Wall.X2, e.Wall.Z2},
			Opening: e.Opening,
			Ramp:    e.Ramp,
		}
	}
	return snap
}

func RoomsV1(rooms []geom.Room) []snapshot.RoomV1 {
	out := make([]snapshot.RoomV1, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, snapshot.RoomV1{X: r.X, Z: r.Z, Width: r.Width, Depth: r.Depth, Height: r.Height})
	}
	return out
}

// SnapshotPath is where a house's snapshot lives under dataDir.
func SnapshotPath(dataDir, houseID string) string {
	return filepath.Join(dataDir, "snapshots", houseID+".snap.zst")
}
