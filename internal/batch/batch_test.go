package batch

import (
	"context"
	"testing"

	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/tuning"
	"voxelhouse.ai/internal/sim/voxel"
)

type taggingStore struct {
	*voxel.Store
	houses []string
	flush  int
}

func (s *taggingStore) SetHouse(id string) { s.houses = append(s.houses, id) }

func (s *taggingStore) Flush(ctx context.Context) error {
	s.flush++
	return nil
}

func testConfig(count int) Config {
	tune := tuning.Defaults()
	tune.Batch.Count = count
	tune.Batch.Parallelism = 2
	return Config{Tuning: tune, Catalogs: catalogs.FromMaterials(catalogs.DefaultMaterials())}
}

func TestBuild_ShiftsVolumesInOrder(t *testing.T) {
	results, err := Build(context.Background(), testConfig(3))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results=%d", len(results))
	}
	for i, r := range results {
		if r.HouseID != HouseID(i) || r.Seq != uint64(i+1) {
			t.Fatalf("result %d id=%s seq=%d", i, r.HouseID, r.Seq)
		}
		wantX := i * 50
		if r.Params.Volume.Min.X != wantX || r.Params.Volume.Max.X != wantX+30 {
			t.Fatalf("house %d volume=%s", i, r.Params.Volume)
		}
		if r.Outcome.Status() != "ok" {
			t.Fatalf("house %d status=%s", i, r.Outcome.Status())
		}
		if r.Placements() != r.Outcome.Placements {
			t.Fatalf("house %d recorded=%d outcome=%d", i, r.Placements(), r.Outcome.Placements)
		}
	}
	// Identical inputs produce identical layouts, shifted along X.
	a, b := results[0].Outcome.Rooms, results[1].Outcome.Rooms
	if len(a) != len(b) {
		t.Fatalf("rooms %d vs %d", len(a), len(b))
	}
	for i := range a {
		if b[i].X-a[i].X != 50 || b[i].Z != a[i].Z || b[i].Width != a[i].Width {
			t.Fatalf("room %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestBuild_BadOrientation(t *testing.T) {
	cfg := testConfig(1)
	cfg.Tuning.Orientation = "up"
	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected orientation error")
	}
}

func TestReplay_TagsAndFlushesOnce(t *testing.T) {
	results, err := Build(context.Background(), testConfig(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	sink := &taggingStore{Store: voxel.NewStore()}
	if err := Replay(context.Background(), results, sink); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(sink.houses) != 2 || sink.houses[0] != "house-000" || sink.houses[1] != "house-001" {
		t.Fatalf("houses=%v", sink.houses)
	}
	if sink.flush != 1 {
		t.Fatalf("flush=%d want 1", sink.flush)
	}
	want := uint64(results[0].Placements() + results[1].Placements())
	if got := sink.Writes(); got != want {
		t.Fatalf("writes=%d want %d", got, want)
	}
	// Entrance stairs of the second house sit one cell west of its wall.
	e := results[1].Outcome.Entrance
	if e == nil {
		t.Fatalf("missing entrance")
	}
	pos := geom.Vec3i{X: e.Line() - 1, Y: 60, Z: e.Opening[0]}
	if got := sink.Block(pos); got.ID != catalogs.DefaultMaterials().Get(catalogs.SlotStairs).ID {
		t.Fatalf("entrance stairs at %s = %s", pos, got)
	}
}

func TestSnapshot_CapturesVoxels(t *testing.T) {
	results, err := Build(context.Background(), testConfig(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r := results[0]
	snap := Snapshot(r, "digest")
	if snap.Header.HouseID != "house-000" || snap.Status != "ok" || snap.Orientation != "W" {
		t.Fatalf("header=%+v status=%s orientation=%s", snap.Header, snap.Status, snap.Orientation)
	}
	if len(snap.Rooms) != len(r.Outcome.Rooms) || snap.Entrance == nil || snap.Entrance.Room != 2 {
		t.Fatalf("rooms=%d entrance=%+v", len(snap.Rooms), snap.Entrance)
	}

	direct := voxel.NewStore()
	r.rec.Replay(direct)
	restored, err := voxel.ImportChunks(snap.Palette, snap.Chunks)
	if err != nil {
		t.Fatalf("ImportChunks: %v", err)
	}
	if restored.Digest() != direct.Digest() {
		t.Fatalf("snapshot voxels differ from recorded placements")
	}
}
