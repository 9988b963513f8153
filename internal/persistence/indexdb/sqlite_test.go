package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"voxelhouse.ai/internal/persistence/snapshot"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/tuning"
)

func TestSQLiteIndex_RecordBuild(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index", "builds.sqlite")
	idx, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.UpsertCatalogs("", catalogs.FromMaterials(catalogs.DefaultMaterials()), tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}
	idx.RecordBuild(BuildRecord{
		HouseID:        "house_1",
		Seq:            1,
		Min:            [3]int{0, 60, 0},
		Max:            [3]int{30, 80, 30},
		Orientation:    "W",
		SecondaryRooms: 3,
		Status:         "ok",
		Floors:         4,
		Placements:     24000,
		EntranceRoom:   2,
		Rooms: []snapshot.RoomV1{
			{X: 7, Z: 7, Width: 15, Depth: 15, Height: 20},
			{X: 2, Z: 3, Width: 5, Depth: 5, Height: 20},
		},
	})
	idx.RecordSnapshot("/tmp/house_1.snap.zst", snapshot.SnapshotV1{
		Header:  snapshot.Header{Version: snapshot.Version, HouseID: "house_1"},
		Palette: []string{"air", "wall"},
		Chunks:  []snapshot.ChunkV1{{}, {}},
	})
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Close is idempotent and later writes are ignored.
	_ = idx.Close()
	idx.RecordBuild(BuildRecord{HouseID: "late"})

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var status string
	var rooms, entrance int
	if err := db.QueryRow(`SELECT status, rooms, entrance_room FROM builds WHERE house_id=?`, "house_1").Scan(&status, &rooms, &entrance); err != nil {
		t.Fatalf("query build: %v", err)
	}
	if status != "ok" || rooms != 2 || entrance != 2 {
		t.Fatalf("build row status=%q rooms=%d entrance=%d", status, rooms, entrance)
	}
	var w int
	if err := db.QueryRow(`SELECT width FROM rooms WHERE house_id=? AND idx=1`, "house_1").Scan(&w); err != nil {
		t.Fatalf("query room: %v", err)
	}
	if w != 5 {
		t.Fatalf("room width=%d", w)
	}
	var chunks int
	if err := db.QueryRow(`SELECT chunks FROM snapshots WHERE house_id=?`, "house_1").Scan(&chunks); err != nil {
		t.Fatalf("query snapshot: %v", err)
	}
	if chunks != 2 {
		t.Fatalf("chunks=%d", chunks)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil {
		t.Fatalf("query catalogs: %v", err)
	}
	if n != 3 {
		t.Fatalf("catalog rows=%d", n)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqBuild}

	s.RecordBuild(BuildRecord{HouseID: "h"})
	s.RecordSnapshot("/tmp/h.snap.zst", snapshot.SnapshotV1{})

	st := s.Stats()
	if st.DropBuildTotal != 1 || st.DropSnapshotTotal != 1 {
		t.Fatalf("drops build=%d snapshot=%d", st.DropBuildTotal, st.DropSnapshotTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}
