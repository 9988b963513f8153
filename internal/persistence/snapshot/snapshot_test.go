package snapshot

import (
	"path/filepath"
	"testing"
)

func TestWriteReadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "house_1.snap.zst")
	in := SnapshotV1{
		Header:         Header{Version: Version, HouseID: "house_1", Seq: 1},
		Min:            [3]int{0, 60, 0},
		Max:            [3]int{30, 80, 30},
		Orientation:    "W",
		SecondaryRooms: 3,
		Garden:         true,
		Status:         "ok",
		Floors:         4,
		Placements:     12345,
		Rooms:          []RoomV1{{X: 7, Z: 7, Width: 15, Depth: 15, Height: 20}},
		Entrance:       &EntranceV1{Facing: "W", Room: 0, Wall: [4]int{6, 6, 6, 22}, Opening: [2]int{14, 14}, Ramp: [2]int{13, 15}},
		Palette:        []string{"air", "stripped_oak_log"},
		Chunks:         []ChunkV1{{CX: 0, CY: 3, CZ: 0, Runs: []byte{0, 0x80, 0x20}}},
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h != in.Header {
		t.Fatalf("header=%+v want %+v", h, in.Header)
	}

	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if out.Status != "ok" || out.Placements != 12345 || len(out.Rooms) != 1 || out.Rooms[0] != in.Rooms[0] {
		t.Fatalf("snapshot=%+v", out)
	}
	if out.Entrance == nil || *out.Entrance != *in.Entrance {
		t.Fatalf("entrance=%+v", out.Entrance)
	}
	if len(out.Chunks) != 1 || out.Chunks[0].CY != 3 || string(out.Chunks[0].Runs) != string(in.Chunks[0].Runs) {
		t.Fatalf("chunks=%+v", out.Chunks)
	}
}

func TestReadSnapshot_RejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.snap.zst")
	if err := WriteSnapshot(path, SnapshotV1{Header: Header{Version: 99}}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Fatalf("expected version error")
	}
}
