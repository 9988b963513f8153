package log

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()
	var out []map[string]any
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestJSONLZstdWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "events")
	clock := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }
	if err := w.Write(map[string]int{"n": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	clock = clock.Add(2 * time.Minute)
	if err := w.Write(map[string]int{"n": 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, name := range []string{"events-2026-03-01-10.jsonl.zst", "events-2026-03-01-11.jsonl.zst"} {
		if lines := readLines(t, filepath.Join(dir, name)); len(lines) != 1 {
			t.Fatalf("%s: %d lines", name, len(lines))
		}
	}
}

type countSink struct{ n int }

func (s *countSink) PlaceBlock(geom.Vec3i, catalogs.Block) { s.n++ }

func TestAuditSink_RecordsAndForwards(t *testing.T) {
	dir := t.TempDir()
	pl := NewPlacementLogger(dir)
	next := &countSink{}
	a := NewAuditSink(next, pl)
	a.SetHouse("house_1")
	a.PlaceBlock(geom.Vec3i{X: 1, Y: 2, Z: 3}, catalogs.Block{ID: "oak_slab", States: map[string]string{"type": "top"}})
	a.PlaceBlock(geom.Vec3i{X: 1, Y: 3, Z: 3}, catalogs.Air)
	if err := a.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := pl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if next.n != 2 {
		t.Fatalf("forwarded=%d", next.n)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "placements", "placements-*.jsonl.zst"))
	if len(files) != 1 {
		t.Fatalf("files=%v", files)
	}
	lines := readLines(t, files[0])
	if len(lines) != 2 {
		t.Fatalf("lines=%d", len(lines))
	}
	if lines[0]["block"] != "oak_slab[type=top]" || lines[0]["house_id"] != "house_1" || lines[1]["seq"] != float64(2) {
		t.Fatalf("entries=%v", lines)
	}
}
