package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	persistlog "voxelhouse.ai/internal/persistence/log"
	"voxelhouse.ai/internal/persistence/snapshot"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/voxel"
	"voxelhouse.ai/internal/transport/ws"
)

func main() {
	var (
		snapPath     = flag.String("snapshot", "", "path to .snap.zst")
		placementDir = flag.String("placements", "", "placements dir containing placements-*.jsonl.zst (optional; verifies the snapshot)")
		editorURL    = flag.String("editor", "", "editor websocket url to re-stream the snapshot to (optional)")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	store, err := voxel.ImportChunks(snap.Palette, snap.Chunks)
	if err != nil {
		fmt.Fprintln(os.Stderr, "import snapshot:", err)
		os.Exit(1)
	}

	fmt.Printf("snapshot v%d house=%s seq=%d status=%s orientation=%s volume=%v..%v rooms=%d floors=%d placements=%d chunks=%d blocks=%d\n",
		snap.Header.Version, snap.Header.HouseID, snap.Header.Seq, snap.Status, snap.Orientation, snap.Min, snap.Max,
		len(snap.Rooms), snap.Floors, snap.Placements, len(snap.Chunks), store.Count())
	for i, r := range snap.Rooms {
		fmt.Printf("  room %d x=%d z=%d w=%d d=%d h=%d\n", i, r.X, r.Z, r.Width, r.Depth, r.Height)
	}
	if e := snap.Entrance; e != nil {
		fmt.Printf("  entrance facing=%s room=%d opening=%v ramp=%v\n", e.Facing, e.Room, e.Opening, e.Ramp)
	}

	if *placementDir != "" {
		files, err := listPlacementFiles(*placementDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "list placements:", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "no placement files found in", *placementDir)
			os.Exit(1)
		}
		replayed := voxel.NewStore()
		var n int
		for _, path := range files {
			if err := replayFile(replayed, path, snap.Header.HouseID, &n); err != nil {
				fmt.Fprintln(os.Stderr, "replay:", err)
				os.Exit(1)
			}
		}
		if n == 0 {
			fmt.Fprintln(os.Stderr, "no placements logged for", snap.Header.HouseID)
			os.Exit(1)
		}
		if replayed.Digest() != store.Digest() {
			fmt.Fprintf(os.Stderr, "digest mismatch: log=%x snapshot=%x\n", replayed.Digest(), store.Digest())
			os.Exit(1)
		}
		fmt.Printf("replay ok: placements=%d digest=%x\n", n, store.Digest())
	}

	if u := strings.TrimSpace(*editorURL); u != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		sink, err := ws.DialSink(ctx, u, "replay", nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "dial editor:", err)
			os.Exit(1)
		}
		defer sink.Close()
		n := store.Replay(sink)
		if err := sink.Flush(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "stream:", err)
			os.Exit(1)
		}
		fmt.Printf("streamed %d blocks to %s\n", n, u)
	}
}

func listPlacementFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "placements-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func replayFile(store *voxel.Store, path, houseID string, n *int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		var entry persistlog.PlacementEntry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if entry.HouseID != houseID {
			continue
		}
		b, err := catalogs.ParseBlockKey(entry.Block)
		if err != nil {
			return fmt.Errorf("%s seq=%d: %w", filepath.Base(path), entry.Seq, err)
		}
		store.PlaceBlock(geom.FromArray(entry.Pos), b)
		*n++
	}
	return sc.Err()
}
