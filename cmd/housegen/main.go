package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"voxelhouse.ai/internal/batch"
	"voxelhouse.ai/internal/persistence/indexdb"
	persistlog "voxelhouse.ai/internal/persistence/log"
	"voxelhouse.ai/internal/persistence/snapshot"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house"
	"voxelhouse.ai/internal/sim/tuning"
	"voxelhouse.ai/internal/sim/voxel"
	"voxelhouse.ai/internal/transport/ws"
)

func main() {
	var (
		configDir   = flag.String("configs", "./configs", "config directory (materials.json, tuning.yaml)")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		editorURL   = flag.String("editor", "", "editor websocket url, e.g. ws://127.0.0.1:8080/v1/ws (empty: in-memory store)")
		disableDB   = flag.Bool("disable_db", false, "disable the sqlite build index")
		noSnapshots = flag.Bool("no_snapshots", false, "do not write per-house snapshots")
		count       = flag.Int("count", 0, "override batch.count")
		orientation = flag.String("orientation", "", "override orientation (N|S|E|W|none)")
		rooms       = flag.Int("rooms", -1, "override secondary_rooms")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[housegen] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	if *count > 0 {
		tune.Batch.Count = *count
	}
	if s := strings.TrimSpace(*orientation); s != "" {
		tune.Orientation = s
	}
	if *rooms >= 0 {
		tune.SecondaryRooms = *rooms
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := batch.Build(ctx, batch.Config{Tuning: tune, Catalogs: cats, Logger: logger})
	if err != nil {
		logger.Fatalf("build: %v", err)
	}
	logger.Printf("built %d houses in %s", len(results), time.Since(start).Round(time.Millisecond))

	var (
		sink  house.Sink
		store *voxel.Store
	)
	if u := strings.TrimSpace(*editorURL); u != "" {
		dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
		remote, err := ws.DialSink(dialCtx, u, "housegen", logger)
		dialCancel()
		if err != nil {
			logger.Fatalf("dial editor: %v", err)
		}
		defer remote.Close()
		sink = remote
	} else {
		store = voxel.NewStore()
		sink = store
	}

	placementLog := persistlog.NewPlacementLogger(*dataDir)
	defer placementLog.Close()
	audit := persistlog.NewAuditSink(sink, placementLog)
	if err := batch.Replay(ctx, results, audit); err != nil {
		logger.Fatalf("replay: %v", err)
	}
	if store != nil {
		logger.Printf("store chunks=%d blocks=%d digest=%x", len(store.LoadedChunkKeys()), store.Count(), store.Digest())
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index", "houses.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
	}

	buildLog := persistlog.NewBuildLogger(*dataDir)
	defer buildLog.Close()

	for _, r := range results {
		out := r.Outcome
		entry := persistlog.BuildEntry{
			HouseID:     r.HouseID,
			Min:         r.Params.Volume.Min.Array(),
			Max:         r.Params.Volume.Max.Array(),
			Orientation: r.Params.Orientation.String(),
			Status:      out.Status(),
			Floors:      out.Floors,
			Placements:  out.Placements,
		}
		for _, room := range out.Rooms {
			entry.Rooms = append(entry.Rooms, [5]int{room.X, room.Z, room.Width, room.Depth, room.Height})
		}
		if out.Err != nil {
			entry.Error = out.Err.Error()
		}
		if err := buildLog.WriteBuild(entry); err != nil {
			logger.Printf("build log: %v", err)
		}

		if idx != nil {
			rec := indexdb.BuildRecord{
				HouseID:        r.HouseID,
				Seq:            r.Seq,
				Min:            entry.Min,
				Max:            entry.Max,
				Orientation:    entry.Orientation,
				SecondaryRooms: r.Params.SecondaryRooms,
				Status:         entry.Status,
				Floors:         out.Floors,
				Placements:     out.Placements,
				EntranceRoom:   -1,
				Rooms:          batch.RoomsV1(out.Rooms),
			}
			if out.Entrance != nil {
				rec.EntranceRoom = out.Entrance.Room
			}
			idx.RecordBuild(rec)
		}

		if !*noSnapshots {
			snap := batch.Snapshot(r, cats.MaterialsDigest)
			path := batch.SnapshotPath(*dataDir, r.HouseID)
			if err := snapshot.WriteSnapshot(path, snap); err != nil {
				logger.Printf("snapshot write %s: %v", r.HouseID, err)
			} else if idx != nil {
				idx.RecordSnapshot(path, snap)
			}
		}

		fmt.Printf("%s status=%s rooms=%d floors=%d placements=%d volume=%s\n",
			r.HouseID, out.Status(), len(out.Rooms), out.Floors, out.Placements, r.Params.Volume)
	}

	if idx != nil {
		st := idx.Stats()
		if st.DropBuildTotal > 0 || st.DropSnapshotTotal > 0 {
			logger.Printf("index dropped builds=%d snapshots=%d", st.DropBuildTotal, st.DropSnapshotTotal)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
