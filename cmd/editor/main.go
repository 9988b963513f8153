package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"voxelhouse.ai/internal/persistence/snapshot"
	"voxelhouse.ai/internal/sim/voxel"
	"voxelhouse.ai/internal/transport/ws"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "http listen address")
		dataDir  = flag.String("data", "./data", "runtime data directory")
		snapPath = flag.String("snapshot", "", "snapshot to preload (optional)")
		maxBatch = flag.Int("max_batch", ws.DefaultMaxBatch, "largest PLACE batch accepted")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[editor] ", log.LstdFlags|log.Lmicroseconds)

	store := voxel.NewStore()
	if p := strings.TrimSpace(*snapPath); p != "" {
		snap, err := snapshot.ReadSnapshot(p)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		store, err = voxel.ImportChunks(snap.Palette, snap.Chunks)
		if err != nil {
			logger.Fatalf("import snapshot: %v", err)
		}
		logger.Printf("preloaded %s house=%s blocks=%d", filepath.Base(p), snap.Header.HouseID, store.Count())
	}

	wsServer, err := ws.NewServer(store, logger, *maxBatch)
	if err != nil {
		logger.Fatalf("ws: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		fmt.Fprintf(rw, "# HELP voxelhouse_editor_applied_blocks Blocks applied from PLACE batches.\n")
		fmt.Fprintf(rw, "# TYPE voxelhouse_editor_applied_blocks counter\n")
		fmt.Fprintf(rw, "voxelhouse_editor_applied_blocks %d\n", wsServer.Applied())

		fmt.Fprintf(rw, "# HELP voxelhouse_editor_blocks Non-air blocks in the store.\n")
		fmt.Fprintf(rw, "# TYPE voxelhouse_editor_blocks gauge\n")
		fmt.Fprintf(rw, "voxelhouse_editor_blocks %d\n", store.Count())

		fmt.Fprintf(rw, "# HELP voxelhouse_editor_loaded_chunks Loaded chunk count.\n")
		fmt.Fprintf(rw, "# TYPE voxelhouse_editor_loaded_chunks gauge\n")
		fmt.Fprintf(rw, "voxelhouse_editor_loaded_chunks %d\n", len(store.LoadedChunkKeys()))
	})
	mux.HandleFunc("/v1/ws", wsServer.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}

	palette, chunks := store.ExportChunks()
	snap := snapshot.SnapshotV1{
		Header:     snapshot.Header{Version: snapshot.Version, HouseID: "editor", Seq: wsServer.Applied()},
		Status:     "editor",
		Placements: int(wsServer.Applied()),
		Palette:    palette,
		Chunks:     chunks,
	}
	path := filepath.Join(*dataDir, "snapshots", fmt.Sprintf("editor-%d.snap.zst", time.Now().Unix()))
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		logger.Fatalf("snapshot write: %v", err)
	}
	logger.Printf("wrote %s blocks=%d digest=%x", path, store.Count(), store.Digest())
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
