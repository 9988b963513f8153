package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// JSONLZstdWriter appends JSON lines to hourly zstd files
// <baseDir>/<prefix>-YYYY-MM-DD-HH.jsonl.zst.
type JSONLZstdWriter struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush pushes buffered lines into the compressor.
func (w *JSONLZstdWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	path := w.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// PlacementEntry is one block write as seen by the sink.
type PlacementEntry struct {
	HouseID string `json:"house_id"`
	Seq     uint64 `json:"seq"`
	Pos     [3]int `json:"pos"`
	Block   string `json:"block"`
}

// BuildEntry summarises one finished build.
type BuildEntry struct {
	HouseID     string   `json:"house_id"`
	Min         [3]int   `json:"min"`
	Max         [3]int   `json:"max"`
	Orientation string   `json:"orientation"`
	Status      string   `json:"status"`
	Rooms       [][5]int `json:"rooms"`
	Floors      int      `json:"floors"`
	Placements  int      `json:"placements"`
	Error       string   `json:"error,omitempty"`
}

// PlacementLogger writes placement JSONL entries (compressed).
type PlacementLogger struct{ w *JSONLZstdWriter }

func NewPlacementLogger(dataDir string) *PlacementLogger {
	return &PlacementLogger{w: NewJSONLZstdWriter(filepath.Join(dataDir, "placements"), "placements")}
}

func (l *PlacementLogger) WritePlacement(v PlacementEntry) error { return l.w.Write(v) }
func (l *PlacementLogger) Flush() error                          { return l.w.Flush() }
func (l *PlacementLogger) Close() error                          { return l.w.Close() }

// BuildLogger writes one JSONL entry per build (compressed).
type BuildLogger struct{ w *JSONLZstdWriter }

func NewBuildLogger(dataDir string) *BuildLogger {
	return &BuildLogger{w: NewJSONLZstdWriter(filepath.Join(dataDir, "builds"), "builds")}
}

func (l *BuildLogger) WriteBuild(v BuildEntry) error { return l.w.Write(v) }
func (l *BuildLogger) Close() error                  { return l.w.Close() }
