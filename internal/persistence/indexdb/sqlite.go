package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelhouse.ai/internal/persistence/snapshot"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/tuning"
)

// SQLiteIndex is a secondary, queryable index of finished builds. Writes
// are queued and applied by a single goroutine; snapshots and logs remain
// the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropBuild    atomic.Uint64
	dropSnapshot atomic.Uint64
}

type reqKind int

const (
	reqBuild reqKind = iota + 1
	reqSnapshot
)

type req struct {
	kind reqKind

	build    BuildRecord
	snapshot snapshotRow
}

// BuildRecord is one finished build.
type BuildRecord struct {
	HouseID        string
	Seq            uint64
	Min            [3]int
	Max            [3]int
	Orientation    string
	SecondaryRooms int
	Status         string
	Floors         int
	Placements     int
	// EntranceRoom is the skeleton index carrying the entrance, -1 for none.
	EntranceRoom int
	Rooms        []snapshot.RoomV1
}

type snapshotRow struct {
	HouseID  string
	Path     string
	Chunks   int
	Palette  int
	Recorded string
}

type Stats struct {
	DropBuildTotal    uint64
	DropSnapshotTotal uint64
	QueueDepth        int
	QueueCapacity     int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS builds (
			house_id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			min_x INTEGER NOT NULL,
			min_y INTEGER NOT NULL,
			min_z INTEGER NOT NULL,
			max_x INTEGER NOT NULL,
			max_y INTEGER NOT NULL,
			max_z INTEGER NOT NULL,
			orientation TEXT NOT NULL,
			secondary_rooms INTEGER NOT NULL,
			status TEXT NOT NULL,
			rooms INTEGER NOT NULL,
			floors INTEGER NOT NULL,
			placements INTEGER NOT NULL,
			entrance_room INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_builds_status ON builds(status, seq);`,
		`CREATE TABLE IF NOT EXISTS rooms (
			house_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			x INTEGER NOT NULL,
			z INTEGER NOT NULL,
			width INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			height INTEGER NOT NULL,
			PRIMARY KEY (house_id, idx)
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			house_id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			chunks INTEGER NOT NULL,
			palette INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains the queue and closes the database.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		DropBuildTotal:    s.dropBuild.Load(),
		DropSnapshotTotal: s.dropSnapshot.Load(),
		QueueDepth:        len(s.ch),
		QueueCapacity:     cap(s.ch),
	}
}

func (s *SQLiteIndex) RecordBuild(rec BuildRecord) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqBuild, build: rec}:
	default:
		// Drop if the indexer falls behind.
		s.dropBuild.Add(1)
	}
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.SnapshotV1) {
	if s == nil || s.closed.Load() {
		return
	}
	r := snapshotRow{
		HouseID:  snap.Header.HouseID,
		Path:     path,
		Chunks:   len(snap.Chunks),
		Palette:  len(snap.Palette),
		Recorded: time.Now().UTC().Format(time.RFC3339Nano),
	}
	select {
	case s.ch <- req{kind: reqSnapshot, snapshot: r}:
	default:
		s.dropSnapshot.Add(1)
	}
}

// UpsertCatalogs stores the materials and tuning in effect for this run.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if configDir != "" {
		if b, err := os.ReadFile(filepath.Join(configDir, catalogs.MaterialsFile)); err == nil && len(b) > 0 {
			rows = append(rows, kv{name: "materials", digest: cats.MaterialsDigest, json: b})
		}
	}
	if len(rows) == 0 {
		if b, _ := json.Marshal(cats.Materials); len(b) > 0 {
			rows = append(rows, kv{name: "materials", digest: cats.MaterialsDigest, json: b})
		}
	}
	if b, _ := json.Marshal(cats.Palette); len(b) > 0 {
		rows = append(rows, kv{name: "materials_palette", digest: cats.PaletteDigest, json: b})
	}
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertBuild, _ := s.db.Prepare(`INSERT OR REPLACE INTO builds(house_id,seq,min_x,min_y,min_z,max_x,max_y,max_z,orientation,secondary_rooms,status,rooms,floors,placements,entrance_room,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	deleteRooms, _ := s.db.Prepare(`DELETE FROM rooms WHERE house_id=?`)
	insertRoom, _ := s.db.Prepare(`INSERT OR REPLACE INTO rooms(house_id,idx,x,z,width,depth,height) VALUES(?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(house_id,path,chunks,palette,recorded_at) VALUES(?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertBuild, deleteRooms, insertRoom, insertSnapshot} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	flushIfNeeded := func() {
		if tx == nil {
			return
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqBuild:
			b := r.build
			if insertBuild == nil || deleteRooms == nil || insertRoom == nil {
				continue
			}
			if _, err := tx.Stmt(insertBuild).Exec(
				b.HouseID,
				int64(b.Seq),
				b.Min[0], b.Min[1], b.Min[2],
				b.Max[0], b.Max[1], b.Max[2],
				b.Orientation,
				b.SecondaryRooms,
				b.Status,
				len(b.Rooms),
				b.Floors,
				b.Placements,
				b.EntranceRoom,
				time.Now().UTC().Format(time.RFC3339Nano),
			); err != nil {
				rollback()
				continue
			}
			opCount++
			if _, err := tx.Stmt(deleteRooms).Exec(b.HouseID); err != nil {
				rollback()
				continue
			}
			for i, room := range b.Rooms {
				if _, err := tx.Stmt(insertRoom).Exec(b.HouseID, i, room.X, room.Z, room.Width, room.Depth, room.Height); err != nil {
					rollback()
					break
				}
				opCount++
			}

		case reqSnapshot:
			sn := r.snapshot
			if insertSnapshot == nil {
				continue
			}
			if _, err := tx.Stmt(insertSnapshot).Exec(sn.HouseID, sn.Path, sn.Chunks, sn.Palette, sn.Recorded); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		flushIfNeeded()
	}

	commit()
}
