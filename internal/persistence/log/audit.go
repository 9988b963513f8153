package log

import (
	"context"
	"sync"

	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

type blockSink interface {
	PlaceBlock(pos geom.Vec3i, b catalogs.Block)
}

type flusher interface {
	Flush(ctx context.Context) error
}

// AuditSink forwards placements to next and records each one. A failed log
// write does not stop placements; the first error is kept and returned by
// Flush.
type AuditSink struct {
	next blockSink
	log  *PlacementLogger

	mu      sync.Mutex
	houseID string
	seq     uint64
	err     error
}

func NewAuditSink(next blockSink, l *PlacementLogger) *AuditSink {
	return &AuditSink{next: next, log: l}
}

// SetHouse tags subsequent placements with houseID and restarts the sequence.
func (a *AuditSink) SetHouse(houseID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.houseID = houseID
	a.seq = 0
}

func (a *AuditSink) PlaceBlock(pos geom.Vec3i, b catalogs.Block) {
	a.mu.Lock()
	a.seq++
	entry := PlacementEntry{HouseID: a.houseID, Seq: a.seq, Pos: pos.Array(), Block: b.Key()}
	if err := a.log.WritePlacement(entry); err != nil && a.err == nil {
		a.err = err
	}
	a.mu.Unlock()
	a.next.PlaceBlock(pos, b)
}

// Flush flushes the wrapped sink, if it buffers, and the log.
func (a *AuditSink) Flush(ctx context.Context) error {
	if f, ok := a.next.(flusher); ok {
		if err := f.Flush(ctx); err != nil {
			return err
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	return a.log.Flush()
}
