package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

// RemoteError is an ERROR message returned by the editor.
type RemoteError struct {
	Seq     uint64
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("editor error seq=%d %s: %s", e.Seq, e.Code, e.Message)
}

// Sink buffers placements locally and streams them to a remote editor in
// PLACE batches on Flush. Placement order is preserved.
type Sink struct {
	conn      *websocket.Conn
	log       *log.Logger
	sessionID string
	maxBatch  int

	mu      sync.Mutex
	pending []protocol.BlockPlacement
	seq     uint64
	sent    int
	closed  bool
}

// DialSink connects to url and completes the HELLO/WELCOME handshake.
func DialSink(ctx context.Context, url, clientName string, logger *log.Logger) (*Sink, error) {
	if logger == nil {
		logger = log.New(nopWriter{}, "", 0)
	}
	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
		ReadBufferSize:   64 * 1024,
		WriteBufferSize:  64 * 1024,
	}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      clientName,
		Capabilities:    protocol.HelloCapabilities{MaxBatch: DefaultMaxBatch},
	}
	if err := writeJSON(conn, hello); err != nil {
		_ = conn.Close()
		return nil, err
	}
	var welcome protocol.WelcomeMsg
	if err := readTyped(ctx, conn, protocol.TypeWelcome, &welcome); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	if welcome.MaxBatch <= 0 {
		welcome.MaxBatch = DefaultMaxBatch
	}
	logger.Printf("connected to %s session=%s max_batch=%d", url, welcome.SessionID, welcome.MaxBatch)
	return &Sink{
		conn:      conn,
		log:       logger,
		sessionID: welcome.SessionID,
		maxBatch:  welcome.MaxBatch,
	}, nil
}

func (s *Sink) SessionID() string { return s.sessionID }

// PlaceBlock queues a placement; nothing is sent until Flush.
func (s *Sink) PlaceBlock(pos geom.Vec3i, b catalogs.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, protocol.BlockPlacement{Pos: pos.Array(), Block: b.Key()})
}

// Sent reports how many placements the editor has acknowledged.
func (s *Sink) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// Flush sends all queued placements and waits for each batch's ACK.
func (s *Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("ws: sink closed")
	}
	for len(s.pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := len(s.pending)
		if n > s.maxBatch {
			n = s.maxBatch
		}
		s.seq++
		msg := protocol.PlaceMsg{
			Type:            protocol.TypePlace,
			ProtocolVersion: protocol.Version,
			Seq:             s.seq,
			Blocks:          s.pending[:n],
		}
		if err := writeJSON(s.conn, msg); err != nil {
			return err
		}
		var ack protocol.AckMsg
		if err := readTyped(ctx, s.conn, protocol.TypeAck, &ack); err != nil {
			return err
		}
		if ack.Seq != s.seq {
			return fmt.Errorf("ws: ack seq=%d want %d", ack.Seq, s.seq)
		}
		s.sent += ack.Applied
		s.pending = s.pending[n:]
	}
	s.pending = nil
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return s.conn.Close()
}

// readTyped reads one message and decodes it into out when its type is want.
// ERROR messages become *RemoteError.
func readTyped(ctx context.Context, conn *websocket.Conn, want string, out any) error {
	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return err
	}
	switch base.Type {
	case want:
		return json.Unmarshal(msg, out)
	case protocol.TypeError:
		var em protocol.ErrorMsg
		if err := json.Unmarshal(msg, &em); err != nil {
			return err
		}
		return &RemoteError{Seq: em.Seq, Code: em.Code, Message: em.Message}
	default:
		return fmt.Errorf("ws: unexpected message type %q", base.Type)
	}
}
