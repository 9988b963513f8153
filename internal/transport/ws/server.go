package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

// DefaultMaxBatch bounds the blocks accepted in a single PLACE message.
const DefaultMaxBatch = 4096

// BlockStore receives decoded placements in arrival order.
type BlockStore interface {
	PlaceBlock(pos geom.Vec3i, b catalogs.Block)
}

type Server struct {
	store    BlockStore
	log      *log.Logger
	maxBatch int
	schemas  *protocol.Validator

	sessions atomic.Uint64
	applied  atomic.Uint64

	upgrader websocket.Upgrader
}

func NewServer(store BlockStore, logger *log.Logger, maxBatch int) (*Server, error) {
	if store == nil {
		return nil, errors.New("ws: nil block store")
	}
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	v, err := protocol.DefaultValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(nopWriter{}, "", 0)
	}
	s := &Server{
		store:    store,
		log:      logger,
		maxBatch: maxBatch,
		schemas:  v,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s, nil
}

// Applied reports the number of blocks applied across all sessions.
func (s *Server) Applied() uint64 { return s.applied.Load() }

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, limit := s.handshake(conn)
		if sessionID == "" {
			return
		}
		s.log.Printf("session %s connected from %s", sessionID, r.RemoteAddr)

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				_ = writeError(conn, 0, protocol.ErrProtoBadRequest, "malformed json")
				continue
			}
			if base.Type != protocol.TypePlace {
				_ = writeError(conn, 0, protocol.ErrProtoBadRequest, "unexpected message type "+base.Type)
				continue
			}
			if base.ProtocolVersion != protocol.Version {
				_ = writeError(conn, 0, protocol.ErrProtoVersion, "bad protocol_version")
				continue
			}
			if err := s.handlePlace(conn, msg, limit); err != nil {
				break
			}
		}
		s.log.Printf("session %s closed", sessionID)
	}
}

// handlePlace applies a batch all-or-nothing. A non-nil error means the
// connection is unusable.
func (s *Server) handlePlace(conn *websocket.Conn, msg []byte, limit int) error {
	if err := s.schemas.Validate(protocol.TypePlace, msg); err != nil {
		return writeError(conn, 0, protocol.ErrProtoBadRequest, err.Error())
	}
	var place protocol.PlaceMsg
	if err := json.Unmarshal(msg, &place); err != nil {
		return writeError(conn, 0, protocol.ErrProtoBadRequest, err.Error())
	}
	if len(place.Blocks) > limit {
		return writeError(conn, place.Seq, protocol.ErrBatchTooLarge, fmt.Sprintf("batch of %d exceeds %d", len(place.Blocks), limit))
	}
	blocks := make([]catalogs.Block, len(place.Blocks))
	for i, bp := range place.Blocks {
		b, err := catalogs.ParseBlockKey(bp.Block)
		if err != nil {
			return writeError(conn, place.Seq, protocol.ErrBadBlock, err.Error())
		}
		blocks[i] = b
	}
	for i, bp := range place.Blocks {
		s.store.PlaceBlock(geom.FromArray(bp.Pos), blocks[i])
	}
	s.applied.Add(uint64(len(blocks)))
	return writeJSON(conn, protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		Seq:             place.Seq,
		Applied:         len(blocks),
	})
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string, maxBatch int) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", 0
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", 0
	}
	if err := s.schemas.Validate(protocol.TypeHello, msg); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad HELLO"), time.Now().Add(time.Second))
		return "", 0
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", 0
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", 0
	}

	maxBatch = s.maxBatch
	if m := hello.Capabilities.MaxBatch; m > 0 && m < maxBatch {
		maxBatch = m
	}
	sessionID = fmt.Sprintf("S%d", s.sessions.Add(1))
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		MaxBatch:        maxBatch,
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", 0
	}
	return sessionID, maxBatch
}

func writeError(conn *websocket.Conn, seq uint64, code, message string) error {
	return writeJSON(conn, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Seq:             seq,
		Code:            code,
		Message:         message,
	})
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
