package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"voxelhouse.ai/internal/protocol"
	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/voxel"
)

func startEditor(t *testing.T, maxBatch int) (*Server, *voxel.Store, string) {
	t.Helper()
	store := voxel.NewStore()
	srv, err := NewServer(store, nil, maxBatch)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return srv, store, "ws" + strings.TrimPrefix(hs.URL, "http")
}

func TestSink_FlushStreamsBatchesInOrder(t *testing.T) {
	srv, store, url := startEditor(t, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sink, err := DialSink(ctx, url, "test", nil)
	if err != nil {
		t.Fatalf("DialSink: %v", err)
	}
	defer sink.Close()
	if sink.SessionID() == "" {
		t.Fatalf("expected session id")
	}

	stairs := catalogs.Block{ID: "oak_stairs", States: map[string]string{"facing": "east", "half": "bottom"}}
	sink.PlaceBlock(geom.Vec3i{X: 1, Y: 60, Z: 1}, catalogs.Block{ID: "stone"})
	sink.PlaceBlock(geom.Vec3i{X: 2, Y: 60, Z: 1}, stairs)
	sink.PlaceBlock(geom.Vec3i{X: -3, Y: 61, Z: 7}, catalogs.Block{ID: "glass"})
	sink.PlaceBlock(geom.Vec3i{X: 1, Y: 60, Z: 1}, catalogs.Block{ID: "oak_planks"})
	sink.PlaceBlock(geom.Vec3i{X: 5, Y: 62, Z: 5}, catalogs.Air)

	if got := store.Writes(); got != 0 {
		t.Fatalf("placements sent before Flush: %d", got)
	}
	if err := sink.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := sink.Sent(); got != 5 {
		t.Fatalf("sent=%d want 5", got)
	}
	if got := srv.Applied(); got != 5 {
		t.Fatalf("applied=%d want 5", got)
	}
	if got := store.Block(geom.Vec3i{X: 1, Y: 60, Z: 1}); got.ID != "oak_planks" {
		t.Fatalf("last write should win, got %s", got)
	}
	if got := store.Block(geom.Vec3i{X: 2, Y: 60, Z: 1}); got.Key() != stairs.Key() {
		t.Fatalf("stairs=%s want %s", got, stairs)
	}
	if got := store.Block(geom.Vec3i{X: -3, Y: 61, Z: 7}); got.ID != "glass" {
		t.Fatalf("glass=%s", got)
	}

	// Flushing an empty buffer is a no-op.
	if err := sink.Flush(ctx); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
}

func TestSink_RemoteErrorOnBadBlock(t *testing.T) {
	_, store, url := startEditor(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sink, err := DialSink(ctx, url, "test", nil)
	if err != nil {
		t.Fatalf("DialSink: %v", err)
	}
	defer sink.Close()

	sink.PlaceBlock(geom.Vec3i{X: 0, Y: 0, Z: 0}, catalogs.Block{ID: "stone"})
	sink.pending = append(sink.pending, protocol.BlockPlacement{Pos: [3]int{1, 0, 0}, Block: "stone[facing"})
	err = sink.Flush(ctx)
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if re.Code != protocol.ErrBadBlock {
		t.Fatalf("code=%s", re.Code)
	}
	if got := store.Writes(); got != 0 {
		t.Fatalf("rejected batch must not be applied, writes=%d", got)
	}
}

func TestServer_RejectsMissingHello(t *testing.T) {
	_, _, url := startEditor(t, 0)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	place := protocol.PlaceMsg{Type: protocol.TypePlace, ProtocolVersion: protocol.Version, Seq: 1}
	if err := conn.WriteJSON(place); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

func TestServer_WrongTypeAfterHandshake(t *testing.T) {
	_, _, url := startEditor(t, 0)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: "raw"}
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != protocol.TypeWelcome || welcome.MaxBatch != DefaultMaxBatch {
		t.Fatalf("welcome=%+v", welcome)
	}

	if err := conn.WriteJSON(protocol.AckMsg{Type: protocol.TypeAck, ProtocolVersion: protocol.Version, Seq: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var em protocol.ErrorMsg
	if err := conn.ReadJSON(&em); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if em.Type != protocol.TypeError || em.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("error=%+v", em)
	}
}
