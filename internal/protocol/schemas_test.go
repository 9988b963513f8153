package protocol

import (
	"encoding/json"
	"testing"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	validate := func(typ string, msg any) {
		t.Helper()
		raw, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if err := v.Validate(typ, raw); err != nil {
			t.Fatalf("validate %s: %v", typ, err)
		}
	}

	validate(TypeHello, HelloMsg{Type: TypeHello, ProtocolVersion: Version, ClientName: "housegen", Capabilities: HelloCapabilities{MaxBatch: 512}})
	validate(TypeWelcome, WelcomeMsg{Type: TypeWelcome, ProtocolVersion: Version, SessionID: "S1", MaxBatch: 512})
	validate(TypePlace, PlaceMsg{Type: TypePlace, ProtocolVersion: Version, Seq: 1, Blocks: []BlockPlacement{
		{Pos: [3]int{0, 60, 0}, Block: "oak_stairs[facing=east,half=bottom]"},
		{Pos: [3]int{-1, 60, 3}, Block: "air"},
	}})
	validate(TypeAck, AckMsg{Type: TypeAck, ProtocolVersion: Version, Seq: 1, Applied: 2})
	validate(TypeError, ErrorMsg{Type: TypeError, ProtocolVersion: Version, Code: ErrBadBlock, Message: "bad block"})
}

func TestSchemas_RejectInvalid(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	bad := []struct {
		typ string
		raw string
	}{
		{typ: TypePlace, raw: `{"type":"PLACE","protocol_version":"1.0","seq":1,"blocks":[{"pos":[1,2],"block":"stone"}]}`},
		{typ: TypePlace, raw: `{"type":"PLACE","protocol_version":"1.0","seq":0,"blocks":[]}`},
		{typ: TypeHello, raw: `{"type":"HELLO","protocol_version":"1.0"}`},
		{typ: TypeAck, raw: `{"type":"WELCOME","protocol_version":"1.0","seq":1,"applied":0}`},
	}
	for _, c := range bad {
		if err := v.Validate(c.typ, []byte(c.raw)); err == nil {
			t.Fatalf("expected %s to be rejected: %s", c.typ, c.raw)
		}
	}
	if err := v.Validate("NOPE", []byte(`{}`)); err == nil {
		t.Fatalf("expected unknown type error")
	}
}

func TestDecodeBase(t *testing.T) {
	m, err := DecodeBase([]byte(`{"type":"ACK","protocol_version":"1.0","seq":3,"applied":1}`))
	if err != nil {
		t.Fatalf("DecodeBase: %v", err)
	}
	if m.Type != TypeAck || m.ProtocolVersion != Version {
		t.Fatalf("base=%+v", m)
	}
}
