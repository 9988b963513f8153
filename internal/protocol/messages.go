package protocol

// HelloMsg opens a session; the client names itself and its batch limit.
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	MaxBatch int `json:"max_batch,omitempty"`
}

type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	// MaxBatch is the largest PLACE batch the server accepts.
	MaxBatch int `json:"max_batch"`
}

// PlaceMsg carries an ordered batch of block placements.
type PlaceMsg struct {
	Type            string           `json:"type"`
	ProtocolVersion string           `json:"protocol_version"`
	Seq             uint64           `json:"seq"`
	Blocks          []BlockPlacement `json:"blocks"`
}

// BlockPlacement is a position and a canonical block key ("id[k=v,...]").
type BlockPlacement struct {
	Pos   [3]int `json:"pos"`
	Block string `json:"block"`
}

type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seq             uint64 `json:"seq"`
	Applied         int    `json:"applied"`
}

type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seq             uint64 `json:"seq,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
