package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	HouseID string `json:"house_id"`
	Seq     uint64 `json:"seq"`
}

// SnapshotV1 is the persisted result of one build: its parameters, the
// room layout, and the voxels it produced.
type SnapshotV1 struct {
	Header Header `json:"header"`

	Min            [3]int `json:"min"`
	Max            [3]int `json:"max"`
	Orientation    string `json:"orientation"`
	SecondaryRooms int    `json:"secondary_rooms"`
	Garden         bool   `json:"garden"`
	HangDoors      bool   `json:"hang_doors,omitempty"`

	MaterialsDigest string `json:"materials_digest,omitempty"`

	Status     string      `json:"status"`
	Floors     int         `json:"floors"`
	Placements int         `json:"placements"`
	Rooms      []RoomV1    `json:"rooms"`
	Entrance   *EntranceV1 `json:"entrance,omitempty"`

	// Palette maps chunk palette ids to block keys; id 0 is air.
	Palette []string  `json:"palette"`
	Chunks  []ChunkV1 `json:"chunks"`
}

type RoomV1 struct {
	X      int `json:"x"`
	Z      int `json:"z"`
	Width  int `json:"width"`
	Depth  int `json:"depth"`
	Height int `json:"height"`
}

type EntranceV1 struct {
	Facing  string `json:"facing"`
	Room    int    `json:"room"`
	Wall    [4]int `json:"wall"`
	Opening [2]int `json:"opening"`
	Ramp    [2]int `json:"ramp"`
}

// ChunkV1 is one 16x16x16 section. Runs holds varint (palette_id, run_len)
// pairs over the section in x, z, y order.
type ChunkV1 struct {
	CX   int    `json:"cx"`
	CY   int    `json:"cy"`
	CZ   int    `json:"cz"`
	Runs []byte `json:"runs"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadHeader decodes only the leading JSON header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The header is repeated inside the gob body.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}
