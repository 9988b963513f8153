package encoding

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeRuns encodes a sequence of palette ids as varint pairs
// (palette_id, run_len) repeated.
func EncodeRuns(ids []uint16) []byte {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(ids) {
		b := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == b; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(b))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}
	return buf.Bytes()
}

// DecodeRuns expands runs produced by EncodeRuns. The decoded length must
// equal want.
func DecodeRuns(raw []byte, want int) ([]uint16, error) {
	out := make([]uint16, 0, want)
	for i := 0; i < len(raw); {
		b, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		if b > 0xFFFF {
			return nil, fmt.Errorf("palette id too large: %d", b)
		}
		if run == 0 || uint64(len(out))+run > uint64(want) {
			return nil, fmt.Errorf("run of %d at %d overflows %d ids", run, i, want)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, uint16(b))
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("decoded %d ids, want %d", len(out), want)
	}
	return out, nil
}
