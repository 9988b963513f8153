package encoding

import "testing"

func TestRuns_RoundTrip(t *testing.T) {
	in := make([]uint16, 0, 200)
	in = append(in, 1, 1, 1, 2, 2, 3)
	for i := 0; i < 50; i++ {
		in = append(in, 7)
	}
	in = append(in, 9, 300, 300, 300)

	enc := EncodeRuns(in)
	out, err := DecodeRuns(enc, len(in))
	if err != nil {
		t.Fatalf("DecodeRuns: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len mismatch: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, out[i], in[i])
		}
	}
}

func TestRuns_UniformSectionIsCompact(t *testing.T) {
	in := make([]uint16, 4096)
	enc := EncodeRuns(in)
	// One pair: id 0 (1 byte) and 4096 (2 bytes).
	if len(enc) != 3 {
		t.Fatalf("encoded len=%d", len(enc))
	}
}

func TestDecodeRuns_RejectsLengthMismatch(t *testing.T) {
	enc := EncodeRuns([]uint16{4, 4, 4})
	if _, err := DecodeRuns(enc, 2); err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, err := DecodeRuns(enc, 4); err == nil {
		t.Fatalf("expected short error")
	}
	if _, err := DecodeRuns([]byte{0x80}, 1); err == nil {
		t.Fatalf("expected varint error")
	}
}
