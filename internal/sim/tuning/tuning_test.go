package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	raw := []byte(`
volume:
  min: [100, 64, -20]
  max: [140, 84, 20]
orientation: N
secondary_rooms: 2
batch:
  count: 3
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Orientation != "N" || tu.SecondaryRooms != 2 || tu.Batch.Count != 3 {
		t.Fatalf("tuning=%+v", tu)
	}
	// Unset keys keep their defaults.
	if !tu.Garden || tu.Batch.Gap != 20 {
		t.Fatalf("defaults lost: %+v", tu)
	}
	lo, hi := tu.VolumeAt(2)
	if lo != [3]int{220, 64, -20} || hi != [3]int{260, 84, 20} {
		t.Fatalf("VolumeAt(2)=%v..%v", lo, hi)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(path, []byte("secondary_rooms: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if err := os.WriteFile(path, []byte("volume: [1, 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
}
