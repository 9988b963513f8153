package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	Volume         Volume `yaml:"volume"`
	Orientation    string `yaml:"orientation"`
	SecondaryRooms int    `yaml:"secondary_rooms"`
	Garden         bool   `yaml:"garden"`
	HangDoors      bool   `yaml:"hang_doors"`

	Batch Batch `yaml:"batch"`
}

type Volume struct {
	Min [3]int `yaml:"min"`
	Max [3]int `yaml:"max"`
}

// Batch controls how many houses are generated side by side.
type Batch struct {
	Count int `yaml:"count"`
	// Gap is the free distance along +X between consecutive volumes.
	Gap         int `yaml:"gap"`
	Parallelism int `yaml:"parallelism"`
}

func Defaults() Tuning {
	return Tuning{
		Volume:         Volume{Min: [3]int{0, 60, 0}, Max: [3]int{30, 80, 30}},
		Orientation:    "W",
		SecondaryRooms: 3,
		Garden:         true,
		Batch:          Batch{Count: 1, Gap: 20, Parallelism: 4},
	}
}

// Load reads a tuning file over the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	for i := 0; i < 3; i++ {
		if t.Volume.Min[i] == t.Volume.Max[i] {
			return fmt.Errorf("volume axis %d is empty", i)
		}
	}
	if t.SecondaryRooms < 0 {
		return fmt.Errorf("secondary_rooms must be >= 0")
	}
	if t.Batch.Count < 1 {
		return fmt.Errorf("batch.count must be >= 1")
	}
	if t.Batch.Gap < 0 {
		return fmt.Errorf("batch.gap must be >= 0")
	}
	return nil
}

// VolumeAt returns the corners of the i-th volume of a batch: each volume is
// shifted along +X by the previous extent plus the gap.
func (t Tuning) VolumeAt(i int) (lo, hi [3]int) {
	lo, hi = t.Volume.Min, t.Volume.Max
	if lo[0] > hi[0] {
		lo[0], hi[0] = hi[0], lo[0]
	}
	shift := i * (hi[0] - lo[0] + t.Batch.Gap)
	lo[0] += shift
	hi[0] += shift
	return lo, hi
}
