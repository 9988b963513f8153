package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const MaterialsFile = "materials.json"

type Catalogs struct {
	Materials       Materials
	MaterialsDigest string

	// Palette holds the block keys the materials can produce without states
	// applied by the generator, air first.
	Palette       []string
	PaletteDigest string
}

func Load(configDir string) (*Catalogs, error) {
	raw, err := os.ReadFile(filepath.Join(configDir, MaterialsFile))
	if err != nil {
		return nil, err
	}
	m, err := ParseMaterials(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MaterialsFile, err)
	}
	c := FromMaterials(m)
	c.MaterialsDigest = sha256Hex(raw)
	return c, nil
}

// FromMaterials builds catalogs around an in-memory materials map.
func FromMaterials(m Materials) *Catalogs {
	c := &Catalogs{Materials: m}
	seen := map[string]bool{AirID: true}
	keys := []string{}
	for _, slot := range Slots {
		b, ok := m[slot]
		if !ok {
			continue
		}
		k := b.Key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	c.Palette = append([]string{AirID}, keys...)
	palJSON, _ := json.Marshal(c.Palette)
	c.PaletteDigest = sha256Hex(palJSON)
	docJSON, _ := json.Marshal(m)
	c.MaterialsDigest = sha256Hex(docJSON)
	return c
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
