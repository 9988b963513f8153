package catalogs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Material slot names.
const (
	SlotWall          = "wall"
	SlotRoof          = "roof"
	SlotRoofSlab      = "roof_slab"
	SlotDoor          = "door"
	SlotWindow        = "window"
	SlotEntrance      = "entrance"
	SlotStairs        = "stairs"
	SlotStairsSlab    = "stairs_slab"
	SlotCeiling       = "ceiling"
	SlotFloor         = "floor"
	SlotCeilingSlab   = "ceiling_slab"
	SlotGardenOutline = "garden_outline"
	SlotGardenFloor   = "garden_floor"
)

// Slots lists every required slot in a stable order.
var Slots = []string{
	SlotWall, SlotRoof, SlotRoofSlab, SlotDoor, SlotWindow, SlotEntrance, SlotStairs,
	SlotStairsSlab, SlotCeiling, SlotFloor, SlotCeilingSlab, SlotGardenOutline, SlotGardenFloor,
}

// Materials maps slot names to block descriptors.
type Materials map[string]Block

// ConfigError reports an unusable materials configuration.
type ConfigError struct {
	Slot string
	Err  error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Slot != "" && e.Err != nil:
		return fmt.Sprintf("materials: slot %q: %v", e.Slot, e.Err)
	case e.Slot != "":
		return fmt.Sprintf("materials: missing slot %q", e.Slot)
	case e.Err != nil:
		return fmt.Sprintf("materials: %v", e.Err)
	default:
		return "materials: invalid configuration"
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Validate returns a *ConfigError naming the first missing or empty slot.
func (m Materials) Validate() error {
	for _, slot := range Slots {
		b, ok := m[slot]
		if !ok {
			return &ConfigError{Slot: slot}
		}
		if b.ID == "" {
			return &ConfigError{Slot: slot, Err: fmt.Errorf("empty block id")}
		}
	}
	return nil
}

func (m Materials) Get(slot string) Block { return m[slot] }

// UnmarshalJSON accepts either "block_id" or {"id": ..., "states": {...}}.
func (b *Block) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return err
		}
		*b = Block{ID: id}
		return nil
	}
	type plain Block
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	*b = Block(p)
	return nil
}

//go:embed materials.schema.json
var materialsSchemaJSON []byte

var (
	materialsSchemaOnce sync.Once
	materialsSchema     *jsonschema.Schema
	materialsSchemaErr  error
)

func compiledMaterialsSchema() (*jsonschema.Schema, error) {
	materialsSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("materials.schema.json", bytes.NewReader(materialsSchemaJSON)); err != nil {
			materialsSchemaErr = err
			return
		}
		materialsSchema, materialsSchemaErr = c.Compile("materials.schema.json")
	})
	return materialsSchema, materialsSchemaErr
}

// ParseMaterials decodes and validates a materials document.
func ParseMaterials(raw []byte) (Materials, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ConfigError{Err: err}
	}
	// Missing slots get a precise error before the schema's generic one.
	for _, slot := range Slots {
		if _, ok := doc[slot]; !ok {
			return nil, &ConfigError{Slot: slot}
		}
	}
	sch, err := compiledMaterialsSchema()
	if err != nil {
		return nil, fmt.Errorf("materials schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ConfigError{Err: err}
	}
	var m Materials
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &ConfigError{Err: err}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// DefaultMaterials is the oak-and-stone palette used when no catalog is given.
func DefaultMaterials() Materials {
	return Materials{
		SlotWall:          {ID: "stripped_oak_log"},
		SlotRoof:          {ID: "smooth_stone"},
		SlotRoofSlab:      {ID: "oak_slab"},
		SlotDoor:          {ID: "oak_door"},
		SlotWindow:        {ID: "glass_pane"},
		SlotEntrance:      {ID: "oak_door"},
		SlotStairs:        {ID: "oak_stairs"},
		SlotStairsSlab:    {ID: "birch_slab"},
		SlotCeiling:       {ID: "stripped_oak_log"},
		SlotFloor:         {ID: "stripped_oak_log"},
		SlotCeilingSlab:   {ID: "quartz_slab"},
		SlotGardenOutline: {ID: "oak_leaves"},
		SlotGardenFloor:   {ID: "grass_block"},
	}
}
