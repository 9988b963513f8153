package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var schemaFiles = map[string]string{
	TypeHello:   "hello.schema.json",
	TypeWelcome: "welcome.schema.json",
	TypePlace:   "place.schema.json",
	TypeAck:     "ack.schema.json",
	TypeError:   "error.schema.json",
}

// Validator checks raw messages against the embedded JSON schemas.
type Validator struct {
	byType map[string]*jsonschema.Schema
}

var (
	defaultValidatorOnce sync.Once
	defaultValidator     *Validator
	defaultValidatorErr  error
)

// DefaultValidator compiles the embedded schemas once.
func DefaultValidator() (*Validator, error) {
	defaultValidatorOnce.Do(func() {
		defaultValidator, defaultValidatorErr = NewValidator()
	})
	return defaultValidator, defaultValidatorErr
}

func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	for _, name := range schemaFiles {
		raw, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, err
		}
		if err := c.AddResource(name, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	v := &Validator{byType: map[string]*jsonschema.Schema{}}
	for typ, name := range schemaFiles {
		s, err := c.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		v.byType[typ] = s
	}
	return v, nil
}

// Validate checks raw against the schema registered for typ.
func (v *Validator) Validate(typ string, raw []byte) error {
	s, ok := v.byType[typ]
	if !ok {
		return fmt.Errorf("no schema for message type %q", typ)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return s.Validate(doc)
}
