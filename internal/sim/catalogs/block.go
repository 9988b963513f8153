package catalogs

import (
	"fmt"
	"sort"
	"strings"
)

const AirID = "air"

// Block is a material id plus the complete block-state map the sink needs.
type Block struct {
	ID     string            `json:"id"`
	States map[string]string `json:"states,omitempty"`
}

var Air = Block{ID: AirID}

func (b Block) IsAir() bool { return b.ID == "" || b.ID == AirID }

// With returns a copy of b with one state set. b itself is never mutated, so
// material slots can be shared between stages.
func (b Block) With(key, value string) Block {
	states := make(map[string]string, len(b.States)+1)
	for k, v := range b.States {
		states[k] = v
	}
	states[key] = value
	return Block{ID: b.ID, States: states}
}

func (b Block) State(key string) string { return b.States[key] }

// Key is the canonical text form "id[k=v,...]" with states sorted by name.
func (b Block) Key() string {
	id := b.ID
	if id == "" {
		id = AirID
	}
	if len(b.States) == 0 {
		return id
	}
	keys := make([]string, 0, len(b.States))
	for k := range b.States {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(id)
	sb.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(b.States[k])
	}
	sb.WriteByte(']')
	return sb.String()
}

func (b Block) String() string { return b.Key() }

// ParseBlockKey is the inverse of Block.Key.
func ParseBlockKey(s string) (Block, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Block{}, fmt.Errorf("empty block key")
	}
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.ContainsAny(s, "]=,") {
			return Block{}, fmt.Errorf("bad block key %q", s)
		}
		return Block{ID: s}, nil
	}
	if open == 0 || !strings.HasSuffix(s, "]") {
		return Block{}, fmt.Errorf("bad block key %q", s)
	}
	b := Block{ID: s[:open], States: map[string]string{}}
	body := s[open+1 : len(s)-1]
	if body == "" {
		b.States = nil
		return b, nil
	}
	for _, part := range strings.Split(body, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok || k == "" {
			return Block{}, fmt.Errorf("bad block state %q in %q", part, s)
		}
		b.States[k] = v
	}
	return b, nil
}
