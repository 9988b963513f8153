package voxel

import (
	"crypto/sha256"
	"sort"
	"sync"

	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
	"voxelhouse.ai/internal/sim/house/logic/mathx"
)

// Store is an in-memory chunked voxel world. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	palette *Palette
	chunks  map[ChunkKey]*Chunk
	writes  uint64
}

func NewStore() *Store {
	return &Store{palette: NewPalette(), chunks: map[ChunkKey]*Chunk{}}
}

func split(p geom.Vec3i) (ChunkKey, int, int, int) {
	k := ChunkKey{
		CX: mathx.FloorDiv(p.X, ChunkSize),
		CY: mathx.FloorDiv(p.Y, ChunkSize),
		CZ: mathx.FloorDiv(p.Z, ChunkSize),
	}
	return k, mathx.Mod(p.X, ChunkSize), mathx.Mod(p.Y, ChunkSize), mathx.Mod(p.Z, ChunkSize)
}

// PlaceBlock stores b at p; the last write wins.
func (s *Store) PlaceBlock(p geom.Vec3i, b catalogs.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	id := s.palette.intern(b)
	k, x, y, z := split(p)
	ch, ok := s.chunks[k]
	if !ok {
		if id == 0 {
			return
		}
		ch = newChunk(k)
		s.chunks[k] = ch
	}
	ch.Set(x, y, z, id)
}

func (s *Store) Block(p geom.Vec3i) catalogs.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, x, y, z := split(p)
	ch, ok := s.chunks[k]
	if !ok {
		return catalogs.Air
	}
	b, _ := s.palette.Block(ch.Get(x, y, z))
	return b
}

// Writes counts every PlaceBlock call, including overwrites.
func (s *Store) Writes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) LoadedChunkKeys() []ChunkKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedKeysLocked()
}

func (s *Store) sortedKeysLocked() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

// Count returns the number of non-air cells.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ch := range s.chunks {
		for _, v := range ch.Blocks {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Digest hashes the world content independently of palette ids, so two
// stores holding the same blocks agree.
func (s *Store) Digest() [32]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := sha256.New()
	for _, k := range s.sortedKeysLocked() {
		ch := s.chunks[k]
		if ch.Empty() {
			continue
		}
		for i, v := range ch.Blocks {
			if v == 0 {
				continue
			}
			x := i % ChunkSize
			z := (i / ChunkSize) % ChunkSize
			y := i / (ChunkSize * ChunkSize)
			b, _ := s.palette.Block(v)
			p := geom.Vec3i{X: k.CX*ChunkSize + x, Y: k.CY*ChunkSize + y, Z: k.CZ*ChunkSize + z}
			h.Write([]byte(p.String()))
			h.Write([]byte(b.Key()))
			h.Write([]byte{'\n'})
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Replay emits every non-air block into sink in chunk order.
func (s *Store) Replay(sink interface {
	PlaceBlock(geom.Vec3i, catalogs.Block)
}) int {
	type placed struct {
		p geom.Vec3i
		b catalogs.Block
	}
	s.mu.Lock()
	var out []placed
	for _, k := range s.sortedKeysLocked() {
		ch := s.chunks[k]
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				for x := 0; x < ChunkSize; x++ {
					v := ch.Get(x, y, z)
					if v == 0 {
						continue
					}
					b, _ := s.palette.Block(v)
					out = append(out, placed{
						p: geom.Vec3i{X: k.CX*ChunkSize + x, Y: k.CY*ChunkSize + y, Z: k.CZ*ChunkSize + z},
						b: b,
					})
				}
			}
		}
	}
	s.mu.Unlock()
	for _, pl := range out {
		sink.PlaceBlock(pl.p, pl.b)
	}
	return len(out)
}
