package voxel

import (
	"fmt"

	snapv1 "voxelhouse.ai/internal/persistence/snapshot"
	"voxelhouse.ai/internal/sim/encoding"
)

// ExportChunks converts non-empty chunks into snapshot sections along with
// the palette their ids refer to.
func (s *Store) ExportChunks() (palette []string, chunks []snapv1.ChunkV1) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.sortedKeysLocked()
	chunks = make([]snapv1.ChunkV1, 0, len(keys))
	for _, k := range keys {
		ch := s.chunks[k]
		if ch.Empty() {
			continue
		}
		chunks = append(chunks, snapv1.ChunkV1{
			CX:   k.CX,
			CY:   k.CY,
			CZ:   k.CZ,
			Runs: encoding.EncodeRuns(ch.Blocks),
		})
	}
	return s.palette.Keys(), chunks
}

// ImportChunks rebuilds a store from snapshot sections.
func ImportChunks(palette []string, chunks []snapv1.ChunkV1) (*Store, error) {
	pal, err := PaletteFromKeys(palette)
	if err != nil {
		return nil, fmt.Errorf("snapshot palette: %w", err)
	}
	s := &Store{palette: pal, chunks: map[ChunkKey]*Chunk{}}
	for _, c := range chunks {
		blocks, err := encoding.DecodeRuns(c.Runs, chunkVolume)
		if err != nil {
			return nil, fmt.Errorf("snapshot chunk (%d,%d,%d): %w", c.CX, c.CY, c.CZ, err)
		}
		for _, v := range blocks {
			if int(v) >= pal.Len() {
				return nil, fmt.Errorf("snapshot chunk (%d,%d,%d): palette id %d out of range", c.CX, c.CY, c.CZ, v)
			}
		}
		k := ChunkKey{CX: c.CX, CY: c.CY, CZ: c.CZ}
		ch := &Chunk{Key: k, Blocks: blocks, dirty: true}
		_ = ch.Digest()
		s.chunks[k] = ch
	}
	return s, nil
}
