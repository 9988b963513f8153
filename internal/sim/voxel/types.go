package voxel

import (
	"crypto/sha256"
	"encoding/binary"
)

const ChunkSize = 16

const chunkVolume = ChunkSize * ChunkSize * ChunkSize

type ChunkKey struct {
	CX int
	CY int
	CZ int
}

// Chunk is a 16x16x16 section of palette ids.
type Chunk struct {
	Key    ChunkKey
	Blocks []uint16

	dirty bool
	hash  [32]byte
}

func newChunk(k ChunkKey) *Chunk {
	return &Chunk{Key: k, Blocks: make([]uint16, chunkVolume), dirty: true}
}

func (c *Chunk) index(x, y, z int) int {
	return x + z*ChunkSize + y*ChunkSize*ChunkSize
}

func (c *Chunk) Get(x, y, z int) uint16 {
	return c.Blocks[c.index(x, y, z)]
}

func (c *Chunk) Set(x, y, z int, b uint16) {
	i := c.index(x, y, z)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

// Empty reports whether every cell is air.
func (c *Chunk) Empty() bool {
	for _, v := range c.Blocks {
		if v != 0 {
			return false
		}
	}
	return true
}

func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}
