package house

import (
	"context"
	"errors"
	"io"
	"log"

	"voxelhouse.ai/internal/sim/catalogs"
	"voxelhouse.ai/internal/sim/house/logic/geom"
)

// FloorHeight is the vertical distance between storeys.
const FloorHeight = 4

// DefaultSecondaryRooms is the room count used when the caller has no preference.
const DefaultSecondaryRooms = 3

// Sink receives block placements in order; later writes win.
type Sink interface {
	PlaceBlock(pos geom.Vec3i, b catalogs.Block)
}

// Flusher is implemented by sinks that buffer placements.
type Flusher interface {
	Flush(ctx context.Context) error
}

type Params struct {
	Volume         Volume
	Orientation    geom.Orientation
	SecondaryRooms int
	Garden         bool
	// HangDoors places door blocks in interior openings and the entrance
	// instead of leaving them open.
	HangDoors bool
}

// Outcome summarises a finished build.
type Outcome struct {
	Rooms      []geom.Room
	Floors     int
	Placements int
	Entrance   *EntranceGeometry
	// Err is nil, ErrSearchExhausted or ErrNoPrimaryRoom.
	Err error
}

// Status is a short machine-readable outcome label.
func (o Outcome) Status() string {
	switch {
	case o.Err == nil:
		return "ok"
	case errors.Is(o.Err, ErrSearchExhausted):
		return "search_exhausted"
	case errors.Is(o.Err, ErrNoPrimaryRoom):
		return "no_primary_room"
	default:
		return "error"
	}
}

// House generates one building. It is not safe for concurrent use; run
// independent houses in parallel instead.
type House struct {
	params Params
	mats   catalogs.Materials
	sink   Sink
	logger *log.Logger

	grid   *Grid
	skel   Skeleton
	floors int

	entrance     *EntranceGeometry
	entranceDone bool

	placements int
	built      bool
}

// New validates the parameters and materials. A missing material slot is
// reported as *catalogs.ConfigError.
func New(p Params, mats catalogs.Materials, sink Sink, logger *log.Logger) (*House, error) {
	if err := mats.Validate(); err != nil {
		return nil, err
	}
	if err := p.Volume.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, errors.New("house: nil sink")
	}
	if p.SecondaryRooms < 0 {
		p.SecondaryRooms = 0
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &House{
		params: p,
		mats:   mats,
		sink:   sink,
		logger: logger,
		grid:   NewGrid(p.Volume),
		floors: p.Volume.Height() / 5,
	}, nil
}

func (h *House) Grid() *Grid { return h.grid }

func (h *House) Skeleton() *Skeleton { return &h.skel }

func (h *House) Floors() int { return h.floors }

// Build runs every stage once. Calling it again returns the first outcome's
// shape without emitting anything.
func (h *House) Build() Outcome {
	if h.built {
		return h.outcome(nil)
	}
	h.built = true
	vol := h.params.Volume
	h.logger.Printf("build volume=%s orientation=%s rooms=%d", vol, h.params.Orientation, h.params.SecondaryRooms)

	h.clearVolume()
	err := h.createSkeleton()
	switch {
	case errors.Is(err, ErrNoPrimaryRoom):
		h.logger.Printf("abort: %v", err)
		return h.outcome(err)
	case err != nil:
		h.logger.Printf("search: %v (placed %d of %d rooms)", err, h.skel.Len(), h.params.SecondaryRooms+1)
	default:
		h.logger.Printf("search: placed %d rooms", h.skel.Len())
	}

	h.placeFloors()
	h.placeWalls()
	h.placeDoors()
	h.placeRoof()
	h.placeCeilings()
	h.placeWindows()
	h.placeEntrance()
	if h.params.Garden {
		h.placeGarden()
	}
	if h.floors > 1 {
		h.placeStairs()
	}
	h.logger.Printf("done placements=%d floors=%d", h.placements, h.floors)
	return h.outcome(err)
}

func (h *House) outcome(err error) Outcome {
	return Outcome{
		Rooms:      h.skel.Rooms(),
		Floors:     h.floors,
		Placements: h.placements,
		Entrance:   h.entrance,
		Err:        err,
	}
}

func (h *House) place(p geom.Vec3i, b catalogs.Block) {
	h.sink.PlaceBlock(p, b)
	h.placements++
}

func (h *House) block(slot string) catalogs.Block { return h.mats[slot] }

// base is the ground elevation of every room.
func (h *House) base() int { return h.params.Volume.Min.Y }

func (h *House) clearVolume() {
	vol := h.params.Volume
	for x := vol.Min.X; x <= vol.Max.X; x++ {
		for y := vol.Min.Y; y <= vol.Max.Y; y++ {
			for z := vol.Min.Z; z <= vol.Max.Z; z++ {
				h.place(geom.Vec3i{X: x, Y: y, Z: z}, catalogs.Air)
			}
		}
	}
}

// wallRing returns the rectangle whose boundary is the room's wall ring:
// one cell outside the primary room, the room boundary for secondary rooms.
func wallRing(idx int, r geom.Room) geom.Room {
	if idx == 0 {
		return r.Inset(-1)
	}
	return r
}

// interior returns the area inside a room's wall ring.
func interior(idx int, r geom.Room) geom.Room {
	if idx == 0 {
		return r
	}
	return r.Inset(1)
}
