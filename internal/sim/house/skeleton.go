package house

import "voxelhouse.ai/internal/sim/house/logic/geom"

// Skeleton is the ordered room list; index 0 is the primary room.
type Skeleton struct {
	rooms []geom.Room
}

func (s *Skeleton) Len() int { return len(s.rooms) }

func (s *Skeleton) At(i int) geom.Room { return s.rooms[i] }

func (s *Skeleton) Primary() (geom.Room, bool) {
	if len(s.rooms) == 0 {
		return geom.Room{}, false
	}
	return s.rooms[0], true
}

// Rooms returns a copy of the room list.
func (s *Skeleton) Rooms() []geom.Room {
	out := make([]geom.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

func (s *Skeleton) push(r geom.Room) { s.rooms = append(s.rooms, r) }

// truncate drops every room at index >= mark and returns them, most recent last.
func (s *Skeleton) truncate(mark int) []geom.Room {
	if mark < 0 {
		mark = 0
	}
	if mark >= len(s.rooms) {
		return nil
	}
	dropped := append([]geom.Room(nil), s.rooms[mark:]...)
	s.rooms = s.rooms[:mark]
	return dropped
}
