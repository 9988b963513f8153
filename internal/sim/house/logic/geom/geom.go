package geom

import "fmt"

type Vec3i struct {
	X, Y, Z int
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3i) Array() [3]int { return [3]int{v.X, v.Y, v.Z} }

func (v Vec3i) String() string { return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z) }

func FromArray(a [3]int) Vec3i { return Vec3i{X: a[0], Y: a[1], Z: a[2]} }

// Room is an axis-aligned footprint at a base elevation. X/Z is the minimum
// corner; the footprint covers [X, X+Width) x [Z, Z+Depth).
type Room struct {
	X, Z         int
	Width, Depth int
	Height       int
}

func (r Room) MaxX() int { return r.X + r.Width }
func (r Room) MaxZ() int { return r.Z + r.Depth }
func (r Room) Area() int { return r.Width * r.Depth }

// Inset shrinks the footprint by n cells on every side. Height is unchanged.
func (r Room) Inset(n int) Room {
	return Room{X: r.X + n, Z: r.Z + n, Width: r.Width - 2*n, Depth: r.Depth - 2*n, Height: r.Height}
}

func (r Room) Contains(x, z int) bool {
	return x >= r.X && x < r.MaxX() && z >= r.Z && z < r.MaxZ()
}

func (r Room) Overlaps(o Room) bool {
	return r.overlapsX(o) && r.overlapsZ(o)
}

// SharesAxis reports whether the projections of r and o overlap on X or on Z.
// Rooms that only meet at a corner share no axis.
func (r Room) SharesAxis(o Room) bool {
	return r.overlapsX(o) || r.overlapsZ(o)
}

func (r Room) overlapsX(o Room) bool { return r.X < o.MaxX() && o.X < r.MaxX() }
func (r Room) overlapsZ(o Room) bool { return r.Z < o.MaxZ() && o.Z < r.MaxZ() }

// Segments returns the four boundary lines of the footprint in the order
// north (min z), west (min x), south (max z), east (max x).
func (r Room) Segments() [4]Segment {
	x2 := r.MaxX() - 1
	z2 := r.MaxZ() - 1
	return [4]Segment{
		{X1: r.X, Z1: r.Z, X2: x2, Z2: r.Z},
		{X1: r.X, Z1: r.Z, X2: r.X, Z2: z2},
		{X1: r.X, Z1: z2, X2: x2, Z2: z2},
		{X1: x2, Z1: r.Z, X2: x2, Z2: z2},
	}
}

func (r Room) String() string {
	return fmt.Sprintf("room(x=%d z=%d w=%d d=%d h=%d)", r.X, r.Z, r.Width, r.Depth, r.Height)
}

// Segment is an axis-aligned wall line with inclusive endpoints, X1<=X2 and Z1<=Z2.
type Segment struct {
	X1, Z1, X2, Z2 int
}

// AlongX reports whether the segment runs along the X axis. Single-cell
// segments count as X-running.
func (s Segment) AlongX() bool { return s.Z1 == s.Z2 }

// Cells is the number of cells covered.
func (s Segment) Cells() int {
	if s.AlongX() {
		return s.X2 - s.X1 + 1
	}
	return s.Z2 - s.Z1 + 1
}

// Span returns the inclusive range along the running axis and the fixed
// perpendicular coordinate.
func (s Segment) Span() (lo, hi, line int) {
	if s.AlongX() {
		return s.X1, s.X2, s.Z1
	}
	return s.Z1, s.Z2, s.X1
}

// Within reports whether s is collinear with o and lies inside it.
func (s Segment) Within(o Segment) bool {
	if s.AlongX() != o.AlongX() {
		return false
	}
	lo, hi, line := s.Span()
	olo, ohi, oline := o.Span()
	return line == oline && lo >= olo && hi <= ohi
}

// Nested reports whether either segment lies collinearly inside the other.
func Nested(a, b Segment) bool {
	return a.Within(b) || b.Within(a)
}

// OpeningSpan centers an opening on the inclusive range [lo, hi]: an odd cell
// count yields one cell at the exact center, an even count the two middle cells.
func OpeningSpan(lo, hi int) (a, b int) {
	n := hi - lo + 1
	if n <= 0 {
		return lo, lo - 1
	}
	if n%2 == 1 {
		c := lo + (n-1)/2
		return c, c
	}
	return lo + n/2 - 1, lo + n/2
}
