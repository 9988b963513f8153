package geom

import "testing"

func TestOrientationNormals(t *testing.T) {
	cases := []struct {
		o      Orientation
		dx, dz int
	}{
		{o: North, dx: 0, dz: -1},
		{o: South, dx: 0, dz: 1},
		{o: East, dx: 1, dz: 0},
		{o: West, dx: -1, dz: 0},
		{o: None, dx: 0, dz: 0},
	}
	for _, c := range cases {
		dx, dz := c.o.Normal()
		if dx != c.dx || dz != c.dz {
			t.Fatalf("%s normal=(%d,%d) want (%d,%d)", c.o, dx, dz, c.dx, c.dz)
		}
		ox, oz := c.o.Opposite().Normal()
		if ox != -dx || oz != -dz {
			t.Fatalf("%s opposite normal=(%d,%d)", c.o, ox, oz)
		}
	}
}

func TestParseOrientation(t *testing.T) {
	for in, want := range map[string]Orientation{"N": North, "s": South, "east": East, "W": West, "none": None, "": None} {
		got, err := ParseOrientation(in)
		if err != nil {
			t.Fatalf("ParseOrientation(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseOrientation(%q)=%s want %s", in, got, want)
		}
	}
	if _, err := ParseOrientation("up"); err == nil {
		t.Fatalf("expected error for unknown orientation")
	}
}

func TestOpeningSpanParity(t *testing.T) {
	cases := []struct {
		lo, hi int
		a, b   int
	}{
		{lo: 0, hi: 4, a: 2, b: 2},
		{lo: 0, hi: 5, a: 2, b: 3},
		{lo: 10, hi: 10, a: 10, b: 10},
		{lo: 3, hi: 4, a: 3, b: 4},
		{lo: 7, hi: 21, a: 14, b: 14},
	}
	for _, c := range cases {
		a, b := OpeningSpan(c.lo, c.hi)
		if a != c.a || b != c.b {
			t.Fatalf("OpeningSpan(%d,%d)=(%d,%d) want (%d,%d)", c.lo, c.hi, a, b, c.a, c.b)
		}
		// Equal margins on both sides.
		if a-c.lo != c.hi-b {
			t.Fatalf("OpeningSpan(%d,%d) not centered: (%d,%d)", c.lo, c.hi, a, b)
		}
	}
}

func TestRoomSegmentsAndNesting(t *testing.T) {
	r := Room{X: 2, Z: 3, Width: 5, Depth: 4}
	segs := r.Segments()
	want := [4]Segment{
		{X1: 2, Z1: 3, X2: 6, Z2: 3},
		{X1: 2, Z1: 3, X2: 2, Z2: 6},
		{X1: 2, Z1: 6, X2: 6, Z2: 6},
		{X1: 6, Z1: 3, X2: 6, Z2: 6},
	}
	if segs != want {
		t.Fatalf("segments=%v want %v", segs, want)
	}
	inner := Segment{X1: 3, Z1: 3, X2: 5, Z2: 3}
	if !Nested(inner, segs[0]) || !Nested(segs[0], inner) {
		t.Fatalf("expected nested segments")
	}
	if Nested(inner, segs[2]) {
		t.Fatalf("segments on different lines must not nest")
	}
	if Nested(segs[0], segs[1]) {
		t.Fatalf("perpendicular segments must not nest")
	}
}

func TestRoomSharesAxis(t *testing.T) {
	a := Room{X: 0, Z: 0, Width: 5, Depth: 5}
	if !a.SharesAxis(Room{X: 5, Z: 2, Width: 5, Depth: 5}) {
		t.Fatalf("side contact should share the z axis")
	}
	if a.SharesAxis(Room{X: 5, Z: 5, Width: 5, Depth: 5}) {
		t.Fatalf("corner contact shares no axis")
	}
	if !a.Overlaps(Room{X: 4, Z: 4, Width: 5, Depth: 5}) {
		t.Fatalf("expected overlap")
	}
}

func TestRotateXZ(t *testing.T) {
	x, z := 2, 1
	for rot := 0; rot < 4; rot++ {
		x, z = RotateXZ(x, z, 1)
	}
	if x != 2 || z != 1 {
		t.Fatalf("four quarter turns should be identity, got (%d,%d)", x, z)
	}
	off := RotateOffset(Vec3i{X: 1, Y: 7, Z: 0}, 2)
	if off != (Vec3i{X: -1, Y: 7, Z: 0}) {
		t.Fatalf("RotateOffset=%v", off)
	}
}
