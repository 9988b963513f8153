package geom

// RotateXZ rotates an (x,z) offset around the Y axis by rot*90 degrees
// clockwise. Only the low two bits of rot are used.
func RotateXZ(x, z, rot int) (rx, rz int) {
	switch rot & 3 {
	case 0:
		return x, z
	case 1:
		return z, -x
	case 2:
		return -x, -z
	default: // 3
		return -z, x
	}
}

func RotateOffset(off Vec3i, rot int) Vec3i {
	rx, rz := RotateXZ(off.X, off.Z, rot)
	return Vec3i{X: rx, Y: off.Y, Z: rz}
}
