package crop

// CoordMapper converts pointer coordinates from the viewport the user sees
// into image pixel coordinates.
type CoordMapper func(Point) Point

// Identity is the mapper for a canvas shown at its natural size.
func Identity(p Point) Point {
	return p
}

// ViewportMapper scales from a viewW x viewH display of an imageW x imageH
// image. A degenerate viewport falls back to Identity.
func ViewportMapper(viewW, viewH float64, imageW, imageH int) CoordMapper {
	if viewW <= 0 || viewH <= 0 {
		return Identity
	}
	sx := float64(imageW) / viewW
	sy := float64(imageH) / viewH
	return func(p Point) Point {
		return Point{X: p.X * sx, Y: p.Y * sy}
	}
}
