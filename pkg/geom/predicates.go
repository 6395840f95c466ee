package geom

import "math"

// SideOfLine returns a positive value if p lies to the left of the directed
// line a→b, a negative value if it lies to the right, and approximately zero
// if it is collinear. The magnitude is twice the signed area of the triangle
// (a, b, p).
func SideOfLine(a, b, p Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// IsLeft reports whether p lies strictly to the left of the directed
// line a→b.
func IsLeft(a, b, p Vec2) bool { return SideOfLine(a, b, p) > Eps }

// IsLeftOn reports whether p lies to the left of or on the directed
// line a→b.
func IsLeftOn(a, b, p Vec2) bool { return SideOfLine(a, b, p) > -Eps }

// Angle returns the unsigned angle between the directions u and v,
// in the range [0, π].
func Angle(u, v Vec2) float64 {
	d := u.Norm() * v.Norm()
	if d < Eps {
		return 0
	}
	c := u.Dot(v) / d
	// Guard against rounding pushing the cosine out of [-1, 1].
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c)
}

// SegmentsIntersect reports whether the open segments p1→p2 and q1→q2
// properly cross. Segments that merely share an endpoint do not count as
// intersecting; collinear overlaps do.
func SegmentsIntersect(p1, p2, q1, q2 Vec2) bool {
	d1 := SideOfLine(q1, q2, p1)
	d2 := SideOfLine(q1, q2, p2)
	d3 := SideOfLine(p1, p2, q1)
	d4 := SideOfLine(p1, p2, q2)

	if ((d1 > Eps && d2 < -Eps) || (d1 < -Eps && d2 > Eps)) &&
		((d3 > Eps && d4 < -Eps) || (d3 < -Eps && d4 > Eps)) {
		return true
	}

	// Collinear cases: count only genuine overlap of interiors.
	if math.Abs(d1) <= Eps && onSegmentInterior(q1, q2, p1) {
		return true
	}
	if math.Abs(d2) <= Eps && onSegmentInterior(q1, q2, p2) {
		return true
	}
	if math.Abs(d3) <= Eps && onSegmentInterior(p1, p2, q1) {
		return true
	}
	if math.Abs(d4) <= Eps && onSegmentInterior(p1, p2, q2) {
		return true
	}
	return false
}

// onSegmentInterior reports whether the collinear point p lies strictly
// inside the segment a→b.
func onSegmentInterior(a, b, p Vec2) bool {
	if p.Eq(a) || p.Eq(b) {
		return false
	}
	return math.Min(a.X, b.X)-Eps <= p.X && p.X <= math.Max(a.X, b.X)+Eps &&
		math.Min(a.Y, b.Y)-Eps <= p.Y && p.Y <= math.Max(a.Y, b.Y)+Eps
}

// InTriangle reports whether p lies strictly inside the CCW triangle
// (a, b, c).
func InTriangle(a, b, c, p Vec2) bool {
	return SideOfLine(a, b, p) > Eps &&
		SideOfLine(b, c, p) > Eps &&
		SideOfLine(c, a, p) > Eps
}

// PolygonArea returns the signed area of the closed polygon described by
// pts in order. Counter-clockwise polygons have positive area.
func PolygonArea(pts []Vec2) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return 0.5 * sum
}

// TriangleArea returns the signed area of the triangle (a, b, c).
func TriangleArea(a, b, c Vec2) float64 {
	return 0.5 * SideOfLine(a, b, c)
}

// QuadArea returns the signed area of the quadrilateral (a, b, c, d).
func QuadArea(a, b, c, d Vec2) float64 {
	return PolygonArea([]Vec2{a, b, c, d})
}
