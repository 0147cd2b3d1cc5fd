package corr3

import (
	"math"
	"math/cmplx"

	geor3 "github.com/golang/geo/r3"
	geos2 "github.com/golang/geo/s2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointSpace is the coordinate system a Field's cells live in.
type PointSpace int

const (
	// Flat is the Euclidean plane (x, y).
	Flat PointSpace = iota
	// Sphere is the celestial sphere; positions are unit vectors (x, y, z).
	Sphere
	// ThreeD is Euclidean 3-space (x, y, z).
	ThreeD
)

func (s PointSpace) String() string {
	switch s {
	case Flat:
		return "Flat"
	case Sphere:
		return "Sphere"
	case ThreeD:
		return "ThreeD"
	default:
		return "Unknown"
	}
}

// MetricKind selects the distance/orientation rule applied to a PointSpace.
type MetricKind int

const (
	// Euclidean is straight-line distance, valid for Flat and ThreeD.
	Euclidean MetricKind = iota
	// Arc is great-circle distance, valid only for Sphere.
	Arc
	// Periodic is Euclidean distance under periodic (toroidal) wrapping,
	// valid for Flat and ThreeD.
	Periodic
)

func (m MetricKind) String() string {
	switch m {
	case Euclidean:
		return "Euclidean"
	case Arc:
		return "Arc"
	case Periodic:
		return "Periodic"
	default:
		return "Unknown"
	}
}

// Pos is a cell or point position. Flat cells leave Z at zero; Sphere
// cells store a unit vector.
type Pos struct {
	X, Y, Z float64
}

func (p Pos) vec2() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }
func (p Pos) vec3() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }
func (p Pos) s2Point() geos2.Point {
	return geos2.Point{Vector: geor3.Vector{X: p.X, Y: p.Y, Z: p.Z}}
}

// Metric is the capability set the traversal needs from a point-space /
// distance-rule combination: squared distance between cell centres
// (adjusted for the metric), triangle orientation, and shear projection
// into the triangle-local frame.
type Metric interface {
	// DistSq returns the squared distance between pa and pb. sa, sb are
	// the enclosing-ball sizes of the two cells; periodic metrics may use
	// them to pick the shortest wrapped image. Pass 0, 0 when sizes have
	// already been accounted for by the caller.
	DistSq(pa, pb Pos, sa, sb float64) float64

	// CCW reports whether p1, p2, p3 are wound counter-clockwise.
	CCW(p1, p2, p3 Pos) bool

	// Project rotates g1, g2, g3 (the aggregate shears at p1, p2, p3) into
	// the frame tied to the triangle's centroid.
	Project(p1, p2, p3 Pos, g1, g2, g3 complex128) (complex128, complex128, complex128)
}

// NewMetric resolves a (kind, space) pair into a concrete Metric, or
// returns an error wrapping ErrUnsupportedMetric if the combination is
// not defined. period is the periodic box size along each axis, used only
// when kind == Periodic.
func NewMetric(kind MetricKind, space PointSpace, period Pos) (Metric, error) {
	switch kind {
	case Euclidean:
		switch space {
		case Flat:
			return flatMetric{}, nil
		case ThreeD:
			return threeDMetric{}, nil
		}
	case Arc:
		if space == Sphere {
			return sphereMetric{}, nil
		}
	case Periodic:
		switch space {
		case Flat:
			return periodicFlatMetric{period: period}, nil
		case ThreeD:
			return periodicThreeDMetric{period: period}, nil
		}
	}
	return nil, newErr(KindUnsupportedMetric, "NewMetric",
		"metric %s is not defined for point space %s", kind, space)
}

// projectPlanar rotates three shears into the frame defined by the
// direction from each vertex to the triangle's centroid, working entirely
// within a caller-supplied 2D embedding (dir1, dir2, dir3 point from each
// vertex toward the centroid). This is the shared implementation behind
// the Flat, ThreeD and Sphere Project methods; each supplies its own
// tangent-plane embedding of those three direction vectors.
func projectPlanar(dir1, dir2, dir3 r2.Vec, g1, g2, g3 complex128) (complex128, complex128, complex128) {
	rot := func(g complex128, d r2.Vec) complex128 {
		if d.X == 0 && d.Y == 0 {
			return g
		}
		phi := math.Atan2(d.Y, d.X)
		return g * cmplx.Exp(complex(0, -2*phi))
	}
	return rot(g1, dir1), rot(g2, dir2), rot(g3, dir3)
}

// --- Flat (planar Euclidean) ---

type flatMetric struct{}

func (flatMetric) DistSq(pa, pb Pos, _, _ float64) float64 {
	d := r2.Sub(pa.vec2(), pb.vec2())
	return r2.Dot(d, d)
}

func (flatMetric) CCW(p1, p2, p3 Pos) bool {
	return ccw2(p1.vec2(), p2.vec2(), p3.vec2())
}

func (flatMetric) Project(p1, p2, p3 Pos, g1, g2, g3 complex128) (complex128, complex128, complex128) {
	c := r2.Scale(1.0/3.0, r2.Add(r2.Add(p1.vec2(), p2.vec2()), p3.vec2()))
	return projectPlanar(
		r2.Sub(c, p1.vec2()), r2.Sub(c, p2.vec2()), r2.Sub(c, p3.vec2()),
		g1, g2, g3)
}

// ccw2 treats an exactly-zero cross product (collinear points) as CCW,
// per convention: collinear triangles still need a definite kv half to
// land in, and CCW=true is the one this kernel picks.
func ccw2(a, b, c r2.Vec) bool {
	ab := r2.Sub(b, a)
	ac := r2.Sub(c, a)
	return ab.X*ac.Y-ab.Y*ac.X >= 0
}

// --- ThreeD (Euclidean 3-space) ---

type threeDMetric struct{}

func (threeDMetric) DistSq(pa, pb Pos, _, _ float64) float64 {
	d := r3.Sub(pa.vec3(), pb.vec3())
	return r3.Dot(d, d)
}

// CCW for ThreeD has no intrinsic orientation (three points don't bound a
// handedness in 3-space the way they do in a plane), so chirality is read
// off the signed area of the triangle's own plane: the sign of the normal
// (p2-p1)x(p3-p1) projected onto itself is always positive, so instead we
// use the consistent-but-arbitrary convention of comparing that normal
// against the plane's own "up" axis (largest-magnitude component),
// exactly the same antisymmetry-under-swap property Flat's 2D cross
// product has, which is all process111Sorted's routing needs.
func (threeDMetric) CCW(p1, p2, p3 Pos) bool {
	ab := r3.Sub(p2.vec3(), p1.vec3())
	ac := r3.Sub(p3.vec3(), p1.vec3())
	n := r3.Cross(ab, ac)
	switch {
	case math.Abs(n.X) >= math.Abs(n.Y) && math.Abs(n.X) >= math.Abs(n.Z):
		return n.X > 0
	case math.Abs(n.Y) >= math.Abs(n.Z):
		return n.Y > 0
	default:
		return n.Z > 0
	}
}

func (threeDMetric) Project(p1, p2, p3 Pos, g1, g2, g3 complex128) (complex128, complex128, complex128) {
	v1, v2, v3 := p1.vec3(), p2.vec3(), p3.vec3()
	e1 := r3.Unit(r3.Sub(v2, v1))
	normal := r3.Unit(r3.Cross(e1, r3.Sub(v3, v1)))
	e2 := r3.Cross(normal, e1)

	to2D := func(v r3.Vec) r2.Vec {
		return r2.Vec{X: r3.Dot(v, e1), Y: r3.Dot(v, e2)}
	}
	c := r3.Scale(1.0/3.0, r3.Add(r3.Add(v1, v2), v3))
	return projectPlanar(
		to2D(r3.Sub(c, v1)), to2D(r3.Sub(c, v2)), to2D(r3.Sub(c, v3)),
		g1, g2, g3)
}

// --- Sphere (great-circle / Arc) ---

type sphereMetric struct{}

func (sphereMetric) DistSq(pa, pb Pos, _, _ float64) float64 {
	angle := float64(geos2.ChordAngleBetweenPoints(pa.s2Point(), pb.s2Point()).Angle())
	return angle * angle
}

// CCW uses the sign of the scalar triple product p1.(p2 x p3), the
// standard spherical-orientation test: positive means the three unit
// vectors are wound counter-clockwise as seen from outside the sphere.
func (sphereMetric) CCW(p1, p2, p3 Pos) bool {
	v1, v2, v3 := p1.vec3(), p2.vec3(), p3.vec3()
	cross := r3.Cross(v2, v3)
	return r3.Dot(v1, cross) > 0
}

func (sphereMetric) Project(p1, p2, p3 Pos, g1, g2, g3 complex128) (complex128, complex128, complex128) {
	v1, v2, v3 := p1.vec3(), p2.vec3(), p3.vec3()
	c := r3.Unit(r3.Add(r3.Add(v1, v2), v3))

	// Local tangent-plane basis at each vertex, built from the pole
	// (north) direction projected orthogonal to the vertex's radius.
	pole := r3.Vec{Z: 1}
	basisAt := func(v r3.Vec) (e1, e2 r3.Vec) {
		north := r3.Sub(pole, r3.Scale(r3.Dot(pole, v), v))
		if r3.Dot(north, north) < 1e-24 {
			north = r3.Vec{X: 1}
			north = r3.Sub(north, r3.Scale(r3.Dot(north, v), v))
		}
		e2 = r3.Unit(north)
		e1 = r3.Cross(e2, v)
		return e1, e2
	}
	tangentDir := func(v r3.Vec) r2.Vec {
		e1, e2 := basisAt(v)
		// Direction from v toward the centroid, projected into v's own
		// tangent plane.
		d := r3.Sub(c, r3.Scale(r3.Dot(c, v), v))
		return r2.Vec{X: r3.Dot(d, e1), Y: r3.Dot(d, e2)}
	}
	return projectPlanar(tangentDir(v1), tangentDir(v2), tangentDir(v3), g1, g2, g3)
}

// --- Periodic variants ---

type periodicFlatMetric struct{ period Pos }

func (m periodicFlatMetric) DistSq(pa, pb Pos, _, _ float64) float64 {
	dx := wrapDelta(pa.X-pb.X, m.period.X)
	dy := wrapDelta(pa.Y-pb.Y, m.period.Y)
	return dx*dx + dy*dy
}

func (m periodicFlatMetric) CCW(p1, p2, p3 Pos) bool {
	return flatMetric{}.CCW(p1, p2, p3)
}

func (m periodicFlatMetric) Project(p1, p2, p3 Pos, g1, g2, g3 complex128) (complex128, complex128, complex128) {
	return flatMetric{}.Project(p1, p2, p3, g1, g2, g3)
}

type periodicThreeDMetric struct{ period Pos }

func (m periodicThreeDMetric) DistSq(pa, pb Pos, _, _ float64) float64 {
	dx := wrapDelta(pa.X-pb.X, m.period.X)
	dy := wrapDelta(pa.Y-pb.Y, m.period.Y)
	dz := wrapDelta(pa.Z-pb.Z, m.period.Z)
	return dx*dx + dy*dy + dz*dz
}

func (m periodicThreeDMetric) CCW(p1, p2, p3 Pos) bool {
	return threeDMetric{}.CCW(p1, p2, p3)
}

func (m periodicThreeDMetric) Project(p1, p2, p3 Pos, g1, g2, g3 complex128) (complex128, complex128, complex128) {
	return threeDMetric{}.Project(p1, p2, p3, g1, g2, g3)
}

// wrapDelta returns the shortest signed distance between two coordinates
// that repeat every period units. period <= 0 disables wrapping for that
// axis (the raw difference is returned).
func wrapDelta(d, period float64) float64 {
	if period <= 0 {
		return d
	}
	d = math.Mod(d, period)
	if d > period/2 {
		d -= period
	} else if d < -period/2 {
		d += period
	}
	return d
}
