package corr3

import "math"

// traversalCtx bundles the read-only inputs every process* call needs:
// the metric adapter, the bin descriptor, and the trace sink. It is
// never mutated once a traversal starts.
type traversalCtx struct {
	Metric Metric
	Bin    *BinDesc
	Sink   TraceSink
}

// process3 enumerates all triangles with three points inside c1 (§4.5).
// self receives every permutation, since an auto-correlation triangle
// drawn from a single tree has no distinguishable field labels.
func process3(c1 *Cell, ctx *traversalCtx, self *Accumulator) {
	if ctx.Sink != nil {
		ctx.Sink.Tracef("process3: pos=%v size=%v n=%d", c1.Pos, c1.Size, c1.N)
	}
	if c1.W == 0 {
		return
	}
	if c1.Size < ctx.Bin.halfMinSep {
		return
	}
	process3(c1.Left, ctx, self)
	process3(c1.Right, ctx, self)
	process12(self, self, c1.Left, c1.Right, ctx, self)
	process12(self, self, c1.Right, c1.Left, ctx, self)
}

// process12 enumerates triangles with one vertex in c1 and the other two
// somewhere inside c2 (§4.5). bc212 and bc221 are the permutation
// accumulators that receive triangles whose "role 1" ends up landing on
// a point drawn from c2 once c2 is split down to single points; self is
// the accumulator for orderings where role 1 stays with c1.
func process12(bc212, bc221 *Accumulator, c1, c2 *Cell, ctx *traversalCtx, self *Accumulator) {
	if ctx.Sink != nil {
		ctx.Sink.Tracef("process12: c1.pos=%v c2.pos=%v c2.size=%v", c1.Pos, c2.Pos, c2.Size)
	}
	if c1.W == 0 || c2.W == 0 {
		return
	}
	s2 := c2.Size
	if s2 == 0 {
		return
	}
	if s2 < ctx.Bin.halfMinD3 {
		return
	}

	s1 := c1.Size
	dsq := ctx.Metric.DistSq(c1.Pos, c2.Pos, s1, s2)
	if stop12(dsq, s1, s2, ctx.Bin) {
		return
	}

	process12(bc212, bc221, c1, c2.Left, ctx, self)
	process12(bc212, bc221, c1, c2.Right, ctx, self)
	// 111 order is 123, 132, 213, 231, 312, 321. Here 3 -> 2: splitting c2
	// only ever reassigns which of its two children plays role 2 vs 3.
	process111(self, self, bc212, bc221, bc212, bc221,
		c1, c2.Left, c2.Right, ctx, 0, 0, 0)
}

// process111 canonicalises a (c1, c2, c3) triple into sorted side order
// (d1 >= d2 >= d3) and routes to process111Sorted with the accumulator
// permutation matching that ordering (§4.5). d1sq, d2sq, d3sq are the
// squared sides opposite vertices 1, 2, 3 respectively (d1sq = dist(c2,
// c3), etc); 0 is the "unknown, please compute" sentinel.
func process111(bc123, bc132, bc213, bc231, bc312, bc321 *Accumulator,
	c1, c2, c3 *Cell, ctx *traversalCtx, d1sq, d2sq, d3sq float64) {

	if ctx.Sink != nil {
		ctx.Sink.Tracef("process111: c1.pos=%v c2.pos=%v c3.pos=%v", c1.Pos, c2.Pos, c3.Pos)
	}
	if c1.W == 0 || c2.W == 0 || c3.W == 0 {
		return
	}

	if d1sq == 0 {
		d1sq = ctx.Metric.DistSq(c2.Pos, c3.Pos, 0, 0)
	}
	if d2sq == 0 {
		d2sq = ctx.Metric.DistSq(c1.Pos, c3.Pos, 0, 0)
	}
	if d3sq == 0 {
		d3sq = ctx.Metric.DistSq(c1.Pos, c2.Pos, 0, 0)
	}

	switch {
	case d1sq > d2sq:
		switch {
		case d2sq > d3sq:
			process111Sorted(bc123, bc132, bc213, bc231, bc312, bc321,
				c1, c2, c3, ctx, d1sq, d2sq, d3sq)
		case d1sq > d3sq:
			process111Sorted(bc132, bc123, bc312, bc321, bc213, bc231,
				c1, c3, c2, ctx, d1sq, d3sq, d2sq)
		default:
			process111Sorted(bc312, bc321, bc132, bc123, bc231, bc213,
				c3, c1, c2, ctx, d3sq, d1sq, d2sq)
		}
	default:
		switch {
		case d1sq > d3sq:
			process111Sorted(bc213, bc231, bc123, bc132, bc321, bc312,
				c2, c1, c3, ctx, d2sq, d1sq, d3sq)
		case d2sq > d3sq:
			process111Sorted(bc231, bc213, bc321, bc312, bc123, bc132,
				c2, c3, c1, ctx, d2sq, d3sq, d1sq)
		default:
			process111Sorted(bc321, bc312, bc231, bc213, bc132, bc123,
				c3, c2, c1, ctx, d3sq, d2sq, d1sq)
		}
	}
}

type cellPair = [2]*Cell

// process111Sorted runs the pruner and splitter on an already-sorted
// triple (d1sq >= d2sq >= d3sq) and either recurses on the split
// sub-combinations or emits the triangle into bc123 (§4.5, §4.6, §4.7).
// The five auxiliary accumulators are forwarded unchanged into every
// recursive process111 call; only process111 itself ever changes which
// accumulator plays which role.
func process111Sorted(bc123, bc132, bc213, bc231, bc312, bc321 *Accumulator,
	c1, c2, c3 *Cell, ctx *traversalCtx, d1sq, d2sq, d3sq float64) {

	s1, s2, s3 := c1.Size, c2.Size, c3.Size

	if stop111(d1sq, d2sq, d3sq, s1, s2, s3, ctx.Bin) {
		return
	}

	d2 := math.Sqrt(d2sq)
	dec := decideSplit(d1sq, d2sq, d3sq, d2, s1, s2, s3, ctx.Bin)

	recurse := func(c1, c2, c3 *Cell, d1sq, d2sq, d3sq float64) {
		process111(bc123, bc132, bc213, bc231, bc312, bc321, c1, c2, c3, ctx, d1sq, d2sq, d3sq)
	}

	if dec.needsSplit() {
		children := func(c *Cell) cellPair { return cellPair{c.Left, c.Right} }

		switch {
		case dec.Split3 && dec.Split2 && dec.Split1:
			for _, l1 := range children(c1) {
				for _, l2 := range children(c2) {
					for _, l3 := range children(c3) {
						recurse(l1, l2, l3, 0, 0, 0)
					}
				}
			}
		case dec.Split3 && dec.Split2:
			for _, l2 := range children(c2) {
				for _, l3 := range children(c3) {
					recurse(c1, l2, l3, 0, 0, 0)
				}
			}
		case dec.Split3 && dec.Split1:
			for _, l1 := range children(c1) {
				for _, l3 := range children(c3) {
					recurse(l1, c2, l3, 0, 0, 0)
				}
			}
		case dec.Split3:
			recurse(c1, c2, c3.Left, 0, 0, d3sq)
			recurse(c1, c2, c3.Right, 0, 0, d3sq)
		case dec.Split2 && dec.Split1:
			for _, l1 := range children(c1) {
				for _, l2 := range children(c2) {
					recurse(l1, l2, c3, 0, 0, 0)
				}
			}
		case dec.Split2:
			recurse(c1, c2.Left, c3, 0, d2sq, 0)
			recurse(c1, c2.Right, c3, 0, d2sq, 0)
		default: // dec.Split1
			recurse(c1.Left, c2, c3, d1sq, 0, 0)
			recurse(c1.Right, c2, c3, d1sq, 0, 0)
		}
		return
	}

	d1, d3, u, v := dec.D1, dec.D3, dec.U, dec.V

	ccw := ctx.Metric.CCW(c1.Pos, c2.Pos, c3.Pos)
	index, ok := ctx.Bin.index(d2, u, v, ccw)
	if !ok {
		return
	}
	if !ccw {
		v = -v
	}

	var g1, g2, g3 complex128
	if bc123.Kind == KindShear {
		g1, g2, g3 = ctx.Metric.Project(c1.Pos, c2.Pos, c3.Pos, c1.WG, c2.WG, c3.WG)
	}
	logr := math.Log(d2)
	bc123.addTriangle(c1, c2, c3, d1, d2, d3, logr, u, v, index, g1, g2, g3)
}
