package corr3

import "math"

// splitFactor2 is the empirical threshold (found by profiling GGG runs)
// used to decide whether splitting c3 should drag c1 and/or c2 along with
// it. See decideSplit's split3 branch.
const splitFactor2 = 0.7

// splitDecision is the outcome of the splitter for one (c1, c2, c3)
// triple: which cells to subdivide, and — only when nothing needs
// splitting — the triangle's final d1, d3, u, v ready for binning.
type splitDecision struct {
	Split1, Split2, Split3 bool
	D1, D3, U, V           float64
}

// decideSplit implements the §4.4 splitter: given sorted squared sides
// (d1sq >= d2sq >= d3sq), their common square root d2, and the three
// cells' sizes, it decides which of c1, c2, c3 must be subdivided before
// the triangle can be binned, driving s/d below the bin tolerances on
// each axis independently. When nothing needs splitting, D1, D3, U, V are
// populated and the caller may bin directly.
func decideSplit(d1sq, d2sq, d3sq, d2 float64, s1, s2, s3 float64, b *BinDesc) splitDecision {
	var dec splitDecision

	var s1ps3 float64
	d2split := false
	if s3 > 0 {
		s1ps3 = s1 + s3
		if s1ps3 > 0 && s1ps3 > d2*b.B {
			d2split = s3 >= s1
		}
	}

	dec.Split3 = s3 > 0 && (
		s3 > d2*b.B ||
			(s1ps3 > 0 && s1ps3 > d2*b.B) ||
			(b.BU < b.B && sqr(s3)*d3sq > sqr(b.BU*d2sq)) ||
			(b.BV < b.B && s3 > d2*b.BV))

	switch {
	case dec.Split3:
		temp := splitFactor2 * sqr(s3) * d3sq
		dec.Split1 = sqr(s1)*d2sq > temp
		dec.Split2 = sqr(s2)*d2sq > temp

	case s1 > 0 || s2 > 0:
		dec.Split1 = s1 > 0 && (d2split ||
			(s3 == 0 && s3 > d2*b.B) ||
			sqr(s1) > d3sq)

		dec.Split2 = s2 > 0 && (sqr(s2) > d3sq ||
			(s2 > s3 && d3sq > sqr(d2-s2+s3)) ||
			(s2 > s1 && d1sq < sqr(d2+s2-s1)))

		s1ps2 := s1 + s2
		d3 := math.Sqrt(d3sq)
		u := d3 / d2
		d1 := math.Sqrt(d1sq)
		v := (d1 - d2) / d3

		needSplit := dec.Split1 || dec.Split2 ||
			sqr(s1ps2+s1ps3*u) > d2sq*b.BU*b.BU ||
			sqr(s1ps2*(1+v)) > d3sq*b.BV*b.BV

		if needSplit {
			dec.Split1 = dec.Split1 || s1 >= s2
			dec.Split2 = dec.Split2 || s2 >= s1
		} else {
			dec.D1, dec.D3, dec.U, dec.V = d1, d3, u, v
		}

	default:
		// s1 == s2 == 0 and c3 is not being split: the triangle is fully
		// resolved at the current resolution.
		dec.D1 = math.Sqrt(d1sq)
		dec.D3 = math.Sqrt(d3sq)
		dec.U = dec.D3 / d2
		dec.V = (dec.D1 - d2) / dec.D3
	}

	return dec
}

// needsSplit reports whether any of the three cells must be subdivided
// before the triangle represented by dec can be binned directly.
func (dec splitDecision) needsSplit() bool {
	return dec.Split1 || dec.Split2 || dec.Split3
}
