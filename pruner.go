package corr3

import "math"

// stop111 reports whether no descendant triangle of (c1, c2, c3) — with
// squared sides d1sq >= d2sq >= d3sq and enclosing-ball sizes s1, s2, s3 —
// can land in any output bin. A false positive here (returning true when
// a reachable triangle exists) silently drops real signal, so every
// policy below is a one-sided bound: it only returns true when the
// geometry makes the corresponding axis provably unreachable.
func stop111(d1sq, d2sq, d3sq float64, s1, s2, s3 float64, b *BinDesc) bool {
	minsep, minsepsq := b.MinSep, b.minSepSq
	maxsep, maxsepsq := b.MaxSep, b.maxSepSq
	minu, minusq := b.MinU, b.minUSq
	maxu := b.MaxU
	minv, minvsq := b.MinV, b.minVSq
	maxv := b.MaxV

	// d2 cannot reach minsep: need at least two sides within s1+s3 (resp.
	// s1+s2) of minsep, and d2, d3 themselves already short of it.
	if d2sq < minsepsq && s1+s3 < minsep && s1+s2 < minsep &&
		(s1+s3 == 0 || d2sq < sqr(minsep-s1-s3)) &&
		(s1+s2 == 0 || d3sq < sqr(minsep-s1-s2)) {
		return true
	}

	// d2 cannot be as small as maxsep: need at least two sides already
	// beyond maxsep even after growing by their children's sizes.
	if d2sq >= maxsepsq &&
		(s1+s3 == 0 || d2sq >= sqr(maxsep+s1+s3)) &&
		(s2+s3 == 0 || d1sq >= sqr(maxsep+s2+s3)) {
		return true
	}

	d2 := math.Sqrt(d2sq)

	// u = d3/d2 cannot reach minu: max possible u is (d3+s1+s2)/(d2-s1-s3).
	if minu > 0 && d3sq < minusq*d2sq && d2 > s1+s3 {
		temp := minu * (d2 - s1 - s3)
		if temp > s1+s2 && d3sq < sqr(temp-s1-s2) {
			minusqD1sq := minusq * d1sq
			if d3sq < minusqD1sq && d1sq > 2*sqr(s2+s3) &&
				minusqD1sq > 2*d3sq+2*sqr(s1+s2+minu*(s2+s3)) {
				return true
			}
		}
	}

	// u cannot be as small as maxu: min possible u is (d3-s1-s2)/(d2+s1+s3).
	if maxu < 1 && d3sq >= sqr(maxu)*d2sq && d3sq >= sqr(maxu*(d2+s1+s3)+s1+s2) {
		if d2sq > sqr(s1+s3) && d1sq > sqr(s2+s3) &&
			(s2 > s3 || d3sq <= sqr(d2-s3+s2)) &&
			(s1 > s3 || d1sq >= 2*d3sq+2*sqr(s3-s1)) {
			return true
		}
	}

	// |v| cannot be as small as maxv, where v = (d1-d2)/d3.
	sums := s1 + s2 + s3
	if maxv < 1 && d1sq > sqr((1+maxv)*d2+sums+maxv*(s1+s2)) {
		return true
	}

	// |v| cannot be as large as minv.
	if minv > 0 && d3sq > sqr(s1+s2) &&
		minvsq*d3sq > sqr((d1sq-d2sq)/(2*d2)+sums+minv*(s1+s2)) {
		return true
	}

	// Degenerate: a side is exactly zero and both its neighbouring cells
	// are themselves points (size zero).
	if s2 == 0 && s3 == 0 && d1sq == 0 {
		return true
	}
	if s1 == 0 && s3 == 0 && d2sq == 0 {
		return true
	}
	if s1 == 0 && s2 == 0 && d3sq == 0 {
		return true
	}

	return false
}

func sqr(x float64) float64 { return x * x }

// stop12 reports whether no descendant triangle with one vertex in c1 and
// both other vertices somewhere inside c2 can land in any bin. dsq is the
// squared distance between c1 and c2's centres, s1 and s2 their sizes.
func stop12(dsq, s1, s2 float64, b *BinDesc) bool {
	s1ps2 := s1 + s2

	if dsq < b.minSepSq && s1ps2 < b.MinSep && dsq < sqr(b.MinSep-s1ps2) {
		return true
	}
	if dsq >= b.maxSepSq && dsq >= sqr(b.MaxSep+s1ps2) {
		return true
	}
	if dsq > sqr(s1ps2) && b.minUSq*dsq > sqr(2*s2+b.MinU*s1ps2) {
		return true
	}
	return false
}
