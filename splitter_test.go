package corr3

import "testing"

func TestDecideSplit_AllPointsNeverSplits(t *testing.T) {
	b := newTestBinDesc(t)
	dec := decideSplit(4, 1, 1, 1, 0, 0, 0, b)
	if dec.needsSplit() {
		t.Error("three zero-size cells should never need splitting")
	}
	if dec.D1 != 2 || dec.D3 != 1 {
		t.Errorf("D1=%v D3=%v, want 2, 1", dec.D1, dec.D3)
	}
}

func TestDecideSplit_LargeC3Splits(t *testing.T) {
	b := newTestBinDesc(t) // B = 1e-9, so any nonzero s3 relative to d2 splits
	dec := decideSplit(4, 1, 1, 1, 0, 0, 0.5, b)
	if !dec.Split3 {
		t.Error("s3 much larger than d2*B should split c3")
	}
}

func TestDecideSplit_LargeC1Splits(t *testing.T) {
	b := newTestBinDesc(t)
	// s1 small but still crosses sqr(s1) > d3sq given small d3.
	dec := decideSplit(9, 4, 0.01, 2, 0.5, 0, 0, b)
	if !dec.Split1 {
		t.Error("s1^2 > d3^2 should split c1")
	}
}

func TestDecideSplit_TieBreakerSplitsBothWhenEqual(t *testing.T) {
	b := newTestBinDesc(t)
	// s1 = s2 = 0.05: neither s^2 > d3^2 nor any other per-cell test fires,
	// but the u-axis cross-check does, so only the tie-breaker picks cells.
	dec := decideSplit(9, 4, 0.01, 2, 0.05, 0.05, 0, b)
	if !dec.Split1 || !dec.Split2 {
		t.Error("equal s1, s2 forcing a split should split both")
	}
}
