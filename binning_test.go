package corr3

import (
	"errors"
	"testing"
)

func newTestBinDesc(t *testing.T) *BinDesc {
	t.Helper()
	d, err := NewBinDesc(BinTypeLogRUV, 0.5, 3.0, 5, 1e-9, 0, 1, 5, 1e-9, 0, 1, 5, 1e-9, Pos{})
	if err != nil {
		t.Fatalf("NewBinDesc: %v", err)
	}
	return d
}

func TestNewBinDesc_RejectsBadRanges(t *testing.T) {
	cases := []struct {
		name                                        string
		minSep, maxSep                              float64
		nbins                                       int
		minU, maxU                                  float64
		nubins                                      int
		minV, maxV                                  float64
		nvbins                                      int
		b, bu, bv                                   float64
	}{
		{"minsep>=maxsep", 3, 3, 5, 0, 1, 5, 0, 1, 5, 0.1, 0.1, 0.1},
		{"nbins=0", 0.5, 3, 0, 0, 1, 5, 0, 1, 5, 0.1, 0.1, 0.1},
		{"maxu>1", 0.5, 3, 5, 0, 1.5, 5, 0, 1, 5, 0.1, 0.1, 0.1},
		{"b=0", 0.5, 3, 5, 0, 1, 5, 0, 1, 5, 0, 0.1, 0.1},
	}
	for _, c := range cases {
		_, err := NewBinDesc(BinTypeLogRUV, c.minSep, c.maxSep, c.nbins, c.b,
			c.minU, c.maxU, c.nubins, c.bu, c.minV, c.maxV, c.nvbins, c.bv, Pos{})
		if !errors.Is(err, ErrInvalidBinning) {
			t.Errorf("%s: expected ErrInvalidBinning, got %v", c.name, err)
		}
	}
}

func TestNewBinDesc_RejectsUnknownBinType(t *testing.T) {
	_, err := NewBinDesc(BinType(99), 0.5, 3, 5, 0.1, 0, 1, 5, 0.1, 0, 1, 5, 0.1, Pos{})
	if !errors.Is(err, ErrInvalidBinning) {
		t.Errorf("expected ErrInvalidBinning, got %v", err)
	}
}

func TestBinDesc_NTot(t *testing.T) {
	d := newTestBinDesc(t)
	if got := d.NTot(); got != 5*5*2*5 {
		t.Errorf("NTot = %d, want %d", got, 5*5*2*5)
	}
}

func TestBinDesc_Index_DropsOutOfRange(t *testing.T) {
	d := newTestBinDesc(t)
	if _, ok := d.index(0.1, 0.5, 0.1, true); ok {
		t.Error("d2 below minsep should be dropped")
	}
	if _, ok := d.index(3.0, 0.5, 0.1, true); ok {
		t.Error("d2 at maxsep (open upper bound) should be dropped")
	}
	if _, ok := d.index(1.0, 1.0, 0.1, true); ok {
		t.Error("u at maxu (open upper bound) should be dropped")
	}
}

func TestBinDesc_Index_CCWSelectsUpperHalf(t *testing.T) {
	d := newTestBinDesc(t)
	idxCCW, ok := d.index(1.0, 0.5, 0.3, true)
	if !ok {
		t.Fatal("expected in-range index for CCW triangle")
	}
	idxCW, ok := d.index(1.0, 0.5, 0.3, false)
	if !ok {
		t.Fatal("expected in-range index for CW triangle")
	}
	if idxCCW == idxCW {
		t.Error("CCW and CW triangles with the same |v| must land in different kv halves")
	}
	if idxCCW <= idxCW {
		t.Error("CCW half is offset by +nvbins, so its index should be larger")
	}
}

// TestBinDesc_Index_EquilateralTriangleBoundaryDropped reproduces the
// equilateral-triangle scenario's own claimed shape numbers (d1=d2=d3=1,
// so u=d3/d2=1, v=(d1-d2)/d3=0) directly against bin.index: u sits exactly
// on the open upper bound of [0,1), so under the drop-not-clamp boundary
// convention (see DESIGN.md's Open Questions) this triangle is dropped,
// not binned at ku=nubins-1 as the scenario's narrative claims.
func TestBinDesc_Index_EquilateralTriangleBoundaryDropped(t *testing.T) {
	d := newTestBinDesc(t)
	if _, ok := d.index(1, 1, 0, true); ok {
		t.Error("bin.index(d2=1, u=1, v=0, true) should report out-of-range: u sits exactly at maxu")
	}
}

func TestBinDesc_Index_InRangeIsWithinNTot(t *testing.T) {
	d := newTestBinDesc(t)
	idx, ok := d.index(1.2, 0.5, 0.3, true)
	if !ok {
		t.Fatal("expected in-range")
	}
	if idx < 0 || idx >= d.NTot() {
		t.Errorf("index %d out of [0, %d)", idx, d.NTot())
	}
}
