package corr3

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestAccumulator_SetCoords_MismatchFails(t *testing.T) {
	a := NewAccumulator(KindCount, 10)
	if err := a.setCoords(Flat); err != nil {
		t.Fatalf("first setCoords: %v", err)
	}
	if err := a.setCoords(Flat); err != nil {
		t.Fatalf("repeat setCoords with same space: %v", err)
	}
	if err := a.setCoords(Sphere); !errors.Is(err, ErrCoordsMismatch) {
		t.Errorf("expected ErrCoordsMismatch, got %v", err)
	}
}

func TestAccumulator_AddTriangle_CommonMoments(t *testing.T) {
	a := NewAccumulator(KindCount, 1)
	c1 := &Cell{N: 2, W: 1.0}
	c2 := &Cell{N: 3, W: 2.0}
	c3 := &Cell{N: 1, W: 0.5}
	a.addTriangle(c1, c2, c3, 2, 1, 1, math.Log(1), 0.5, 0.0, 0, 0, 0, 0)

	wantNNN := 2.0 * 3.0 * 1.0
	wantWWW := 1.0 * 2.0 * 0.5
	if a.NTri[0] != wantNNN {
		t.Errorf("NTri = %v, want %v", a.NTri[0], wantNNN)
	}
	if a.Weight[0] != wantWWW {
		t.Errorf("Weight = %v, want %v", a.Weight[0], wantWWW)
	}
	if a.MeanD1[0] != wantWWW*2 {
		t.Errorf("MeanD1 = %v, want %v", a.MeanD1[0], wantWWW*2)
	}
}

func TestAccumulator_AddTriangle_ScalarZeta(t *testing.T) {
	a := NewAccumulator(KindScalar, 1)
	c1 := &Cell{N: 1, W: 1, WK: 2}
	c2 := &Cell{N: 1, W: 1, WK: 3}
	c3 := &Cell{N: 1, W: 1, WK: 4}
	a.addTriangle(c1, c2, c3, 1, 1, 1, 0, 1, 0, 0, 0, 0, 0)
	if a.Zeta[0] != 24 {
		t.Errorf("Zeta = %v, want 24", a.Zeta[0])
	}
}

func TestAddGammaMoments_MatchesDirectComplexProducts(t *testing.T) {
	a := NewAccumulator(KindShear, 1)
	g1 := complex(1.0, 0.0)
	g2 := complex(0.0, 1.0)
	g3 := complex(1.0, 0.0)
	addGammaMoments(a, 0, g1, g2, g3)

	wantGam0 := g1 * g2 * g3
	wantGam1 := cmplx.Conj(g1) * g2 * g3
	wantGam2 := g1 * cmplx.Conj(g2) * g3
	wantGam3 := g1 * g2 * cmplx.Conj(g3)

	got0 := complex(a.Gam0r[0], a.Gam0i[0])
	got1 := complex(a.Gam1r[0], a.Gam1i[0])
	got2 := complex(a.Gam2r[0], a.Gam2i[0])
	got3 := complex(a.Gam3r[0], a.Gam3i[0])

	checks := []struct {
		name      string
		got, want complex128
	}{
		{"Gam0", got0, wantGam0},
		{"Gam1", got1, wantGam1},
		{"Gam2", got2, wantGam2},
		{"Gam3", got3, wantGam3},
	}
	for _, c := range checks {
		if !almostEqual(real(c.got), real(c.want), floatTol) || !almostEqual(imag(c.got), imag(c.want), floatTol) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestAccumulator_GammaParsevalIdentity(t *testing.T) {
	a := NewAccumulator(KindShear, 1)
	g1 := complex(1.0, 0.0)
	g2 := complex(0.0, 1.0)
	g3 := complex(1.0, 0.0)
	addGammaMoments(a, 0, g1, g2, g3)

	got := a.gammaMagnitudeSq(0)
	// |Gam0|^2+|Gam1|^2+|Gam2|^2+|Gam3|^2 == 4*|g1*g2*g3|^2: each of the
	// four moments is g1*g2*g3 up to a conjugation of one factor, and
	// conjugation doesn't change magnitude.
	want := 4 * cmplx.Abs(g1*g2*g3) * cmplx.Abs(g1*g2*g3)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("gamma Parseval identity: got %v, want %v", got, want)
	}
}

func TestAccumulator_MergeInto_SumsElementwise(t *testing.T) {
	dst := NewAccumulator(KindCount, 3)
	dst.NTri[1] = 5

	src := NewAccumulator(KindCount, 3)
	src.NTri[1] = 7
	src.NTri[2] = 1

	src.mergeInto(dst)

	if dst.NTri[1] != 12 {
		t.Errorf("NTri[1] = %v, want 12", dst.NTri[1])
	}
	if dst.NTri[2] != 1 {
		t.Errorf("NTri[2] = %v, want 1", dst.NTri[2])
	}
}

func TestAccumulator_Bind_RejectsWrongLengthOrMissingZeta(t *testing.T) {
	a := NewAccumulator(KindCount, 3)
	ten := make([]float64, 3)

	if err := a.Bind(3, KindCount, ten, ten, ten, ten, ten, ten, ten, ten, ten, make([]float64, 2),
		nil, nil, nil, nil, nil, nil, nil, nil); !errors.Is(err, ErrNullOutput) {
		t.Errorf("expected ErrNullOutput for a wrong-length common array, got %v", err)
	}

	if err := a.Bind(3, KindScalar, ten, ten, ten, ten, ten, ten, ten, ten, ten, ten,
		nil, nil, nil, nil, nil, nil, nil, nil); !errors.Is(err, ErrNullOutput) {
		t.Errorf("expected ErrNullOutput for a missing required zeta0, got %v", err)
	}
}

func TestAccumulator_Bind_WiresGammaChannelsInOrder(t *testing.T) {
	a := NewAccumulator(KindShear, 2)
	mk := func() []float64 { return make([]float64, 2) }
	meand1, meanlogd1, meand2, meanlogd2 := mk(), mk(), mk(), mk()
	meand3, meanlogd3, meanu, meanv := mk(), mk(), mk(), mk()
	weight, ntri := mk(), mk()
	zeta := make([][]float64, 8)
	for i := range zeta {
		zeta[i] = mk()
	}

	err := a.Bind(2, KindShear,
		meand1, meanlogd1, meand2, meanlogd2, meand3, meanlogd3, meanu, meanv, weight, ntri,
		zeta[0], zeta[1], zeta[2], zeta[3], zeta[4], zeta[5], zeta[6], zeta[7])
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	c1 := &Cell{N: 1, W: 1}
	g1, g2, g3 := complex(1, 0), complex(0, 1), complex(1, 0)
	a.addTriangle(c1, c1, c1, 1, 1, 1, 0, 1, 0, 1, g1, g2, g3)

	if zeta[0][1] == 0 && zeta[1][1] == 0 {
		t.Error("addTriangle should have written through the bound zeta0/zeta1 (Gam0) slices")
	}
}

func TestAccumulator_Shadow_InheritsShapeNotData(t *testing.T) {
	a := NewAccumulator(KindShear, 4)
	a.EnableWeightSq()
	_ = a.setCoords(Flat)
	a.NTri[0] = 99

	s := a.shadow()
	if s.Kind != a.Kind || s.NTot != a.NTot {
		t.Fatal("shadow should share Kind and NTot")
	}
	if s.WeightSq == nil {
		t.Error("shadow should inherit WeightSq enablement")
	}
	if s.NTri[0] != 0 {
		t.Error("shadow must start zeroed")
	}
	if s.Coords != Flat || !s.coordsOK {
		t.Error("shadow should inherit the parent's coords tag")
	}
}
