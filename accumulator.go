package corr3

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Accumulator holds the binned sums for one correlation object: ntri,
// weight, the mean-side-length sums, and the Kind-specific zeta channels
// (§3, §4.6, §4.7). It either owns its arrays (per-thread shadows,
// allocated by NewAccumulator) or borrows caller-supplied arrays bound
// with Bind.
type Accumulator struct {
	Kind Kind
	NTot int

	// Coords is the point space this accumulator has been used with. It
	// is a single-producer field: set by the first setCoords call (made by
	// every Process* entry point before its traversal starts) and
	// compared, never overwritten, on every call after.
	Coords   PointSpace
	coordsOK bool

	NTri                                                       []float64
	Weight                                                     []float64
	MeanD1, MeanLogD1, MeanD2, MeanLogD2, MeanD3, MeanLogD3   []float64
	MeanU, MeanV                                               []float64

	// Zeta is populated only for KindScalar.
	Zeta []float64

	// Gam0..Gam3 (real and imaginary parts) are populated only for
	// KindShear, via the 12-real-multiply shortcut described in §4.7.
	Gam0r, Gam0i, Gam1r, Gam1i []float64
	Gam2r, Gam2i, Gam3r, Gam3i []float64

	// WeightSq is an optional per-bin sum of www^2, a supplemental
	// channel (not in the original distillation) that gives an external
	// jackknife/bootstrap variance estimator the raw ingredient it needs
	// without this package computing covariances itself. Nil unless the
	// caller opts in via EnableWeightSq.
	WeightSq []float64
}

// NewAccumulator allocates a zeroed, array-owning Accumulator for ntot
// bins and the given Kind.
func NewAccumulator(kind Kind, ntot int) *Accumulator {
	a := &Accumulator{Kind: kind, NTot: ntot}
	a.NTri = make([]float64, ntot)
	a.Weight = make([]float64, ntot)
	a.MeanD1 = make([]float64, ntot)
	a.MeanLogD1 = make([]float64, ntot)
	a.MeanD2 = make([]float64, ntot)
	a.MeanLogD2 = make([]float64, ntot)
	a.MeanD3 = make([]float64, ntot)
	a.MeanLogD3 = make([]float64, ntot)
	a.MeanU = make([]float64, ntot)
	a.MeanV = make([]float64, ntot)

	switch kind {
	case KindScalar:
		a.Zeta = make([]float64, ntot)
	case KindShear:
		a.Gam0r = make([]float64, ntot)
		a.Gam0i = make([]float64, ntot)
		a.Gam1r = make([]float64, ntot)
		a.Gam1i = make([]float64, ntot)
		a.Gam2r = make([]float64, ntot)
		a.Gam2i = make([]float64, ntot)
		a.Gam3r = make([]float64, ntot)
		a.Gam3i = make([]float64, ntot)
	}
	return a
}

// EnableWeightSq allocates the optional WeightSq channel.
func (a *Accumulator) EnableWeightSq() {
	if a.WeightSq == nil {
		a.WeightSq = make([]float64, a.NTot)
	}
}

// shadow returns a fresh, zeroed Accumulator with the same Kind, NTot and
// WeightSq-enablement as a, suitable as one worker's thread-local copy.
// The shadow inherits a's Coords tag; addTriangle itself does not check
// coords.
func (a *Accumulator) shadow() *Accumulator {
	s := NewAccumulator(a.Kind, a.NTot)
	if a.WeightSq != nil {
		s.EnableWeightSq()
	}
	s.Coords = a.Coords
	s.coordsOK = a.coordsOK
	return s
}

// Bind rebinds a to caller-supplied output arrays instead of the ones
// NewAccumulator allocated, mirroring the original construction contract
// of eighteen double arrays (§6 of spec.md): the ten common arrays are
// always required, and zeta0..zeta7 cover the up-to-four-complex (eight
// real) Kind-specific channel — Zeta uses only zeta0, Gam0..Gam3 use all
// eight. A required array that is nil or the wrong length fails with
// ErrNullOutput; unused zeta slots may be nil. This is the bridge an
// external caller (e.g. an FFI boundary) uses to have Process* write
// straight into its own buffers instead of allocating fresh ones.
func (a *Accumulator) Bind(ntot int, kind Kind,
	meand1, meanlogd1, meand2, meanlogd2, meand3, meanlogd3, meanu, meanv,
	weight, ntri []float64,
	zeta0, zeta1, zeta2, zeta3, zeta4, zeta5, zeta6, zeta7 []float64) error {

	type named struct {
		name string
		s    []float64
	}
	need := func(n named) error {
		if len(n.s) != ntot {
			return newErr(KindNullOutput, "Accumulator.Bind",
				"%s must have length %d, got %d", n.name, ntot, len(n.s))
		}
		return nil
	}

	common := []named{
		{"meand1", meand1}, {"meanlogd1", meanlogd1},
		{"meand2", meand2}, {"meanlogd2", meanlogd2},
		{"meand3", meand3}, {"meanlogd3", meanlogd3},
		{"meanu", meanu}, {"meanv", meanv},
		{"weight", weight}, {"ntri", ntri},
	}
	for _, n := range common {
		if err := need(n); err != nil {
			return err
		}
	}

	switch kind {
	case KindScalar:
		if err := need(named{"zeta0", zeta0}); err != nil {
			return err
		}
	case KindShear:
		for _, n := range []named{
			{"zeta0", zeta0}, {"zeta1", zeta1}, {"zeta2", zeta2}, {"zeta3", zeta3},
			{"zeta4", zeta4}, {"zeta5", zeta5}, {"zeta6", zeta6}, {"zeta7", zeta7},
		} {
			if err := need(n); err != nil {
				return err
			}
		}
	}

	a.Kind, a.NTot = kind, ntot
	a.MeanD1, a.MeanLogD1 = meand1, meanlogd1
	a.MeanD2, a.MeanLogD2 = meand2, meanlogd2
	a.MeanD3, a.MeanLogD3 = meand3, meanlogd3
	a.MeanU, a.MeanV = meanu, meanv
	a.Weight, a.NTri = weight, ntri

	switch kind {
	case KindScalar:
		a.Zeta = zeta0
	case KindShear:
		a.Gam0r, a.Gam0i = zeta0, zeta1
		a.Gam1r, a.Gam1i = zeta2, zeta3
		a.Gam2r, a.Gam2i = zeta4, zeta5
		a.Gam3r, a.Gam3i = zeta6, zeta7
	}
	return nil
}

// setCoords enforces the single-producer coords tag (§3): the first call
// fixes it, every later call must match.
func (a *Accumulator) setCoords(space PointSpace) error {
	if !a.coordsOK {
		a.Coords = space
		a.coordsOK = true
		return nil
	}
	if a.Coords != space {
		return newErr(KindCoordsMismatch, "Accumulator",
			"accumulator already used with point space %s, got %s", a.Coords, space)
	}
	return nil
}

// addTriangle implements §4.6/§4.7: it updates the common moments at
// index and, for KindScalar/KindShear fields, the zeta channel. g1, g2,
// g3 are only read when a.Kind == KindShear, and are expected to already
// be projected into the triangle-local frame (see Metric.Project).
func (a *Accumulator) addTriangle(c1, c2, c3 *Cell, d1, d2, d3, logr, u, v float64, index int, g1, g2, g3 complex128) {
	nnn := float64(c1.N) * float64(c2.N) * float64(c3.N)
	www := c1.W * c2.W * c3.W

	a.NTri[index] += nnn
	a.Weight[index] += www
	a.MeanD1[index] += www * d1
	a.MeanLogD1[index] += www * math.Log(d1)
	a.MeanD2[index] += www * d2
	a.MeanLogD2[index] += www * logr
	a.MeanD3[index] += www * d3
	a.MeanLogD3[index] += www * math.Log(d3)
	a.MeanU[index] += www * u
	a.MeanV[index] += www * v
	if a.WeightSq != nil {
		a.WeightSq[index] += www * www
	}

	switch a.Kind {
	case KindScalar:
		a.Zeta[index] += c1.WK * c2.WK * c3.WK
	case KindShear:
		addGammaMoments(a, index, g1, g2, g3)
	}
}

// addGammaMoments computes Γ0=g1 g2 g3, Γ1=conj(g1) g2 g3, Γ2=g1 conj(g2) g3,
// Γ3=g1 g2 conj(g3) using the shared-partial-product shortcut from §4.7:
// g1*g2 and g1*conj(g2) share their four real cross-terms, so the eight
// complex multiplies collapse to twelve real multiplies.
func addGammaMoments(a *Accumulator, index int, g1, g2, g3 complex128) {
	g1r, g1i := real(g1), imag(g1)
	g2r, g2i := real(g2), imag(g2)
	g3r, g3i := real(g3), imag(g3)

	g1rg2r := g1r * g2r
	g1rg2i := g1r * g2i
	g1ig2r := g1i * g2r
	g1ig2i := g1i * g2i

	g1g2r := g1rg2r - g1ig2i
	g1g2i := g1rg2i + g1ig2r
	g1cg2r := g1rg2r + g1ig2i
	g1cg2i := g1rg2i - g1ig2r

	g1g2rg3r := g1g2r * g3r
	g1g2rg3i := g1g2r * g3i
	g1g2ig3r := g1g2i * g3r
	g1g2ig3i := g1g2i * g3i
	g1cg2rg3r := g1cg2r * g3r
	g1cg2rg3i := g1cg2r * g3i
	g1cg2ig3r := g1cg2i * g3r
	g1cg2ig3i := g1cg2i * g3i

	a.Gam0r[index] += g1g2rg3r - g1g2ig3i
	a.Gam0i[index] += g1g2rg3i + g1g2ig3r
	a.Gam1r[index] += g1cg2rg3r - g1cg2ig3i
	a.Gam1i[index] += g1cg2rg3i + g1cg2ig3r
	a.Gam2r[index] += g1cg2rg3r + g1cg2ig3i
	a.Gam2i[index] += g1cg2rg3i - g1cg2ig3r
	a.Gam3r[index] += g1g2rg3r + g1g2ig3i
	a.Gam3i[index] += -g1g2rg3i + g1g2ig3r
}

// mergeInto folds a's sums into dst by element-wise addition, the
// critical-section merge step at the end of a parallel traversal (§5).
// It does not touch dst.Coords; callers fold coords checks in separately
// since a shadow's Coords was seeded from dst at creation time.
func (a *Accumulator) mergeInto(dst *Accumulator) {
	floats.Add(dst.NTri, a.NTri)
	floats.Add(dst.Weight, a.Weight)
	floats.Add(dst.MeanD1, a.MeanD1)
	floats.Add(dst.MeanLogD1, a.MeanLogD1)
	floats.Add(dst.MeanD2, a.MeanD2)
	floats.Add(dst.MeanLogD2, a.MeanLogD2)
	floats.Add(dst.MeanD3, a.MeanD3)
	floats.Add(dst.MeanLogD3, a.MeanLogD3)
	floats.Add(dst.MeanU, a.MeanU)
	floats.Add(dst.MeanV, a.MeanV)
	if a.WeightSq != nil && dst.WeightSq != nil {
		floats.Add(dst.WeightSq, a.WeightSq)
	}

	switch a.Kind {
	case KindScalar:
		floats.Add(dst.Zeta, a.Zeta)
	case KindShear:
		floats.Add(dst.Gam0r, a.Gam0r)
		floats.Add(dst.Gam0i, a.Gam0i)
		floats.Add(dst.Gam1r, a.Gam1r)
		floats.Add(dst.Gam1i, a.Gam1i)
		floats.Add(dst.Gam2r, a.Gam2r)
		floats.Add(dst.Gam2i, a.Gam2i)
		floats.Add(dst.Gam3r, a.Gam3r)
		floats.Add(dst.Gam3i, a.Gam3i)
	}
}

// gammaMagnitudeSq is a test/diagnostic helper returning |Γ0|²+|Γ1|²+|Γ2|²+|Γ3|²
// at index, used to check the Parseval-style identity in §8 scenario 4.
func (a *Accumulator) gammaMagnitudeSq(index int) float64 {
	g0 := complex(a.Gam0r[index], a.Gam0i[index])
	g1 := complex(a.Gam1r[index], a.Gam1i[index])
	g2 := complex(a.Gam2r[index], a.Gam2i[index])
	g3 := complex(a.Gam3r[index], a.Gam3i[index])
	return cmplx.Abs(g0)*cmplx.Abs(g0) + cmplx.Abs(g1)*cmplx.Abs(g1) +
		cmplx.Abs(g2)*cmplx.Abs(g2) + cmplx.Abs(g3)*cmplx.Abs(g3)
}
