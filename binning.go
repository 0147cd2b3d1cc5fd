package corr3

import "math"

// BinType selects the triangle-bin parameterization. Only BinTypeLogRUV is
// currently defined; any other value fails construction with
// ErrInvalidBinning.
type BinType int

const (
	// BinTypeLogRUV bins on (d2, u, v) with logarithmic d2 and linear u, v.
	BinTypeLogRUV BinType = iota
)

// BinDesc is the immutable set of triangle-bin axes and the tolerances
// that drive the splitter. All fields are set once at construction time
// and never mutated afterward.
type BinDesc struct {
	Type BinType

	MinSep, MaxSep float64
	NBins          int
	BinSize        float64 // (log MaxSep - log MinSep) / NBins
	B              float64 // d2-axis tolerance

	MinU, MaxU float64
	NUBins     int
	UBinSize   float64
	BU         float64

	MinV, MaxV float64
	NVBins     int
	VBinSize   float64
	BV         float64

	// Period is the periodic box size along each axis; zero disables
	// wrapping for that axis. Only meaningful with a Periodic metric.
	Period Pos

	// derived constants, computed once in NewBinDesc
	logMinSep   float64
	logMaxSep   float64
	minSepSq    float64
	maxSepSq    float64
	halfMinSep  float64 // 0.5 * MinSep
	halfMinD3   float64 // 0.5 * MinSep * MinU
	minUSq      float64
	maxUSq      float64
	minVSq      float64
	maxVSq      float64
	bSq         float64
	sqrt2bv     float64 // sqrt(2) * BV
}

// NewBinDesc validates and builds a BinDesc, returning an error wrapping
// ErrInvalidBinning for any non-positive range or non-positive bin count.
func NewBinDesc(typ BinType, minSep, maxSep float64, nbins int, b float64,
	minU, maxU float64, nubins int, bu float64,
	minV, maxV float64, nvbins int, bv float64,
	period Pos) (*BinDesc, error) {

	if typ != BinTypeLogRUV {
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "bin type %d is not defined", typ)
	}
	switch {
	case minSep <= 0 || maxSep <= minSep:
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "minsep/maxsep out of range: %v, %v", minSep, maxSep)
	case nbins < 1:
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "nbins must be >= 1, got %d", nbins)
	case minU < 0 || maxU > 1 || maxU <= minU:
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "minu/maxu out of range: %v, %v", minU, maxU)
	case nubins < 1:
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "nubins must be >= 1, got %d", nubins)
	case minV < 0 || maxV > 1 || maxV <= minV:
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "minv/maxv out of range: %v, %v", minV, maxV)
	case nvbins < 1:
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "nvbins must be >= 1, got %d", nvbins)
	case b <= 0 || bu <= 0 || bv <= 0:
		return nil, newErr(KindInvalidBinning, "NewBinDesc", "b, bu, bv must be > 0: %v, %v, %v", b, bu, bv)
	}

	logMinSep := math.Log(minSep)
	logMaxSep := math.Log(maxSep)

	d := &BinDesc{
		Type: typ,

		MinSep: minSep, MaxSep: maxSep, NBins: nbins,
		BinSize: (logMaxSep - logMinSep) / float64(nbins),
		B:       b,

		MinU: minU, MaxU: maxU, NUBins: nubins,
		UBinSize: (maxU - minU) / float64(nubins),
		BU:       bu,

		MinV: minV, MaxV: maxV, NVBins: nvbins,
		VBinSize: (maxV - minV) / float64(nvbins),
		BV:       bv,

		Period: period,

		logMinSep: logMinSep,
		logMaxSep: logMaxSep,
		minSepSq:  minSep * minSep,
		maxSepSq:  maxSep * maxSep,

		halfMinSep: 0.5 * minSep,
		halfMinD3:  0.5 * minSep * minU,

		minUSq: minU * minU,
		maxUSq: maxU * maxU,
		minVSq: minV * minV,
		maxVSq: maxV * maxV,

		bSq:     b * b,
		sqrt2bv: math.Sqrt2 * bv,
	}
	return d, nil
}

// NTot returns the total number of bins, nbins * nubins * (2 * nvbins).
// The v axis is doubled to encode chirality sign.
func (d *BinDesc) NTot() int {
	return d.NBins * d.NUBins * 2 * d.NVBins
}

// index computes the flat bin index for (d2, u, v, ccw), or returns
// ok == false if the triangle falls outside every bin (including the
// open-upper-bound edge, which is dropped rather than clamped: see
// the drop-on-boundary decision recorded in DESIGN.md).
func (d *BinDesc) index(d2, u, v float64, ccw bool) (idx int, ok bool) {
	if d2 < d.MinSep || d2 >= d.MaxSep {
		return 0, false
	}
	if u < d.MinU || u >= d.MaxU {
		return 0, false
	}
	av := math.Abs(v)
	if av < d.MinV || av >= d.MaxV {
		return 0, false
	}

	kr := int(math.Floor((math.Log(d2) - d.logMinSep) / d.BinSize))
	if kr < 0 {
		kr = 0
	} else if kr >= d.NBins {
		kr = d.NBins - 1
	}

	ku := int(math.Floor((u - d.MinU) / d.UBinSize))
	if ku < 0 {
		ku = 0
	} else if ku >= d.NUBins {
		ku = d.NUBins - 1
	}

	kv := int(math.Floor((av - d.MinV) / d.VBinSize))
	if kv < 0 {
		kv = 0
	} else if kv >= d.NVBins {
		kv = d.NVBins - 1
	}

	if !ccw {
		kv = d.NVBins - kv - 1
	} else {
		kv += d.NVBins
	}

	idx = kr*(d.NUBins*2*d.NVBins) + ku*(2*d.NVBins) + kv
	return idx, true
}
