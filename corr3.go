package corr3

import (
	"context"
	"runtime"
)

// Config controls the bin parameterization and payload kind shared by
// every Process* call on a *Corr3. There is no sensible default for the
// separation ranges, so unlike the teacher's DefaultConfig, zero-valued
// fields are treated as caller error, not "use the default", except
// where noted.
type Config struct {
	BinType BinType

	MinSep, MaxSep float64
	NBins          int
	B              float64

	MinU, MaxU float64
	NUBins     int
	BU         float64

	MinV, MaxV float64
	NVBins     int
	BV         float64

	// Period is the periodic box size along each axis; zero disables
	// wrapping for that axis. Only meaningful when a Process* call's
	// ProcessOptions.MetricKind is Periodic.
	Period Pos

	// Kind is the payload this correlator expects from every field it
	// processes: plain counts, a scalar, or a shear. Determines which
	// zeta-channel arrays the accumulator allocates.
	Kind Kind

	// Space is the point space (Flat, ThreeD, Sphere) every field passed
	// to this correlator must share; enforced via the accumulator's
	// single-producer coords tag.
	Space PointSpace
}

// DefaultConfig returns a Config with TreeCorr's own conventional bin
// tolerances (b = bu = bv = 0.1) and a 20x20x20 scalar-count grid. Every
// field the caller actually cares about — the separation range — still
// has to be set explicitly.
func DefaultConfig() Config {
	return Config{
		BinType: BinTypeLogRUV,
		NBins:   20, B: 0.1,
		MinU: 0, MaxU: 1, NUBins: 20, BU: 0.1,
		MinV: 0, MaxV: 1, NVBins: 20, BV: 0.1,
		Kind:  KindCount,
		Space: Flat,
	}
}

// validateConfig checks fields validateConfig can't already have
// delegated to NewBinDesc (BinDesc's own constructor validates every
// numeric range): the Kind must be one this package knows how to
// allocate an accumulator for.
func validateConfig(cfg *Config) error {
	switch cfg.Kind {
	case KindCount, KindScalar, KindShear:
		return nil
	default:
		return newErr(KindInvalidBinning, "NewCorr3", "unknown payload kind %d", cfg.Kind)
	}
}

// Corr3 accumulates one triangle correlation's worth of binned sums. A
// single instance is bound to one output Kind and one point Space for
// its entire lifetime; every field passed to ProcessAuto/ProcessCross12/
// ProcessCross must agree.
type Corr3 struct {
	bin   *BinDesc
	acc   *Accumulator
	space PointSpace
}

// NewCorr3 validates cfg, builds the bin descriptor, and allocates a
// zeroed accumulator sized to its NTot.
func NewCorr3(cfg Config) (*Corr3, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	bin, err := NewBinDesc(cfg.BinType, cfg.MinSep, cfg.MaxSep, cfg.NBins, cfg.B,
		cfg.MinU, cfg.MaxU, cfg.NUBins, cfg.BU,
		cfg.MinV, cfg.MaxV, cfg.NVBins, cfg.BV,
		cfg.Period)
	if err != nil {
		return nil, err
	}
	return &Corr3{bin: bin, acc: NewAccumulator(cfg.Kind, bin.NTot()), space: cfg.Space}, nil
}

// checkSpace rejects a field whose point space disagrees with the space
// c was configured for, before any traversal work starts. setCoords
// still backstops this across repeated calls once a space has actually
// been observed.
func (c *Corr3) checkSpace(field *Field) error {
	if field.Space != c.space {
		return newErr(KindCoordsMismatch, "Corr3",
			"field has point space %s, correlator was configured for %s", field.Space, c.space)
	}
	return nil
}

// Result returns the accumulated bins. It is the same Accumulator every
// Process* call on c writes into; callers should treat it as read-only
// once a Process* call returns.
func (c *Corr3) Result() *Accumulator { return c.acc }

// NTot returns the total bin count, nbins * nubins * 2 * nvbins.
func (c *Corr3) NTot() int { return c.bin.NTot() }

// ProcessOptions controls one Process* call: which metric variant to
// apply to the field's point space, how many goroutines to use, and
// where to send trace output.
type ProcessOptions struct {
	// MetricKind selects the distance/orientation rule (Euclidean, Arc,
	// Periodic) applied to every field's point space in this call.
	MetricKind MetricKind

	// Workers bounds the number of goroutines used for the dynamic-
	// chunked outer loop over the first field's top-level nodes. 0 means
	// runtime.GOMAXPROCS(0).
	Workers int

	// Sink receives low-volume trace output; nil means no tracing.
	Sink TraceSink
}

func (o ProcessOptions) resolve() (workers int, sink TraceSink) {
	workers = o.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sink = o.Sink
	if sink == nil {
		sink = NopTraceSink{}
	}
	return workers, sink
}

// ProcessAuto runs the auto-correlation traversal over a single field
// (§4.5's process(field)): every unordered triple of points drawn from
// field contributes to c's accumulator. field's top-level nodes are
// distributed dynamically across ProcessOptions.Workers goroutines.
func (c *Corr3) ProcessAuto(ctx context.Context, field *Field, opts ProcessOptions) error {
	if err := c.checkSpace(field); err != nil {
		return err
	}
	if err := c.acc.setCoords(field.Space); err != nil {
		return err
	}
	metric, err := NewMetric(opts.MetricKind, field.Space, c.bin.Period)
	if err != nil {
		return err
	}
	workers, sink := opts.resolve()
	tctx := &traversalCtx{Metric: metric, Bin: c.bin, Sink: sink}

	roots := field.Roots
	n1 := len(roots)

	return runParallel(ctx, n1, workers, []*Accumulator{c.acc},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			self := shadows[0]
			c1 := roots[i]
			process3(c1, tctx, self)
			for j := i + 1; j < n1; j++ {
				c2 := roots[j]
				process12(self, self, c1, c2, tctx, self)
				process12(self, self, c2, c1, tctx, self)
				for k := j + 1; k < n1; k++ {
					c3 := roots[k]
					process111(self, self, self, self, self, self, c1, c2, c3, tctx, 0, 0, 0)
				}
			}
			return nil
		})
}

// ProcessCross12 runs the two-field traversal (§4.5's process(field1,
// field2)): every triple with one point in field1 and two in field2
// contributes to c (the "122" ordering), corr212 (one point from field2
// sorted ahead of the field1 point) and corr221 (the complementary
// ordering). c, corr212 and corr221 must already agree on bin
// parameters and Kind; they are typically three Corr3 instances sharing
// one Config.
func (c *Corr3) ProcessCross12(ctx context.Context, corr212, corr221 *Corr3,
	field1, field2 *Field, opts ProcessOptions) error {

	if err := c.checkSpace(field1); err != nil {
		return err
	}
	if field1.Space != field2.Space {
		return newErr(KindCoordsMismatch, "ProcessCross12",
			"field1 and field2 must share a point space, got %s and %s", field1.Space, field2.Space)
	}
	for _, perm := range []*Corr3{corr212, corr221} {
		if err := perm.checkSpace(field1); err != nil {
			return err
		}
	}
	if err := c.acc.setCoords(field1.Space); err != nil {
		return err
	}
	if err := corr212.acc.setCoords(field1.Space); err != nil {
		return err
	}
	if err := corr221.acc.setCoords(field1.Space); err != nil {
		return err
	}

	metric, err := NewMetric(opts.MetricKind, field1.Space, c.bin.Period)
	if err != nil {
		return err
	}
	workers, sink := opts.resolve()
	tctx := &traversalCtx{Metric: metric, Bin: c.bin, Sink: sink}

	roots1, roots2 := field1.Roots, field2.Roots
	n1, n2 := len(roots1), len(roots2)

	return runParallel(ctx, n1, workers, []*Accumulator{c.acc, corr212.acc, corr221.acc},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			bc122, bc212, bc221 := shadows[0], shadows[1], shadows[2]
			c1 := roots1[i]
			for j := 0; j < n2; j++ {
				c2 := roots2[j]
				process12(bc212, bc221, c1, c2, tctx, bc122)
				for k := j + 1; k < n2; k++ {
					c3 := roots2[k]
					process111(bc122, bc122, bc212, bc221, bc212, bc221,
						c1, c2, c3, tctx, 0, 0, 0)
				}
			}
			return nil
		})
}

// ProcessCross runs the fully general three-field traversal (§4.5's
// process(field1, field2, field3)): every triple drawn one point at a
// time from field1, field2, field3 contributes to c (the "123" ordering)
// and the five permutation accumulators corr132, corr213, corr231,
// corr312, corr321. All six Corr3 instances must already agree on bin
// parameters and Kind.
func (c *Corr3) ProcessCross(ctx context.Context,
	corr132, corr213, corr231, corr312, corr321 *Corr3,
	field1, field2, field3 *Field, opts ProcessOptions) error {

	if err := c.checkSpace(field1); err != nil {
		return err
	}
	if field1.Space != field2.Space || field1.Space != field3.Space {
		return newErr(KindCoordsMismatch, "ProcessCross",
			"field1, field2 and field3 must share a point space, got %s, %s, %s",
			field1.Space, field2.Space, field3.Space)
	}
	for _, perm := range []*Corr3{corr132, corr213, corr231, corr312, corr321} {
		if err := perm.checkSpace(field1); err != nil {
			return err
		}
	}
	if err := c.acc.setCoords(field1.Space); err != nil {
		return err
	}
	for _, perm := range []*Corr3{corr132, corr213, corr231, corr312, corr321} {
		if err := perm.acc.setCoords(field1.Space); err != nil {
			return err
		}
	}

	metric, err := NewMetric(opts.MetricKind, field1.Space, c.bin.Period)
	if err != nil {
		return err
	}
	workers, sink := opts.resolve()
	tctx := &traversalCtx{Metric: metric, Bin: c.bin, Sink: sink}

	roots1, roots2, roots3 := field1.Roots, field2.Roots, field3.Roots
	n1, n2, n3 := len(roots1), len(roots2), len(roots3)

	bases := []*Accumulator{c.acc, corr132.acc, corr213.acc, corr231.acc, corr312.acc, corr321.acc}

	return runParallel(ctx, n1, workers, bases,
		func(_ context.Context, shadows []*Accumulator, i int) error {
			bc123, bc132, bc213, bc231, bc312, bc321 :=
				shadows[0], shadows[1], shadows[2], shadows[3], shadows[4], shadows[5]
			c1 := roots1[i]
			for j := 0; j < n2; j++ {
				c2 := roots2[j]
				for k := 0; k < n3; k++ {
					c3 := roots3[k]
					process111(bc123, bc132, bc213, bc231, bc312, bc321, c1, c2, c3, tctx, 0, 0, 0)
				}
			}
			return nil
		})
}
