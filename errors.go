package corr3

import "fmt"

// ErrorKind classifies a [CorrError] so callers can branch on failure mode
// with errors.Is / errors.As instead of matching on message text.
type ErrorKind int

const (
	// KindCoordsMismatch indicates a field built in a different point
	// space than a previous call on the same accumulator.
	KindCoordsMismatch ErrorKind = iota
	// KindEmptyField indicates a field with zero top-level nodes.
	KindEmptyField
	// KindUnsupportedMetric indicates a metric/point-space combination
	// that is not defined.
	KindUnsupportedMetric
	// KindInvalidBinning indicates a non-positive range or zero bin count
	// in a Config.
	KindInvalidBinning
	// KindNullOutput indicates a required output array was not supplied.
	KindNullOutput
)

func (k ErrorKind) String() string {
	switch k {
	case KindCoordsMismatch:
		return "CoordsMismatch"
	case KindEmptyField:
		return "EmptyField"
	case KindUnsupportedMetric:
		return "UnsupportedMetric"
	case KindInvalidBinning:
		return "InvalidBinning"
	case KindNullOutput:
		return "NullOutput"
	default:
		return "Unknown"
	}
}

// CorrError is a fatal, typed error raised by construction or a Process*
// call. None of these conditions are retried internally; the caller
// decides whether to retry with corrected inputs.
type CorrError struct {
	Kind ErrorKind
	Op   string // the operation that failed, e.g. "NewCorr3", "ProcessAuto"
	Msg  string
}

func (e *CorrError) Error() string {
	return fmt.Sprintf("corr3: %s: %s", e.Op, e.Msg)
}

// Is reports whether target is a *CorrError with the same Kind, so
// errors.Is(err, &CorrError{Kind: KindEmptyField}) works regardless of Op
// or Msg.
func (e *CorrError) Is(target error) bool {
	t, ok := target.(*CorrError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind ErrorKind, op, format string, args ...any) *CorrError {
	return &CorrError{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ErrCoordsMismatch, ErrEmptyField, ErrUnsupportedMetric, ErrInvalidBinning
// and ErrNullOutput are sentinels usable with errors.Is to test a returned
// error's Kind without constructing a full CorrError.
var (
	ErrCoordsMismatch    = &CorrError{Kind: KindCoordsMismatch}
	ErrEmptyField        = &CorrError{Kind: KindEmptyField}
	ErrUnsupportedMetric = &CorrError{Kind: KindUnsupportedMetric}
	ErrInvalidBinning    = &CorrError{Kind: KindInvalidBinning}
	ErrNullOutput        = &CorrError{Kind: KindNullOutput}
)
