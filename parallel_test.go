package corr3

import (
	"context"
	"errors"
	"testing"
)

func TestRunParallel_SumsAcrossWorkers(t *testing.T) {
	base := NewAccumulator(KindCount, 4)
	n := 37

	err := runParallel(context.Background(), n, 6, []*Accumulator{base},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			shadows[0].NTri[i%4]++
			return nil
		})
	if err != nil {
		t.Fatalf("runParallel: %v", err)
	}

	total := 0.0
	for _, v := range base.NTri {
		total += v
	}
	if total != float64(n) {
		t.Errorf("total work done = %v, want %v", total, n)
	}
}

func TestRunParallel_SingleWorkerMatchesSequential(t *testing.T) {
	base := NewAccumulator(KindCount, 1)
	err := runParallel(context.Background(), 10, 1, []*Accumulator{base},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			shadows[0].NTri[0] += float64(i)
			return nil
		})
	if err != nil {
		t.Fatalf("runParallel: %v", err)
	}
	if base.NTri[0] != 45 { // sum 0..9
		t.Errorf("NTri[0] = %v, want 45", base.NTri[0])
	}
}

func TestRunParallel_MoreWorkersThanItems(t *testing.T) {
	base := NewAccumulator(KindCount, 1)
	err := runParallel(context.Background(), 3, 10, []*Accumulator{base},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			shadows[0].NTri[0]++
			return nil
		})
	if err != nil {
		t.Fatalf("runParallel: %v", err)
	}
	if base.NTri[0] != 3 {
		t.Errorf("NTri[0] = %v, want 3", base.NTri[0])
	}
}

func TestRunParallel_ErrorPropagatesAndStopsMerge(t *testing.T) {
	base := NewAccumulator(KindCount, 1)
	boom := errors.New("boom")

	err := runParallel(context.Background(), 20, 4, []*Accumulator{base},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			if i == 5 {
				return boom
			}
			shadows[0].NTri[0]++
			return nil
		})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if base.NTri[0] != 0 {
		t.Errorf("base should be untouched when a worker errors, got %v", base.NTri[0])
	}
}

func TestRunParallel_CancelledContextStopsEarly(t *testing.T) {
	base := NewAccumulator(KindCount, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runParallel(ctx, 5, 1, []*Accumulator{base},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			shadows[0].NTri[0]++
			return nil
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunParallel_MultipleBasesEachGetOwnShadow(t *testing.T) {
	a := NewAccumulator(KindCount, 1)
	b := NewAccumulator(KindCount, 1)

	err := runParallel(context.Background(), 10, 3, []*Accumulator{a, b},
		func(_ context.Context, shadows []*Accumulator, i int) error {
			shadows[0].NTri[0]++
			shadows[1].NTri[0] += 2
			return nil
		})
	if err != nil {
		t.Fatalf("runParallel: %v", err)
	}
	if a.NTri[0] != 10 {
		t.Errorf("a.NTri[0] = %v, want 10", a.NTri[0])
	}
	if b.NTri[0] != 20 {
		t.Errorf("b.NTri[0] = %v, want 20", b.NTri[0])
	}
}
