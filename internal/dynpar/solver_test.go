package dynpar

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dynpar/internal/astro"
)

func textbookInputs() Inputs {
	return Inputs{
		SemiMajorArcsec:   4.5,
		SemiMinorArcsec:   3.4,
		ApparentMag1:      3.9,
		ApparentMag2:      5.3,
		PartialOrbitYears: 11,
		Constants:         astro.Default(),
	}
}

func within(got, want, rel float64) bool {
	return math.Abs(got/want-1) <= rel
}

func TestSolveTextbook(t *testing.T) {
	res, err := Solve(context.Background(), textbookInputs(), DefaultConfig())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	if !res.Converged {
		t.Fatal("expected converged result")
	}
	if res.Iterations != 3 {
		t.Errorf("expected 3 refinement steps, got %d", res.Iterations)
	}
	if res.History.Len() != 4 {
		t.Errorf("expected 4 recorded states, got %d", res.History.Len())
	}

	r := res.FinalReadings()
	checks := []struct {
		name      string
		got, want float64
	}{
		{"T", res.PeriodYears(), 95.58},
		{"d", r.DistancePc, 5.33},
		{"a", r.SemiMajorAxisAU, 23.99},
		{"M1", r.AbsMag1, 5.266},
		{"M2", r.AbsMag2, 6.666},
		{"m1", r.Mass1, 0.8916},
		{"m2", r.Mass2, 0.6168},
	}
	for _, c := range checks {
		if !within(c.got, c.want, 0.001) {
			t.Errorf("%s: expected ~%g, got %g", c.name, c.want, c.got)
		}
	}
	if res.DistanceParsecs() != r.DistancePc {
		t.Errorf("DistanceParsecs disagrees with readings: %f vs %f", res.DistanceParsecs(), r.DistancePc)
	}
}

func TestSeedUsesOneSolarMass(t *testing.T) {
	s, err := NewSolver(textbookInputs())
	if err != nil {
		t.Fatal(err)
	}

	seed, err := s.Seed()
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	r := seed.Readings(astro.Default())

	if seed.Index != 0 {
		t.Errorf("expected seed index 0, got %d", seed.Index)
	}
	if !within(r.SemiMajorAxisAU, 26.34, 0.001) {
		t.Errorf("expected a ~26.34 AU for two solar masses, got %f", r.SemiMajorAxisAU)
	}
	if !within(r.DistancePc, 5.853, 0.001) {
		t.Errorf("expected d ~5.853 pc, got %f", r.DistancePc)
	}
	if !within(r.Mass1, 0.9405, 0.001) || !within(r.Mass2, 0.6507, 0.001) {
		t.Errorf("expected masses ~0.9405/0.6507, got %f/%f", r.Mass1, r.Mass2)
	}
}

func TestStepIsPure(t *testing.T) {
	s, err := NewSolver(textbookInputs())
	if err != nil {
		t.Fatal(err)
	}
	seed, err := s.Seed()
	if err != nil {
		t.Fatal(err)
	}

	a, err := s.Step(seed)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Step(seed)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("expected identical states from the same input, got %+v and %+v", a, b)
	}
	if a.Index != seed.Index+1 {
		t.Errorf("expected index %d, got %d", seed.Index+1, a.Index)
	}
}

func TestFixedPointIsStable(t *testing.T) {
	s, err := NewSolver(textbookInputs())
	if err != nil {
		t.Fatal(err)
	}
	res, err := s.Solve(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	again, err := s.Step(res.Final)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Field{FieldSemiMajorAxis, FieldDistance, FieldAbsMag1, FieldAbsMag2, FieldMass1, FieldMass2} {
		if change := relativeChange(res.Final.Value(f), again.Value(f)); change >= DefaultTolerance {
			t.Errorf("%s moved by %g after convergence", f, change)
		}
	}
}

func TestSolveIterationCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 2

	res, err := Solve(context.Background(), textbookInputs(), cfg)
	if !errors.Is(err, ErrConvergence) {
		t.Fatalf("expected ErrConvergence, got %v", err)
	}

	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConvergenceError, got %T", err)
	}
	if ce.Iterations != 2 {
		t.Errorf("expected 2 iterations, got %d", ce.Iterations)
	}
	if ce.Quantity != FieldDistance {
		t.Errorf("expected distance to be the slowest quantity, got %s", ce.Quantity)
	}
	if ce.Change < cfg.Tolerance {
		t.Errorf("reported change %g should exceed tolerance", ce.Change)
	}

	if res == nil || res.History.Len() != 3 {
		t.Fatalf("expected partial result with 3 states")
	}
	if res.Converged {
		t.Error("partial result must not be marked converged")
	}
}

func TestSolveDiverging(t *testing.T) {
	// With L ~ m^0.5 every pass shrinks the masses further until they
	// underflow to zero.
	in := textbookInputs()
	in.Constants.MassLumExponent = 0.5

	res, err := Solve(context.Background(), in, DefaultConfig())
	if !errors.Is(err, ErrConvergence) {
		t.Fatalf("expected ErrConvergence, got %v", err)
	}

	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConvergenceError, got %T", err)
	}
	if ce.Iterations >= DefaultMaxIterations {
		t.Errorf("expected divergence before the cap, got %d iterations", ce.Iterations)
	}

	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected the failing stage as cause, got %v", ce.Cause)
	}
	if de.Iteration != ce.Iterations+1 {
		t.Errorf("cause at iteration %d, want %d", de.Iteration, ce.Iterations+1)
	}

	if res == nil || res.History.Len() != ce.Iterations+1 {
		t.Fatal("expected the history up to the last valid state")
	}
	if res.Converged {
		t.Error("diverged run must not be marked converged")
	}
	if last, _ := res.History.Last(); last != ce.Last {
		t.Error("expected Last to be the final recorded state")
	}
}

func TestSolveStableSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StableSteps = 2

	res, err := Solve(context.Background(), textbookInputs(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Iterations != 4 {
		t.Errorf("expected 4 refinement steps with two stable steps required, got %d", res.Iterations)
	}
}

func TestSolveInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero tolerance", Config{Tolerance: 0, MaxIterations: 10, StableSteps: 1}},
		{"nan tolerance", Config{Tolerance: math.NaN(), MaxIterations: 10, StableSteps: 1}},
		{"zero cap", Config{Tolerance: 0.01, MaxIterations: 0, StableSteps: 1}},
		{"zero stable steps", Config{Tolerance: 0.01, MaxIterations: 10, StableSteps: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Solve(context.Background(), textbookInputs(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewSolverRejectsBadInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Inputs)
	}{
		{"equal axes", func(in *Inputs) { in.SemiMinorArcsec = in.SemiMajorArcsec }},
		{"minor larger", func(in *Inputs) { in.SemiMinorArcsec = 5 }},
		{"no reference time", func(in *Inputs) { in.PartialOrbitYears = 0 }},
		{"nan magnitude", func(in *Inputs) { in.ApparentMag2 = math.NaN() }},
		{"zero constants", func(in *Inputs) { in.Constants = astro.Constants{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := textbookInputs()
			tt.mutate(&in)
			if _, err := NewSolver(in); !errors.Is(err, ErrDomain) {
				t.Errorf("expected ErrDomain, got %v", err)
			}
		})
	}
}

func TestSolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Solve(ctx, textbookInputs(), DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.History.Len() != 1 {
		t.Errorf("expected only the seed state, got %d", res.History.Len())
	}
}

func TestObserversSeeEveryState(t *testing.T) {
	var seen []int
	convergedAt := -1
	obs := ObserverFunc(func(s IterationState, converged bool) {
		seen = append(seen, s.Index)
		if converged {
			convergedAt = s.Index
		}
	})

	res, err := Solve(context.Background(), textbookInputs(), DefaultConfig(), obs)
	if err != nil {
		t.Fatal(err)
	}

	if len(seen) != res.History.Len() {
		t.Errorf("expected %d notifications, got %d", res.History.Len(), len(seen))
	}
	for i, idx := range seen {
		if idx != i {
			t.Errorf("notification %d carried index %d", i, idx)
		}
	}
	if convergedAt != res.Final.Index {
		t.Errorf("expected convergence reported at %d, got %d", res.Final.Index, convergedAt)
	}
}

func TestDomainErrorMessages(t *testing.T) {
	setup := domainErr("beta", 2, "too big")
	if setup.Error() != "dynpar: beta=2: too big" {
		t.Errorf("unexpected message %q", setup.Error())
	}

	stamped := atIteration(setup, 4)
	if stamped.Error() != "dynpar: iteration 4: beta=2: too big" {
		t.Errorf("unexpected message %q", stamped.Error())
	}
	if setup.Iteration != -1 {
		t.Error("atIteration must not modify the original error")
	}
	if atIteration(nil, 3) != nil {
		t.Error("atIteration(nil) should stay nil")
	}
}
