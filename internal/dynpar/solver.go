// Package dynpar estimates the distance and component masses of a visual
// binary star by dynamical parallax.
//
// The period is derived once from the apparent orbit and a timed partial
// sweep. Kepler's third law, the distance modulus, Pogson's relation and the
// main-sequence mass-luminosity relation are then applied in a loop, feeding
// each pass's masses into the next, until the estimates stop moving.
package dynpar

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dynpar/internal/astro"
)

const (
	DefaultTolerance     = 0.01
	DefaultMaxIterations = 1000
	DefaultStableSteps   = 1
)

// Inputs are the observed quantities of one binary.
type Inputs struct {
	SemiMajorArcsec   float64
	SemiMinorArcsec   float64
	ApparentMag1      float64
	ApparentMag2      float64
	PartialOrbitYears float64
	Constants         astro.Constants
}

// Config controls the fixed-point loop. StableSteps is the number of
// consecutive passing steps needed to stop; 1 stops at the first one.
type Config struct {
	Tolerance     float64
	MaxIterations int
	StableSteps   int
}

func DefaultConfig() Config {
	return Config{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		StableSteps:   DefaultStableSteps,
	}
}

// Result carries the converged estimates along with the full history.
type Result struct {
	Geometry   OrbitGeometry
	Period     float64 // s
	Final      IterationState
	History    History
	Iterations int
	Converged  bool
	Constants  astro.Constants
}

func (r *Result) PeriodYears() float64     { return r.Constants.SecondsToYears(r.Period) }
func (r *Result) FinalReadings() Readings  { return r.Final.Readings(r.Constants) }
func (r *Result) DistanceParsecs() float64 { return r.Constants.MetresToParsecs(r.Final.Distance) }

// Observer is notified of every state recorded in the history.
type Observer interface {
	OnIteration(state IterationState, converged bool)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(state IterationState, converged bool)

func (f ObserverFunc) OnIteration(state IterationState, converged bool) { f(state, converged) }

type Solver struct {
	in        Inputs
	consts    astro.Constants
	geom      OrbitGeometry
	period    float64
	observers []Observer
}

// NewSolver validates the inputs and runs the one-off geometry and period
// stages. Degenerate orbits are rejected here, before any iteration.
func NewSolver(in Inputs) (*Solver, error) {
	c := in.Constants
	if !c.IsValid() {
		return nil, domainErr("constants", 0, "physical constants must be finite and positive")
	}
	if !finite(in.ApparentMag1) {
		return nil, domainErr("apparent_mag1", in.ApparentMag1, "magnitude must be finite")
	}
	if !finite(in.ApparentMag2) {
		return nil, domainErr("apparent_mag2", in.ApparentMag2, "magnitude must be finite")
	}

	geom, err := NewOrbitGeometry(c.ArcsecToRadians(in.SemiMajorArcsec), c.ArcsecToRadians(in.SemiMinorArcsec))
	if err != nil {
		return nil, err
	}
	period, err := Period(geom, c.YearsToSeconds(in.PartialOrbitYears))
	if err != nil {
		return nil, err
	}

	return &Solver{
		in:        in,
		consts:    c,
		geom:      geom,
		period:    period,
		observers: make([]Observer, 0),
	}, nil
}

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Seed is the initial state, derived from a trial mass of one Sun for each
// component.
func (s *Solver) Seed() (IterationState, error) {
	return s.evaluate(s.consts.SolarMass, s.consts.SolarMass, 0)
}

// Step derives the next state from prev's masses. It does not touch the
// solver, so repeated calls on the same state return the same result.
func (s *Solver) Step(prev IterationState) (IterationState, error) {
	return s.evaluate(prev.Mass1, prev.Mass2, prev.Index+1)
}

func (s *Solver) evaluate(m1, m2 float64, idx int) (IterationState, error) {
	c := s.consts

	a, err := SemiMajorAxis(s.period, m1, m2, c.G)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}
	d, err := Distance(a, s.geom.Alpha)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}

	dPc := c.MetresToParsecs(d)
	absMag1, err := AbsoluteMagnitude(s.in.ApparentMag1, dPc)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}
	absMag2, err := AbsoluteMagnitude(s.in.ApparentMag2, dPc)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}

	lum1, err := Luminosity(absMag1, c)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}
	lum2, err := Luminosity(absMag2, c)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}

	mass1, err := MassFromLuminosity(lum1, c)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}
	mass2, err := MassFromLuminosity(lum2, c)
	if err != nil {
		return IterationState{}, atIteration(err, idx)
	}

	state := IterationState{
		Index:         idx,
		SemiMajorAxis: a,
		Distance:      d,
		AbsMag1:       absMag1,
		AbsMag2:       absMag2,
		Lum1:          lum1,
		Lum2:          lum2,
		Mass1:         mass1,
		Mass2:         mass2,
	}
	if err := state.Validate(); err != nil {
		return IterationState{}, err
	}
	return state, nil
}

// Solve runs the fixed-point loop. On failure the partial result is returned
// with the error so the history can still be inspected.
func (s *Solver) Solve(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Geometry:  s.geom,
		Period:    s.period,
		Constants: s.consts,
	}

	state, err := s.Seed()
	if err != nil {
		return result, err
	}
	result.History.Append(state)
	result.Final = state
	s.notify(state, false)

	var (
		stable int
		field  = FieldMass1
		change = math.Inf(1)
	)
	for i := 0; i < cfg.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		// The seed was valid, so a stage failing here means the masses ran away.
		next, err := s.Step(state)
		if err != nil {
			return result, &ConvergenceError{
				Iterations: result.Iterations,
				Quantity:   field,
				Change:     change,
				Tolerance:  cfg.Tolerance,
				Last:       state,
				Cause:      err,
			}
		}
		result.History.Append(next)
		result.Iterations++

		field, change = largestChange(state, next)
		if change < cfg.Tolerance {
			stable++
		} else {
			stable = 0
		}

		state = next
		result.Final = state
		result.Converged = stable >= cfg.StableSteps
		s.notify(state, result.Converged)

		if result.Converged {
			return result, nil
		}
	}

	return result, &ConvergenceError{
		Iterations: result.Iterations,
		Quantity:   field,
		Change:     change,
		Tolerance:  cfg.Tolerance,
		Last:       state,
	}
}

func (s *Solver) notify(state IterationState, converged bool) {
	for _, o := range s.observers {
		o.OnIteration(state, converged)
	}
}

func validateConfig(cfg Config) error {
	if !finite(cfg.Tolerance) || cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", cfg.Tolerance)
	}
	if cfg.MaxIterations <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", cfg.MaxIterations)
	}
	if cfg.StableSteps <= 0 {
		return fmt.Errorf("stable steps must be positive, got %d", cfg.StableSteps)
	}
	return nil
}

// Solve is shorthand for NewSolver followed by Solver.Solve.
func Solve(ctx context.Context, in Inputs, cfg Config, observers ...Observer) (*Result, error) {
	s, err := NewSolver(in)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		s.AddObserver(o)
	}
	return s.Solve(ctx, cfg)
}
