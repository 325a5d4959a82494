package dynpar

import (
	"math"

	"github.com/san-kum/dynpar/internal/astro"
	"gonum.org/v1/gonum/floats"
)

// IterationState is the outcome of one pass through the distance, magnitude
// and mass stages, in SI units. Mass1 and Mass2 are the masses derived in
// this pass and become the trial masses of the next one.
type IterationState struct {
	Index         int
	SemiMajorAxis float64 // m
	Distance      float64 // m
	AbsMag1       float64
	AbsMag2       float64
	Lum1          float64 // W
	Lum2          float64 // W
	Mass1         float64 // kg
	Mass2         float64 // kg
}

// Validate checks that every physical quantity is finite and, apart from the
// magnitudes, strictly positive.
func (s IterationState) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"semi_major_axis", s.SemiMajorAxis},
		{"distance", s.Distance},
		{"luminosity1", s.Lum1},
		{"luminosity2", s.Lum2},
		{"mass1", s.Mass1},
		{"mass2", s.Mass2},
	}
	for _, p := range positive {
		if !finite(p.v) || p.v <= 0 {
			return &DomainError{Quantity: p.name, Value: p.v, Iteration: s.Index, Reason: "must be finite and positive"}
		}
	}
	if !finite(s.AbsMag1) {
		return &DomainError{Quantity: "abs_mag1", Value: s.AbsMag1, Iteration: s.Index, Reason: "must be finite"}
	}
	if !finite(s.AbsMag2) {
		return &DomainError{Quantity: "abs_mag2", Value: s.AbsMag2, Iteration: s.Index, Reason: "must be finite"}
	}
	return nil
}

// Readings expresses a state in the units the results are quoted in.
type Readings struct {
	Index           int     `json:"iteration"`
	SemiMajorAxisAU float64 `json:"semi_major_axis_au"`
	DistancePc      float64 `json:"distance_pc"`
	AbsMag1         float64 `json:"abs_mag1"`
	AbsMag2         float64 `json:"abs_mag2"`
	Lum1            float64 `json:"lum1_solar"`
	Lum2            float64 `json:"lum2_solar"`
	Mass1           float64 `json:"mass1_solar"`
	Mass2           float64 `json:"mass2_solar"`
}

func (s IterationState) Readings(c astro.Constants) Readings {
	return Readings{
		Index:           s.Index,
		SemiMajorAxisAU: c.MetresToAU(s.SemiMajorAxis),
		DistancePc:      c.MetresToParsecs(s.Distance),
		AbsMag1:         s.AbsMag1,
		AbsMag2:         s.AbsMag2,
		Lum1:            c.WattsToSolar(s.Lum1),
		Lum2:            c.WattsToSolar(s.Lum2),
		Mass1:           c.KgToSolarMasses(s.Mass1),
		Mass2:           c.KgToSolarMasses(s.Mass2),
	}
}

// Field selects one tracked quantity of a state.
type Field int

const (
	FieldSemiMajorAxis Field = iota
	FieldDistance
	FieldAbsMag1
	FieldAbsMag2
	FieldLum1
	FieldLum2
	FieldMass1
	FieldMass2
)

var fieldNames = [...]string{
	FieldSemiMajorAxis: "semi_major_axis",
	FieldDistance:      "distance",
	FieldAbsMag1:       "abs_mag1",
	FieldAbsMag2:       "abs_mag2",
	FieldLum1:          "lum1",
	FieldLum2:          "lum2",
	FieldMass1:         "mass1",
	FieldMass2:         "mass2",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// trackedFields are the quantities that must settle before the run converges.
var trackedFields = []Field{FieldMass1, FieldMass2, FieldAbsMag1, FieldAbsMag2, FieldDistance}

// Value returns f in SI units.
func (s IterationState) Value(f Field) float64 {
	switch f {
	case FieldSemiMajorAxis:
		return s.SemiMajorAxis
	case FieldDistance:
		return s.Distance
	case FieldAbsMag1:
		return s.AbsMag1
	case FieldAbsMag2:
		return s.AbsMag2
	case FieldLum1:
		return s.Lum1
	case FieldLum2:
		return s.Lum2
	case FieldMass1:
		return s.Mass1
	case FieldMass2:
		return s.Mass2
	}
	return 0
}

// Value returns f in quoted units (AU, pc, solar).
func (r Readings) Value(f Field) float64 {
	switch f {
	case FieldSemiMajorAxis:
		return r.SemiMajorAxisAU
	case FieldDistance:
		return r.DistancePc
	case FieldAbsMag1:
		return r.AbsMag1
	case FieldAbsMag2:
		return r.AbsMag2
	case FieldLum1:
		return r.Lum1
	case FieldLum2:
		return r.Lum2
	case FieldMass1:
		return r.Mass1
	case FieldMass2:
		return r.Mass2
	}
	return 0
}

// History is the ordered, append-only log of every state of a run, index 0
// being the state seeded from one solar mass per component.
type History struct {
	states []IterationState
}

func (h *History) Append(s IterationState) {
	h.states = append(h.states, s)
}

func (h *History) Len() int { return len(h.states) }

func (h *History) At(i int) IterationState { return h.states[i] }

func (h *History) Last() (IterationState, bool) {
	if len(h.states) == 0 {
		return IterationState{}, false
	}
	return h.states[len(h.states)-1], true
}

// States returns a copy of the log.
func (h *History) States() []IterationState {
	out := make([]IterationState, len(h.states))
	copy(out, h.states)
	return out
}

func (h *History) Readings(c astro.Constants) []Readings {
	out := make([]Readings, len(h.states))
	for i, s := range h.states {
		out[i] = s.Readings(c)
	}
	return out
}

// Series extracts one column in quoted units, ordered by iteration.
func (h *History) Series(f Field, c astro.Constants) []float64 {
	out := make([]float64, len(h.states))
	for i, s := range h.states {
		out[i] = s.Readings(c).Value(f)
	}
	return out
}

// Bounds returns the smallest and largest value of the given columns taken
// together. It returns zeros for an empty history.
func (h *History) Bounds(c astro.Constants, fields ...Field) (lo, hi float64) {
	var all []float64
	for _, f := range fields {
		all = append(all, h.Series(f, c)...)
	}
	if len(all) == 0 {
		return 0, 0
	}
	return floats.Min(all), floats.Max(all)
}

// relativeChange is |next/prev - 1|. A quantity that was exactly zero only
// counts as unchanged if it is still zero.
func relativeChange(prev, next float64) float64 {
	if prev == 0 {
		if next == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(next/prev - 1)
}

// largestChange finds the tracked quantity that moved the most between two
// consecutive states.
func largestChange(prev, next IterationState) (Field, float64) {
	changes := make([]float64, len(trackedFields))
	for i, f := range trackedFields {
		changes[i] = relativeChange(prev.Value(f), next.Value(f))
	}
	idx := floats.MaxIdx(changes)
	return trackedFields[idx], changes[idx]
}

// Converged reports whether every tracked quantity changed by less than tol
// between prev and next.
func Converged(prev, next IterationState, tol float64) bool {
	_, change := largestChange(prev, next)
	return change < tol
}
