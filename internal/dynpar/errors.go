package dynpar

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDomain indicates a geometric or logarithmic input outside its valid range.
	ErrDomain = errors.New("dynpar: value outside valid domain")

	// ErrConvergence indicates the iteration cap was reached before the tolerance was met.
	ErrConvergence = errors.New("dynpar: iteration did not converge")
)

// DomainError names the offending quantity. Iteration is -1 when the failure
// happened during setup, before the first iteration.
type DomainError struct {
	Quantity  string
	Value     float64
	Iteration int
	Reason    string
}

func (e *DomainError) Error() string {
	if e.Iteration < 0 {
		return fmt.Sprintf("dynpar: %s=%g: %s", e.Quantity, e.Value, e.Reason)
	}
	return fmt.Sprintf("dynpar: iteration %d: %s=%g: %s", e.Iteration, e.Quantity, e.Value, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// ConvergenceError reports the quantity that moved the most in the last step.
// Cause is set when the run diverged until a stage could no longer be
// evaluated, rather than running into the iteration cap.
type ConvergenceError struct {
	Iterations int
	Quantity   Field
	Change     float64
	Tolerance  float64
	Last       IterationState
	Cause      error
}

func (e *ConvergenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dynpar: diverged after %d iterations: %v", e.Iterations, e.Cause)
	}
	return fmt.Sprintf("dynpar: no convergence after %d iterations: %s changed by %.4g (tolerance %g)",
		e.Iterations, e.Quantity, e.Change, e.Tolerance)
}

func (e *ConvergenceError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConvergence, e.Cause}
	}
	return []error{ErrConvergence}
}

func domainErr(quantity string, value float64, reason string) *DomainError {
	return &DomainError{Quantity: quantity, Value: value, Iteration: -1, Reason: reason}
}

// atIteration stamps a DomainError with the iteration it occurred in.
func atIteration(err error, i int) error {
	var de *DomainError
	if errors.As(err, &de) {
		stamped := *de
		stamped.Iteration = i
		return &stamped
	}
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
