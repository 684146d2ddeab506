package engine

import (
	"errors"
	"fmt"
)

// Domain errors for batch runs. The live stepping path never fails;
// these surface only from Run, where a caller can act on them.
var (
	// ErrUnstable indicates the state picked up a NaN or Inf.
	ErrUnstable = errors.New("engine: state diverged (NaN or Inf)")
)

// StepError wraps an error with the step it occurred on.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
