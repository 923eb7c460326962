package metrics

import (
	"context"
	"time"

	"github.com/gitrdm/formscope/pkg/formscope"
)

// instrumentedSolver decorates a formscope.Solver, recording
// SolverCheckSatTotal/SolverCheckSatDuration around every CheckSat
// call. Declare/Assert/Push/Pop/Model/Close pass straight through.
type instrumentedSolver struct {
	formscope.Solver
}

// InstrumentSolver wraps s so every CheckSat call is observed on
// Registry. Pass the result wherever a formscope.Solver is expected;
// callers never need to know it is instrumented.
func InstrumentSolver(s formscope.Solver) formscope.Solver {
	return &instrumentedSolver{s}
}

func (s *instrumentedSolver) CheckSat(ctx context.Context) (bool, error) {
	start := time.Now()
	sat, err := s.Solver.CheckSat(ctx)
	SolverCheckSatDuration.Observe(time.Since(start).Seconds())

	result := "unsat"
	switch {
	case err != nil:
		result = "error"
	case sat:
		result = "sat"
	}
	SolverCheckSatTotal.WithLabelValues(result).Inc()

	return sat, err
}

var _ formscope.Solver = (*instrumentedSolver)(nil)
