package formscope

import (
	"context"
	"fmt"
)

// MockSolver is a brute-force Solver backend with no external
// dependencies, for unit-testing Synthesizer phase logic in isolation
// without a real SAT solver running.
//
// It uses a trail-based backtracking shape: variables are tried in
// declaration order, one value at a time, and a checkpoint stack
// (scopes) plays the role of a trail for push/pop. Rather than
// propagating domains incrementally, MockSolver re-checks every active
// assertion once a full assignment is reached; it trades propagation
// speed for simplicity, which is the right trade for a solver whose
// only job is exercising Synthesizer logic in tests against small
// forms.
type MockSolver struct {
	order      []string
	domainSize map[string]int
	scopes     [][]Predicate // scopes[0] is the permanent (pre-Push) base scope
	model      map[string]int
}

// NewMockSolver returns an empty MockSolver ready for DeclareVar calls.
func NewMockSolver() *MockSolver {
	return &MockSolver{
		domainSize: make(map[string]int),
		scopes:     [][]Predicate{nil},
	}
}

func (s *MockSolver) DeclareVar(questionID string, domainSize int) error {
	if _, exists := s.domainSize[questionID]; exists {
		return fmt.Errorf("variable %q already declared", questionID)
	}
	s.domainSize[questionID] = domainSize
	s.order = append(s.order, questionID)
	return nil
}

func (s *MockSolver) Assert(expr Predicate) error {
	top := len(s.scopes) - 1
	s.scopes[top] = append(s.scopes[top], expr)
	return nil
}

func (s *MockSolver) Push() error {
	s.scopes = append(s.scopes, nil)
	return nil
}

func (s *MockSolver) Pop() error {
	if len(s.scopes) <= 1 {
		return fmt.Errorf("mock solver: Pop with no open scope")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
	return nil
}

func (s *MockSolver) CheckSat(ctx context.Context) (bool, error) {
	assignment := make(map[string]int, len(s.order))
	ok, err := s.search(ctx, assignment, 0)
	if err != nil {
		return false, err
	}
	if ok {
		s.model = assignment
	}
	return ok, nil
}

func (s *MockSolver) Model() (map[string]int, error) {
	if s.model == nil {
		return nil, fmt.Errorf("mock solver: Model called with no satisfying assignment on hand")
	}
	out := make(map[string]int, len(s.model))
	for k, v := range s.model {
		out[k] = v
	}
	return out, nil
}

func (s *MockSolver) Close() {}

func (s *MockSolver) search(ctx context.Context, assignment map[string]int, i int) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	if i == len(s.order) {
		return s.satisfiesAll(assignment), nil
	}

	v := s.order[i]
	for value := 0; value <= s.domainSize[v]; value++ {
		assignment[v] = value
		ok, err := s.search(ctx, assignment, i+1)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	delete(assignment, v)
	return false, nil
}

func (s *MockSolver) satisfiesAll(assignment map[string]int) bool {
	for _, scope := range s.scopes {
		for _, expr := range scope {
			if !expr.Evaluate(assignment) {
				return false
			}
		}
	}
	return true
}

var _ Solver = (*MockSolver)(nil)
