package formscope

import "context"

// Solver is the narrow capability interface required of the external
// constraint solver: declare a bounded integer variable, assert a
// boolean expression over declared variables, checkpoint and roll back
// speculative assertions, check satisfiability, and retrieve a
// satisfying model. The Synthesizer is written entirely against this
// interface so that a real SAT-backed solver (pkg/satsolver) and a
// brute-force mock (mocksolver.go, for unit tests) are interchangeable.
//
// Supported expression forms are exactly the Predicate variants:
// integer equality/inequality against a constant (Equals, NotEquals,
// InSet) and boolean and/or/not (And, Or, Not).
type Solver interface {
	// DeclareVar declares an integer variable for questionID ranged
	// over {0, ..., domainSize}. Declaring the same questionID twice
	// is an error.
	DeclareVar(questionID string, domainSize int) error

	// Assert adds a permanent boolean constraint. Assertions made
	// before any Push accumulate for the lifetime of the solver;
	// assertions made after a Push are discarded by the matching Pop.
	Assert(expr Predicate) error

	// Push opens a new checkpoint scope.
	Push() error

	// Pop discards every assertion made since the matching Push,
	// restoring the solver to the state it was in just before that
	// Push. Popping with no open scope is an error.
	Pop() error

	// CheckSat reports whether the conjunction of all currently active
	// assertions is satisfiable. ctx governs cancellation/deadline.
	CheckSat(ctx context.Context) (bool, error)

	// Model returns a satisfying total assignment from declared
	// variable ID to chosen value. It is only valid to call Model
	// immediately after a CheckSat that returned (true, nil).
	Model() (map[string]int, error)

	// Close releases resources held by the solver. A form's solver
	// context is created once and closed when that form's pipeline
	// completes.
	Close()
}

// AssertValidityConstraint asserts, for every test variable with a
// conditional visibility expression, the validity constraint the
// solver must enforce: V != 0 => visible(V), encoded as the equivalent
// clause V == 0 OR visible(V). Test variables that are unconditionally
// visible need no constraint: the implication is trivially satisfied.
func AssertValidityConstraint(s Solver, m *Model) error {
	for _, id := range m.Classification.TestVariables {
		visible := m.Visibility[id]
		if visible == nil {
			continue
		}
		if err := s.Assert(&Or{Operands: []Predicate{&valueEq{QuestionID: id, Value: 0}, visible}}); err != nil {
			return err
		}
	}
	return nil
}

// DeclareModel declares every test variable in m with its encoded
// domain size. Data-collection questions are never declared: only
// test variables get encoded domains.
func DeclareModel(s Solver, m *Model) error {
	for _, id := range m.Classification.TestVariables {
		if err := s.DeclareVar(id, m.DomainSize[id]); err != nil {
			return err
		}
	}
	return nil
}
