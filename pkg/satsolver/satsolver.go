// Package satsolver is the SAT-backed Solver implementation: a
// boolean circuit over go-air/gini, with one-hot literals encoding
// each test variable's bounded integer domain and CardSort-based
// cardinality constraints.
//
// Unlike a solver that keeps its circuit and clause database fixed
// for the lifetime of a single Solve, this solver's Push/Pop
// scopes are speculative: a scope's asserted predicates are held as
// formscope.Predicate trees and only translated into circuit gates
// and assumption literals at CheckSat time, exactly mirroring
// formscope.MockSolver's re-evaluate-every-scope-on-demand shape. That
// keeps the two Solver backends structurally interchangeable and
// avoids needing gini's Test/Untest nested-scope machinery: a scope
// that is popped before the next CheckSat simply never contributes an
// assumption literal.
package satsolver

import (
	"context"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/gitrdm/formscope/pkg/formscope"
)

// Solver is a formscope.Solver backed by a gini incremental SAT
// instance.
type Solver struct {
	c    *logic.C
	g    inter.S
	mark []int8

	domainSize map[string]int
	literalOf  map[string]map[int]z.Lit
	valueOf    map[z.Lit]assignment

	scopes [][]formscope.Predicate
	model  map[string]int
}

type assignment struct {
	questionID string
	value      int
}

// New returns an empty Solver ready for DeclareVar calls.
func New() *Solver {
	return &Solver{
		c:          logic.NewC(),
		g:          gini.New(),
		domainSize: make(map[string]int),
		literalOf:  make(map[string]map[int]z.Lit),
		valueOf:    make(map[z.Lit]assignment),
		scopes:     [][]formscope.Predicate{nil},
	}
}

// DeclareVar declares questionID as a one-hot integer variable ranged
// over {0, ..., domainSize} and permanently asserts the "exactly one
// value holds" cardinality constraint for it.
func (s *Solver) DeclareVar(questionID string, domainSize int) error {
	if _, exists := s.domainSize[questionID]; exists {
		return fmt.Errorf("variable %q already declared", questionID)
	}
	s.domainSize[questionID] = domainSize

	lits := make(map[int]z.Lit, domainSize+1)
	all := make([]z.Lit, 0, domainSize+1)
	for v := 0; v <= domainSize; v++ {
		lit := s.c.Lit()
		lits[v] = lit
		s.valueOf[lit] = assignment{questionID, v}
		all = append(all, lit)
	}
	s.literalOf[questionID] = lits

	atLeastOne := s.c.Ors(all...)
	atMostOne := s.c.CardSort(all).Leq(1)
	s.push(atLeastOne, atMostOne)
	s.assertTrue(atLeastOne)
	s.assertTrue(atMostOne)
	return nil
}

// Assert records expr on the currently open scope; it is translated
// into circuit gates and an assumption literal the next time CheckSat
// runs.
func (s *Solver) Assert(expr formscope.Predicate) error {
	top := len(s.scopes) - 1
	s.scopes[top] = append(s.scopes[top], expr)
	return nil
}

// Push opens a new speculative scope.
func (s *Solver) Push() error {
	s.scopes = append(s.scopes, nil)
	return nil
}

// Pop discards every assertion made since the matching Push.
func (s *Solver) Pop() error {
	if len(s.scopes) <= 1 {
		return fmt.Errorf("sat solver: Pop with no open scope")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
	return nil
}

// CheckSat translates every currently active assertion into a circuit
// gate, assumes the resulting literals, and runs gini's incremental
// solver. ctx's cancellation or deadline is honored by running Solve
// on a goroutine and racing it against ctx.Done.
func (s *Solver) CheckSat(ctx context.Context) (bool, error) {
	v := &gateVisitor{c: s.c, literalOf: s.literalOf}
	var assumptions []z.Lit
	for _, scope := range s.scopes {
		for _, expr := range scope {
			lit := v.translate(expr)
			assumptions = append(assumptions, lit)
		}
	}
	if v.err != nil {
		return false, v.err
	}
	s.push(assumptions...)

	s.g.Assume(assumptions...)

	resultCh := make(chan int, 1)
	go func() { resultCh <- s.g.Solve() }()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case result := <-resultCh:
		sat := result == 1
		if sat {
			s.model = s.decodeModel()
		} else {
			s.model = nil
		}
		return sat, nil
	}
}

// Model returns the satisfying assignment found by the last CheckSat
// call, keyed by declared question ID.
func (s *Solver) Model() (map[string]int, error) {
	if s.model == nil {
		return nil, fmt.Errorf("sat solver: Model called with no satisfying assignment on hand")
	}
	out := make(map[string]int, len(s.model))
	for k, v := range s.model {
		out[k] = v
	}
	return out, nil
}

// Close releases the underlying solver. gini's Gini has no explicit
// teardown; Close exists to satisfy formscope.Solver and to make the
// lifetime boundary explicit at call sites.
func (s *Solver) Close() {}

func (s *Solver) decodeModel() map[string]int {
	out := make(map[string]int, len(s.domainSize))
	for qid, lits := range s.literalOf {
		for value, lit := range lits {
			if s.g.Value(lit) {
				out[qid] = value
				break
			}
		}
	}
	return out
}

// push pushes the circuit gate clauses for every node reachable from
// roots that have not already been pushed, tracked via s.mark.
func (s *Solver) push(roots ...z.Lit) {
	s.mark, _ = s.c.CnfSince(s.g, s.mark, roots...)
}

// assertTrue adds a permanent unit clause forcing lit true.
func (s *Solver) assertTrue(lit z.Lit) {
	s.g.Add(lit)
	s.g.Add(0)
}

var _ formscope.Solver = (*Solver)(nil)
