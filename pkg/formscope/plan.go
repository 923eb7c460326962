package formscope

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Scenario is a total assignment from every test variable to a value
// in its encoded domain, together with the derived visible-set.
// Scenarios are created by the Synthesizer and never mutated
// afterward, except for NewlyCovered, which Minimize stamps once, at
// the moment it selects the scenario into the final plan.
type Scenario struct {
	// ID uniquely identifies this scenario across a run, for
	// cross-referencing in reports and logs.
	ID uuid.UUID

	// Assignment holds every test variable's chosen value, 0 included.
	Assignment map[string]int

	// Visible holds, for every question in the form, whether it is
	// visible under Assignment.
	Visible map[string]bool

	// NewlyCovered holds the IDs of the questions this scenario was
	// the first selected scenario to make visible, in sorted order:
	// its coverage contribution to the minimized plan. Unset (nil)
	// until Minimize selects this scenario.
	NewlyCovered []string
}

// newScenario derives a Scenario from a model and a total test-variable
// assignment, computing the visible-set and enforcing the
// scenario-validity invariant: a test variable assigned a nonzero
// value must have its own question visible. This check is a safety
// net; it should never actually fire if the DAG walk and evaluator are
// correct.
func newScenario(m *Model, assignment map[string]int) (*Scenario, error) {
	visible := make(map[string]bool, len(m.Classification.Form.Questions))
	for i := range m.Classification.Form.Questions {
		id := m.Classification.Form.Questions[i].ID
		visible[id] = m.IsVisible(id, assignment)
	}

	for _, id := range m.Classification.TestVariables {
		if assignment[id] != 0 && !visible[id] {
			return nil, fmt.Errorf("%w: %q assigned %d but its question is not visible", ErrInvalidScenario, id, assignment[id])
		}
	}

	full := make(map[string]int, len(m.Classification.TestVariables))
	for _, id := range m.Classification.TestVariables {
		full[id] = assignment[id] // zero value for unset is the correct "not visible" encoding
	}

	return &Scenario{
		ID:         uuid.New(),
		Assignment: full,
		Visible:    visible,
	}, nil
}

// VisibleQuestions returns the IDs of every question this scenario
// marks visible, ordered by ordinal position.
func (s *Scenario) VisibleQuestions(form *Form) []string {
	var out []string
	for i := range form.Questions {
		id := form.Questions[i].ID
		if s.Visible[id] {
			out = append(out, id)
		}
	}
	return out
}

// NonzeroCount returns the number of test variables this scenario
// assigns a nonzero value, the Minimizer's simplicity tie-break
// metric: prefer the scenario with the smallest number of nonzero
// test-variable assignments.
func (s *Scenario) NonzeroCount() int {
	n := 0
	for _, v := range s.Assignment {
		if v != 0 {
			n++
		}
	}
	return n
}

// AnsweredChoice returns the chosen answer for test variable id: the
// choice label if nonzero and enumerated, the literal matched (or
// "other") if nonzero and freeform, or "not answered" if 0.
func (s *Scenario) AnsweredChoice(m *Model, id string) string {
	v := s.Assignment[id]
	if v == 0 {
		return "not answered"
	}
	q, ok := m.Classification.Form.ByID(id)
	if !ok {
		return fmt.Sprintf("<%d>", v)
	}
	if q.Kind == DomainFreeform {
		return freeformLabel(m, id, v)
	}
	for _, ch := range q.Choices {
		if ch.Encoding == v {
			return ch.Label
		}
	}
	return fmt.Sprintf("<%d>", v)
}

func freeformLabel(m *Model, id string, value int) string {
	fe := m.freeform[id]
	if fe == nil {
		return fmt.Sprintf("<%d>", value)
	}
	for lit, enc := range fe.literalToEncoding {
		if enc == value {
			return lit
		}
	}
	if value == fe.otherEncoding {
		return "other"
	}
	return fmt.Sprintf("<%d>", value)
}

// coverageSet computes the union of visible-sets across a pool of
// scenarios.
func coverageSet(scenarios []*Scenario) map[string]bool {
	union := make(map[string]bool)
	for _, sc := range scenarios {
		for id, vis := range sc.Visible {
			if vis {
				union[id] = true
			}
		}
	}
	return union
}

// TestPlan is the engine's output: an ordered list of scenarios plus a
// coverage summary.
type TestPlan struct {
	Form      *Form
	Model     *Model
	Scenarios []*Scenario
	Summary   CoverageSummary
	// Partial is true if ctx's cancellation or deadline cut Phase 2 or
	// Phase 3 short: the plan may not cover every reachable question.
	// Any other solver error fails Synthesize instead of producing a
	// partial plan.
	Partial bool
}

// CoverageSummary records total questions, reachable questions,
// covered questions, coverage percentage, and dead-question count.
type CoverageSummary struct {
	TotalQuestions     int
	ReachableQuestions int
	CoveredQuestions   int
	CoveragePercent    float64
	DeadQuestions      []string
}

func newCoverageSummary(form *Form, reachable, covered map[string]bool, dead []string) CoverageSummary {
	pct := 0.0
	if len(reachable) > 0 {
		pct = 100 * float64(len(covered)) / float64(len(reachable))
	} else if len(form.Questions) > 0 {
		pct = 100
	}
	sort.Strings(dead)
	return CoverageSummary{
		TotalQuestions:     len(form.Questions),
		ReachableQuestions: len(reachable),
		CoveredQuestions:   len(covered),
		CoveragePercent:    pct,
		DeadQuestions:      dead,
	}
}
