package formscope

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Classification is the output of Classify: the dependency graphs and
// the three question-set partitions (test variables, gatekeepers,
// data-collection questions).
type Classification struct {
	Form *Form

	// Forward maps a gating question ID to the IDs of the questions
	// whose visibility predicate mentions it.
	Forward map[string][]string
	// Reverse maps a gated question ID to the IDs of the questions
	// that gate it (i.e. appear in its predicate).
	Reverse map[string][]string

	// TestVariables holds, in topological order (consistent with
	// ordinal position), every question with out-degree >= 1 in
	// Forward.
	TestVariables []string
	// Gatekeepers holds every test variable with in-degree 0 in
	// Forward, in ordinal-position order.
	Gatekeepers []string
	// DataCollection holds every question with out-degree 0, in
	// ordinal-position order.
	DataCollection []string
}

// IsTestVariable reports whether id names a test variable.
func (c *Classification) IsTestVariable(id string) bool {
	_, ok := c.testVarSet()[id]
	return ok
}

func (c *Classification) testVarSet() map[string]struct{} {
	s := make(map[string]struct{}, len(c.TestVariables))
	for _, id := range c.TestVariables {
		s[id] = struct{}{}
	}
	return s
}

// Classify partitions the form's questions into test variables and
// data-collection questions and builds the forward/reverse dependency
// graphs.
//
// It returns a *multierror.Error (via errors.Join semantics) when one
// or more questions are malformed, so that a single pass over a form
// reports every offending question rather than only the first.
func Classify(form *Form) (*Classification, error) {
	if err := checkUniqueIDs(form); err != nil {
		return nil, err
	}

	positionOf := make(map[string]int, len(form.Questions))
	for _, q := range form.Questions {
		positionOf[q.ID] = q.Position
	}

	forward := make(map[string][]string)
	reverse := make(map[string][]string)

	var errs *multierror.Error
	for i := range form.Questions {
		q := &form.Questions[i]
		if q.Predicate == nil {
			continue
		}
		refs := q.Predicate.Questions(nil)
		for _, ref := range refs {
			refPos, ok := positionOf[ref]
			if !ok {
				errs = multierror.Append(errs, &ClassificationError{
					QuestionID: q.ID,
					Err:        fmt.Errorf("%w: %q", ErrUnknownReference, ref),
				})
				continue
			}
			if refPos >= q.Position {
				errs = multierror.Append(errs, &ClassificationError{
					QuestionID: q.ID,
					Err:        fmt.Errorf("%w: %q (position %d) must precede %q (position %d)", ErrForwardReference, ref, refPos, q.ID, q.Position),
				})
				continue
			}
			forward[ref] = append(forward[ref], q.ID)
			reverse[q.ID] = append(reverse[q.ID], ref)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := checkAcyclic(form, forward); err != nil {
		return nil, err
	}

	c := &Classification{
		Form:    form,
		Forward: forward,
		Reverse: reverse,
	}
	c.partition(form)
	return c, nil
}

func checkUniqueIDs(form *Form) error {
	seen := make(map[string]struct{}, len(form.Questions))
	var errs *multierror.Error
	for _, q := range form.Questions {
		if _, dup := seen[q.ID]; dup {
			errs = multierror.Append(errs, &ClassificationError{QuestionID: q.ID, Err: ErrDuplicateQuestion})
			continue
		}
		seen[q.ID] = struct{}{}
	}
	return errs.ErrorOrNil()
}

// checkAcyclic walks the forward graph looking for a cycle. The
// ordinal-position invariant (a predicate may only reference earlier
// questions) makes a cycle impossible unless that invariant was
// violated upstream of classification; this is a safety-net check —
// a violation here is a fatal input error.
func checkAcyclic(form *Form, forward map[string][]string) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(form.Questions))
	var cyclic string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, next := range forward[id] {
			switch color[next] {
			case gray:
				cyclic = next
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, q := range form.Questions {
		if color[q.ID] == white {
			if visit(q.ID) {
				return &ClassificationError{QuestionID: cyclic, Err: ErrCyclicDependency}
			}
		}
	}
	return nil
}

// partition fills in TestVariables (topologically ordered by ordinal
// position), Gatekeepers and DataCollection from the already-built
// Forward graph.
func (c *Classification) partition(form *Form) {
	for i := range form.Questions {
		q := &form.Questions[i]
		if len(c.Forward[q.ID]) > 0 {
			c.TestVariables = append(c.TestVariables, q.ID)
			if len(c.Reverse[q.ID]) == 0 {
				c.Gatekeepers = append(c.Gatekeepers, q.ID)
			}
		} else {
			c.DataCollection = append(c.DataCollection, q.ID)
		}
	}
	// Form order is already position-ascending and the forward graph
	// only ever points from an earlier position to a later one, so
	// form order is already a valid topological order; sort is a
	// defensive no-op documenting that invariant.
	sort.SliceStable(c.TestVariables, func(i, j int) bool {
		qi, _ := form.ByID(c.TestVariables[i])
		qj, _ := form.ByID(c.TestVariables[j])
		return qi.Position < qj.Position
	})
}
