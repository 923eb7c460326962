// Package formscope synthesizes a minimal, coverage-complete test plan
// for a conditional form: a questionnaire whose questions become
// visible or invisible depending on answers already given. Given a
// parsed form definition, the package produces a small set of
// concrete answer assignments ("scenarios") such that every question
// that can ever be made visible is visible in at least one scenario.
// The set is reduced by greedy set cover and is not guaranteed to be
// the smallest possible.
//
// The pipeline is four stages, each its own file: Classifier
// (classifier.go) partitions questions and builds the dependency
// graph; Encoder (encoder.go) assigns bounded integer domains and
// translates visibility predicates into boolean expressions; the
// Synthesizer (synth_phase1.go, synth_phase2.go, synth_phase3.go)
// produces a scenario pool in three phases; the Minimizer
// (minimizer.go) reduces that pool with greedy set cover.
package formscope

import "fmt"

// DomainKind distinguishes an enumerated choice set from a free-form
// domain not bounded by a fixed set of choices.
type DomainKind int

const (
	// DomainEnumerated is an ordered sequence of named Choices.
	DomainEnumerated DomainKind = iota
	// DomainFreeform is a non-enumerated domain: the question accepts
	// arbitrary answers and is never a test variable unless a
	// predicate elsewhere compares it against string literals (see
	// Encoder's handling of literal-equality references).
	DomainFreeform
)

// Choice is one named option within an enumerated Question domain.
// Encoding is the positive integer (>=1) this choice maps to; encoding
// 0 is reserved globally for "unanswered / question not visible" and
// is never assigned to a Choice.
type Choice struct {
	ID       string
	Label    string
	Encoding int
}

// Question is one item in a form. Predicate is nil for an
// unconditionally visible question. Position is the question's ordinal
// index in the form; a Predicate may only reference Questions with a
// strictly earlier Position (enforced at classification time).
type Question struct {
	ID        string
	Position  int
	Label     string
	Kind      DomainKind
	Choices   []Choice // empty when Kind == DomainFreeform
	Predicate Predicate
}

// Unconditional reports whether the question has no visibility
// predicate and is therefore always visible.
func (q *Question) Unconditional() bool {
	return q.Predicate == nil
}

// ChoiceByID returns the Choice with the given ID and true, or the zero
// Choice and false if no such choice exists on this question.
func (q *Question) ChoiceByID(id string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// String implements fmt.Stringer.
func (q *Question) String() string {
	return fmt.Sprintf("Question(%s, pos=%d)", q.ID, q.Position)
}

// Form is an ordered list of Questions. Questions and Choices are
// immutable once a Form is loaded; identifiers must be unique within a
// form (checked by the Classifier).
type Form struct {
	Name      string
	Questions []Question
}

// ByID returns the question with the given identifier and true, or the
// zero Question and false if the form has no such question.
func (f *Form) ByID(id string) (*Question, bool) {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i], true
		}
	}
	return nil, false
}
