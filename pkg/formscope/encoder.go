package formscope

import (
	"fmt"
)

// Model is the reusable constraint model: a bounded integer domain for
// every test variable, and a visibility boolean expression for every
// question (test variable or not). Encode builds a Model once from a
// Classification; the Synthesizer and both Solver backends consume it
// without re-deriving anything from the raw Form.
type Model struct {
	Classification *Classification

	// DomainSize maps a test variable ID to k, the size of its encoded
	// domain; legal values for that variable are {0, 1, ..., k}.
	DomainSize map[string]int

	// Visibility maps every question ID to the transitively-conjoined
	// visibility predicate: "is visible" for an unconditional question
	// is the nil predicate (true, by convention evaluated as such); for
	// a conditional question it is the predicate's own translation
	// conjoined with the visibility of every question it references, so
	// that a gating chain cannot be short-circuited by setting a
	// descendant's value without its ancestors actually being visible.
	Visibility map[string]Predicate

	// freeform holds, per freeform question ID, the literal->encoding
	// assignment resolved from predicates that reference it.
	freeform map[string]*freeformEncoding
}

// freeformEncoding is the literal->encoding assignment for one
// freeform question, plus the reserved "other" encoding.
type freeformEncoding struct {
	literalToEncoding map[string]int
	otherEncoding     int
}

// IsVisible evaluates question id's visibility expression under a
// total assignment from question ID to chosen encoding. An
// unconditional question (nil expression) is always visible.
func (m *Model) IsVisible(id string, assignment map[string]int) bool {
	expr := m.Visibility[id]
	if expr == nil {
		return true
	}
	return expr.Evaluate(assignment)
}

// Valid reports whether assignment satisfies the validity constraint
// shipped to the solver: for every test variable V, V != 0 implies
// visible(V).
func (m *Model) Valid(assignment map[string]int) bool {
	for _, id := range m.Classification.TestVariables {
		if assignment[id] != 0 && !m.IsVisible(id, assignment) {
			return false
		}
	}
	return true
}

// Encode builds the constraint model for a classified form.
func Encode(c *Classification) (*Model, error) {
	m := &Model{
		Classification: c,
		DomainSize:     make(map[string]int, len(c.TestVariables)),
		Visibility:     make(map[string]Predicate, len(c.Form.Questions)),
		freeform:       make(map[string]*freeformEncoding),
	}

	resolveFreeformEncodings(c, m)

	for _, id := range c.TestVariables {
		q, _ := c.Form.ByID(id)
		if q.Kind == DomainFreeform {
			m.DomainSize[id] = m.freeform[id].otherEncoding
			continue
		}
		size, err := domainSizeOf(q)
		if err != nil {
			return nil, &ClassificationError{QuestionID: id, Err: err}
		}
		m.DomainSize[id] = size
	}

	if err := resolveChoiceEncodings(c, m); err != nil {
		return nil, err
	}

	for i := range c.Form.Questions {
		q := &c.Form.Questions[i]
		m.Visibility[q.ID] = visibilityExprOf(c, m, q.ID)
	}

	return m, nil
}

// domainSizeOf returns k, the number of choices, for an enumerated
// question, validating that its choice encodings cover 1..k
// contiguously.
func domainSizeOf(q *Question) (int, error) {
	if len(q.Choices) == 0 {
		return 0, fmt.Errorf("%w: %q has an enumerated domain with no choices", ErrInvalidDomain, q.ID)
	}
	seen := make(map[int]struct{}, len(q.Choices))
	max := 0
	for _, ch := range q.Choices {
		if ch.Encoding < 1 {
			return 0, fmt.Errorf("%w: %q choice %q has encoding %d (must be >= 1)", ErrInvalidDomain, q.ID, ch.ID, ch.Encoding)
		}
		if _, dup := seen[ch.Encoding]; dup {
			return 0, fmt.Errorf("%w: %q has two choices with encoding %d", ErrInvalidDomain, q.ID, ch.Encoding)
		}
		seen[ch.Encoding] = struct{}{}
		if ch.Encoding > max {
			max = ch.Encoding
		}
	}
	if len(seen) != max {
		return 0, fmt.Errorf("%w: %q encodings do not cover 1..%d contiguously", ErrInvalidDomain, q.ID, max)
	}
	return max, nil
}

// resolveChoiceEncodings fills in the private `encoding`/`encodings`
// fields on every Equals/NotEquals/InSet node so Evaluate can compare
// against integers rather than re-resolving choice IDs on every call.
func resolveChoiceEncodings(c *Classification, m *Model) error {
	for i := range c.Form.Questions {
		q := &c.Form.Questions[i]
		if q.Predicate == nil {
			continue
		}
		if err := resolvePredicateEncodings(c.Form, m, q.Predicate); err != nil {
			return &ClassificationError{QuestionID: q.ID, Err: err}
		}
	}
	return nil
}

func resolvePredicateEncodings(form *Form, m *Model, p Predicate) error {
	switch n := p.(type) {
	case *Equals:
		enc, err := lookupEncoding(form, m, n.QuestionID, n.Choice)
		if err != nil {
			return err
		}
		n.encoding = enc
	case *NotEquals:
		enc, err := lookupEncoding(form, m, n.QuestionID, n.Choice)
		if err != nil {
			return err
		}
		n.encoding = enc
	case *InSet:
		n.encodings = make([]int, len(n.Choices))
		for i, choiceID := range n.Choices {
			enc, err := lookupEncoding(form, m, n.QuestionID, choiceID)
			if err != nil {
				return err
			}
			n.encodings[i] = enc
		}
	case *And:
		for _, op := range n.Operands {
			if err := resolvePredicateEncodings(form, m, op); err != nil {
				return err
			}
		}
	case *Or:
		for _, op := range n.Operands {
			if err := resolvePredicateEncodings(form, m, op); err != nil {
				return err
			}
		}
	case *Not:
		return resolvePredicateEncodings(form, m, n.Operand)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPredicate, p)
	}
	return nil
}

func lookupEncoding(form *Form, m *Model, questionID, choiceID string) (int, error) {
	q, ok := form.ByID(questionID)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownReference, questionID)
	}
	if q.Kind == DomainFreeform {
		fe := m.freeform[questionID]
		if enc, ok := fe.literalToEncoding[choiceID]; ok {
			return enc, nil
		}
		return fe.otherEncoding, nil
	}
	ch, ok := q.ChoiceByID(choiceID)
	if !ok {
		return 0, fmt.Errorf("%w: %q has no choice %q", ErrUnsupportedPredicate, questionID, choiceID)
	}
	return ch.Encoding, nil
}

// resolveFreeformEncodings derives a freeform test variable's domain
// by enumerating the string literals appearing in predicates against
// it, plus one "other" value, in first-appearance order for
// determinism.
func resolveFreeformEncodings(c *Classification, m *Model) {
	byQuestion := make(map[string][]string) // question id -> literals, first-seen order
	seen := make(map[string]map[string]struct{})

	var walk func(p Predicate)
	walk = func(p Predicate) {
		switch n := p.(type) {
		case *Equals:
			addLiteral(byQuestion, seen, n.QuestionID, n.Choice)
		case *NotEquals:
			addLiteral(byQuestion, seen, n.QuestionID, n.Choice)
		case *InSet:
			for _, lit := range n.Choices {
				addLiteral(byQuestion, seen, n.QuestionID, lit)
			}
		case *And:
			for _, op := range n.Operands {
				walk(op)
			}
		case *Or:
			for _, op := range n.Operands {
				walk(op)
			}
		case *Not:
			walk(n.Operand)
		}
	}

	for i := range c.Form.Questions {
		q := &c.Form.Questions[i]
		if q.Predicate != nil {
			walk(q.Predicate)
		}
	}

	for i := range c.Form.Questions {
		q := &c.Form.Questions[i]
		if q.Kind != DomainFreeform {
			continue
		}
		literals := byQuestion[q.ID]
		fe := &freeformEncoding{literalToEncoding: make(map[string]int, len(literals))}
		for i, lit := range literals {
			fe.literalToEncoding[lit] = i + 1
		}
		fe.otherEncoding = len(literals) + 1
		m.freeform[q.ID] = fe
	}
}

func addLiteral(byQuestion map[string][]string, seen map[string]map[string]struct{}, questionID, literal string) {
	if seen[questionID] == nil {
		seen[questionID] = make(map[string]struct{})
	}
	if _, ok := seen[questionID][literal]; ok {
		return
	}
	seen[questionID][literal] = struct{}{}
	byQuestion[questionID] = append(byQuestion[questionID], literal)
}

// visibilityExprOf computes the transitively-conjoined visibility
// expression for question id. m.Visibility is filled in form order
// (earlier questions first), so every dependency's own entry is
// already present by the time a later question is processed.
func visibilityExprOf(c *Classification, m *Model, id string) Predicate {
	q, _ := c.Form.ByID(id)
	if q.Predicate == nil {
		return nil
	}

	refs := q.Predicate.Questions(nil)
	operands := []Predicate{q.Predicate}
	added := map[string]struct{}{}
	for _, ref := range refs {
		if _, dup := added[ref]; dup {
			continue
		}
		added[ref] = struct{}{}
		if ancestor := m.Visibility[ref]; ancestor != nil {
			operands = append(operands, ancestor)
		}
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return &And{Operands: operands}
}
