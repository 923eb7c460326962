package satsolver

import (
	"fmt"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/gitrdm/formscope/pkg/formscope"
)

// gateVisitor translates a formscope.Predicate tree into a single
// circuit literal, one Accept call at a time, via a small value
// stack: a leaf (Equals/NotEquals/InSet) pushes one literal, and a
// compound node (And/Or/Not) pops its operands' literals back off
// after recursing into them.
type gateVisitor struct {
	c         *logic.C
	literalOf map[string]map[int]z.Lit
	stack     []z.Lit
	err       error
}

// translate returns the circuit literal equivalent to p.
func (v *gateVisitor) translate(p formscope.Predicate) z.Lit {
	base := len(v.stack)
	p.Accept(v)
	if len(v.stack) != base+1 {
		v.err = fmt.Errorf("satsolver: predicate %q did not translate to exactly one literal", p.String())
		return v.c.F
	}
	lit := v.stack[base]
	v.stack = v.stack[:base]
	return lit
}

func (v *gateVisitor) VisitEquals(questionID string, encoding int) {
	v.stack = append(v.stack, v.literalFor(questionID, encoding))
}

func (v *gateVisitor) VisitNotEquals(questionID string, encoding int) {
	v.stack = append(v.stack, v.literalFor(questionID, encoding).Not())
}

func (v *gateVisitor) VisitInSet(questionID string, encodings []int) {
	lits := make([]z.Lit, len(encodings))
	for i, e := range encodings {
		lits[i] = v.literalFor(questionID, e)
	}
	v.stack = append(v.stack, v.c.Ors(lits...))
}

func (v *gateVisitor) VisitAnd(operands []formscope.Predicate) {
	v.stack = append(v.stack, v.c.Ands(v.translateOperands(operands)...))
}

func (v *gateVisitor) VisitOr(operands []formscope.Predicate) {
	v.stack = append(v.stack, v.c.Ors(v.translateOperands(operands)...))
}

func (v *gateVisitor) VisitNot(operand formscope.Predicate) {
	v.stack = append(v.stack, v.translate(operand).Not())
}

func (v *gateVisitor) translateOperands(operands []formscope.Predicate) []z.Lit {
	lits := make([]z.Lit, len(operands))
	for i, op := range operands {
		lits[i] = v.translate(op)
	}
	return lits
}

// literalFor returns the one-hot literal for questionID == value. For
// an undeclared question or a value outside the declared domain it
// records an error on v, which CheckSat then returns, and yields the
// circuit's constant false in place of a literal rather than
// panicking.
func (v *gateVisitor) literalFor(questionID string, value int) z.Lit {
	if lit, ok := v.literalOf[questionID][value]; ok {
		return lit
	}
	v.err = fmt.Errorf("satsolver: %q has no declared literal for value %d", questionID, value)
	return v.c.F
}

var _ formscope.PredicateVisitor = (*gateVisitor)(nil)
