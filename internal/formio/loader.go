// Package formio is the parsing boundary: it decodes the dynamic,
// loosely-typed YAML (or JSON, which gopkg.in/yaml.v3 also accepts)
// form definition that arrives from disk and normalizes it into
// pkg/formscope's closed Predicate variant set exactly once. Nothing
// past Load ever re-inspects raw input.
package formio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gitrdm/formscope/pkg/formscope"
)

// document is the on-disk shape of a form definition.
type document struct {
	Name      string         `yaml:"name"`
	Questions []questionDoc  `yaml:"questions"`
}

type questionDoc struct {
	ID      string       `yaml:"id"`
	Label   string       `yaml:"label"`
	Kind    string       `yaml:"kind"` // "enumerated" (default) or "freeform"
	Choices []choiceDoc  `yaml:"choices"`
	When    *predicateDoc `yaml:"when"`
}

type choiceDoc struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Encoding int    `yaml:"encoding"`
}

// predicateDoc is a loosely-typed node: exactly one of its fields is
// set, mirroring a dictionary-shaped predicate document. Decoding
// into this struct, then walking it once in toPredicate, is the
// normalization step.
type predicateDoc struct {
	Equals    *refDoc         `yaml:"equals"`
	NotEquals *refDoc         `yaml:"not_equals"`
	InSet     *inSetDoc       `yaml:"in_set"`
	And       []*predicateDoc `yaml:"and"`
	Or        []*predicateDoc `yaml:"or"`
	Not       *predicateDoc   `yaml:"not"`
}

type refDoc struct {
	Question string `yaml:"question"`
	Choice   string `yaml:"choice"`
}

type inSetDoc struct {
	Question string   `yaml:"question"`
	Choices  []string `yaml:"choices"`
}

// Load reads and decodes a form definition from path.
func Load(path string) (*formscope.Form, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading form %q: %w", path, err)
	}
	return Decode(b)
}

// Decode parses YAML (or JSON) bytes into a *formscope.Form.
func Decode(b []byte) (*formscope.Form, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parsing form definition: %w", err)
	}

	form := &formscope.Form{Name: doc.Name}
	for i, qd := range doc.Questions {
		q := formscope.Question{
			ID:       qd.ID,
			Position: i,
			Label:    qd.Label,
			Kind:     kindOf(qd.Kind),
		}
		for _, cd := range qd.Choices {
			q.Choices = append(q.Choices, formscope.Choice{
				ID:       cd.ID,
				Label:    cd.Label,
				Encoding: cd.Encoding,
			})
		}
		if qd.When != nil {
			p, err := toPredicate(qd.When)
			if err != nil {
				return nil, fmt.Errorf("question %q: %w", qd.ID, err)
			}
			q.Predicate = p
		}
		form.Questions = append(form.Questions, q)
	}
	return form, nil
}

func kindOf(s string) formscope.DomainKind {
	if s == "freeform" {
		return formscope.DomainFreeform
	}
	return formscope.DomainEnumerated
}

func toPredicate(d *predicateDoc) (formscope.Predicate, error) {
	switch {
	case d.Equals != nil:
		return &formscope.Equals{QuestionID: d.Equals.Question, Choice: d.Equals.Choice}, nil
	case d.NotEquals != nil:
		return &formscope.NotEquals{QuestionID: d.NotEquals.Question, Choice: d.NotEquals.Choice}, nil
	case d.InSet != nil:
		return &formscope.InSet{QuestionID: d.InSet.Question, Choices: d.InSet.Choices}, nil
	case len(d.And) > 0:
		operands, err := toPredicates(d.And)
		if err != nil {
			return nil, err
		}
		return &formscope.And{Operands: operands}, nil
	case len(d.Or) > 0:
		operands, err := toPredicates(d.Or)
		if err != nil {
			return nil, err
		}
		return &formscope.Or{Operands: operands}, nil
	case d.Not != nil:
		operand, err := toPredicate(d.Not)
		if err != nil {
			return nil, err
		}
		return &formscope.Not{Operand: operand}, nil
	default:
		return nil, fmt.Errorf("empty predicate: one of equals/not_equals/in_set/and/or/not is required")
	}
}

func toPredicates(docs []*predicateDoc) ([]formscope.Predicate, error) {
	out := make([]formscope.Predicate, len(docs))
	for i, d := range docs {
		p, err := toPredicate(d)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
