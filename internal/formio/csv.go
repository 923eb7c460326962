package formio

import (
	"encoding/csv"
	"io"

	"github.com/gitrdm/formscope/pkg/formscope"
)

// WriteGatingCSV renders the gating relationships the Classifier
// found under a question,gated_by,role header: one row per (gated
// question, gate it depends on) pair, and one row with an empty
// gated_by for each question nothing gates. role is test_variable or
// data_collection.
func WriteGatingCSV(w io.Writer, c *formscope.Classification) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"question", "gated_by", "role"}); err != nil {
		return err
	}
	for i := range c.Form.Questions {
		q := &c.Form.Questions[i]
		role := "data_collection"
		if c.IsTestVariable(q.ID) {
			role = "test_variable"
		}
		gates := c.Reverse[q.ID]
		if len(gates) == 0 {
			if err := cw.Write([]string{q.ID, "", role}); err != nil {
				return err
			}
			continue
		}
		for _, gate := range gates {
			if err := cw.Write([]string{q.ID, gate, role}); err != nil {
				return err
			}
		}
	}
	return cw.Error()
}
