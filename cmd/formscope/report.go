package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitrdm/formscope/internal/formio"
	"github.com/gitrdm/formscope/pkg/formscope"
)

var reportCmd = &cobra.Command{
	Use:   "report [form.yaml]",
	Short: "Print the gating-relationship report for a form (who gates whom)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := formio.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading %q: %w", args[0], err)
		}
		c, err := formscope.Classify(form)
		if err != nil {
			return fmt.Errorf("classifying %q: %w", args[0], err)
		}
		return formio.WriteGatingCSV(os.Stdout, c)
	},
}
