package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitrdm/formscope/internal/batch"
	"github.com/gitrdm/formscope/pkg/formscope"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Synthesize test plans for every form definition under dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := formDefinitionPaths(args[0])
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no form definitions (.yaml/.yml/.json) found under %q", args[0])
		}

		results := batch.Run(cmd.Context(), paths, cfg.Concurrency, func(ctx context.Context, path string) (*formscope.TestPlan, error) {
			_, plan, err := runPipeline(ctx, path)
			return plan, err
		})

		failures := 0
		for _, r := range results {
			if r.Err != nil {
				failures++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Printf("%s: %d scenarios, %.1f%% coverage\n", r.Path, len(r.Value.Scenarios), r.Value.Summary.CoveragePercent)
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d forms failed", failures, len(results))
		}
		return nil
	},
}

func formDefinitionPaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml", ".json":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", dir, err)
	}
	return paths, nil
}
