package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/solver"
)

func newGenerateCmd() *cobra.Command {
	var sectionIDs []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Solve a fresh timetable and persist it as a new version",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.close()

			svc := e.newOrchestrator(nil)

			ctx := context.Background()
			var version *domain.TimetableVersion
			var result solver.Result
			if len(sectionIDs) > 0 {
				version, result, err = svc.GeneratePartial(ctx, sectionIDs)
			} else {
				version, result, err = svc.GenerateFull(ctx)
			}
			if err != nil {
				return err
			}

			if err := printJSON(map[string]interface{}{"version": version, "result": result}); err != nil {
				return err
			}
			if !result.Feasible {
				return fmt.Errorf("generation infeasible: %s (%s)", result.Reason, result.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&sectionIDs, "sections", nil, "restrict regeneration to these section ids (partial mode); omit for a full regeneration")
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
