package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusforge/ttcore/internal/integrity"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Run the integrity verifier over the current dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := context.Background()
			faculty, err := e.reader.ListFaculty(ctx)
			if err != nil {
				return fmt.Errorf("load faculty: %w", err)
			}
			courses, err := e.reader.ListCourses(ctx)
			if err != nil {
				return fmt.Errorf("load courses: %w", err)
			}
			rooms, err := e.reader.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("load rooms: %w", err)
			}
			sections, err := e.reader.ListSections(ctx)
			if err != nil {
				return fmt.Errorf("load sections: %w", err)
			}
			requirements, err := e.reader.ListRequirements(ctx)
			if err != nil {
				return fmt.Errorf("load requirements: %w", err)
			}

			verifier := integrity.NewVerifier(e.cfg.Integrity.MinCompletenessScore)
			report := verifier.VerifyAll(faculty, courses, rooms, sections, requirements)

			if err := printJSON(report); err != nil {
				return err
			}
			if !report.IsHealthy {
				return fmt.Errorf("dataset failed integrity verification: %s", report.Summary)
			}
			return nil
		},
	}
}
