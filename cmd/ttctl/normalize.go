package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusforge/ttcore/internal/normalization"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Analyze faculty and course names for near-duplicate clusters",
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

			facultyNames := make([]string, len(faculty))
			for i, f := range faculty {
				facultyNames[i] = f.Name
			}
			courseNames := make([]string, len(courses))
			for i, c := range courses {
				courseNames[i] = c.Name
			}

			agent := normalization.NewAgent(e.cfg.Normalization.FacultyThreshold, e.cfg.Normalization.CourseThreshold)
			result := agent.Analyze(facultyNames, courseNames, time.Now())
			return printJSON(result)
		},
	}
}
