package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatCalculationNumber constructs the calculation number string from its
// components. Uses "-" as separator to avoid conflicts with reference numbers
// that contain "/".
func formatCalculationNumber(projectRef string, year int, sequence int) string {
	return fmt.Sprintf("KALK-%s-%d-%03d", projectRef, year, sequence)
}

// GenerateCalculationNumber creates the next calculation number for a project.
// Format: KALK-{project_ref}-{year}-{sequence}
//   - project_ref: the project's reference_number (falls back to project id)
//   - year: calendar year
//   - sequence: 3-digit zero-padded, per project per year
func GenerateCalculationNumber(app *pocketbase.PocketBase, projectID string, now time.Time) (string, error) {
	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return "", fmt.Errorf("project not found: %w", err)
	}

	projectRef := project.GetString("reference_number")
	if projectRef == "" {
		projectRef = projectID
	}

	year := now.Year()
	prefix := fmt.Sprintf("KALK-%s-%d-", projectRef, year)

	existing, err := app.FindRecordsByFilter(
		"calculations",
		"project = {:projectId} && number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"projectId": projectID,
			"prefix":    prefix + "%",
		},
	)
	if err != nil {
		existing = nil
	}

	nextSeq := len(existing) + 1

	return formatCalculationNumber(projectRef, year, nextSeq), nil
}
