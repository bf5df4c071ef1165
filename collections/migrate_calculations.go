package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// MigrateOrphanCalculationsToProjects finds all calculation records that have
// no project assigned and creates a project for each one, linking them
// together. Safe to call on every startup -- returns early if nothing to
// migrate.
func MigrateOrphanCalculationsToProjects(app *pocketbase.PocketBase) error {
	calcsCol, err := app.FindCollectionByNameOrId("calculations")
	if err != nil {
		return fmt.Errorf("migrate: could not find calculations collection: %w", err)
	}

	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("migrate: could not find projects collection: %w", err)
	}

	orphanCalcs, err := app.FindRecordsByFilter(
		calcsCol,
		"project = ''",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query orphan calculations: %w", err)
	}

	if len(orphanCalcs) == 0 {
		return nil
	}

	log.Printf("migrate: found %d orphan calculation(s) without a project -- creating projects...\n", len(orphanCalcs))

	for _, calc := range orphanCalcs {
		calcNumber := calc.GetString("number")

		projectRecord := core.NewRecord(projectsCol)
		projectRecord.Set("name", "Migreret: "+calcNumber)
		projectRecord.Set("customer_name", "")
		projectRecord.Set("reference_number", "")
		projectRecord.Set("status", "active")

		if err := app.Save(projectRecord); err != nil {
			log.Printf("migrate: failed to create project for calculation %s (number %q): %v\n", calc.Id, calcNumber, err)
			continue
		}

		calc.Set("project", projectRecord.Id)
		if err := app.Save(calc); err != nil {
			log.Printf("migrate: failed to link calculation %s to project %s: %v\n", calc.Id, projectRecord.Id, err)
			continue
		}

		log.Printf("migrate: calculation %q -> Project %q (%s)\n", calcNumber, projectRecord.Get("name"), projectRecord.Id)
	}

	log.Println("migrate: orphan calculation migration complete.")
	return nil
}
