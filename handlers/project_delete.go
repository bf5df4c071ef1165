package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectDelete deletes a project. Calculations under it keep their
// records and are re-attached to a fresh project by the startup migration.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Project not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("project_delete: could not delete project %s: %v", record.Id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		return e.JSON(http.StatusOK, map[string]string{"deleted": record.Id})
	}
}
