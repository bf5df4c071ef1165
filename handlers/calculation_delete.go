package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleCalculationDelete deletes a calculation. Line items are removed by
// cascade.
func HandleCalculationDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		calc, err := app.FindRecordById("calculations", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Calculation not found")
		}
		if calc.GetString("project") != projectID {
			return apiError(e, http.StatusNotFound, "Calculation not found")
		}

		if err := app.Delete(calc); err != nil {
			log.Printf("calculation_delete: could not delete calculation %s: %v", calc.Id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		return e.JSON(http.StatusOK, map[string]string{"deleted": calc.Id})
	}
}
