package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type calculationListItem struct {
	ID          string  `json:"id"`
	Number      string  `json:"number"`
	Status      string  `json:"status"`
	FinalAmount float64 `json:"final_amount"`
	DBPerHour   float64 `json:"db_per_hour"`
	Created     string  `json:"created"`
}

// HandleCalculationList returns every calculation under a project, newest first.
func HandleCalculationList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return apiError(e, http.StatusNotFound, "Project not found")
		}

		records, err := app.FindRecordsByFilter(
			"calculations",
			"project = {:projectId}",
			"-created",
			0,
			0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			log.Printf("calculation_list: could not query calculations: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		items := make([]calculationListItem, 0, len(records))
		for _, rec := range records {
			items = append(items, calculationListItem{
				ID:          rec.Id,
				Number:      rec.GetString("number"),
				Status:      rec.GetString("status"),
				FinalAmount: rec.GetFloat("final_amount"),
				DBPerHour:   rec.GetFloat("db_per_hour"),
				Created:     rec.GetDateTime("created").Time().Format("2006-01-02"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"calculations": items})
	}
}
