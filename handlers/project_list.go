package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type projectItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ReferenceNumber string `json:"reference_number"`
	CustomerName    string `json:"customer_name"`
	Status          string `json:"status"`
	Calculations    int    `json:"calculations"`
}

// HandleProjectList returns all projects with their calculation counts.
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_list: could not find projects collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		records, err := app.FindRecordsByFilter(projectsCol, "id != ''", "-created", 0, 0, nil)
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		items := make([]projectItem, 0, len(records))
		for _, rec := range records {
			calcs, err := app.FindRecordsByFilter(
				"calculations",
				"project = {:projectId}",
				"", 0, 0,
				map[string]any{"projectId": rec.Id},
			)
			if err != nil {
				log.Printf("project_list: could not count calculations for %s: %v", rec.Id, err)
			}
			items = append(items, projectItem{
				ID:              rec.Id,
				Name:            rec.GetString("name"),
				ReferenceNumber: rec.GetString("reference_number"),
				CustomerName:    rec.GetString("customer_name"),
				Status:          rec.GetString("status"),
				Calculations:    len(calcs),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"projects": items})
	}
}

// HandleProjectView returns a single project.
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Project not found")
		}

		return e.JSON(http.StatusOK, projectItem{
			ID:              rec.Id,
			Name:            rec.GetString("name"),
			ReferenceNumber: rec.GetString("reference_number"),
			CustomerName:    rec.GetString("customer_name"),
			Status:          rec.GetString("status"),
		})
	}
}
