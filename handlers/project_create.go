package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type projectRequest struct {
	Name            string `json:"name"`
	ReferenceNumber string `json:"reference_number"`
	CustomerName    string `json:"customer_name"`
	Status          string `json:"status"`
}

// HandleProjectSave creates a new project.
func HandleProjectSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req projectRequest
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return apiError(e, http.StatusBadRequest, "Name is required")
		}
		if req.Status == "" {
			req.Status = "active"
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		record := core.NewRecord(col)
		record.Set("name", req.Name)
		record.Set("reference_number", strings.TrimSpace(req.ReferenceNumber))
		record.Set("customer_name", strings.TrimSpace(req.CustomerName))
		record.Set("status", req.Status)

		if err := app.Save(record); err != nil {
			log.Printf("project_create: could not save project: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		return e.JSON(http.StatusCreated, map[string]string{"id": record.Id})
	}
}

// HandleProjectUpdate updates an existing project's fields.
func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Project not found")
		}

		var req projectRequest
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if name := strings.TrimSpace(req.Name); name != "" {
			record.Set("name", name)
		}
		if req.ReferenceNumber != "" {
			record.Set("reference_number", strings.TrimSpace(req.ReferenceNumber))
		}
		if req.CustomerName != "" {
			record.Set("customer_name", strings.TrimSpace(req.CustomerName))
		}
		if req.Status != "" {
			record.Set("status", req.Status)
		}

		if err := app.Save(record); err != nil {
			log.Printf("project_edit: could not save project %s: %v", record.Id, err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong")
		}

		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}
