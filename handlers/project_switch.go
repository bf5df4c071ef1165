package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectActivate sets the active project cookie so legacy routes can
// resolve the project without an explicit id.
func HandleProjectActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		// Verify project exists
		_, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Project not found")
		}

		// Set cookie (30-day expiry, HttpOnly)
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_project",
			Value:    projectID,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		return e.JSON(http.StatusOK, map[string]string{"active_project": projectID})
	}
}

// HandleProjectDeactivate clears the active project cookie.
func HandleProjectDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		http.SetCookie(e.Response, &http.Cookie{
			Name:   "active_project",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})

		return e.JSON(http.StatusOK, map[string]string{"active_project": ""})
	}
}
