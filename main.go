package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kalkia/collections"
	"kalkia/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateOrphanCalculationsToProjects(app); err != nil {
			log.Printf("Warning: calculation migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Apply active project middleware globally
		se.Router.BindFunc(handlers.ActiveProjectMiddleware(app))

		// ── Project activation ───────────────────────────────────
		se.Router.POST("/projects/{id}/activate", handlers.HandleProjectActivate(app))
		se.Router.POST("/projects/deactivate", handlers.HandleProjectDeactivate(app))

		// ── Project CRUD ─────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.POST("/projects", handlers.HandleProjectSave(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app))

		// ── Calculations ─────────────────────────────────────────
		se.Router.POST("/projects/{projectId}/calculations", handlers.HandleCalculationCreate(app))
		se.Router.GET("/projects/{projectId}/calculations", handlers.HandleCalculationList(app))

		// Export (must be before the bare {id} route)
		se.Router.GET("/projects/{projectId}/calculations/{id}/export/excel", handlers.HandleCalculationExportExcel(app))
		se.Router.GET("/projects/{projectId}/calculations/{id}/export/pdf", handlers.HandleCalculationExportPDF(app))

		se.Router.GET("/projects/{projectId}/calculations/{id}", handlers.HandleCalculationView(app))
		se.Router.DELETE("/projects/{projectId}/calculations/{id}", handlers.HandleCalculationDelete(app))

		// ── Suppliers ────────────────────────────────────────────
		se.Router.GET("/suppliers", handlers.HandleSupplierList(app))
		se.Router.POST("/suppliers/refresh-prices", handlers.HandleSupplierRefreshAll(app))
		se.Router.POST("/suppliers/{id}/refresh-prices", handlers.HandleSupplierRefreshOne(app))

		// ── Legacy calculation redirects ─────────────────────────
		se.Router.GET("/calculations", func(e *core.RequestEvent) error {
			activeProject := handlers.GetActiveProject(e.Request)
			if activeProject != nil {
				return e.Redirect(http.StatusFound, fmt.Sprintf("/projects/%s/calculations", activeProject.ID))
			}
			return e.Redirect(http.StatusFound, "/projects")
		})

		se.Router.GET("/calculations/{id}", func(e *core.RequestEvent) error {
			calcID := e.Request.PathValue("id")
			calc, err := app.FindRecordById("calculations", calcID)
			if err != nil {
				return e.String(http.StatusNotFound, "Calculation not found")
			}
			projectID := calc.GetString("project")
			if projectID == "" {
				return e.String(http.StatusNotFound, "Calculation has no project")
			}
			return e.Redirect(http.StatusFound, fmt.Sprintf("/projects/%s/calculations/%s", projectID, calcID))
		})

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
