package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kalkia/services"
)

// findProjectCalculation loads a calculation and verifies project ownership.
func findProjectCalculation(app *pocketbase.PocketBase, projectID, id string) (*core.Record, error) {
	calc, err := app.FindRecordById("calculations", id)
	if err != nil {
		return nil, err
	}
	if calc.GetString("project") != projectID {
		return nil, fmt.Errorf("calculation %s does not belong to project %s", id, projectID)
	}
	return calc, nil
}

// HandleCalculationExportExcel generates and downloads an Excel breakdown of a
// stored calculation.
func HandleCalculationExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing calculation ID")
		}

		if _, err := findProjectCalculation(app, projectID, id); err != nil {
			log.Printf("calculation_export: %v", err)
			return apiError(e, http.StatusNotFound, "Calculation not found")
		}

		data, err := services.BuildCalculationExportData(app, id)
		if err != nil {
			log.Printf("calculation_export: failed to build data: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to build calculation data")
		}

		xlsxBytes, err := services.GenerateCalculationExcel(data)
		if err != nil {
			log.Printf("calculation_export: failed to generate Excel: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel")
		}

		filename := fmt.Sprintf("%s.xlsx", sanitizeFilename(data.Number))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleCalculationExportPDF generates and downloads the quotation PDF for a
// stored calculation.
func HandleCalculationExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing calculation ID")
		}

		if _, err := findProjectCalculation(app, projectID, id); err != nil {
			log.Printf("calculation_export: %v", err)
			return apiError(e, http.StatusNotFound, "Calculation not found")
		}

		data, err := services.BuildCalculationExportData(app, id)
		if err != nil {
			log.Printf("calculation_export: failed to build data: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to build calculation data")
		}

		pdfBytes, err := services.GenerateQuotationPDF(data)
		if err != nil {
			log.Printf("calculation_export: failed to generate PDF: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := fmt.Sprintf("%s.pdf", sanitizeFilename(data.Number))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
