package services

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"kalkia/testhelpers"
)

func newServiceTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()
	return testhelpers.NewTestApp(t)
}

func createProjectRecord(t *testing.T, app *pocketbase.PocketBase, name, referenceNumber string) *core.Record {
	t.Helper()

	record := testhelpers.CreateTestProject(t, app, name)
	if referenceNumber != "" {
		record.Set("reference_number", referenceNumber)
		if err := app.Save(record); err != nil {
			t.Fatalf("failed to set project reference number: %v", err)
		}
	}
	return record
}

func saveCalculationRecord(t *testing.T, app *pocketbase.PocketBase, projectID, number string) *core.Record {
	t.Helper()
	return testhelpers.CreateTestCalculation(t, app, projectID, number)
}
