package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kalkia/testhelpers"
)

func TestHandleCalculationDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Sletteprojekt")
	node := testhelpers.CreateTestNode(t, app, "EL1.01", "Stikkontakt", "operation", 900)
	calc := testhelpers.CreateTestCalculation(t, app, project.Id, "KALK-D-2026-001")
	item := testhelpers.CreateTestCalculationItem(t, app, calc.Id, node.Id, 1, 2)

	handler := HandleCalculationDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+project.Id+"/calculations/"+calc.Id, nil)
	req.SetPathValue("projectId", project.Id)
	req.SetPathValue("id", calc.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	if _, err := app.FindRecordById("calculations", calc.Id); err == nil {
		t.Error("calculation should be deleted")
	}
	// Line items cascade.
	if _, err := app.FindRecordById("calculation_items", item.Id); err == nil {
		t.Error("calculation items should cascade-delete")
	}
}

func TestHandleCalculationDelete_WrongProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	owner := testhelpers.CreateTestProject(t, app, "Ejer")
	intruder := testhelpers.CreateTestProject(t, app, "Forkert projekt")
	calc := testhelpers.CreateTestCalculation(t, app, owner.Id, "KALK-D-2026-002")

	handler := HandleCalculationDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+intruder.Id+"/calculations/"+calc.Id, nil)
	req.SetPathValue("projectId", intruder.Id)
	req.SetPathValue("id", calc.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("calculations", calc.Id); err != nil {
		t.Error("foreign calculation must not be deleted")
	}
}

func TestHandleCalculationDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Projekt")

	handler := HandleCalculationDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+project.Id+"/calculations/missing123456", nil)
	req.SetPathValue("projectId", project.Id)
	req.SetPathValue("id", "missing123456")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
