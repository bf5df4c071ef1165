package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kalkia/testhelpers"
)

func TestHandleSupplierRefreshOne_UnknownSupplier(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleSupplierRefreshOne(app)

	req := httptest.NewRequest(http.MethodPost, "/suppliers/missing123456/refresh-prices", nil)
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

func TestHandleSupplierRefreshAll_NoSuppliers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleSupplierRefreshAll(app)

	req := httptest.NewRequest(http.MethodPost, "/suppliers/refresh-prices", nil)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), `"suppliers":0`)
}

func TestHandleSupplierRefreshAll_UnreachableAPIReported(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Points at a closed local port, so the fetch fails fast and lands in the
	// report instead of failing the request.
	supplier := testhelpers.CreateTestSupplier(t, app, "Solar A/S", "http://127.0.0.1:1/prices")
	testhelpers.CreateTestSupplierProduct(t, app, supplier.Id, "SKU-1", 30)

	handler := HandleSupplierRefreshAll(app)

	req := httptest.NewRequest(http.MethodPost, "/suppliers/refresh-prices", nil)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertJSONContains(t, rec.Body.String(), `"failed":1`)
}
