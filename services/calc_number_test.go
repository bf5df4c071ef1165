package services

import (
	"testing"
	"time"
)

func TestFormatCalculationNumber(t *testing.T) {
	tests := []struct {
		name       string
		projectRef string
		year       int
		sequence   int
		want       string
	}{
		{"first of year", "25-0042", 2026, 1, "KALK-25-0042-2026-001"},
		{"double digit sequence", "25-0042", 2026, 12, "KALK-25-0042-2026-012"},
		{"triple digit sequence", "REF", 2025, 123, "KALK-REF-2025-123"},
		{"ref with slash kept verbatim", "25/17", 2026, 2, "KALK-25/17-2026-002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatCalculationNumber(tt.projectRef, tt.year, tt.sequence)
			if got != tt.want {
				t.Errorf("formatCalculationNumber(%q, %d, %d) = %q, want %q",
					tt.projectRef, tt.year, tt.sequence, got, tt.want)
			}
		})
	}
}

func TestGenerateCalculationNumber_SequencesPerProject(t *testing.T) {
	app := newServiceTestApp(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	project := createProjectRecord(t, app, "Sekvens test", "26-0001")

	first, err := GenerateCalculationNumber(app, project.Id, now)
	if err != nil {
		t.Fatalf("GenerateCalculationNumber() error: %v", err)
	}
	if first != "KALK-26-0001-2026-001" {
		t.Errorf("first number = %q, want KALK-26-0001-2026-001", first)
	}

	saveCalculationRecord(t, app, project.Id, first)

	second, err := GenerateCalculationNumber(app, project.Id, now)
	if err != nil {
		t.Fatalf("GenerateCalculationNumber() error: %v", err)
	}
	if second != "KALK-26-0001-2026-002" {
		t.Errorf("second number = %q, want KALK-26-0001-2026-002", second)
	}
}

func TestGenerateCalculationNumber_FallsBackToProjectID(t *testing.T) {
	app := newServiceTestApp(t)
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	project := createProjectRecord(t, app, "Uden reference", "")

	number, err := GenerateCalculationNumber(app, project.Id, now)
	if err != nil {
		t.Fatalf("GenerateCalculationNumber() error: %v", err)
	}
	want := "KALK-" + project.Id + "-2026-001"
	if number != want {
		t.Errorf("number = %q, want %q", number, want)
	}
}

func TestGenerateCalculationNumber_UnknownProject(t *testing.T) {
	app := newServiceTestApp(t)

	_, err := GenerateCalculationNumber(app, "missing123456", time.Now())
	if err == nil {
		t.Fatal("expected error for unknown project")
	}
}
