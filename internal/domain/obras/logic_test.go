package obras

import "testing"

func TestClampProgress(t *testing.T) {
	if got := ClampProgress(-5); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := ClampProgress(150); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := ClampProgress(42); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestValidateCoordinates(t *testing.T) {
	if err := ValidateCoordinates(-23.55, -46.63); err != nil {
		t.Fatalf("valid coordinates rejected: %v", err)
	}
	if err := ValidateCoordinates(91, 0); err != ErrInvalidCoordinates {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
	if err := ValidateCoordinates(0, -181); err != ErrInvalidCoordinates {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestMarkersSkipUnpositionedProjects(t *testing.T) {
	projects := []Project{
		{ID: "1", Name: "Ponte", Latitude: -23.5, Longitude: -46.6},
		{ID: "2", Name: "Sem posição"},
	}
	markers := Markers(projects)
	if len(markers) != 1 || markers[0].ID != "1" {
		t.Fatalf("expected only the positioned project, got %v", markers)
	}
}
