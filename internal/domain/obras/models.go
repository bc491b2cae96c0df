package obras

import "time"

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectPaused     ProjectStatus = "paused"
	ProjectCompleted  ProjectStatus = "completed"
)

// Project is a public-works project. Latitude and longitude feed the
// map view; Progress is a 0–100 percentage.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Contractor  string        `json:"contractor"`
	Budget      float64       `json:"budget"`
	Progress    int           `json:"progress"`
	Status      ProjectStatus `json:"status"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	StartDate   time.Time     `json:"startDate"`
	Deadline    time.Time     `json:"deadline"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Marker is the trimmed projection the map endpoint serves.
type Marker struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	Progress  int           `json:"progress"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
}
