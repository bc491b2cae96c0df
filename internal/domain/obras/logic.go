package obras

import "errors"

var ErrInvalidCoordinates = errors.New("coordinates out of range")

// ClampProgress keeps a reported percentage inside 0..100.
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// ValidateCoordinates checks a marker position. (0,0) is treated as
// "no position recorded" and excluded from the map rather than drawn
// in the Gulf of Guinea.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

func HasPosition(lat, lng float64) bool {
	return lat != 0 || lng != 0
}

// Markers projects the mappable subset of projects.
func Markers(projects []Project) []Marker {
	out := make([]Marker, 0, len(projects))
	for _, p := range projects {
		if !HasPosition(p.Latitude, p.Longitude) {
			continue
		}
		out = append(out, Marker{
			ID:        p.ID,
			Name:      p.Name,
			Status:    p.Status,
			Progress:  p.Progress,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
	}
	return out
}
