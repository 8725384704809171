package domain

import "time"

// SearchRegion is a validated search box as drawn on the map.
type SearchRegion struct {
	ID           string               `json:"id"`
	Source       string               `json:"source"`
	Bounds       BoundingBox          `json:"bounds"`
	Projected    ProjectedBoundingBox `json:"projected"`
	Ring         []ProjectedPoint     `json:"ring"`
	Complete     string               `json:"complete"`
	WidthMeters  float64              `json:"width_m"`
	HeightMeters float64              `json:"height_m"`
	CreatedAt    time.Time            `json:"created_at"`
}
