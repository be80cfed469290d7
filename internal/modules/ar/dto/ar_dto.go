package dto

import "github.com/google/uuid"

// ViewerInput is the device's pose: where the viewer stands, which way
// the camera points, and how wide the screen is. Pointers distinguish a
// genuinely missing field from a legitimate zero (equator, due north).
type ViewerInput struct {
	Lat     *float64 `form:"lat" binding:"required,latitude"`
	Lng     *float64 `form:"lng" binding:"required,longitude"`
	Heading *float64 `form:"heading" binding:"required,min=0,max=360"`
	Width   float64  `form:"width,default=390" binding:"min=1"`
}

// Marker is one placed AR overlay element.
type Marker struct {
	ActionID        uuid.UUID `json:"action_id"`
	Description     string    `json:"description"`
	LocationName    string    `json:"location_name,omitempty"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	DistanceMeters  float64   `json:"distance_meters"`
	DistanceDisplay string    `json:"distance_display"`
	Bearing         float64   `json:"bearing"`
	ScreenX         float64   `json:"screen_x"`
	Visible         bool      `json:"visible"`
	TokensEarned    int       `json:"tokens_earned"`
}

type MarkersResponse struct {
	Markers []Marker `json:"markers"`
	// Candidates within range, including ones currently outside the
	// field of view.
	Total int `json:"total"`
}
