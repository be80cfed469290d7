package service

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/quantummesh/impactview/internal/entity"
)

func ptr[T any](v T) *T { return &v }

// roughly 1 degree of longitude at the equator is 111 km; use small
// offsets to stay inside the 5 km radius.
func actionAt(lat, lng float64) entity.Action {
	return entity.Action{
		ID:          uuid.New(),
		Description: "test action",
		LocationLat: ptr(lat),
		LocationLng: ptr(lng),
		Status:      entity.ActionStatusVerified,
	}
}

func TestPlaceMarkersFiltersByRadius(t *testing.T) {
	candidates := []entity.Action{
		actionAt(0, 0.01),  // ~1.1 km east
		actionAt(0, 0.001), // ~111 m east
		actionAt(0, 0.1),   // ~11 km east, out of range
	}

	markers := PlaceMarkers(candidates, 0, 0, 90, 400)
	if len(markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(markers))
	}
	// Nearest first.
	if markers[0].DistanceMeters > markers[1].DistanceMeters {
		t.Errorf("not sorted by distance: %v then %v", markers[0].DistanceMeters, markers[1].DistanceMeters)
	}
	if markers[0].DistanceDisplay != "111m" {
		t.Errorf("display = %q", markers[0].DistanceDisplay)
	}
}

func TestPlaceMarkersBoundaryIsInclusive(t *testing.T) {
	// Find a longitude offset whose distance is just inside 5000m, then
	// verify an exactly-out candidate is dropped.
	in := actionAt(0, 0.0449)  // ~4997 m
	out := actionAt(0, 0.0451) // ~5019 m

	markers := PlaceMarkers([]entity.Action{in, out}, 0, 0, 90, 400)
	if len(markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(markers))
	}
	if markers[0].ActionID != in.ID {
		t.Error("wrong candidate kept")
	}
}

func TestPlaceMarkersSkipsMissingCoordinates(t *testing.T) {
	noCoords := entity.Action{ID: uuid.New(), Description: "untagged"}
	halfCoords := entity.Action{ID: uuid.New(), LocationLat: ptr(0.0)}

	markers := PlaceMarkers([]entity.Action{noCoords, halfCoords, actionAt(0, 0.001)}, 0, 0, 90, 400)
	if len(markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(markers))
	}
}

func TestPlaceMarkersProjection(t *testing.T) {
	// Target due east of the viewer, viewer facing east: dead center.
	markers := PlaceMarkers([]entity.Action{actionAt(0, 0.01)}, 0, 0, 90, 400)
	if len(markers) != 1 {
		t.Fatal("expected one marker")
	}
	m := markers[0]
	if !m.Visible {
		t.Error("dead-ahead marker should be visible")
	}
	if math.Abs(m.ScreenX-200) > 0.5 {
		t.Errorf("screen x = %v, want ~200", m.ScreenX)
	}
	if math.Abs(m.Bearing-90) > 0.5 {
		t.Errorf("bearing = %v, want ~90", m.Bearing)
	}

	// Same target with the viewer facing north: 90° off axis, outside
	// the cone but still listed.
	markers = PlaceMarkers([]entity.Action{actionAt(0, 0.01)}, 0, 0, 0, 400)
	if len(markers) != 1 {
		t.Fatal("expected one marker")
	}
	if markers[0].Visible {
		t.Error("marker 90 degrees off heading must not be visible")
	}
}
