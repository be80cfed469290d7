package service

import (
	"context"
	"sort"

	"github.com/quantummesh/impactview/internal/entity"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	arDto "github.com/quantummesh/impactview/internal/modules/ar/dto"
	"github.com/quantummesh/impactview/pkg/geo"
)

// markerRadiusMeters bounds which verified actions are offered to the AR
// overlay; a marker exactly on the boundary is kept.
const markerRadiusMeters = 5000.0

type ARService interface {
	// Markers places all verified, geotagged actions around the viewer.
	Markers(ctx context.Context, viewer arDto.ViewerInput) (*arDto.MarkersResponse, error)
}

type arService struct {
	actions actionRepo.ActionRepository
}

func NewARService(actions actionRepo.ActionRepository) ARService {
	return &arService{actions: actions}
}

func (s *arService) Markers(ctx context.Context, viewer arDto.ViewerInput) (*arDto.MarkersResponse, error) {
	candidates, err := s.actions.FindVerifiedWithCoordinates(ctx)
	if err != nil {
		return nil, err
	}

	markers := PlaceMarkers(candidates, *viewer.Lat, *viewer.Lng, *viewer.Heading, viewer.Width)
	return &arDto.MarkersResponse{
		Markers: markers,
		Total:   len(markers),
	}, nil
}

// PlaceMarkers filters candidates to the viewer's radius, sorts them
// nearest first and projects each onto the screen. Candidates without
// both coordinates are skipped outright.
func PlaceMarkers(candidates []entity.Action, userLat, userLng, heading, width float64) []arDto.Marker {
	markers := make([]arDto.Marker, 0, len(candidates))

	for i := range candidates {
		action := &candidates[i]
		if !action.HasCoordinates() {
			continue
		}

		lat, lng := *action.LocationLat, *action.LocationLng
		distance := geo.Distance(userLat, userLng, lat, lng)
		if distance > markerRadiusMeters {
			continue
		}

		offsetPx, visible := geo.Project(userLat, userLng, heading, lat, lng, width)

		marker := arDto.Marker{
			ActionID:        action.ID,
			Description:     action.Description,
			Lat:             lat,
			Lng:             lng,
			DistanceMeters:  distance,
			DistanceDisplay: geo.FormatDistance(distance),
			Bearing:         geo.Bearing(userLat, userLng, lat, lng),
			ScreenX:         offsetPx,
			Visible:         visible,
		}
		if action.LocationName != nil {
			marker.LocationName = *action.LocationName
		}
		if action.TokensEarned != nil {
			marker.TokensEarned = *action.TokensEarned
		}

		markers = append(markers, marker)
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].DistanceMeters < markers[j].DistanceMeters
	})

	return markers
}
