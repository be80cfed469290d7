// Package geo provides the great-circle math behind the AR overlay:
// distances and bearings between coordinates, and the projection of a
// geographic point onto a screen-relative horizontal position.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used by the spherical model.
const EarthRadiusMeters = 6371000.0

// fovHalfAngle is half the assumed 90° horizontal field of view.
const fovHalfAngle = 45.0

// Distance returns the Haversine great-circle distance in meters between
// two points given in decimal degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Bearing returns the initial compass bearing in degrees [0,360) from
// point 1 to point 2. Not symmetric.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	theta := math.Atan2(y, x)

	return math.Mod(theta*180/math.Pi+360, 360)
}

// Project maps a target coordinate to a horizontal screen offset for a
// viewer at (userLat, userLon) facing headingDeg. The mapping is linear
// over a 90° field of view: a target dead ahead lands at width/2.
// The offset is only meaningful when visible is true; callers must not
// render markers outside the cone.
func Project(userLat, userLon, headingDeg, targetLat, targetLon, viewportWidthPx float64) (offsetPx float64, visible bool) {
	bearing := Bearing(userLat, userLon, targetLat, targetLon)

	rel := bearing - headingDeg
	// Normalize into (-180, 180].
	if rel > 180 {
		rel -= 360
	}
	if rel < -180 {
		rel += 360
	}

	visible = math.Abs(rel) < fovHalfAngle
	offsetPx = (rel/fovHalfAngle)*(viewportWidthPx/2) + viewportWidthPx/2

	return offsetPx, visible
}

// FormatDistance renders a distance for display: whole meters below 1 km,
// otherwise kilometers with one decimal.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
