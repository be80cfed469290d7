package geo

import (
	"math"
	"testing"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{89.9, 179.9},
	}
	for _, p := range points {
		if d := Distance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("Distance of point to itself = %v, want 0", d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	ab := Distance(51.5074, -0.1278, 48.8566, 2.3522)
	ba := Distance(48.8566, 2.3522, 51.5074, -0.1278)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestDistanceOneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is ~111,195 m on a sphere
	// of radius 6,371,000 m.
	d := Distance(0, 0, 0, 1)
	want := 111195.0
	if math.Abs(d-want)/want > 0.01 {
		t.Errorf("Distance(0,0 -> 0,1) = %v, want ~%v (±1%%)", d, want)
	}
}

func TestBearingRange(t *testing.T) {
	cases := [][4]float64{
		{0, 0, 1, 0},    // due north
		{0, 0, -1, 0},   // due south
		{0, 0, 0, 1},    // due east
		{0, 0, 0, -1},   // due west
		{52.2, 0.1, 48.8, 2.3},
		{-33.9, 151.2, 35.7, 139.7},
	}
	for _, c := range cases {
		b := Bearing(c[0], c[1], c[2], c[3])
		if b < 0 || b >= 360 {
			t.Errorf("Bearing(%v) = %v, want [0,360)", c, b)
		}
	}
}

func TestBearingCardinalDirections(t *testing.T) {
	if b := Bearing(0, 0, 1, 0); math.Abs(b-0) > 1e-9 {
		t.Errorf("bearing due north = %v, want 0", b)
	}
	if b := Bearing(0, 0, 0, 1); math.Abs(b-90) > 1e-9 {
		t.Errorf("bearing due east = %v, want 90", b)
	}
	if b := Bearing(0, 0, -1, 0); math.Abs(b-180) > 1e-9 {
		t.Errorf("bearing due south = %v, want 180", b)
	}
	if b := Bearing(0, 0, 0, -1); math.Abs(b-270) > 1e-9 {
		t.Errorf("bearing due west = %v, want 270", b)
	}
}

func TestProjectDeadCenter(t *testing.T) {
	// Target due north, viewer facing north: marker lands mid-screen.
	offset, visible := Project(0, 0, 0, 1, 0, 400)
	if !visible {
		t.Fatal("target straight ahead should be visible")
	}
	if math.Abs(offset-200) > 1e-9 {
		t.Errorf("offset = %v, want 200 (viewport center)", offset)
	}
}

func TestProjectVisibilityCone(t *testing.T) {
	// Target due east of the viewer; sweep the heading so the relative
	// bearing crosses the 45° cone edge.
	cases := []struct {
		heading float64
		visible bool
	}{
		{90, true},    // rel 0
		{46, true},    // rel 44
		{45.0001, true},
		{45, false},   // rel exactly 45: outside
		{135, false},  // rel exactly -45: outside
		{134, true},   // rel -44
		{270, false},  // rel 180 -> behind
	}
	for _, c := range cases {
		_, visible := Project(0, 0, c.heading, 0, 1, 400)
		if visible != c.visible {
			t.Errorf("heading %v: visible = %v, want %v", c.heading, visible, c.visible)
		}
	}
}

func TestProjectWraparoundNormalization(t *testing.T) {
	// Target bearing 10°, heading 350°: raw relative bearing -340 must
	// normalize to +20 and land right of center.
	offset, visible := Project(0, 0, 350, 1, 0.1763, 400)
	if !visible {
		t.Fatal("target 20° off heading should be visible")
	}
	if offset <= 200 {
		t.Errorf("offset = %v, want > 200 (right of center)", offset)
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "0m"},
		{950, "950m"},
		{999.4, "999m"},
		{1000, "1.0km"},
		{1500, "1.5km"},
		{12340, "12.3km"},
	}
	for _, c := range cases {
		if got := FormatDistance(c.meters); got != c.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", c.meters, got, c.want)
		}
	}
}
