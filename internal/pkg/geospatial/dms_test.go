package geospatial

import (
	"errors"
	"math"
	"testing"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		d, m, s float64
		want    float64
	}{
		{45, 30, 0, 45.5},
		{0, 0, 0, 0},
		{10, 0, 36, 10.01},
		{179, 59, 59.999, 179 + 59.0/60 + 59.999/3600},
	}
	for _, tt := range tests {
		got := ToDecimal(tt.d, tt.m, tt.s)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ToDecimal(%v, %v, %v) = %v, want %v", tt.d, tt.m, tt.s, got, tt.want)
		}
	}
}

func TestToDMS(t *testing.T) {
	tests := []struct {
		in   float64
		want DMS
	}{
		{45.5, DMS{Degrees: 45, Minutes: 30, Seconds: 0}},
		{-45.5, DMS{Degrees: 45, Minutes: 30, Seconds: 0}},
		{0, DMS{}},
		{12.3456, DMS{Degrees: 12, Minutes: 20, Seconds: 44}},
	}
	for _, tt := range tests {
		got := ToDMS(tt.in)
		if got != tt.want {
			t.Errorf("ToDMS(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestToDMS_SecondsMayReachSixty(t *testing.T) {
	// 1°59'59.8" rounds the seconds up without carrying into minutes.
	got := ToDMS(1 + 59.0/60 + 59.8/3600)
	if got.Degrees != 1 || got.Minutes != 59 || got.Seconds != 60 {
		t.Errorf("expected 1°59'60\", got %+v", got)
	}
}

func TestToDMS_RoundTrip(t *testing.T) {
	for d := 0; d <= 179; d += 7 {
		for m := 0; m <= 59; m += 4 {
			for _, s := range []float64{0, 0.4, 15, 29.5, 44.25, 59, 59.999} {
				dec := ToDecimal(float64(d), float64(m), s)
				got := ToDMS(dec)

				if got.Degrees != d {
					t.Fatalf("degrees for %d %d %v: got %d", d, m, s, got.Degrees)
				}
				wantTotal := float64(m)*60 + s
				gotTotal := float64(got.Minutes)*60 + got.Seconds
				if math.Abs(gotTotal-wantTotal) > 1 {
					t.Fatalf("seconds for %d %d %v: got %dm %vs", d, m, s, got.Minutes, got.Seconds)
				}
			}
		}
	}
}

func TestHemisphereOf(t *testing.T) {
	tests := []struct {
		v    float64
		axis Axis
		want Hemisphere
	}{
		{12, Latitude, North},
		{-12, Latitude, South},
		{0, Latitude, North},
		{math.Copysign(0, -1), Latitude, South},
		{12, Longitude, East},
		{-12, Longitude, West},
	}
	for _, tt := range tests {
		if got := HemisphereOf(tt.v, tt.axis); got != tt.want {
			t.Errorf("HemisphereOf(%v, %s) = %s, want %s", tt.v, tt.axis, got, tt.want)
		}
	}
}

func TestSigned(t *testing.T) {
	if got := Signed(12.5, South); got != -12.5 {
		t.Errorf("expected -12.5, got %v", got)
	}
	if got := Signed(-12.5, North); got != 12.5 {
		t.Errorf("expected 12.5, got %v", got)
	}
	if got := Signed(3, West); got != -3 {
		t.Errorf("expected -3, got %v", got)
	}
}

func TestDMS_Decimal(t *testing.T) {
	d := FromDecimal(-33.75, Latitude)
	if d.Hemisphere != South {
		t.Fatalf("expected S, got %s", d.Hemisphere)
	}
	if got := d.Decimal(); got != -33.75 {
		t.Errorf("expected -33.75, got %v", got)
	}

	noHemisphere := DMS{Degrees: 10, Minutes: 30}
	if got := noHemisphere.Decimal(); got != 10.5 {
		t.Errorf("expected 10.5, got %v", got)
	}
}

func TestParseHemisphere(t *testing.T) {
	h, err := ParseHemisphere(" w ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != West || h.Axis() != Longitude {
		t.Errorf("expected W on lon axis, got %s", h)
	}

	if _, err := ParseHemisphere("Q"); !errors.Is(err, ErrUnknownHemisphere) {
		t.Errorf("expected ErrUnknownHemisphere, got %v", err)
	}
}

func TestParseAxis(t *testing.T) {
	for _, in := range []string{"lat", "Latitude"} {
		if a, err := ParseAxis(in); err != nil || a != Latitude {
			t.Errorf("ParseAxis(%q) = %v, %v", in, a, err)
		}
	}
	if _, err := ParseAxis("z"); !errors.Is(err, ErrUnknownAxis) {
		t.Errorf("expected ErrUnknownAxis, got %v", err)
	}
}
