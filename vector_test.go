package pixiled

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-5

func TestCartesianToSpherical(t *testing.T) {
	testCases := []struct {
		name   string
		vec    Cartesian
		expect Spherical
	}{
		{"x axis", Cartesian{1, 0, 0}, Spherical{1, 0, math.Pi / 2}},
		{"y axis", Cartesian{0, 2, 0}, Spherical{2, math.Pi / 2, math.Pi / 2}},
		{"z axis", Cartesian{0, 0, 3}, Spherical{3, 0, 0}},
		{"negative z axis", Cartesian{0, 0, -1}, Spherical{1, 0, math.Pi}},
		{"negative x axis", Cartesian{-1, 0, 0}, Spherical{1, math.Pi, math.Pi / 2}},
		{"diagonal", Cartesian{1, 1, 0}, Spherical{math.Sqrt2, math.Pi / 4, math.Pi / 2}},
		{"negative y above plane", Cartesian{1, -1, 1}, Spherical{math.Sqrt(3), -math.Pi / 4, math.Atan(math.Sqrt2)}},
		{"positive y below plane", Cartesian{1, 1, -1}, Spherical{math.Sqrt(3), math.Pi / 4, math.Pi - math.Atan(math.Sqrt2)}},
		{"origin", Cartesian{0, 0, 0}, Spherical{0, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.vec.ToSpherical()
			if !near(s.R, tc.expect.R) || !near(s.Theta, tc.expect.Theta) || !near(s.Phi, tc.expect.Phi) {
				t.Errorf("expected %v for %v, got %v", tc.expect, tc.vec, s)
			}
		})
	}
}

func TestCartesianToCylindrical(t *testing.T) {
	testCases := []struct {
		name   string
		vec    Cartesian
		expect Cylindrical
	}{
		{"x axis", Cartesian{1, 0, 0}, Cylindrical{1, 0, 0}},
		{"raised y axis", Cartesian{0, 2, 5}, Cylindrical{2, math.Pi / 2, 5}},
		{"negative x", Cartesian{-3, 0, -1}, Cylindrical{3, math.Pi, -1}},
		{"on axis", Cartesian{0, 0, 4}, Cylindrical{0, 0, 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.vec.ToCylindrical()
			if !near(c.R, tc.expect.R) || !near(c.Theta, tc.expect.Theta) || !near(c.Z, tc.expect.Z) {
				t.Errorf("expected %v for %v, got %v", tc.expect, tc.vec, c)
			}
		})
	}
}

func TestRoundTrips(t *testing.T) {
	vectors := []Cartesian{
		{1, 2, 3},
		{-1, 2, 3},
		{1, -2, 3},
		{1, 2, -3},
		{-1, -2, -3},
		{1, 1, -1},
		{1, -1, 1},
		{0.5, -7, 0.25},
		{100, 0.001, -42},
		{1, 0, 0},
		{0, 0, -1},
	}

	for _, v := range vectors {
		t.Run(v.String(), func(t *testing.T) {
			checkNearCartesian(t, v.ToSpherical().ToCartesian(), v)
			checkNearCartesian(t, v.ToCylindrical().ToCartesian(), v)
			checkNearCartesian(t, v.ToSpherical().ToCylindrical().ToCartesian(), v)
			checkNearCartesian(t, v.ToCylindrical().ToSpherical().ToCartesian(), v)
		})
	}
}

func FuzzSphericalRoundTrip(f *testing.F) {
	f.Add(1.0, 2.0, 3.0)
	f.Add(-1.0, 0.5, -4.0)
	f.Add(0.0, 0.0, 1.0)
	f.Add(3.0, -3.0, 0.0)
	f.Fuzz(func(t *testing.T, x, y, z float64) {
		v := Cartesian{x, y, z}
		if !saneVector(v) {
			t.Skip()
		}
		back := v.ToSpherical().ToCartesian()
		if math.Abs(back.X-x) > tolerance || math.Abs(back.Y-y) > tolerance || math.Abs(back.Z-z) > tolerance {
			t.Errorf("expected %v after spherical round trip, got %v", v, back)
		}
	})
}

func FuzzCylindricalRoundTrip(f *testing.F) {
	f.Add(1.0, 2.0, 3.0)
	f.Add(-1.0, 0.5, -4.0)
	f.Add(0.0, 0.0, 1.0)
	f.Fuzz(func(t *testing.T, x, y, z float64) {
		v := Cartesian{x, y, z}
		if !saneVector(v) {
			t.Skip()
		}
		back := v.ToCylindrical().ToCartesian()
		if math.Abs(back.X-x) > tolerance || math.Abs(back.Y-y) > tolerance || math.Abs(back.Z-z) > tolerance {
			t.Errorf("expected %v after cylindrical round trip, got %v", v, back)
		}
	})
}

func FuzzAddAngle(f *testing.F) {
	f.Add(0.0, 1.0)
	f.Add(6.0, 1.0)
	f.Add(0.0, -1e12)
	f.Add(-3.0, -2*math.Pi)
	f.Add(1.0, 1e15)
	f.Fuzz(func(t *testing.T, start, angle float64) {
		if math.IsNaN(start+angle) || math.IsInf(start+angle, 0) {
			t.Skip()
		}
		for _, axis := range []Axis{Theta, Phi} {
			s := Spherical{R: 1, Theta: start, Phi: start}
			if err := s.AddAngle(axis, angle); err != nil {
				t.Fatal(err)
			}
			got := s.Theta
			if axis == Phi {
				got = s.Phi
			}
			if got < 0 || got >= 2*math.Pi {
				t.Errorf("expected %s in [0, 2pi) after adding %g to %g, got %g", axis, angle, start, got)
			}
		}
	})
}

func TestAddAngleWraps(t *testing.T) {
	s := Spherical{R: 1, Theta: 0.5, Phi: 1}
	if err := s.AddAngle(Theta, -1); err != nil {
		t.Fatal(err)
	}
	if !near(s.Theta, 2*math.Pi-0.5) {
		t.Errorf("expected theta %g, got %g", 2*math.Pi-0.5, s.Theta)
	}
	if err := s.AddAngle(Phi, 2*math.Pi+0.25); err != nil {
		t.Fatal(err)
	}
	if !near(s.Phi, 1.25) {
		t.Errorf("expected phi 1.25, got %g", s.Phi)
	}

	var paramErr *InvalidParameterError
	if err := s.AddAngle(Axis(7), 1); !errors.As(err, &paramErr) {
		t.Errorf("expected invalid parameter error for unknown axis, got %v", err)
	}
}

func TestCartesianArithmetic(t *testing.T) {
	a := Cartesian{1, 2, 3}
	b := Cartesian{-4, 0.5, 10}

	if a.Add(b) != b.Add(a) {
		t.Errorf("expected addition to commute, got %v and %v", a.Add(b), b.Add(a))
	}
	if sum := a.Add(b); sum != (Cartesian{-3, 2.5, 13}) {
		t.Errorf("expected sum [-3, 2.5, 13], got %v", sum)
	}
	if diff := a.Sub(b); diff != (Cartesian{5, 1.5, -7}) {
		t.Errorf("expected difference [5, 1.5, -7], got %v", diff)
	}
	if a.RSub(b) != a.Sub(b) {
		t.Errorf("expected reversed subtraction to resolve to %v, got %v", a.Sub(b), a.RSub(b))
	}
	if !near((Cartesian{3, 4, 12}).Magnitude(), 13) {
		t.Errorf("expected magnitude 13, got %g", (Cartesian{3, 4, 12}).Magnitude())
	}
}

func TestVectorEquality(t *testing.T) {
	if !(Cartesian{1, 2, 3}).Equal(Cartesian{1, 2, 3}) {
		t.Errorf("expected identical vectors to be equal")
	}
	if (Cartesian{1, 2, 3}).Equal(Cartesian{1, 2, 3.0000001}) {
		t.Errorf("expected equality to be exact")
	}
	if !(Cylindrical{0, 0, 2}).Equal(Cartesian{0, 0, 2}) {
		t.Errorf("expected cylindrical and cartesian views of one point to be equal")
	}
	if !(Spherical{0, 1, 2}).Equal(Cartesian{0, 0, 0}) {
		t.Errorf("expected zero radius to equal the origin")
	}
}

func TestNonzero(t *testing.T) {
	testCases := []struct {
		in     float64
		expect float64
	}{
		{0, Epsilon},
		{1e-12, Epsilon},
		{-1e-12, -Epsilon},
		{2, 2},
		{-2, -2},
	}
	for _, tc := range testCases {
		if got := nonzero(tc.in); got != tc.expect {
			t.Errorf("expected nonzero(%g) = %g, got %g", tc.in, tc.expect, got)
		}
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func saneVector(v Cartesian) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) || math.Abs(c) > 1e3 {
			return false
		}
	}
	return true
}

func checkNearCartesian(t *testing.T, actual Cartesian, expect Cartesian) {
	t.Helper()
	if !near(actual.X, expect.X) || !near(actual.Y, expect.Y) || !near(actual.Z, expect.Z) {
		t.Errorf("expected %v, got %v", expect, actual)
	}
}
