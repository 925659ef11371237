package pixiled

import "math"

// Anything a LocationIndexer may be able to turn into a pixel index of a
// texture: raw indices, grid cells, HEALPix pixels, projected or spherical
// map positions, and the geometry types (Cartesian, Spherical, Cylindrical,
// *Coordinate), which are addressed by their direction from the global zero.
type Location interface{}

type IndexLocation int

type RingLocation int

type NestLocation int

type UniqueLocation int

type GridLocation struct {
	X int
	Y int
}

// A direction on the unit sphere, latitude in [-pi/2, pi/2] and longitude in
// [-pi, pi], both in radians.
type SphericalLocation struct {
	Latitude  float64
	Longitude float64
}

type ProjectedLocation struct {
	X float64
	Y float64
}

// The latitude and longitude of the direction of v. The zero vector maps to
// the point where the equator meets the prime meridian.
func LatLon(v Cartesian) SphericalLocation {
	return SphericalLocation{
		Latitude:  math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y)),
		Longitude: math.Atan2(v.Y, v.X),
	}
}

// directionOf reduces the geometry locations to a spherical location, leaving
// every other location untouched.
func directionOf(loc Location) Location {
	switch val := loc.(type) {
	case Cartesian:
		return LatLon(val)
	case Spherical:
		return LatLon(val.ToCartesian())
	case Cylindrical:
		return LatLon(val.ToCartesian())
	case *Coordinate:
		return LatLon(val.Cartesian(Global))
	}
	return loc
}
