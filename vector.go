package pixiled

import (
	"fmt"
	"math"
)

// Denominators smaller than this are replaced by a signed Epsilon so that the
// conversions between representations are total functions.
const Epsilon float64 = 1e-9

const twoPi = 2 * math.Pi

// Anything that can report its position as a cartesian vector. All the vector
// representations implement it, and so does Coordinate (with its global view).
type Cartesianer interface {
	ToCartesian() Cartesian
}

// A point expressed in any of the three representations, convertible to the
// other two.
type Vector interface {
	Cartesianer
	ToSpherical() Spherical
	ToCylindrical() Cylindrical
}

// nonzero keeps v away from zero while preserving its sign.
func nonzero(v float64) float64 {
	if math.Abs(v) >= Epsilon {
		return v
	}
	if v < 0 {
		return -Epsilon
	}
	return Epsilon
}

// floorMod reduces v into [0, m), unlike math.Mod which keeps the sign of v.
func floorMod(v float64, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

// A point or displacement in a right-handed cartesian frame.
type Cartesian struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func NewCartesian(x, y, z float64) Cartesian {
	return Cartesian{X: x, Y: y, Z: z}
}

// Component-wise sum. The operation is commutative.
func (v Cartesian) Add(o Cartesian) Cartesian {
	return Cartesian{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Component-wise difference v - o.
func (v Cartesian) Sub(o Cartesian) Cartesian {
	return Cartesian{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Reversed subtraction as the legacy pattern code sees it: the reversed form
// resolves to the forward one, so RSub returns v - o and not o - v.
func (v Cartesian) RSub(o Cartesian) Cartesian {
	return v.Sub(o)
}

// Exact component equality against anything with a cartesian view.
func (v Cartesian) Equal(o Cartesianer) bool {
	return v == o.ToCartesian()
}

func (v Cartesian) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Cartesian) ToCartesian() Cartesian {
	return v
}

// Converts to (r, theta, phi). theta is measured in the xy-plane from +x and
// lies in (-pi/2, 3pi/2); phi is the polar angle from +z and lies in [0, pi].
func (v Cartesian) ToSpherical() Spherical {
	r := v.Magnitude()
	theta := math.Atan(v.Y / nonzero(v.X))
	phi := math.Atan(math.Sqrt(v.X*v.X+v.Y*v.Y) / nonzero(v.Z))

	// keyed on z, not on y as the legacy conversion did; the y rule sends
	// (1, 1, -1) back to z = +1
	if v.Z < 0 {
		phi += math.Pi
	}
	if v.X < 0 {
		theta += math.Pi
	}
	return Spherical{R: r, Theta: theta, Phi: phi}
}

func (v Cartesian) ToCylindrical() Cylindrical {
	r := math.Sqrt(v.X*v.X + v.Y*v.Y)
	theta := math.Atan(v.Y / nonzero(v.X))
	if v.X < 0 {
		theta += math.Pi
	}
	return Cylindrical{R: r, Theta: theta, Z: v.Z}
}

func (v Cartesian) String() string {
	return fmt.Sprintf("[x: %g, y: %g, z: %g]", v.X, v.Y, v.Z)
}

// A point as radius, azimuth theta and polar angle phi, angles in radians.
type Spherical struct {
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
}

func NewSpherical(r, theta, phi float64) Spherical {
	return Spherical{R: r, Theta: theta, Phi: phi}
}

// Adds angle to the named component and wraps the result into [0, 2pi).
func (s *Spherical) AddAngle(axis Axis, angle float64) error {
	switch axis {
	case Theta:
		s.Theta = floorMod(s.Theta+angle, twoPi)
	case Phi:
		s.Phi = floorMod(s.Phi+angle, twoPi)
	default:
		return NewInvalidParameterError("axis", axis.String())
	}
	return nil
}

// The xy magnitude uses phi reduced into [0, pi) while z uses phi as stored,
// so a polar angle past pi folds back over the pole instead of crossing it.
func (s Spherical) ToCartesian() Cartesian {
	sinPhi := math.Sin(floorMod(s.Phi, math.Pi))
	return Cartesian{
		X: s.R * sinPhi * math.Cos(s.Theta),
		Y: s.R * sinPhi * math.Sin(s.Theta),
		Z: s.R * math.Cos(s.Phi),
	}
}

func (s Spherical) ToSpherical() Spherical {
	return s
}

func (s Spherical) ToCylindrical() Cylindrical {
	return s.ToCartesian().ToCylindrical()
}

func (s Spherical) Equal(o Cartesianer) bool {
	return s.ToCartesian() == o.ToCartesian()
}

func (s Spherical) String() string {
	return fmt.Sprintf("[r: %g, theta: %g, phi: %g]", s.R, s.Theta, s.Phi)
}

// A point as radius and azimuth in the xy-plane plus a height.
type Cylindrical struct {
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
	Z     float64 `json:"z"`
}

func NewCylindrical(r, theta, z float64) Cylindrical {
	return Cylindrical{R: r, Theta: theta, Z: z}
}

func (c Cylindrical) ToCartesian() Cartesian {
	return Cartesian{
		X: c.R * math.Cos(c.Theta),
		Y: c.R * math.Sin(c.Theta),
		Z: c.Z,
	}
}

func (c Cylindrical) ToSpherical() Spherical {
	return c.ToCartesian().ToSpherical()
}

func (c Cylindrical) ToCylindrical() Cylindrical {
	return c
}

func (c Cylindrical) Equal(o Cartesianer) bool {
	return c.ToCartesian() == o.ToCartesian()
}

func (c Cylindrical) String() string {
	return fmt.Sprintf("[r: %g, theta: %g, z: %g]", c.R, c.Theta, c.Z)
}
