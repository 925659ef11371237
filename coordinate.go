package pixiled

import "fmt"

// A point tracked in two reference frames at once: a fixture-local frame whose
// zero sits at Origin, and the global installation frame. Every view of the
// point (both frames, all three representations) and the distance from each
// frame's zero is cached and kept consistent by every mutating method before
// it returns, so reads on the render path are plain field loads.
//
// A Coordinate is not safe for concurrent mutation; the owning fixture
// serializes access to it.
type Coordinate struct {
	origin      Cartesian
	cartesian   [frameCount]Cartesian
	spherical   [frameCount]Spherical
	cylindrical [frameCount]Cylindrical
	delta       [frameCount]float64
}

// Configures a Coordinate during creation. Exactly one of WithLocalCartesian,
// WithLocalSpherical and WithLocalCylindrical must be given.
type CoordinateOption func(*coordinateOptions)

type coordinateOptions struct {
	origin      Cartesian
	initial     Geometry
	initialized int
	cartesian   Cartesian
	spherical   Spherical
	cylindrical Cylindrical
}

// Places the local frame's zero at origin in the global frame. Defaults to the
// global zero.
func WithOrigin(origin Cartesian) CoordinateOption {
	return func(o *coordinateOptions) {
		o.origin = origin
	}
}

func WithLocalCartesian(v Cartesian) CoordinateOption {
	return func(o *coordinateOptions) {
		o.cartesian = v
		o.initial = CartesianGeometry
		o.initialized++
	}
}

func WithLocalSpherical(v Spherical) CoordinateOption {
	return func(o *coordinateOptions) {
		o.spherical = v
		o.initial = SphericalGeometry
		o.initialized++
	}
}

func WithLocalCylindrical(v Cylindrical) CoordinateOption {
	return func(o *coordinateOptions) {
		o.cylindrical = v
		o.initial = CylindricalGeometry
		o.initialized++
	}
}

// Builds a Coordinate from exactly one local representation, deriving every
// other view immediately.
func NewCoordinate(opts ...CoordinateOption) (*Coordinate, error) {
	var o coordinateOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.initialized != 1 {
		return nil, NewConfigError("coordinate", fmt.Sprintf(
			"must initialise with exactly one of cartesian, spherical, or cylindrical, got %d", o.initialized))
	}

	c := &Coordinate{origin: o.origin}
	c.cartesian[Local] = o.cartesian
	c.spherical[Local] = o.spherical
	c.cylindrical[Local] = o.cylindrical
	c.resync(Local, o.initial)
	return c, nil
}

// The global position of the local frame's zero.
func (c *Coordinate) Origin() Cartesian {
	return c.origin
}

// Returns the cached view for the frame and geometry.
func (c *Coordinate) Get(frame Frame, geometry Geometry) (Vector, error) {
	if !frame.valid() {
		return nil, NewInvalidParameterError("frame", frame.String())
	}
	switch geometry {
	case CartesianGeometry:
		return c.cartesian[frame], nil
	case SphericalGeometry:
		return c.spherical[frame], nil
	case CylindricalGeometry:
		return c.cylindrical[frame], nil
	}
	return nil, NewInvalidParameterError("geometry", geometry.String())
}

// Typed accessor for the cartesian view. The frame must be Local or Global.
func (c *Coordinate) Cartesian(frame Frame) Cartesian {
	return c.cartesian[frame]
}

func (c *Coordinate) Spherical(frame Frame) Spherical {
	return c.spherical[frame]
}

func (c *Coordinate) Cylindrical(frame Frame) Cylindrical {
	return c.cylindrical[frame]
}

// Distance from the frame's zero to the point.
func (c *Coordinate) Delta(frame Frame) (float64, error) {
	if !frame.valid() {
		return 0, NewInvalidParameterError("frame", frame.String())
	}
	return c.delta[frame], nil
}

// Overwrites the view named by frame and geometry and rederives every other
// view from it. value is converted into the named geometry first, so passing
// a Cartesian to a spherical slot is allowed.
func (c *Coordinate) Set(frame Frame, geometry Geometry, value Vector) error {
	if !frame.valid() {
		return NewInvalidParameterError("frame", frame.String())
	}
	switch geometry {
	case CartesianGeometry:
		c.cartesian[frame] = value.ToCartesian()
	case SphericalGeometry:
		c.spherical[frame] = value.ToSpherical()
	case CylindricalGeometry:
		c.cylindrical[frame] = value.ToCylindrical()
	default:
		return NewInvalidParameterError("geometry", geometry.String())
	}
	c.resync(frame, geometry)
	return nil
}

// Rotates the point by angle about the named spherical axis.
//
// A Local rotation turns the point within its local frame. A Global rotation
// additionally turns the local frame's origin about the global zero by the
// same angle, so every point sharing that origin rotates rigidly with it.
func (c *Coordinate) Rotate(axis Axis, frame Frame, angle float64) error {
	switch frame {
	case Local:
		if err := c.spherical[Local].AddAngle(axis, angle); err != nil {
			return err
		}
	case Global:
		if err := c.spherical[Local].AddAngle(axis, angle); err != nil {
			return err
		}
		origin := c.origin.ToSpherical()
		if err := origin.AddAngle(axis, angle); err != nil {
			return err
		}
		c.origin = origin.ToCartesian()
	default:
		return NewInvalidParameterError("frame", frame.String())
	}
	c.resync(Local, SphericalGeometry)
	return nil
}

// Translates the point by delta, expressed in the local cartesian frame.
func (c *Coordinate) AddCartesian(delta Cartesian) {
	c.cartesian[Local] = c.cartesian[Local].Add(delta)
	c.resync(Local, CartesianGeometry)
}

// Moves the local frame's zero to origin while holding the point fixed in the
// local frame, so the point moves in the global frame.
func (c *Coordinate) SetLocalOrigin(origin Cartesian) {
	c.origin = origin
	c.projectGlobal()
}

// Moves the local frame's zero to origin while holding the point fixed in the
// global frame, so only its local views change.
func (c *Coordinate) MakeRelativeTo(origin Cartesian) {
	c.origin = origin
	c.resync(Global, CartesianGeometry)
}

// The global cartesian view; lets a Coordinate be compared against vectors.
func (c *Coordinate) ToCartesian() Cartesian {
	return c.cartesian[Global]
}

// Two coordinates are equal when their global cartesian views match exactly,
// regardless of how each splits that position between origin and offset.
func (c *Coordinate) Equal(o Cartesianer) bool {
	return c.cartesian[Global] == o.ToCartesian()
}

func (c *Coordinate) String() string {
	return fmt.Sprintf("Coordinate(origin: %v, local: %v, global: %v)", c.origin, c.cartesian[Local], c.cartesian[Global])
}

// resyncTable holds, for each authoritative (frame, geometry) slot, the
// derivation of every other cached view and both deltas.
var resyncTable = [frameCount][geometryCount]func(c *Coordinate){
	Local: {
		CartesianGeometry: func(c *Coordinate) {
			c.deriveFromCartesian(Local, CartesianGeometry)
			c.projectGlobal()
		},
		SphericalGeometry: func(c *Coordinate) {
			c.cartesian[Local] = c.spherical[Local].ToCartesian()
			c.deriveFromCartesian(Local, SphericalGeometry)
			c.projectGlobal()
		},
		CylindricalGeometry: func(c *Coordinate) {
			c.cartesian[Local] = c.cylindrical[Local].ToCartesian()
			c.deriveFromCartesian(Local, CylindricalGeometry)
			c.projectGlobal()
		},
	},
	Global: {
		CartesianGeometry: func(c *Coordinate) {
			c.deriveFromCartesian(Global, CartesianGeometry)
			c.projectLocal()
		},
		SphericalGeometry: func(c *Coordinate) {
			c.cartesian[Global] = c.spherical[Global].ToCartesian()
			c.deriveFromCartesian(Global, SphericalGeometry)
			c.projectLocal()
		},
		CylindricalGeometry: func(c *Coordinate) {
			c.cartesian[Global] = c.cylindrical[Global].ToCartesian()
			c.deriveFromCartesian(Global, CylindricalGeometry)
			c.projectLocal()
		},
	},
}

func (c *Coordinate) resync(frame Frame, geometry Geometry) {
	resyncTable[frame][geometry](c)
}

// deriveFromCartesian recomputes the frame's non-authoritative views and its
// delta from its cartesian view.
func (c *Coordinate) deriveFromCartesian(frame Frame, authoritative Geometry) {
	if authoritative != SphericalGeometry {
		c.spherical[frame] = c.cartesian[frame].ToSpherical()
	}
	if authoritative != CylindricalGeometry {
		c.cylindrical[frame] = c.cartesian[frame].ToCylindrical()
	}
	c.delta[frame] = c.cartesian[frame].Magnitude()
}

// projectGlobal rebuilds the global frame from the local cartesian view and
// the origin.
func (c *Coordinate) projectGlobal() {
	c.cartesian[Global] = c.cartesian[Local].Add(c.origin)
	c.deriveFromCartesian(Global, CartesianGeometry)
}

// projectLocal rebuilds the local frame from the global cartesian view and
// the origin.
func (c *Coordinate) projectLocal() {
	c.cartesian[Local] = c.cartesian[Global].Sub(c.origin)
	c.deriveFromCartesian(Local, CartesianGeometry)
}
