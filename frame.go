package pixiled

// The reference frame a view of a Coordinate is expressed in.
type Frame int

const (
	Local Frame = iota
	Global
	frameCount
)

// The representation a view of a Coordinate is expressed in.
type Geometry int

const (
	CartesianGeometry Geometry = iota
	SphericalGeometry
	CylindricalGeometry
	geometryCount
)

// An angular component of a spherical representation.
type Axis int

const (
	Theta Axis = iota
	Phi
)

var (
	frameNames    = [...]string{Local: "local", Global: "global"}
	geometryNames = [...]string{CartesianGeometry: "cartesian", SphericalGeometry: "spherical", CylindricalGeometry: "cylindrical"}
	axisNames     = [...]string{Theta: "theta", Phi: "phi"}
)

func (f Frame) valid() bool {
	return f >= 0 && f < frameCount
}

func (f Frame) String() string {
	if !f.valid() {
		return "frame(?)"
	}
	return frameNames[f]
}

func (g Geometry) valid() bool {
	return g >= 0 && g < geometryCount
}

func (g Geometry) String() string {
	if !g.valid() {
		return "geometry(?)"
	}
	return geometryNames[g]
}

func (a Axis) String() string {
	if a != Theta && a != Phi {
		return "axis(?)"
	}
	return axisNames[a]
}

// Parses the frame names used by controllers and configuration, "local" and
// "global".
func ParseFrame(name string) (Frame, error) {
	for f, n := range frameNames {
		if n == name {
			return Frame(f), nil
		}
	}
	return -1, NewInvalidParameterError("frame", name)
}

// Parses "cartesian", "spherical" or "cylindrical".
func ParseGeometry(name string) (Geometry, error) {
	for g, n := range geometryNames {
		if n == name {
			return Geometry(g), nil
		}
	}
	return -1, NewInvalidParameterError("geometry", name)
}

// Parses "theta" or "phi".
func ParseAxis(name string) (Axis, error) {
	for a, n := range axisNames {
		if n == name {
			return Axis(a), nil
		}
	}
	return -1, NewInvalidParameterError("axis", name)
}
