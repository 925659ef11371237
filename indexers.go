package pixiled

import (
	"fmt"

	"github.com/owlpinetech/flatsphere"
	"github.com/owlpinetech/healpix"
)

// Converts the locations a texture can be addressed with into row indices of
// the texture's store. Geometry locations (vectors and coordinates) are
// addressed by their direction, so a pixel samples whatever lies "behind" it
// as seen from the installation's zero.
type LocationIndexer interface {
	ToIndex(Location) (int, error)
	Projection() flatsphere.Projection
	Name() string
	Size() int
	Spec() IndexerSpec
}

// The serializable description of an indexer, used in texture metadata and in
// rig configuration files.
type IndexerSpec struct {
	Name        string                `json:"name"`
	Width       int                   `json:"width,omitempty"`
	Height      int                   `json:"height,omitempty"`
	RowMajor    bool                  `json:"rowMajor,omitempty"`
	NorthCutoff float64               `json:"northCutoff,omitempty"`
	SouthCutoff float64               `json:"southCutoff,omitempty"`
	Parallel    float64               `json:"parallel,omitempty"`
	Order       healpix.HealpixOrder  `json:"order,omitempty"`
	Scheme      healpix.HealpixScheme `json:"scheme,omitempty"`
}

// Rebuilds the indexer described by spec.
func NewIndexer(spec IndexerSpec) (LocationIndexer, error) {
	switch spec.Name {
	case "projectionless":
		if spec.Width <= 0 || spec.Height <= 0 {
			return nil, NewConfigError("indexer", "projectionless grid needs a positive width and height")
		}
		return NewProjectionlessIndexer(spec.Width, spec.Height, spec.RowMajor), nil
	case "mercator-cutoff":
		if spec.Width <= 0 || spec.Height <= 0 {
			return nil, NewConfigError("indexer", "mercator grid needs a positive width and height")
		}
		if spec.NorthCutoff <= spec.SouthCutoff {
			return nil, NewConfigError("indexer", "mercator north cutoff must be above the south cutoff")
		}
		return NewMercatorCutoffIndexer(spec.NorthCutoff, spec.SouthCutoff, spec.Width, spec.Height, spec.RowMajor), nil
	case "cylindrical-equirectangular":
		if spec.Width <= 0 || spec.Height <= 0 {
			return nil, NewConfigError("indexer", "equirectangular grid needs a positive width and height")
		}
		return NewCylindricalEquirectangularIndexer(spec.Parallel, spec.Width, spec.Height, spec.RowMajor), nil
	case "flat-healpix":
		return NewFlatHealpixIndexer(spec.Order, spec.Scheme), nil
	}
	return nil, NewConfigError("indexer", fmt.Sprintf("unknown indexer scheme '%s'", spec.Name))
}

// Simple indexing into a grid, no spherical projection provided by this indexer. Supports
// either row-major or column-major storage of the data for particular access patterns.
type ProjectionlessIndexer struct {
	Width    int
	Height   int
	RowMajor bool
}

func NewProjectionlessIndexer(width int, height int, rowMajor bool) ProjectionlessIndexer {
	return ProjectionlessIndexer{
		Width:    width,
		Height:   height,
		RowMajor: rowMajor,
	}
}

func (p ProjectionlessIndexer) Name() string {
	return "projectionless"
}

func (p ProjectionlessIndexer) Projection() flatsphere.Projection {
	return nil
}

func (p ProjectionlessIndexer) Size() int {
	return p.Width * p.Height
}

func (p ProjectionlessIndexer) Spec() IndexerSpec {
	return IndexerSpec{Name: p.Name(), Width: p.Width, Height: p.Height, RowMajor: p.RowMajor}
}

func (p ProjectionlessIndexer) ToIndex(loc Location) (int, error) {
	switch val := loc.(type) {
	case IndexLocation:
		return int(val), nil
	case GridLocation:
		if val.X < 0 || val.X >= p.Width || val.Y < 0 || val.Y >= p.Height {
			return -1, NewLocationOutOfBoundsError(loc)
		}
		if p.RowMajor {
			return val.Y*p.Width + val.X, nil
		}
		return val.X*p.Height + val.Y, nil
	default:
		return -1, NewLocationNotSupportedError(p.Name(), loc)
	}
}

// cell scales fractions of the grid's extent, each in [0, 1], to the grid cell
// they fall in.
func (p ProjectionlessIndexer) cell(u float64, v float64) GridLocation {
	return GridLocation{int(u * float64(p.Width-1)), int(v * float64(p.Height-1))}
}

// Indexes a sphere projected with a standard Mercator projection. Mercator diverges at
// the poles, so two cutoff latitudes mark the top and bottom rows of the grid; directions
// beyond them are out of bounds.
type MercatorCutoffIndexer struct {
	NorthCutoff  float64
	SouthCutoff  float64
	southProj    float64 // projected south cutoff
	latRangeProj float64 // projected north minus projected south cutoff
	grid         ProjectionlessIndexer
	proj         flatsphere.Mercator
}

func NewMercatorCutoffIndexer(northCutoff float64, southCutoff float64, width int, height int, rowMajor bool) MercatorCutoffIndexer {
	if northCutoff <= southCutoff {
		panic("pixiled: mercator north cutoff smaller than south cutoff")
	}
	proj := flatsphere.NewMercator()
	_, southY := proj.Project(southCutoff, 0)
	_, northY := proj.Project(northCutoff, 0)
	return MercatorCutoffIndexer{
		NorthCutoff:  northCutoff,
		SouthCutoff:  southCutoff,
		southProj:    southY,
		latRangeProj: northY - southY,
		grid:         NewProjectionlessIndexer(width, height, rowMajor),
		proj:         proj,
	}
}

func (m MercatorCutoffIndexer) Name() string {
	return "mercator-cutoff"
}

func (m MercatorCutoffIndexer) Projection() flatsphere.Projection {
	return m.proj
}

func (m MercatorCutoffIndexer) Size() int {
	return m.grid.Size()
}

func (m MercatorCutoffIndexer) Spec() IndexerSpec {
	spec := m.grid.Spec()
	spec.Name = m.Name()
	spec.NorthCutoff = m.NorthCutoff
	spec.SouthCutoff = m.SouthCutoff
	return spec
}

func (m MercatorCutoffIndexer) ToIndex(loc Location) (int, error) {
	switch val := directionOf(loc).(type) {
	case IndexLocation:
		return int(val), nil
	case GridLocation:
		return m.grid.ToIndex(val)
	case SphericalLocation:
		if val.Latitude > m.NorthCutoff || val.Latitude < m.SouthCutoff {
			return -1, NewLocationOutOfBoundsError(loc)
		}
		x, y := m.proj.Project(val.Latitude, val.Longitude)
		return m.ToIndex(ProjectedLocation{x, y})
	case ProjectedLocation:
		bounds := m.proj.PlanarBounds()
		return m.grid.ToIndex(m.grid.cell((val.X-bounds.XMin)/bounds.Width(), (val.Y-m.southProj)/m.latRangeProj))
	default:
		return -1, NewLocationNotSupportedError(m.Name(), loc)
	}
}

// Indexes a sphere projected with a cylindrical equirectangular projection. 0,0 is the
// bottom left corner of the projection space, i.e. (XMin, YMin) => (0, 0). Row or column
// major order only changes which consecutive accesses are cheap, not where x,y refer to.
type CylindricalEquirectangularIndexer struct {
	Parallel float64
	grid     ProjectionlessIndexer
	proj     flatsphere.Equirectangular
}

// Create a new indexer into a grid with the cylindrical equirectangular projection, focused at
// the given latitude. Many common projections can be created this way.
func NewCylindricalEquirectangularIndexer(parallel float64, width int, height int, rowMajor bool) CylindricalEquirectangularIndexer {
	return CylindricalEquirectangularIndexer{
		Parallel: parallel,
		grid:     NewProjectionlessIndexer(width, height, rowMajor),
		proj:     flatsphere.NewEquirectangular(parallel),
	}
}

func (c CylindricalEquirectangularIndexer) Name() string {
	return "cylindrical-equirectangular"
}

func (c CylindricalEquirectangularIndexer) Projection() flatsphere.Projection {
	return c.proj
}

func (c CylindricalEquirectangularIndexer) Size() int {
	return c.grid.Size()
}

func (c CylindricalEquirectangularIndexer) Spec() IndexerSpec {
	spec := c.grid.Spec()
	spec.Name = c.Name()
	spec.Parallel = c.Parallel
	return spec
}

func (c CylindricalEquirectangularIndexer) ToIndex(loc Location) (int, error) {
	switch val := directionOf(loc).(type) {
	case IndexLocation:
		return int(val), nil
	case GridLocation:
		return c.grid.ToIndex(val)
	case SphericalLocation:
		x, y := c.proj.Project(val.Latitude, val.Longitude)
		return c.ToIndex(ProjectedLocation{x, y})
	case ProjectedLocation:
		bounds := c.proj.PlanarBounds()
		return c.grid.ToIndex(c.grid.cell((val.X-bounds.XMin)/bounds.Width(), (val.Y-bounds.YMin)/bounds.Height()))
	default:
		return -1, NewLocationNotSupportedError(c.Name(), loc)
	}
}

// Pixelizes a sphere with HEALPix, where every pixel covers the same solid angle. Suits
// domes and spheres of LEDs, since no direction is over- or under-sampled. Ring and nested
// schemes are both available.
type FlatHealpixIndexer struct {
	Scheme healpix.HealpixScheme
	Order  healpix.HealpixOrder
	proj   flatsphere.HEALPixStandard
}

func NewFlatHealpixIndexer(order healpix.HealpixOrder, scheme healpix.HealpixScheme) FlatHealpixIndexer {
	return FlatHealpixIndexer{
		Scheme: scheme,
		Order:  order,
		proj:   flatsphere.NewHEALPixStandard(),
	}
}

func (h FlatHealpixIndexer) Name() string {
	return "flat-healpix"
}

func (h FlatHealpixIndexer) Projection() flatsphere.Projection {
	return h.proj
}

func (h FlatHealpixIndexer) Size() int {
	return h.Order.Pixels()
}

func (h FlatHealpixIndexer) Spec() IndexerSpec {
	return IndexerSpec{Name: h.Name(), Order: h.Order, Scheme: h.Scheme}
}

func (h FlatHealpixIndexer) ToIndex(loc Location) (int, error) {
	switch val := directionOf(loc).(type) {
	case IndexLocation:
		return int(val), nil
	case RingLocation:
		return healpix.RingPixel(int(val)).PixelId(h.Order, h.Scheme), nil
	case NestLocation:
		return healpix.NestPixel(int(val)).PixelId(h.Order, h.Scheme), nil
	case UniqueLocation:
		return healpix.UniquePixel(int(val)).PixelId(h.Order, h.Scheme), nil
	case SphericalLocation:
		return healpix.NewLatLonCoordinate(val.Latitude, val.Longitude).PixelId(h.Order, h.Scheme), nil
	case ProjectedLocation:
		return healpix.NewProjectionCoordinate(val.X, val.Y).PixelId(h.Order, h.Scheme), nil
	default:
		return -1, NewLocationNotSupportedError(h.Name(), loc)
	}
}
