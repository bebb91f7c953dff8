package domain

import "context"

// BoundingBox is a WGS-84 lon/lat search region.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Center returns the region's center point in lon/lat.
func (b BoundingBox) Center() (lon, lat float64) {
	return (b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2
}

// SceneQuery describes a catalog search.
type SceneQuery struct {
	Collection    string
	BBox          BoundingBox
	TimeRange     string // STAC datetime interval, e.g. "2024-06-01/2024-09-30"
	MaxCloudCover float64
	Limit         int
}

// Catalog searches an external scene catalog.
type Catalog interface {
	Search(ctx context.Context, q SceneQuery) ([]Scene, error)
}

// RasterInfo describes a raster asset at its native resolution.
type RasterInfo struct {
	Width     int
	Height    int
	Transform Affine
	CRS       string // WKT of the projected coordinate reference system
}

// Window is a rectangular pixel region in a raster's own grid.
type Window struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Resampling selects the interpolation used when a read's output shape
// differs from its source window.
type Resampling int

const (
	// ResampleNearest picks the nearest source sample. Required for
	// categorical layers.
	ResampleNearest Resampling = iota
	// ResampleBilinear smoothly interpolates between source samples.
	ResampleBilinear
)

// RasterSource reads remote raster assets. Implementations own all I/O;
// the domain never touches the network.
type RasterSource interface {
	// Info opens an asset and reports its native shape, transform, and CRS.
	Info(ctx context.Context, href string) (RasterInfo, error)

	// Read extracts window w from the asset and resamples it to an
	// outSize x outSize row-major array.
	Read(ctx context.Context, href string, w Window, outSize int, mode Resampling) ([]float32, error)
}

// Projector converts WGS-84 lon/lat into a target projected CRS.
type Projector interface {
	Project(lon, lat float64, crs string) (x, y float64, err error)
}

// TableWriter persists the assembled pixel table. Implementations must
// preserve row order and per-column types exactly.
type TableWriter interface {
	Write(ctx context.Context, t *Table, dest string) error
}

// Announcer publishes the run manifest once the output file exists.
type Announcer interface {
	Announce(ctx context.Context, m RunManifest) error
}
