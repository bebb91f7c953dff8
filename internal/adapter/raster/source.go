// Package raster implements domain.RasterSource and domain.Projector on top
// of GDAL via github.com/airbusgeo/godal. Remote COGs are accessed through
// GDAL's /vsicurl/ virtual filesystem with HTTP range reads.
package raster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/geosift/s2extract/internal/domain"
)

var registerOnce sync.Once

// Source reads raster assets with GDAL. Datasets are opened per call; GDAL's
// own block cache absorbs repeated header reads.
type Source struct {
	logger *slog.Logger
}

// NewSource creates a Source, registering GDAL drivers on first use.
func NewSource(logger *slog.Logger) *Source {
	registerOnce.Do(godal.RegisterAll)
	return &Source{logger: logger}
}

// Info opens an asset and reports its native shape, geotransform, and CRS.
func (s *Source) Info(_ context.Context, href string) (domain.RasterInfo, error) {
	ds, err := godal.Open(vsiPath(href))
	if err != nil {
		return domain.RasterInfo{}, fmt.Errorf("open raster: %w", err)
	}
	defer ds.Close()

	gt, err := ds.GeoTransform()
	if err != nil {
		return domain.RasterInfo{}, fmt.Errorf("read geotransform: %w", err)
	}

	st := ds.Structure()
	return domain.RasterInfo{
		Width:     st.SizeX,
		Height:    st.SizeY,
		Transform: domain.Affine(gt),
		CRS:       ds.Projection(),
	}, nil
}

// Read extracts a native-grid window from the asset's first band and
// resamples it to outSize x outSize with the requested mode.
func (s *Source) Read(_ context.Context, href string, w domain.Window, outSize int, mode domain.Resampling) ([]float32, error) {
	ds, err := godal.Open(vsiPath(href))
	if err != nil {
		return nil, fmt.Errorf("open raster: %w", err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster has no bands: %s", href)
	}

	buf := make([]float32, outSize*outSize)
	err = bands[0].Read(w.X, w.Y, buf, outSize, outSize,
		godal.Window(w.Width, w.Height),
		godal.Resampling(resampleAlg(mode)),
	)
	if err != nil {
		return nil, fmt.Errorf("read window %+v: %w", w, err)
	}
	return buf, nil
}

// Project converts a WGS-84 lon/lat point into the target CRS given as WKT.
func (s *Source) Project(lon, lat float64, crs string) (x, y float64, err error) {
	src, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return 0, 0, fmt.Errorf("create WGS-84 spatial ref: %w", err)
	}
	defer src.Close()

	dst, err := godal.NewSpatialRefFromWKT(crs)
	if err != nil {
		return 0, 0, fmt.Errorf("parse target CRS: %w", err)
	}
	defer dst.Close()

	tr, err := godal.NewTransform(src, dst)
	if err != nil {
		return 0, 0, fmt.Errorf("create transform: %w", err)
	}
	defer tr.Close()

	// GDAL treats EPSG:4326 as lat/lon axis order.
	xs := []float64{lat}
	ys := []float64{lon}
	if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
		return 0, 0, fmt.Errorf("project point (%f, %f): %w", lon, lat, err)
	}
	return xs[0], ys[0], nil
}

func resampleAlg(mode domain.Resampling) godal.ResamplingAlg {
	if mode == domain.ResampleNearest {
		return godal.Nearest
	}
	return godal.Bilinear
}

// vsiPath maps an HTTP(S) href onto GDAL's curl-backed virtual filesystem.
// Local paths pass through for tests and cached inputs.
func vsiPath(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return "/vsicurl/" + href
	}
	return href
}
