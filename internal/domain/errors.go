package domain

import "errors"

// Fatal conditions abort the whole run; no partial output file is written.
var (
	// ErrNoCandidateScene means the catalog search returned no scene whose
	// footprint contains the search region's center.
	ErrNoCandidateScene = errors.New("no candidate scene covers the region center")

	// ErrInsufficientExtent means the reference raster is too small to hold
	// even the smallest grid-aligned crop window.
	ErrInsufficientExtent = errors.New("insufficient raster extent for aligned crop")

	// ErrUnknownRatio means a band's native dimensions do not correspond to
	// any declared resolution class of the reference grid.
	ErrUnknownRatio = errors.New("native resolution ratio is not a declared class")

	// ErrNonInvertibleTransform means an affine transform with zero
	// determinant was passed where pixel lookup is required.
	ErrNonInvertibleTransform = errors.New("affine transform is not invertible")
)

// ErrBandUnavailable is non-fatal: the band and every index depending on it
// are omitted and the run continues with a reduced column set.
var ErrBandUnavailable = errors.New("band asset unavailable in scene")
