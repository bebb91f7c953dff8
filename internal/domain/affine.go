package domain

// Affine is a pixel-to-projected-coordinate mapping in GDAL geotransform
// order: [originX, pixelWidth, rowRotation, originY, colRotation, pixelHeight].
// For north-up rasters the rotation terms are zero and pixelHeight is
// negative.
//
//	x = a[0] + col*a[1] + row*a[2]
//	y = a[3] + col*a[4] + row*a[5]
type Affine [6]float64

// Apply maps fractional pixel coordinates to projected coordinates.
func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a[0] + col*a[1] + row*a[2]
	y = a[3] + col*a[4] + row*a[5]
	return x, y
}

// PixelCenter maps a pixel index to the projected coordinate of its center,
// half a pixel in from the pixel's origin corner.
func (a Affine) PixelCenter(col, row int) (x, y float64) {
	return a.Apply(float64(col)+0.5, float64(row)+0.5)
}

// Invert returns the projected-to-pixel mapping, i.e. an Affine whose Apply
// takes (x, y) and yields (col, row). Returns ErrNonInvertibleTransform when
// the linear part is singular.
func (a Affine) Invert() (Affine, error) {
	det := a[1]*a[5] - a[2]*a[4]
	if det == 0 {
		return Affine{}, ErrNonInvertibleTransform
	}
	return Affine{
		(a[2]*a[3] - a[5]*a[0]) / det, a[5] / det, -a[2] / det,
		(a[4]*a[0] - a[1]*a[3]) / det, -a[4] / det, a[1] / det,
	}, nil
}

// Translate returns the transform of a sub-window whose origin sits at pixel
// (colOff, rowOff) of the parent raster. Scale and rotation are unchanged.
func (a Affine) Translate(colOff, rowOff float64) Affine {
	x, y := a.Apply(colOff, rowOff)
	return Affine{x, a[1], a[2], y, a[4], a[5]}
}
