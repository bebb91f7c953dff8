package domain

// CoordinateGrid holds the projected coordinate of every pixel center in the
// crop, row-major, one array per axis. Derived once from the crop transform
// and never mutated.
type CoordinateGrid struct {
	Size int
	X    []float64 // easting
	Y    []float64 // northing
}

// PixelCenters evaluates the crop transform at (col+0.5, row+0.5) for every
// pixel. The half-pixel offset places coordinates at pixel centers, matching
// the window placement convention of AlignCrop so coordinates and sampled
// values refer to the same physical location.
func PixelCenters(crop CropSpec) CoordinateGrid {
	n := crop.Size * crop.Size
	g := CoordinateGrid{
		Size: crop.Size,
		X:    make([]float64, n),
		Y:    make([]float64, n),
	}
	for row := 0; row < crop.Size; row++ {
		for col := 0; col < crop.Size; col++ {
			i := row*crop.Size + col
			g.X[i], g.Y[i] = crop.Transform.PixelCenter(col, row)
		}
	}
	return g
}
