package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelCenters(t *testing.T) {
	// North-up transform: 10m pixels, origin at (500000, 4000000).
	crop := CropSpec{
		Size:      2,
		Transform: Affine{500000, 10, 0, 4000000, 0, -10},
	}

	g := PixelCenters(crop)

	require.Equal(t, 4, len(g.X))
	require.Equal(t, 4, len(g.Y))

	// Pixel (row=0, col=0) center is half a pixel in from the origin corner.
	assert.Equal(t, 500005.0, g.X[0])
	assert.Equal(t, 3999995.0, g.Y[0])

	// Row-major layout: index 1 is (row=0, col=1), index 2 is (row=1, col=0).
	assert.Equal(t, 500015.0, g.X[1])
	assert.Equal(t, 3999995.0, g.Y[1])
	assert.Equal(t, 500005.0, g.X[2])
	assert.Equal(t, 3999985.0, g.Y[2])
	assert.Equal(t, 500015.0, g.X[3])
	assert.Equal(t, 3999985.0, g.Y[3])
}

func TestPixelCenters_MatchesWindowPlacement(t *testing.T) {
	// Coordinates of a crop's pixel centers must equal the parent raster's
	// centers at the offset position: same convention on both sides.
	ref := Affine{300000, 10, 0, 5000000, 0, -10}
	crop := CropSpec{Size: 3, Transform: ref.Translate(6, 12)}

	g := PixelCenters(crop)

	wantX, wantY := ref.PixelCenter(6, 12)
	assert.Equal(t, wantX, g.X[0])
	assert.Equal(t, wantY, g.Y[0])
}
