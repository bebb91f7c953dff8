package domain

import "fmt"

// CropSpec is the crop window in reference-grid pixel units, plus the
// derived affine transform and CRS of the cropped area. The invariants
// established by AlignCrop: Size and both offsets are multiples of every
// resolution-class multiplier in use, and the window lies entirely inside
// the reference raster.
type CropSpec struct {
	OffsetX   int
	OffsetY   int
	Size      int
	Transform Affine // pixel -> projected, origin at the crop's corner
	CRS       string
}

// NativeWindow maps the reference-grid window into the pixel space of a band
// whose native pixels are ratio times larger. Division is exact by the
// AlignCrop invariant.
func (c CropSpec) NativeWindow(ratio int) Window {
	return Window{
		X:      c.OffsetX / ratio,
		Y:      c.OffsetY / ratio,
		Width:  c.Size / ratio,
		Height: c.Size / ratio,
	}
}

// AlignCrop computes a crop window on the reference grid that is valid at
// every resolution-class multiplier simultaneously.
//
// The window is at most requested pixels per side, shrunk to fit the raster,
// rounded down to a multiple of the least common multiple of the
// multipliers, centered on the target projected point, clamped into the
// raster bounds, and finally re-aligned so both offsets are multiples of the
// same step.
func AlignCrop(ref RasterInfo, requested int, multipliers []int, targetX, targetY float64) (CropSpec, error) {
	step := lcm(multipliers)

	size := min(requested, ref.Width, ref.Height)
	size = (size / step) * step
	if size < step {
		return CropSpec{}, fmt.Errorf("%w: raster %dx%d, alignment step %d",
			ErrInsufficientExtent, ref.Width, ref.Height, step)
	}

	inv, err := ref.Transform.Invert()
	if err != nil {
		return CropSpec{}, err
	}
	pxX, pxY := inv.Apply(targetX, targetY)

	offX := clamp(int(pxX)-size/2, 0, ref.Width-size)
	offY := clamp(int(pxY)-size/2, 0, ref.Height-size)

	// Clamping can break alignment; rounding down cannot break the lower
	// bound and only moves the window further inside the raster.
	offX = (offX / step) * step
	offY = (offY / step) * step

	return CropSpec{
		OffsetX:   offX,
		OffsetY:   offY,
		Size:      size,
		Transform: ref.Transform.Translate(float64(offX), float64(offY)),
		CRS:       ref.CRS,
	}, nil
}

// ResolveRatio determines a band's resolution-class multiplier by comparing
// its native dimensions to the reference raster. A ratio that is not one of
// the declared classes is a fatal error rather than a silent fallback: a
// mismatched scene would otherwise produce a miscounted window.
func ResolveRatio(ref, native RasterInfo, classes []int) (int, error) {
	if native.Width <= 0 || native.Height <= 0 {
		return 0, fmt.Errorf("%w: native raster is empty", ErrUnknownRatio)
	}
	if ref.Width%native.Width != 0 || ref.Height%native.Height != 0 {
		return 0, fmt.Errorf("%w: reference %dx%d not divisible by native %dx%d",
			ErrUnknownRatio, ref.Width, ref.Height, native.Width, native.Height)
	}

	rw := ref.Width / native.Width
	rh := ref.Height / native.Height
	if rw != rh {
		return 0, fmt.Errorf("%w: anisotropic ratio %dx%d", ErrUnknownRatio, rw, rh)
	}
	for _, c := range classes {
		if rw == c {
			return rw, nil
		}
	}
	return 0, fmt.Errorf("%w: ratio %d not in declared classes %v", ErrUnknownRatio, rw, classes)
}

func lcm(ms []int) int {
	l := 1
	for _, m := range ms {
		l = l / gcd(l, m) * m
	}
	return l
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
