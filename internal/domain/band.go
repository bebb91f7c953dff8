package domain

// BandKind tags a band as carrying continuous reflectance-like values or
// discrete class codes. The kind drives resampling: smooth interpolation of
// class codes would fabricate classes, so categorical bands always use
// nearest sampling.
type BandKind int

const (
	Continuous BandKind = iota
	Categorical
)

// BandSpec describes one band of the collection: its asset key, the physical
// label used as the output column name, its resolution-class multiplier
// relative to the reference grid, and its kind.
type BandSpec struct {
	Key   string
	Label string
	Ratio int
	Kind  BandKind
}

// Resampling returns the interpolation mode mandated by the band's kind.
func (s BandSpec) Resampling() Resampling {
	if s.Kind == Categorical {
		return ResampleNearest
	}
	return ResampleBilinear
}

// SentinelBands is the full Sentinel-2 L2A band catalog in output column
// order: 10 m spectral, 20 m spectral, 60 m spectral, then ancillary layers.
func SentinelBands() []BandSpec {
	return []BandSpec{
		{Key: "B02", Label: "blue", Ratio: 1, Kind: Continuous},
		{Key: "B03", Label: "green", Ratio: 1, Kind: Continuous},
		{Key: "B04", Label: "red", Ratio: 1, Kind: Continuous},
		{Key: "B08", Label: "nir", Ratio: 1, Kind: Continuous},
		{Key: "B05", Label: "red_edge_1", Ratio: 2, Kind: Continuous},
		{Key: "B06", Label: "red_edge_2", Ratio: 2, Kind: Continuous},
		{Key: "B07", Label: "red_edge_3", Ratio: 2, Kind: Continuous},
		{Key: "B8A", Label: "nir_narrow", Ratio: 2, Kind: Continuous},
		{Key: "B11", Label: "swir_1", Ratio: 2, Kind: Continuous},
		{Key: "B12", Label: "swir_2", Ratio: 2, Kind: Continuous},
		{Key: "B01", Label: "coastal_aerosol", Ratio: 6, Kind: Continuous},
		{Key: "B09", Label: "water_vapor_band", Ratio: 6, Kind: Continuous},
		{Key: "SCL", Label: "scene_classification", Ratio: 2, Kind: Categorical},
		{Key: "AOT", Label: "aerosol_thickness", Ratio: 1, Kind: Continuous},
		{Key: "WVP", Label: "water_vapor", Ratio: 1, Kind: Continuous},
	}
}

// Multipliers returns the distinct resolution-class multipliers present in
// the band set, in first-seen order.
func Multipliers(bands []BandSpec) []int {
	seen := make(map[int]bool)
	var out []int
	for _, b := range bands {
		if !seen[b.Ratio] {
			seen[b.Ratio] = true
			out = append(out, b.Ratio)
		}
	}
	return out
}

// AlignedBand is one band resampled onto the reference crop grid: exactly
// Size x Size samples in row-major order. Never mutated after creation.
type AlignedBand struct {
	Spec   BandSpec
	Size   int
	Pixels []float32
}
