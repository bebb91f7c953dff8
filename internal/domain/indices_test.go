package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contBand builds a continuous aligned band for index tests.
func contBand(key string, pixels ...float32) *AlignedBand {
	return &AlignedBand{
		Spec:   BandSpec{Key: key, Label: key, Ratio: 1, Kind: Continuous},
		Size:   1,
		Pixels: pixels,
	}
}

func indexByName(grids []IndexGrid, name string) (IndexGrid, bool) {
	for _, g := range grids {
		if g.Name == name {
			return g, true
		}
	}
	return IndexGrid{}, false
}

func TestNormalizedDifference(t *testing.T) {
	t.Run("equal inputs give exactly zero", func(t *testing.T) {
		out := NormalizedDifference([]float32{0, 1, 4000, 65535}, []float32{0, 1, 4000, 65535})
		for i, v := range out {
			assert.Equal(t, float32(0), v, "index %d", i)
		}
	})

	t.Run("antisymmetric when the sum dominates epsilon", func(t *testing.T) {
		a := []float32{8000, 120, 9999}
		b := []float32{3000, 4500, 1}

		ab := NormalizedDifference(a, b)
		ba := NormalizedDifference(b, a)
		for i := range ab {
			assert.InDelta(t, -ba[i], ab[i], 1e-6, "index %d", i)
		}
	})

	t.Run("bounded for non-negative reflectance", func(t *testing.T) {
		out := NormalizedDifference([]float32{0, 65535, 1}, []float32{65535, 0, 0})
		for i, v := range out {
			assert.GreaterOrEqual(t, v, float32(-1), "index %d", i)
			assert.LessOrEqual(t, v, float32(1), "index %d", i)
		}
	})
}

func TestComputeIndices_FullBandSet(t *testing.T) {
	bands := []*AlignedBand{
		contBand("B02", 1500), // blue
		contBand("B03", 1800), // green
		contBand("B04", 2000), // red
		contBand("B05", 2600), // red edge 1
		contBand("B06", 4200), // red edge 2
		contBand("B07", 4800), // red edge 3
		contBand("B08", 5000), // nir
		contBand("B11", 3000), // swir 1
		contBand("B12", 2400), // swir 2
	}

	grids := ComputeIndices(bands)

	var names []string
	for _, g := range grids {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{
		"ndvi", "re_ndvi", "evi", "savi",
		"ndwi", "mndwi", "ndmi", "nbr",
		"ndbi", "bsi", "mcari", "cri",
		"nir_red_ratio", "swir_nir_ratio", "red_edge_slope",
	}, names, "registry order is the output order")

	ndvi, ok := indexByName(grids, "ndvi")
	require.True(t, ok)
	assert.InDelta(t, (5000.0-2000.0)/(5000.0+2000.0), float64(ndvi.Values[0]), 1e-6)

	slope, ok := indexByName(grids, "red_edge_slope")
	require.True(t, ok)
	assert.InDelta(t, (4800.0-2600.0)/20.0, float64(slope.Values[0]), 1e-3)
}

func TestComputeIndices_MissingBandOmitsDependents(t *testing.T) {
	// Everything except B11: swir_1-dependent indices must vanish, the rest
	// must survive.
	bands := []*AlignedBand{
		contBand("B02", 1500),
		contBand("B03", 1800),
		contBand("B04", 2000),
		contBand("B05", 2600),
		contBand("B06", 4200),
		contBand("B07", 4800),
		contBand("B08", 5000),
		contBand("B12", 2400),
	}

	grids := ComputeIndices(bands)

	for _, name := range []string{"ndmi", "mndwi", "ndbi", "bsi", "swir_nir_ratio"} {
		_, ok := indexByName(grids, name)
		assert.False(t, ok, "%s depends on B11 and must be omitted", name)
	}
	for _, name := range []string{"ndvi", "ndwi", "nbr", "evi", "cri"} {
		_, ok := indexByName(grids, name)
		assert.True(t, ok, "%s does not depend on B11 and must be present", name)
	}
}

func TestComputeIndices_CategoricalBandsExcluded(t *testing.T) {
	scl := &AlignedBand{
		Spec:   BandSpec{Key: "SCL", Label: "scene_classification", Ratio: 2, Kind: Categorical},
		Size:   1,
		Pixels: []float32{4},
	}
	grids := ComputeIndices([]*AlignedBand{scl, contBand("B08", 5000), contBand("B04", 2000)})

	_, ok := indexByName(grids, "ndvi")
	assert.True(t, ok)
	assert.Len(t, grids, 3, "only B08/B04 indices are computable")
}

func TestComputeIndices_ClippedIndicesStayBounded(t *testing.T) {
	// Adversarial extremes push the raw EVI/SAVI arithmetic far outside the
	// physical range, including infinite intermediate values.
	cases := []struct {
		name           string
		nir, red, blue float32
	}{
		{"saturated nir", 65535, 0, 0},
		{"saturated red", 0, 65535, 0},
		{"evi denominator near zero", 1, 2000, 2934},
		{"evi denominator exactly zero", 0, 2000, 22000.0 / 7.5},
		{"negative calibration artifacts", -4000, 12000, -9000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grids := ComputeIndices([]*AlignedBand{
				contBand("B08", tc.nir),
				contBand("B04", tc.red),
				contBand("B02", tc.blue),
			})

			for _, name := range []string{"evi", "savi"} {
				g, ok := indexByName(grids, name)
				require.True(t, ok)
				v := g.Values[0]
				assert.False(t, v > 1 || v < -1, "%s = %v outside [-1, 1]", name, v)
			}
		})
	}
}

func TestComputeIndices_CarotenoidGuard(t *testing.T) {
	cases := []struct {
		name     string
		blue     float32
		redEdge  float32
		expected float32
	}{
		{"both positive", 2, 4, 1.0/2 - 1.0/4},
		{"blue zero", 0, 4, 0},
		{"red edge zero", 2, 0, 0},
		{"both zero", 0, 0, 0},
		{"blue negative", -1, 4, 0},
		{"small positive boundary", 0.5, 0.25, 1.0/0.5 - 1.0/0.25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grids := ComputeIndices([]*AlignedBand{
				contBand("B02", tc.blue),
				contBand("B05", tc.redEdge),
			})

			cri, ok := indexByName(grids, "cri")
			require.True(t, ok)
			assert.Equal(t, tc.expected, cri.Values[0])
		})
	}
}

func TestComputeIndices_NaNPropagates(t *testing.T) {
	nan := float32(math.NaN())

	grids := ComputeIndices([]*AlignedBand{
		contBand("B08", nan),
		contBand("B04", 2000),
	})

	ndvi, ok := indexByName(grids, "ndvi")
	require.True(t, ok)
	assert.True(t, math.IsNaN(float64(ndvi.Values[0])), "NaN input must propagate, not raise")
}
