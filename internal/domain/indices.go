package domain

// Epsilon biases normalized-difference denominators away from zero. Small
// enough to be invisible where the denominator is a real reflectance sum,
// large enough to keep the division finite over dark pixels.
const Epsilon = 1e-10

// ReflectanceScale is the digital-number value corresponding to reflectance
// 1.0 in L2A products. Formula constants defined on the 0..1 reflectance
// scale are multiplied by it.
const ReflectanceScale = 10000.0

// IndexGrid is one computed spectral index over the crop, row-major.
// Stateless function output; never cached beyond the run.
type IndexGrid struct {
	Name   string
	Values []float32
}

// IndexSpec declares a named index: the continuous bands it needs and the
// elementwise formula over them. Indices whose inputs are missing are
// skipped, so the registry stays open to extension without touching the
// table assembly.
type IndexSpec struct {
	Name     string
	Requires []string
	Compute  func(b map[string][]float32) []float32
}

// IndexRegistry lists every spectral index in output column order.
func IndexRegistry() []IndexSpec {
	return []IndexSpec{
		// Vegetation.
		{Name: "ndvi", Requires: []string{"B08", "B04"},
			Compute: func(b map[string][]float32) []float32 {
				return NormalizedDifference(b["B08"], b["B04"])
			}},
		{Name: "re_ndvi", Requires: []string{"B07", "B05"},
			Compute: func(b map[string][]float32) []float32 {
				return NormalizedDifference(b["B07"], b["B05"])
			}},
		{Name: "evi", Requires: []string{"B08", "B04", "B02"},
			Compute: func(b map[string][]float32) []float32 {
				nir, red, blu := b["B08"], b["B04"], b["B02"]
				out := make([]float32, len(nir))
				for i := range out {
					out[i] = clipUnit(2.5 * (nir[i] - red[i]) /
						(nir[i] + 6.0*red[i] - 7.5*blu[i] + ReflectanceScale))
				}
				return out
			}},
		{Name: "savi", Requires: []string{"B08", "B04"},
			Compute: func(b map[string][]float32) []float32 {
				nir, red := b["B08"], b["B04"]
				out := make([]float32, len(nir))
				for i := range out {
					// L = 0.5 on the reflectance scale.
					out[i] = clipUnit(1.5 * (nir[i] - red[i]) /
						(nir[i] + red[i] + 0.5*ReflectanceScale))
				}
				return out
			}},

		// Water.
		{Name: "ndwi", Requires: []string{"B03", "B08"},
			Compute: func(b map[string][]float32) []float32 {
				return NormalizedDifference(b["B03"], b["B08"])
			}},
		{Name: "mndwi", Requires: []string{"B03", "B11"},
			Compute: func(b map[string][]float32) []float32 {
				return NormalizedDifference(b["B03"], b["B11"])
			}},

		// Moisture and burn.
		{Name: "ndmi", Requires: []string{"B08", "B11"},
			Compute: func(b map[string][]float32) []float32 {
				return NormalizedDifference(b["B08"], b["B11"])
			}},
		{Name: "nbr", Requires: []string{"B08", "B12"},
			Compute: func(b map[string][]float32) []float32 {
				return NormalizedDifference(b["B08"], b["B12"])
			}},

		// Built-up and soil.
		{Name: "ndbi", Requires: []string{"B11", "B08"},
			Compute: func(b map[string][]float32) []float32 {
				return NormalizedDifference(b["B11"], b["B08"])
			}},
		{Name: "bsi", Requires: []string{"B11", "B04", "B08", "B02"},
			Compute: func(b map[string][]float32) []float32 {
				sw1, red, nir, blu := b["B11"], b["B04"], b["B08"], b["B02"]
				out := make([]float32, len(sw1))
				for i := range out {
					a := sw1[i] + red[i]
					c := nir[i] + blu[i]
					out[i] = (a - c) / (a + c + Epsilon)
				}
				return out
			}},

		// Chlorophyll and carotenoids.
		{Name: "mcari", Requires: []string{"B05", "B04", "B03"},
			Compute: func(b map[string][]float32) []float32 {
				re1, red, grn := b["B05"], b["B04"], b["B03"]
				out := make([]float32, len(re1))
				for i := range out {
					out[i] = ((re1[i] - red[i]) - 0.2*(re1[i]-grn[i])) *
						(re1[i] / (red[i] + Epsilon)) / 1e8
				}
				return out
			}},
		{Name: "cri", Requires: []string{"B02", "B05"},
			Compute: func(b map[string][]float32) []float32 {
				blu, re1 := b["B02"], b["B05"]
				out := make([]float32, len(blu))
				for i := range out {
					// Reciprocal difference is only physical for strictly
					// positive reflectance; a hard zero fallback replaces
					// the value otherwise. This guard is deliberately not
					// the epsilon bias used elsewhere.
					if blu[i] > 0 && re1[i] > 0 {
						out[i] = 1.0/blu[i] - 1.0/re1[i]
					} else {
						out[i] = 0.0
					}
				}
				return out
			}},

		// Simple band ratios.
		{Name: "nir_red_ratio", Requires: []string{"B08", "B04"},
			Compute: func(b map[string][]float32) []float32 {
				nir, red := b["B08"], b["B04"]
				out := make([]float32, len(nir))
				for i := range out {
					out[i] = nir[i] / (red[i] + Epsilon)
				}
				return out
			}},
		{Name: "swir_nir_ratio", Requires: []string{"B11", "B08"},
			Compute: func(b map[string][]float32) []float32 {
				sw1, nir := b["B11"], b["B08"]
				out := make([]float32, len(sw1))
				for i := range out {
					out[i] = sw1[i] / (nir[i] + Epsilon)
				}
				return out
			}},
		{Name: "red_edge_slope", Requires: []string{"B07", "B05"},
			Compute: func(b map[string][]float32) []float32 {
				re3, re1 := b["B07"], b["B05"]
				out := make([]float32, len(re3))
				for i := range out {
					// Reflectance delta across the ~40nm red-edge span.
					out[i] = (re3[i] - re1[i]) / (20.0 + Epsilon)
				}
				return out
			}},
	}
}

// NormalizedDifference is the shared core of several indices:
// (a-b)/(a+b+Epsilon). Antisymmetric up to the epsilon term and exactly zero
// for equal inputs.
func NormalizedDifference(a, b []float32) []float32 {
	out := make([]float32, len(a))
	for i := range out {
		out[i] = (a[i] - b[i]) / (a[i] + b[i] + Epsilon)
	}
	return out
}

// ComputeIndices evaluates every registered index whose required bands are
// all present among the continuous aligned bands. A missing band silently
// omits the dependent indices; NaN samples propagate through the formulas.
func ComputeIndices(bands []*AlignedBand) []IndexGrid {
	byKey := make(map[string][]float32, len(bands))
	for _, b := range bands {
		if b.Spec.Kind == Continuous {
			byKey[b.Spec.Key] = b.Pixels
		}
	}

	var out []IndexGrid
	for _, spec := range IndexRegistry() {
		if !hasAll(byKey, spec.Requires) {
			continue
		}
		out = append(out, IndexGrid{Name: spec.Name, Values: spec.Compute(byKey)})
	}
	return out
}

func hasAll(bands map[string][]float32, keys []string) bool {
	for _, k := range keys {
		if _, ok := bands[k]; !ok {
			return false
		}
	}
	return true
}

// clipUnit clamps to [-1, 1]. NaN passes through: comparisons with NaN are
// false, so the input is returned unchanged.
func clipUnit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
