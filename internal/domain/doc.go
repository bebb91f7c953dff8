// Package domain models Sentinel-2 L2A scenes and the pixel-table extraction
// that turns one scene into a per-pixel tabular dataset.
//
// # Data Source
//
// Scenes come from the Sentinel-2 Level-2A surface reflectance collection as
// catalogued by a STAC API (the default deployment targets Microsoft's
// Planetary Computer). Each scene is a 110 km MGRS tile with per-band cloud
// optimized GeoTIFF assets in the tile's UTM projection.
//
// # Resolution Classes
//
// Sentinel-2 bands are natively sampled at three pixel sizes. Relative to the
// 10 m reference grid the multipliers are:
//
//	1x (10 m): B02 blue, B03 green, B04 red, B08 nir, AOT, WVP
//	2x (20 m): B05-B07 red edge, B8A nir narrow, B11/B12 swir, SCL
//	6x (60 m): B01 coastal aerosol, B09 water vapor
//
// All bands are resampled onto the reference grid before any index math. The
// crop window is sized and positioned so that dividing it by any multiplier
// in use lands on exact pixel boundaries of that band's native grid; see
// [AlignCrop].
//
// # Reflectance Encoding
//
// Spectral bands are unsigned 16-bit digital numbers with a scale factor of
// 10000 (DN 10000 = reflectance 1.0). Index formulas operate on the DN scale
// directly, so additive constants inside formulas (EVI's +1.0 term, SAVI's
// L=0.5 term) appear multiplied by the scale factor.
//
// # Categorical Layers
//
// The scene classification layer (SCL) carries discrete class codes 0-11
// (cloud, shadow, water, vegetation, ...). Categorical layers must be
// resampled with nearest-neighbor sampling: smooth interpolation between
// class codes would invent classes that do not exist.
//
// # Output
//
// The extraction produces exactly size² rows in row-major order, one per
// pixel of the crop: projected center coordinates, grid position, every band
// that could be read, and every index whose input bands were all present.
// The column set is run-dependent by design.
package domain
