package domain

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Scene is one catalogued satellite acquisition. Immutable once selected.
type Scene struct {
	ID         string
	Collection string
	AcquiredAt time.Time
	CloudCover float64 // percent
	MGRSTile   string
	Footprint  orb.Geometry
	Assets     map[string]string // band key -> asset href
}

// Asset returns the href for a band key, reporting whether it exists.
func (s Scene) Asset(key string) (string, bool) {
	href, ok := s.Assets[key]
	return href, ok
}

// Contains reports whether the scene footprint covers the given lon/lat
// point. Scenes near tile boundaries list in bbox searches without actually
// covering the region center, so containment is checked explicitly.
func (s Scene) Contains(lon, lat float64) bool {
	p := orb.Point{lon, lat}
	switch g := s.Footprint.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	default:
		return false
	}
}

// SelectScene keeps the candidates whose footprint contains (lon, lat) and
// returns the one with the lowest cloud cover. Returns ErrNoCandidateScene,
// annotated with the search parameters, when the filtered set is empty.
func SelectScene(candidates []Scene, q SceneQuery) (Scene, error) {
	lon, lat := q.BBox.Center()

	var best *Scene
	for i := range candidates {
		c := &candidates[i]
		if !c.Contains(lon, lat) {
			continue
		}
		if best == nil || c.CloudCover < best.CloudCover {
			best = c
		}
	}
	if best == nil {
		return Scene{}, fmt.Errorf("%w: collection=%s center=(%.4f, %.4f) time=%s cloud<%.1f%% (%d candidates checked)",
			ErrNoCandidateScene, q.Collection, lon, lat, q.TimeRange, q.MaxCloudCover, len(candidates))
	}
	return *best, nil
}

// RunManifest summarizes one completed extraction run.
type RunManifest struct {
	SceneID     string    `json:"scene_id"`
	Collection  string    `json:"collection"`
	MGRSTile    string    `json:"mgrs_tile,omitempty"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	Output      string    `json:"output"`
	GeneratedAt time.Time `json:"generated_at"`
}
