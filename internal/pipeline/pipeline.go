// Package pipeline orchestrates one extraction run: scene selection, grid
// alignment, concurrent band reads, coordinate and index computation, and
// table assembly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/geosift/s2extract/internal/domain"
	"github.com/geosift/s2extract/internal/observability"
)

// Config is the explicit per-run configuration. No ambient state survives
// across runs.
type Config struct {
	Query           domain.SceneQuery
	Bands           []domain.BandSpec
	ReferenceBand   string // band key anchoring the reference grid
	CropSize        int    // requested pixels per side before alignment
	OutputFile      string
	ReadConcurrency int
}

// Pipeline wires the external collaborators into the extraction flow.
type Pipeline struct {
	catalog   domain.Catalog
	rasters   domain.RasterSource
	projector domain.Projector
	writer    domain.TableWriter
	announcer domain.Announcer // nil disables announcements
	logger    *slog.Logger
	metrics   *observability.Metrics
	cfg       Config
}

// New creates a Pipeline. announcer may be nil.
func New(catalog domain.Catalog, rasters domain.RasterSource, projector domain.Projector,
	writer domain.TableWriter, announcer domain.Announcer,
	logger *slog.Logger, metrics *observability.Metrics, cfg Config) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		rasters:   rasters,
		projector: projector,
		writer:    writer,
		announcer: announcer,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Run executes one extraction. Any fatal condition aborts the run before the
// output file is written; missing bands degrade the column set instead.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.ExtractionRunning.Set(1)
	defer p.metrics.ExtractionRunning.Set(0)
	defer func() {
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	scene, err := p.selectScene(ctx)
	if err != nil {
		return err
	}

	crop, ref, err := p.alignCrop(ctx, scene)
	if err != nil {
		return err
	}

	bands, err := p.readBands(ctx, scene, crop, ref)
	if err != nil {
		return err
	}

	coords := domain.PixelCenters(crop)
	p.logger.Info("pixel coordinates generated",
		"x_min", floats.Min(coords.X), "x_max", floats.Max(coords.X),
		"y_min", floats.Min(coords.Y), "y_max", floats.Max(coords.Y),
	)

	indices := domain.ComputeIndices(bands)
	p.metrics.IndicesComputed.Add(float64(len(indices)))
	p.logger.Info("spectral indices computed", "count", len(indices))

	table := domain.AssembleTable(coords, bands, indices)
	if err := p.writer.Write(ctx, table, p.cfg.OutputFile); err != nil {
		return fmt.Errorf("write output table: %w", err)
	}
	p.metrics.RowsWritten.Add(float64(table.Rows))

	manifest := domain.RunManifest{
		SceneID:     scene.ID,
		Collection:  scene.Collection,
		MGRSTile:    scene.MGRSTile,
		Rows:        table.Rows,
		Columns:     table.ColumnNames(),
		Output:      p.cfg.OutputFile,
		GeneratedAt: domain.Now(),
	}
	p.announce(ctx, manifest)

	p.logger.Info("extraction complete",
		"scene_id", scene.ID,
		"rows", table.Rows,
		"columns", len(table.Columns),
		"output", p.cfg.OutputFile,
		"duration", time.Since(start),
	)
	return nil
}

// selectScene queries the catalog and picks the least-cloudy scene covering
// the region center.
func (p *Pipeline) selectScene(ctx context.Context) (domain.Scene, error) {
	candidates, err := p.catalog.Search(ctx, p.cfg.Query)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("catalog search: %w", err)
	}
	p.metrics.ScenesEvaluated.Add(float64(len(candidates)))

	scene, err := domain.SelectScene(candidates, p.cfg.Query)
	if err != nil {
		return domain.Scene{}, err
	}

	p.logger.Info("scene selected",
		"scene_id", scene.ID,
		"mgrs_tile", scene.MGRSTile,
		"acquired_at", scene.AcquiredAt,
		"cloud_cover", scene.CloudCover,
		"candidates", len(candidates),
	)
	return scene, nil
}

// alignCrop opens the reference band and computes the multi-resolution
// aligned crop window centered on the region center. The reference info is
// returned alongside so later stages reuse the already-read header.
func (p *Pipeline) alignCrop(ctx context.Context, scene domain.Scene) (domain.CropSpec, domain.RasterInfo, error) {
	refHref, ok := scene.Asset(p.cfg.ReferenceBand)
	if !ok {
		return domain.CropSpec{}, domain.RasterInfo{}, fmt.Errorf("reference band %s: %w", p.cfg.ReferenceBand, domain.ErrBandUnavailable)
	}

	ref, err := p.rasters.Info(ctx, refHref)
	if err != nil {
		return domain.CropSpec{}, domain.RasterInfo{}, fmt.Errorf("open reference band %s: %w", p.cfg.ReferenceBand, err)
	}

	lon, lat := p.cfg.Query.BBox.Center()
	targetX, targetY, err := p.projector.Project(lon, lat, ref.CRS)
	if err != nil {
		return domain.CropSpec{}, domain.RasterInfo{}, fmt.Errorf("project region center: %w", err)
	}

	crop, err := domain.AlignCrop(ref, p.cfg.CropSize, domain.Multipliers(p.cfg.Bands), targetX, targetY)
	if err != nil {
		return domain.CropSpec{}, domain.RasterInfo{}, err
	}

	p.logger.Info("crop window aligned",
		"reference", fmt.Sprintf("%dx%d", ref.Width, ref.Height),
		"size", crop.Size,
		"offset_x", crop.OffsetX,
		"offset_y", crop.OffsetY,
		"megapixels", float64(crop.Size)*float64(crop.Size)/1e6,
	)
	return crop, ref, nil
}

// readBands reads every available band concurrently onto the reference grid.
// A missing asset skips the band; any read failure cancels the remaining
// reads and aborts the run.
func (p *Pipeline) readBands(ctx context.Context, scene domain.Scene, crop domain.CropSpec, ref domain.RasterInfo) ([]*domain.AlignedBand, error) {
	classes := domain.Multipliers(p.cfg.Bands)

	// Results are written at disjoint indices, so band order is preserved
	// without locking.
	results := make([]*domain.AlignedBand, len(p.cfg.Bands))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.ReadConcurrency, 1))

	for i, spec := range p.cfg.Bands {
		i, spec := i, spec
		href, ok := scene.Asset(spec.Key)
		if !ok {
			p.logger.Warn("band unavailable, omitting", "band", spec.Key, "label", spec.Label)
			p.metrics.BandsMissing.Inc()
			continue
		}

		g.Go(func() error {
			band, err := p.readBand(gctx, spec, href, ref, crop, classes)
			if err != nil {
				return fmt.Errorf("band %s: %w", spec.Key, err)
			}
			results[i] = band
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bands := make([]*domain.AlignedBand, 0, len(results))
	for _, b := range results {
		if b != nil {
			bands = append(bands, b)
		}
	}
	return bands, nil
}

// readBand maps the reference-grid window into the band's native grid and
// reads it resampled to the uniform crop size.
func (p *Pipeline) readBand(ctx context.Context, spec domain.BandSpec, href string,
	ref domain.RasterInfo, crop domain.CropSpec, classes []int) (*domain.AlignedBand, error) {
	start := time.Now()

	native, err := p.rasters.Info(ctx, href)
	if err != nil {
		return nil, err
	}

	ratio, err := domain.ResolveRatio(ref, native, classes)
	if err != nil {
		return nil, err
	}

	pixels, err := p.rasters.Read(ctx, href, crop.NativeWindow(ratio), crop.Size, spec.Resampling())
	if err != nil {
		return nil, err
	}
	if len(pixels) != crop.Size*crop.Size {
		return nil, fmt.Errorf("read returned %d samples, want %d", len(pixels), crop.Size*crop.Size)
	}

	p.metrics.BandsRead.Inc()
	p.metrics.BandReadDuration.Observe(time.Since(start).Seconds())
	p.logger.Debug("band aligned",
		"band", spec.Key,
		"label", spec.Label,
		"native", fmt.Sprintf("%dx%d", native.Width, native.Height),
		"ratio", ratio,
		"duration", time.Since(start),
	)

	return &domain.AlignedBand{Spec: spec, Size: crop.Size, Pixels: pixels}, nil
}

// announce publishes the run manifest. Announcement is a best-effort side
// channel: the output file already exists, so failures are logged and the
// run still succeeds.
func (p *Pipeline) announce(ctx context.Context, m domain.RunManifest) {
	if p.announcer == nil {
		return
	}
	if err := p.announcer.Announce(ctx, m); err != nil {
		p.logger.Warn("dataset announcement failed", "scene_id", m.SceneID, "error", err)
	}
}
