package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/radar-mms/ccl/internal/cache"
	"github.com/radar-mms/ccl/internal/config"
	"github.com/radar-mms/ccl/internal/lib/argerr"
	"github.com/radar-mms/ccl/internal/lib/geo"
	"github.com/radar-mms/ccl/internal/lib/orthodrom"
	"github.com/radar-mms/ccl/internal/lib/traverse"
	"github.com/radar-mms/ccl/internal/metrics"
)

// MaxZoom is the deepest zoom level whose tile indices fit in uint32
const MaxZoom = 30

// ErrInvalidArgument is matched by every rejected request
var ErrInvalidArgument = argerr.ErrInvalidArgument

// TraverseRequest asks for a survey path over Polygon. Unset parameters take
// the planner defaults.
type TraverseRequest struct {
	Polygon    geo.Polygon           `json:"polygon"`
	Angle      *float64              `json:"angle,omitempty"`
	Spacing    *float64              `json:"spacing,omitempty"`
	TurnAround *float64              `json:"turn_around,omitempty"`
	Entry      *traverse.EntryCorner `json:"entry,omitempty"`
}

// TraverseResponse is a built survey path
type TraverseResponse struct {
	Path            geo.Path         `json:"path"`
	EncodedPolyline string           `json:"encoded_polyline"`
	Options         traverse.Options `json:"options"`
	Stats           traverse.Stats   `json:"stats"`
	Cached          bool             `json:"cached"`
}

// OrthodromRequest asks for a sampled great-circle route
type OrthodromRequest struct {
	First     geo.Coordinate `json:"first"`
	Second    geo.Coordinate `json:"second"`
	SpacingKm *float64       `json:"spacing_km,omitempty"`
}

// OrthodromResponse is a sampled great-circle route
type OrthodromResponse struct {
	Path            geo.Path `json:"path"`
	EncodedPolyline string   `json:"encoded_polyline"`
	DistanceKm      float64  `json:"distance_km"`
	Degenerate      bool     `json:"degenerate"`
	Cached          bool     `json:"cached"`
}

// PixelResponse locates a coordinate on the web-mercator tile grid
type PixelResponse struct {
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
	Tile geo.TileKey `json:"tile"`
}

// TileCoverageResponse lists the tiles covering a path
type TileCoverageResponse struct {
	Count int           `json:"count"`
	Tiles []geo.TileKey `json:"tiles"`
}

// PlannerService plans survey traverses and great-circle routes with
// cached results
type PlannerService struct {
	cache  *cache.Cache
	config *config.PlannerConfig
	logger *slog.Logger
}

// NewPlannerService creates a PlannerService. A nil logger uses slog.Default.
func NewPlannerService(c *cache.Cache, cfg *config.PlannerConfig, logger *slog.Logger) *PlannerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlannerService{cache: c, config: cfg, logger: logger}
}

// Options resolves req against the planner defaults
func (s *PlannerService) Options(req TraverseRequest) traverse.Options {
	opts := traverse.Options{
		Angle:      s.config.DefaultAngle,
		Spacing:    s.config.DefaultSpacing,
		TurnAround: s.config.DefaultTurnAround,
		Entry:      s.config.Entry(),
	}
	if req.Angle != nil {
		opts.Angle = *req.Angle
	}
	if req.Spacing != nil {
		opts.Spacing = *req.Spacing
	}
	if req.TurnAround != nil {
		opts.TurnAround = *req.TurnAround
	}
	if req.Entry != nil {
		opts.Entry = *req.Entry
	}
	return opts
}

// PlanTraverse builds the survey path for req, serving repeated requests
// from the plan cache
func (s *PlannerService) PlanTraverse(ctx context.Context, req TraverseRequest) (*TraverseResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := s.Options(req)
	if err := opts.Validate(); err != nil {
		metrics.TraverseBuilds.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if err := validateCoordinates("polygon", req.Polygon); err != nil {
		metrics.TraverseBuilds.WithLabelValues("invalid").Inc()
		return nil, err
	}

	key, err := cache.HashKey("traverse", req.Polygon, opts)
	if err != nil {
		return nil, err
	}

	var cached TraverseResponse
	if found, err := s.cache.Get(key, &cached); err != nil {
		s.logger.Warn("Plan cache read failed", "error", err)
	} else if found {
		metrics.CacheHits.WithLabelValues("traverse").Inc()
		metrics.TraverseBuilds.WithLabelValues("cached").Inc()
		s.logger.Debug("Returning cached traverse", "transects", cached.Stats.Transects)
		cached.Cached = true
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("traverse").Inc()

	path, err := traverse.BuildWithOptions(req.Polygon, opts)
	if err != nil {
		metrics.TraverseBuilds.WithLabelValues("invalid").Inc()
		return nil, err
	}

	resp := &TraverseResponse{
		Path:            path,
		EncodedPolyline: geo.EncodePath(path),
		Options:         opts,
		Stats:           traverse.Summarize(req.Polygon, path),
	}
	metrics.TraverseBuilds.WithLabelValues("ok").Inc()
	metrics.TraverseTransects.Observe(float64(resp.Stats.Transects))

	s.logger.Info("Traverse planned",
		"vertices", len(req.Polygon),
		"transects", resp.Stats.Transects,
		"length_m", math.Round(resp.Stats.PathLengthMeters),
		"spacing", opts.Spacing,
		"angle", opts.Angle,
		"entry", opts.Entry.String())

	if err := s.cache.Set(key, resp, s.config.CacheTTL, "traverse"); err != nil {
		s.logger.Warn("Failed to cache traverse", "error", err)
	}
	return resp, nil
}

// PlanOrthodrom samples the great circle between the request endpoints
func (s *PlannerService) PlanOrthodrom(ctx context.Context, req OrthodromRequest) (*OrthodromResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spacing := s.config.OrthodromSpacing
	if req.SpacingKm != nil {
		spacing = *req.SpacingKm
	}
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil, argerr.New("spacing_km", "must be positive, got %g", spacing)
	}
	if !req.First.IsValid() {
		return nil, argerr.New("first", "coordinate out of range: %.6f, %.6f", req.First.Latitude, req.First.Longitude)
	}
	if !req.Second.IsValid() {
		return nil, argerr.New("second", "coordinate out of range: %.6f, %.6f", req.Second.Latitude, req.Second.Longitude)
	}

	key, err := cache.HashKey("orthodrom", req.First, req.Second, spacing)
	if err != nil {
		return nil, err
	}

	var cached OrthodromResponse
	if found, err := s.cache.Get(key, &cached); err != nil {
		s.logger.Warn("Plan cache read failed", "error", err)
	} else if found {
		metrics.CacheHits.WithLabelValues("orthodrom").Inc()
		cached.Cached = true
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("orthodrom").Inc()

	o := orthodrom.New(req.First, req.Second)
	path := o.Sample(spacing)

	resp := &OrthodromResponse{
		Path:            path,
		EncodedPolyline: geo.EncodePath(path),
		DistanceKm:      o.Distance(),
		Degenerate:      o.Degenerate(),
	}
	metrics.OrthodromSamples.Observe(float64(len(path)))

	s.logger.Info("Orthodrom planned",
		"distance_km", math.Round(resp.DistanceKm*10)/10,
		"points", len(path),
		"degenerate", resp.Degenerate)

	if err := s.cache.Set(key, resp, s.config.CacheTTL, "orthodrom"); err != nil {
		s.logger.Warn("Failed to cache orthodrom", "error", err)
	}
	return resp, nil
}

// ZoomForResolution returns the fractional zoom level for metersPerPixel at
// latitude
func (s *PlannerService) ZoomForResolution(latitude, metersPerPixel float64) (float64, error) {
	if !(latitude >= -90 && latitude <= 90) {
		return 0, argerr.New("lat", "must be within [-90, 90], got %g", latitude)
	}
	if !(metersPerPixel >= 0) || math.IsInf(metersPerPixel, 0) {
		return 0, argerr.New("mpp", "must be a non-negative number, got %g", metersPerPixel)
	}
	return geo.ZoomLevelForResolution(latitude, metersPerPixel), nil
}

// Pixel locates coord in tile units at zoom
func (s *PlannerService) Pixel(coord geo.Coordinate, zoom uint) (*PixelResponse, error) {
	if zoom > MaxZoom {
		return nil, argerr.New("zoom", "must be at most %d, got %d", MaxZoom, zoom)
	}
	if !coord.IsValid() || math.Abs(coord.Latitude) > geo.MaxLatitude {
		return nil, argerr.New("lat", "must be within the mercator range ±%.4f, got %g", geo.MaxLatitude, coord.Latitude)
	}

	x, y := geo.GeoToPixel(coord, zoom)
	return &PixelResponse{
		X: x,
		Y: y,
		Tile: geo.TileKey{
			Zoom: zoom,
			X:    geo.LongitudeToTileX(coord.Longitude, zoom),
			Y:    geo.LatitudeToTileY(coord.Latitude, zoom),
		},
	}, nil
}

// TileCoverage lists the tiles covering the bounding box of path at zoom.
// maxTiles of zero or less uses the configured limit.
func (s *PlannerService) TileCoverage(ctx context.Context, path geo.Path, zoom uint, maxTiles int) (*TileCoverageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if zoom > MaxZoom {
		return nil, argerr.New("zoom", "must be at most %d, got %d", MaxZoom, zoom)
	}
	if len(path) == 0 {
		return nil, argerr.New("path", "must not be empty")
	}
	if err := validateCoordinates("path", geo.Polygon(path)); err != nil {
		return nil, err
	}

	limit := s.config.MaxTiles
	if maxTiles > 0 && maxTiles < limit {
		limit = maxTiles
	}
	if n := geo.EstimateTiles(path, zoom); n > limit {
		return nil, argerr.New("zoom", "path covers %d tiles at zoom %d, limit is %d", n, zoom, limit)
	}

	tiles := geo.TilesForPath(path, zoom)
	return &TileCoverageResponse{Count: len(tiles), Tiles: tiles}, nil
}

func validateCoordinates(field string, coords geo.Polygon) error {
	for i, c := range coords {
		if !c.IsValid() {
			return argerr.New(field, "vertex %d out of range: %.6f, %.6f", i, c.Latitude, c.Longitude)
		}
	}
	return nil
}

// String describes the service configuration for startup logs
func (s *PlannerService) String() string {
	return fmt.Sprintf("planner(spacing=%gm, entry=%s, cache_ttl=%s)",
		s.config.DefaultSpacing, s.config.DefaultEntry, s.config.CacheTTL)
}
