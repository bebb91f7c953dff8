// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/geosift/s2extract/internal/domain"
)

// Config holds all settings for one extraction run, populated from
// environment variables.
type Config struct {
	STACEndpoint  string
	SignEndpoint  string
	Collection    string
	BBox          domain.BoundingBox
	TimeRange     string
	MaxCloudCover float64
	SearchLimit   int

	CropSize      int
	ReferenceBand string
	OutputFile    string

	ReadConcurrency int
	HTTPTimeout     time.Duration

	LogLevel    string
	LogFormat   string
	MetricsAddr string // empty disables the /metrics listener

	// Kafka announcement configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	bbox, err := parseBBox(envOrDefault("S2_BBOX", "-122.65,37.60,-122.25,37.90"))
	if err != nil {
		return nil, err
	}

	maxCloud, err := strconv.ParseFloat(envOrDefault("S2_MAX_CLOUD_COVER", "5"), 64)
	if err != nil || maxCloud < 0 || maxCloud > 100 {
		return nil, errors.New("invalid S2_MAX_CLOUD_COVER: want a percentage in [0, 100]")
	}

	cropSize, err := strconv.Atoi(envOrDefault("S2_CROP_SIZE", "3156"))
	if err != nil || cropSize <= 0 {
		return nil, errors.New("invalid S2_CROP_SIZE: want a positive pixel count")
	}

	concurrency, err := strconv.Atoi(envOrDefault("S2_READ_CONCURRENCY", "4"))
	if err != nil || concurrency <= 0 {
		return nil, errors.New("invalid S2_READ_CONCURRENCY: want a positive worker count")
	}

	limit, err := strconv.Atoi(envOrDefault("S2_SEARCH_LIMIT", "30"))
	if err != nil || limit <= 0 {
		return nil, errors.New("invalid S2_SEARCH_LIMIT: want a positive item count")
	}

	httpTimeout, err := time.ParseDuration(envOrDefault("HTTP_TIMEOUT", "30s"))
	if err != nil || httpTimeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	timeRange := envOrDefault("S2_TIME_RANGE", "2024-06-01/2024-09-30")
	if !strings.Contains(timeRange, "/") {
		return nil, errors.New("invalid S2_TIME_RANGE: want an interval like 2024-06-01/2024-09-30")
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		STACEndpoint:  envOrDefault("STAC_ENDPOINT", "https://planetarycomputer.microsoft.com/api/stac/v1"),
		SignEndpoint:  envOrDefault("STAC_SIGN_ENDPOINT", "https://planetarycomputer.microsoft.com/api/sas/v1/sign"),
		Collection:    envOrDefault("S2_COLLECTION", "sentinel-2-l2a"),
		BBox:          bbox,
		TimeRange:     timeRange,
		MaxCloudCover: maxCloud,
		SearchLimit:   limit,

		CropSize:      cropSize,
		ReferenceBand: envOrDefault("S2_REFERENCE_BAND", "B04"),
		OutputFile:    envOrDefault("S2_OUTPUT_FILE", "sentinel2_pixels.parquet"),

		ReadConcurrency: concurrency,
		HTTPTimeout:     httpTimeout,

		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "dataset-announcements"),
		KafkaEnabled: len(brokers) > 0,
	}

	if cfg.STACEndpoint == "" {
		return nil, errors.New("STAC_ENDPOINT is required")
	}
	if cfg.OutputFile == "" {
		return nil, errors.New("S2_OUTPUT_FILE is required")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// Query builds the catalog search parameters from the loaded settings.
func (c *Config) Query() domain.SceneQuery {
	return domain.SceneQuery{
		Collection:    c.Collection,
		BBox:          c.BBox,
		TimeRange:     c.TimeRange,
		MaxCloudCover: c.MaxCloudCover,
		Limit:         c.SearchLimit,
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseBBox parses "minLon,minLat,maxLon,maxLat".
func parseBBox(s string) (domain.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, fmt.Errorf("invalid S2_BBOX %q: want minLon,minLat,maxLon,maxLat", s)
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, fmt.Errorf("invalid S2_BBOX component %q: %w", p, err)
		}
		vals[i] = v
	}

	b := domain.BoundingBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if b.MinLon >= b.MaxLon || b.MinLat >= b.MaxLat {
		return domain.BoundingBox{}, fmt.Errorf("invalid S2_BBOX %q: min must be less than max on both axes", s)
	}
	return b, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
