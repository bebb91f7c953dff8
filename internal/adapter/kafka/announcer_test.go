package kafka

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geosift/s2extract/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManifestMessage(t *testing.T) {
	generated := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	manifest := domain.RunManifest{
		SceneID:     "S2B_MSIL2A_TEST",
		Collection:  "sentinel-2-l2a",
		MGRSTile:    "10SEG",
		Rows:        9960336,
		Columns:     []string{"x", "y", "row", "col", "red", "ndvi"},
		Output:      "sentinel2_pixels.parquet",
		GeneratedAt: generated,
	}

	msg, err := manifestMessage(manifest)
	require.NoError(t, err)

	t.Run("keyed by scene for per-scene ordering", func(t *testing.T) {
		assert.Equal(t, []byte("S2B_MSIL2A_TEST"), msg.Key)
	})

	t.Run("routing headers", func(t *testing.T) {
		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "sentinel-2-l2a", headers["collection"])
		assert.Equal(t, "2024-08-01T12:00:00Z", headers["generated_at"])
	})

	t.Run("body round-trips the manifest", func(t *testing.T) {
		var got domain.RunManifest
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, manifest, got)
	})

	t.Run("wire field names are stable", func(t *testing.T) {
		var raw map[string]any
		require.NoError(t, json.Unmarshal(msg.Value, &raw))
		for _, key := range []string{"scene_id", "collection", "mgrs_tile", "rows", "columns", "output", "generated_at"} {
			assert.Contains(t, raw, key)
		}
	})
}

func TestNewAnnouncer_WriterSettings(t *testing.T) {
	a := NewAnnouncer([]string{"broker-1:9092", "broker-2:9092"}, "dataset-announcements", testLogger())
	defer a.Close()

	assert.Equal(t, "dataset-announcements", a.writer.Topic)
	assert.Equal(t, "broker-1:9092,broker-2:9092", a.writer.Addr.String())
	assert.Equal(t, kafkago.RequireAll, a.writer.RequiredAcks)
}
