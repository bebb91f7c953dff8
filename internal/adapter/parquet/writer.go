// Package parquet implements domain.TableWriter with a run-dependent
// Parquet schema via github.com/parquet-go/parquet-go.
package parquet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	pq "github.com/parquet-go/parquet-go"

	"github.com/geosift/s2extract/internal/domain"
)

// writeBatchRows bounds memory held in row maps between writer flushes.
const writeBatchRows = 8192

// Writer persists assembled pixel tables as Snappy-compressed Parquet.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Parquet table writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write builds a schema from the table's columns and streams every row in
// order. The destination directory is created if needed; a failed write
// leaves no partial file behind.
func (w *Writer) Write(ctx context.Context, t *domain.Table, dest string) error {
	schema, err := buildSchema(t)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := w.writeRows(ctx, f, schema, t); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("close output file: %w", err)
	}

	w.logger.Info("parquet file written", "dest", dest, "rows", t.Rows, "columns", len(t.Columns))
	return nil
}

func (w *Writer) writeRows(ctx context.Context, f *os.File, schema *pq.Schema, t *domain.Table) error {
	pw := pq.NewGenericWriter[map[string]any](f, schema, pq.Compression(&pq.Snappy))

	batch := make([]map[string]any, 0, writeBatchRows)
	for i := 0; i < t.Rows; i++ {
		row := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			row[col.Name] = col.Value(i)
		}
		batch = append(batch, row)

		if len(batch) == writeBatchRows {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := pw.Write(batch); err != nil {
				return fmt.Errorf("write row batch: %w", err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := pw.Write(batch); err != nil {
			return fmt.Errorf("write row batch: %w", err)
		}
	}

	if err := pw.Close(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return nil
}

// buildSchema maps the table's column types onto Parquet leaf nodes.
func buildSchema(t *domain.Table) (*pq.Schema, error) {
	group := pq.Group{}
	for _, col := range t.Columns {
		switch col.Type {
		case domain.Float64Column:
			group[col.Name] = pq.Leaf(pq.DoubleType)
		case domain.Float32Column:
			group[col.Name] = pq.Leaf(pq.FloatType)
		case domain.Int16Column:
			group[col.Name] = pq.Int(16)
		case domain.Uint8Column:
			group[col.Name] = pq.Uint(8)
		default:
			return nil, fmt.Errorf("column %s has unsupported type %d", col.Name, col.Type)
		}
	}
	return pq.NewSchema("pixels", group), nil
}
