package domain

import "fmt"

// ColumnType enumerates the physical types the table can carry. Categorical
// bands keep their narrow integer type; continuous bands and indices are
// single-precision floats; coordinates are double-precision.
type ColumnType int

const (
	Float64Column ColumnType = iota
	Float32Column
	Int16Column
	Uint8Column
)

// Column is one named, typed column of size² values. Exactly one of the
// value slices is populated, matching Type.
type Column struct {
	Name     string
	Type     ColumnType
	Float64s []float64
	Float32s []float32
	Int16s   []int16
	Uint8s   []uint8
}

// Value returns the i-th cell as an untyped value.
func (c Column) Value(i int) any {
	switch c.Type {
	case Float64Column:
		return c.Float64s[i]
	case Float32Column:
		return c.Float32s[i]
	case Int16Column:
		return c.Int16s[i]
	case Uint8Column:
		return c.Uint8s[i]
	default:
		panic(fmt.Sprintf("unknown column type %d", c.Type))
	}
}

// Table is the assembled per-pixel row set: Rows rows in row-major pixel
// order, columnar storage per column. The schema is run-dependent; column
// presence reflects what was successfully read and computed upstream.
type Table struct {
	Rows    int
	Columns []Column
}

// ColumnNames returns the column names in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// AssembleTable flattens the coordinate grids, aligned bands, and index
// grids into one table of size² rows. Row order is row-major over (row, col)
// and is stable for identical inputs. No numeric computation happens here;
// the only contract is lossless order and type preservation.
func AssembleTable(coords CoordinateGrid, bands []*AlignedBand, indices []IndexGrid) *Table {
	size := coords.Size
	n := size * size

	rowIdx := make([]int16, n)
	colIdx := make([]int16, n)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			i := row*size + col
			rowIdx[i] = int16(row)
			colIdx[i] = int16(col)
		}
	}

	t := &Table{Rows: n}
	t.Columns = append(t.Columns,
		Column{Name: "x", Type: Float64Column, Float64s: coords.X},
		Column{Name: "y", Type: Float64Column, Float64s: coords.Y},
		Column{Name: "row", Type: Int16Column, Int16s: rowIdx},
		Column{Name: "col", Type: Int16Column, Int16s: colIdx},
	)

	for _, b := range bands {
		t.Columns = append(t.Columns, bandColumn(b))
	}
	for _, idx := range indices {
		t.Columns = append(t.Columns, Column{Name: idx.Name, Type: Float32Column, Float32s: idx.Values})
	}
	return t
}

// bandColumn converts an aligned band into its output column. Categorical
// class codes are narrowed to uint8 (SCL codes are 0-11); everything else is
// emitted as float32.
func bandColumn(b *AlignedBand) Column {
	if b.Spec.Kind == Categorical {
		codes := make([]uint8, len(b.Pixels))
		for i, v := range b.Pixels {
			codes[i] = uint8(v)
		}
		return Column{Name: b.Spec.Label, Type: Uint8Column, Uint8s: codes}
	}
	return Column{Name: b.Spec.Label, Type: Float32Column, Float32s: b.Pixels}
}
