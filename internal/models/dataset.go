package models

// Row is one record of a tabular dataset. Values are strings, numbers or nil.
type Row map[string]any

// Dataset is an ordered tabular dataset. Column order is preserved from the
// source file so that downstream lookups stay deterministic.
type Dataset struct {
	Columns []string
	Rows    []Row
}

func (d *Dataset) RowsCount() int {
	return len(d.Rows)
}

func (d *Dataset) ColumnsCount() int {
	return len(d.Columns)
}

func (d *Dataset) IsEmpty() bool {
	return len(d.Rows) == 0 || len(d.Columns) == 0
}

// Select returns a new dataset containing only the given columns, in the
// given order. Rows are copied; the receiver is not modified.
func (d *Dataset) Select(columns []string) *Dataset {
	out := &Dataset{Columns: append([]string(nil), columns...)}
	for _, row := range d.Rows {
		newRow := make(Row, len(columns))
		for _, col := range columns {
			if v, ok := row[col]; ok {
				newRow[col] = v
			}
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// Head returns the first n rows (or fewer) as a new dataset sharing no row
// maps with the receiver.
func (d *Dataset) Head(n int) *Dataset {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := &Dataset{Columns: append([]string(nil), d.Columns...)}
	for _, row := range d.Rows[:n] {
		newRow := make(Row, len(row))
		for k, v := range row {
			newRow[k] = v
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}
