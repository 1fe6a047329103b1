package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Value is one typed cell. Raw keeps the source text so a table can be
// written back out without reformatting numbers.
type Value struct {
	Kind ValueKind
	Num  float64
	Raw  string
}

func Null() Value {
	return Value{Kind: KindNull}
}

func Text(s string) Value {
	return Value{Kind: KindText, Raw: s}
}

// Number builds a numeric value; raw may be empty for computed values.
func Number(n float64, raw string) Value {
	if raw == "" {
		raw = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return Value{Kind: KindNumber, Num: n, Raw: raw}
}

func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String is the text used for CSV export: empty for null, source text otherwise.
func (v Value) String() string {
	if v.Kind == KindNull {
		return ""
	}
	return v.Raw
}

// MarshalJSON renders null, a JSON number or a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindText:
		return json.Marshal(v.Raw)
	default:
		return []byte("null"), nil
	}
}

// Table is an immutable, column-ordered view of a parsed CSV file.
// Every row holds exactly one value per column.
type Table struct {
	columns []string
	kinds   []ValueKind
	rows    [][]Value
	index   map[string]int
}

// NewTable validates the shape of rows and the uniqueness of columns. The
// table takes ownership of both slices; callers must not modify them after.
func NewTable(columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
	}

	kinds := make([]ValueKind, len(columns))
	for c := range columns {
		kinds[c] = inferKind(rows, c)
	}

	return &Table{columns: columns, kinds: kinds, rows: rows, index: index}, nil
}

// EmptyTable returns a table with no columns and no rows.
func EmptyTable() *Table {
	return &Table{index: map[string]int{}}
}

// inferKind reports KindNumber when every non-null value is numeric, KindText
// when any is text and KindNull for an all-null column.
func inferKind(rows [][]Value, c int) ValueKind {
	kind := KindNull
	for _, row := range rows {
		switch row[c].Kind {
		case KindText:
			return KindText
		case KindNumber:
			kind = KindNumber
		}
	}
	return kind
}

func (t *Table) IsEmpty() bool {
	return t == nil || len(t.columns) == 0
}

// Columns returns a copy of the column names in source order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) NumRows() int {
	return len(t.rows)
}

func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// ColumnKind returns the inferred kind of column and whether it exists.
func (t *Table) ColumnKind(column string) (ValueKind, bool) {
	i, ok := t.index[column]
	if !ok {
		return KindNull, false
	}
	return t.kinds[i], true
}

// Column returns the values of column in row order, or nil when it is unknown.
func (t *Table) Column(column string) []Value {
	i, ok := t.index[column]
	if !ok {
		return nil
	}

	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out
}

// Row returns a copy of row r in column order.
func (t *Table) Row(r int) []Value {
	return append([]Value(nil), t.rows[r]...)
}

// Record returns row r keyed by column name.
func (t *Table) Record(r int) map[string]Value {
	rec := make(map[string]Value, len(t.columns))
	for i, name := range t.columns {
		rec[name] = t.rows[r][i]
	}
	return rec
}

// Head returns up to n leading rows as records.
func (t *Table) Head(n int) []map[string]Value {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}

	out := make([]map[string]Value, 0, n)
	for r := 0; r < n; r++ {
		out = append(out, t.Record(r))
	}
	return out
}
