package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

//nolint:gochecknoglobals // read-only lookup
var naValues = map[string]struct{}{
	"NA":   {},
	"N/A":  {},
	"#N/A": {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

// Parse reads UTF-8 CSV bytes into a table. The first record names the
// columns; short rows are padded with nulls and extra fields are dropped.
// Empty or whitespace-only input yields an empty table and no error.
func Parse(data []byte) (*entity.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrParse)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return entity.EmptyTable(), nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return entity.EmptyTable(), nil
		}
		return nil, fmt.Errorf("%w: header: %w", ErrParse, err)
	}
	columns := headerNames(header)

	var rows [][]entity.Value
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if isBlankRecord(record) {
			continue
		}

		row := make([]entity.Value, len(columns))
		for i := range columns {
			if i < len(record) {
				row[i] = parseCell(record[i])
			} else {
				row[i] = entity.Null()
			}
		}
		rows = append(rows, row)
	}

	demoteMixedColumns(len(columns), rows)

	table, err := entity.NewTable(columns, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return table, nil
}

// headerNames names blank headers "Unnamed: <i>" and suffixes repeats with
// ".1", ".2", ... so every column name is unique.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]struct{}, len(header))
	counts := make(map[string]int, len(header))

	for i, raw := range header {
		name := raw
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		if _, dup := used[name]; dup {
			base := name
			n := counts[base]
			for {
				n++
				name = base + "." + strconv.Itoa(n)
				if _, taken := used[name]; !taken {
					break
				}
			}
			counts[base] = n
		}

		used[name] = struct{}{}
		names[i] = name
	}
	return names
}

func isBlankRecord(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

func parseCell(raw string) entity.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return entity.Null()
	}
	if _, na := naValues[trimmed]; na {
		return entity.Null()
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return entity.Number(f, raw)
	}
	return entity.Text(raw)
}

// demoteMixedColumns turns numbers into text in every column that also holds
// text, so a column is numeric only when all its non-null cells are.
func demoteMixedColumns(ncol int, rows [][]entity.Value) {
	for c := 0; c < ncol; c++ {
		mixed := false
		for _, row := range rows {
			if row[c].Kind == entity.KindText {
				mixed = true
				break
			}
		}
		if !mixed {
			continue
		}

		for _, row := range rows {
			if row[c].Kind == entity.KindNumber {
				row[c] = entity.Text(row[c].Raw)
			}
		}
	}
}
