package pipeline

import "github.com/shandysiswandi/godash/internal/dashboard/entity"

// Validate keeps the requested columns that exist in t, in request order.
// Unknown and repeated names are dropped without error.
func Validate(t *entity.Table, requested []string) []string {
	out := make([]string, 0, len(requested))
	if t.IsEmpty() {
		return out
	}

	seen := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		if !t.Has(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// IsNumeric reports whether every non-null value of column is a number.
// A column holding only nulls counts as numeric; an unknown column does not.
func IsNumeric(t *entity.Table, column string) bool {
	if t.IsEmpty() {
		return false
	}

	kind, ok := t.ColumnKind(column)
	if !ok {
		return false
	}
	return kind != entity.KindText
}
