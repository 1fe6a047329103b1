package entity

// ColumnStats mirrors the describe() summary of a numeric column. Pointers are
// nil where the statistic is undefined (std with fewer than two values, and
// everything but count for a column without values).
type ColumnStats struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	P25   *float64 `json:"25%"`
	P50   *float64 `json:"50%"`
	P75   *float64 `json:"75%"`
	Max   *float64 `json:"max"`
}

// ColumnStatsResult is the statistics entry for one requested column.
type ColumnStatsResult struct {
	Column     string       `json:"column"`
	Applicable bool         `json:"applicable"`
	Message    string       `json:"message,omitempty"`
	Stats      *ColumnStats `json:"stats,omitempty"`
}
