package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

const statsPrecision = 2

// ComputeStats summarizes every requested column in request order. Columns
// that are unknown or not numeric get a "No statistics for <col>" entry.
func ComputeStats(t *entity.Table, columns []string) []entity.ColumnStatsResult {
	out := make([]entity.ColumnStatsResult, 0, len(columns))
	for _, col := range columns {
		if !IsNumeric(t, col) {
			out = append(out, entity.ColumnStatsResult{
				Column:  col,
				Message: fmt.Sprintf("No statistics for %s", col),
			})
			continue
		}

		values := make([]float64, 0, t.NumRows())
		for _, v := range t.Column(col) {
			if v.Kind == entity.KindNumber {
				values = append(values, v.Num)
			}
		}

		stats := Describe(values)
		out = append(out, entity.ColumnStatsResult{Column: col, Applicable: true, Stats: &stats})
	}
	return out
}

// Describe computes count, mean, sample std, min, quartiles and max, rounded
// to two decimals. Quartiles interpolate linearly between closest ranks.
func Describe(values []float64) entity.ColumnStats {
	n := len(values)
	stats := entity.ColumnStats{Count: n}
	if n == 0 {
		return stats
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	stats.Mean = round(mean)
	stats.Min = round(sorted[0])
	stats.P25 = round(quantile(sorted, 0.25))
	stats.P50 = round(quantile(sorted, 0.50))
	stats.P75 = round(quantile(sorted, 0.75))
	stats.Max = round(sorted[n-1])

	if n > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - mean
			sq += d * d
		}
		stats.Std = round(math.Sqrt(sq / float64(n-1)))
	}

	return stats
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// round works on the exact binary value of v, so 2.675 (stored as
// 2.67499...) gives 2.67, and exact ties such as 0.125 go to the even digit.
func round(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := decimal.RequireFromString(strconv.FormatFloat(v, 'f', statsPrecision, 64)).InexactFloat64()
	return &r
}
