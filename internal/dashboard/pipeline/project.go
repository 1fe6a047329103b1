package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

// MonthColumn is the x axis of bar and line charts.
const MonthColumn = "Month"

// Placeholder titles. The UI shows them in place of a chart.
const (
	TitleSelectColumn       = "Select at least one column"
	TitleInvalidData        = "Invalid data"
	TitleSelectTwoColumns   = "Select at least two columns for scatter plot"
	TitleInvalidColumns     = "Invalid columns"
	TitleSelectPieColumn    = "Select a column for pie chart"
	TitleInvalidPieColumn   = "Invalid column"
	titleByMonthSuffix      = " by Month"
	titleScatterPrefix      = "Scatter: "
	titlePiePrefix          = "Pie Chart: "
	scatterSeriesNameJoiner = " vs "
)

func ProjectBar(t *entity.Table, columns []string) entity.Figure {
	return projectByMonth(t, columns, entity.ChartBar)
}

func ProjectLine(t *entity.Table, columns []string) entity.Figure {
	return projectByMonth(t, columns, entity.ChartLine)
}

// projectByMonth emits one series per present column against the Month column.
func projectByMonth(t *entity.Table, columns []string, kind entity.ChartKind) entity.Figure {
	if len(columns) == 0 {
		return entity.PlaceholderFigure(kind, TitleSelectColumn)
	}
	if t.IsEmpty() || !t.Has(MonthColumn) {
		return entity.PlaceholderFigure(kind, TitleInvalidData)
	}

	months := t.Column(MonthColumn)
	series := make([]entity.ChartSeries, 0, len(columns))
	for _, col := range columns {
		if !t.Has(col) {
			continue
		}
		series = append(series, entity.ChartSeries{
			Kind: kind,
			Name: col,
			X:    months,
			Y:    t.Column(col),
		})
	}

	return entity.Figure{
		Kind:   kind,
		Title:  strings.Join(columns, " & ") + titleByMonthSuffix,
		Series: series,
	}
}

// ProjectScatter plots the first column against the second, row by row.
func ProjectScatter(t *entity.Table, columns []string) entity.Figure {
	if len(columns) < 2 {
		return entity.PlaceholderFigure(entity.ChartScatter, TitleSelectTwoColumns)
	}

	xCol, yCol := columns[0], columns[1]
	if t.IsEmpty() || !t.Has(xCol) || !t.Has(yCol) {
		return entity.PlaceholderFigure(entity.ChartScatter, TitleInvalidColumns)
	}

	name := xCol + scatterSeriesNameJoiner + yCol
	return entity.Figure{
		Kind:  entity.ChartScatter,
		Title: titleScatterPrefix + name,
		Series: []entity.ChartSeries{{
			Kind: entity.ChartScatter,
			Name: name,
			X:    t.Column(xCol),
			Y:    t.Column(yCol),
		}},
	}
}

// ProjectPie counts the distinct values of the first column. Labels are
// ordered by descending count; ties keep first-seen order.
func ProjectPie(t *entity.Table, columns []string) entity.Figure {
	if len(columns) == 0 {
		return entity.PlaceholderFigure(entity.ChartPie, TitleSelectPieColumn)
	}

	col := columns[0]
	if t.IsEmpty() || !t.Has(col) {
		return entity.PlaceholderFigure(entity.ChartPie, TitleInvalidPieColumn)
	}

	labels, counts := valueCounts(t.Column(col))
	return entity.Figure{
		Kind:  entity.ChartPie,
		Title: titlePiePrefix + col,
		Series: []entity.ChartSeries{{
			Kind:   entity.ChartPie,
			Name:   col,
			Labels: labels,
			Values: counts,
		}},
	}
}

type bucket struct {
	label entity.Value
	count int
}

func valueCounts(values []entity.Value) ([]entity.Value, []int) {
	index := make(map[string]int)
	buckets := make([]bucket, 0)

	for _, v := range values {
		key := groupKey(v)
		if i, ok := index[key]; ok {
			buckets[i].count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, bucket{label: v, count: 1})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].count > buckets[j].count
	})

	labels := make([]entity.Value, len(buckets))
	counts := make([]int, len(buckets))
	for i, b := range buckets {
		labels[i] = b.label
		counts[i] = b.count
	}
	return labels, counts
}

// groupKey makes numbers equal by value ("1" and "1.0") and keeps null apart
// from the text "null".
func groupKey(v entity.Value) string {
	switch v.Kind {
	case entity.KindNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case entity.KindText:
		return "t:" + v.Raw
	default:
		return "null"
	}
}
