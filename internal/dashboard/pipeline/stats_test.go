package pipeline

import (
	"testing"
)

func TestDescribeOneToFive(t *testing.T) {
	s := Describe([]float64{5, 3, 1, 4, 2})

	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"mean", s.Mean, 3},
		{"std", s.Std, 1.58},
		{"min", s.Min, 1},
		{"25%", s.P25, 2},
		{"50%", s.P50, 3},
		{"75%", s.P75, 4},
		{"max", s.Max, 5},
	}

	if s.Count != 5 {
		t.Fatalf("expected count 5, got %d", s.Count)
	}
	for _, c := range checks {
		if c.got == nil || *c.got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestDescribeInterpolates(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4})

	if *s.P25 != 1.75 || *s.P50 != 2.5 || *s.P75 != 3.25 {
		t.Fatalf("unexpected quartiles: %v %v %v", *s.P25, *s.P50, *s.P75)
	}
	if *s.Mean != 2.5 || *s.Std != 1.29 {
		t.Fatalf("unexpected mean/std: %v %v", *s.Mean, *s.Std)
	}
}

func TestDescribeSmallInputs(t *testing.T) {
	one := Describe([]float64{7})
	if one.Count != 1 || one.Std != nil || *one.Mean != 7 || *one.P75 != 7 {
		t.Fatalf("unexpected single-value stats: %+v", one)
	}

	none := Describe(nil)
	if none.Count != 0 || none.Mean != nil || none.Min != nil || none.Max != nil {
		t.Fatalf("unexpected empty stats: %+v", none)
	}
}

func TestDescribeRoundsBinaryValueHalfEven(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		mean   float64
	}{
		{"exact tie goes to even", []float64{0, 0.25}, 0.12},
		{"exact tie odd digit rounds up", []float64{0, 0.75}, 0.38},
		{"binary value below the tie", []float64{2.675}, 2.67},
		{"negative tie", []float64{0, -0.25}, -0.12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Describe(tt.values)
			if s.Mean == nil || *s.Mean != tt.mean {
				t.Fatalf("expected mean %v, got %v", tt.mean, s.Mean)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	table := mustParse(t, "Month,Sales,Empty\nJan,1,\nFeb,,\nMar,3,\n")

	results := ComputeStats(table, []string{"Sales", "Month", "Empty"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	sales := results[0]
	if !sales.Applicable || sales.Stats.Count != 2 || *sales.Stats.Mean != 2 {
		t.Fatalf("unexpected sales stats: %+v", sales)
	}

	month := results[1]
	if month.Applicable || month.Stats != nil || month.Message != "No statistics for Month" {
		t.Fatalf("unexpected month result: %+v", month)
	}

	empty := results[2]
	if !empty.Applicable || empty.Stats.Count != 0 || empty.Stats.Mean != nil {
		t.Fatalf("unexpected empty column result: %+v", empty)
	}
}
