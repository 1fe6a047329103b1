package pipeline

import (
	"reflect"
	"testing"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

func TestValidate(t *testing.T) {
	table := mustParse(t, "x,y,z\n1,2,3\n")

	tests := []struct {
		name      string
		requested []string
		want      []string
	}{
		{"drops unknown", []string{"x", "unknown", "y"}, []string{"x", "y"}},
		{"keeps request order", []string{"z", "x"}, []string{"z", "x"}},
		{"drops repeats", []string{"y", "y", "x"}, []string{"y", "x"}},
		{"nothing requested", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(table, tt.requested); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateEmptyTable(t *testing.T) {
	if got := Validate(entity.EmptyTable(), []string{"x"}); len(got) != 0 {
		t.Fatalf("expected no columns, got %v", got)
	}
	if got := Validate(nil, []string{"x"}); len(got) != 0 {
		t.Fatalf("expected no columns, got %v", got)
	}
}

func TestIsNumeric(t *testing.T) {
	table := mustParse(t, "n,s,e\n1,a,\n,b,\n3.5,c,\n")

	if !IsNumeric(table, "n") {
		t.Fatal("expected n numeric despite a null")
	}
	if IsNumeric(table, "s") {
		t.Fatal("expected s not numeric")
	}
	if !IsNumeric(table, "e") {
		t.Fatal("expected all-null column to count as numeric")
	}
	if IsNumeric(table, "missing") {
		t.Fatal("expected unknown column not numeric")
	}
	if IsNumeric(entity.EmptyTable(), "n") {
		t.Fatal("expected empty table not numeric")
	}
}
