package entity

import (
	"encoding/json"
	"testing"
)

func TestNewTableRejectsBadShape(t *testing.T) {
	if _, err := NewTable([]string{"a", "a"}, nil); err == nil {
		t.Fatal("expected duplicate column error")
	}
	if _, err := NewTable([]string{"a", "b"}, [][]Value{{Null()}}); err == nil {
		t.Fatal("expected row length error")
	}
}

func TestTableAccessors(t *testing.T) {
	table, err := NewTable([]string{"n", "s"}, [][]Value{
		{Number(1, "1"), Text("x")},
		{Null(), Text("y")},
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}

	if kind, ok := table.ColumnKind("n"); !ok || kind != KindNumber {
		t.Fatalf("unexpected kind %s %v", kind, ok)
	}
	if kind, _ := table.ColumnKind("s"); kind != KindText {
		t.Fatalf("unexpected kind %s", kind)
	}
	if table.Column("missing") != nil {
		t.Fatal("expected nil for unknown column")
	}
	if got := table.Head(10); len(got) != 2 || got[1]["s"].Raw != "y" {
		t.Fatalf("unexpected head: %v", got)
	}
	if got := table.Head(-1); len(got) != 0 {
		t.Fatalf("unexpected head: %v", got)
	}

	cols := table.Columns()
	cols[0] = "changed"
	if !table.Has("n") {
		t.Fatal("Columns must return a copy")
	}
}

func TestEmptyTable(t *testing.T) {
	var nilTable *Table
	if !nilTable.IsEmpty() || !EmptyTable().IsEmpty() {
		t.Fatal("expected empty tables")
	}
}

func TestValueJSON(t *testing.T) {
	row := []Value{Number(2.5, "2.50"), Text("a"), Null(), Number(3, "")}

	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `[2.5,"a",null,3]` {
		t.Fatalf("unexpected json: %s", b)
	}
	if row[3].Raw != "3" || row[2].String() != "" {
		t.Fatalf("unexpected text forms: %q %q", row[3].Raw, row[2].String())
	}
}
