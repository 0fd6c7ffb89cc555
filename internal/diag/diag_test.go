package diag

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{DuplicateTable, "DuplicateTable"},
		{DuplicateEnum, "DuplicateEnum"},
		{MissingEnumDeclaration, "MissingEnumDeclaration"},
		{InvalidReferenceTable, "InvalidReferenceTable"},
		{InvalidReferenceColumn, "InvalidReferenceColumn"},
		{UnrecognizedColumnToken, "UnrecognizedColumnToken"},
		{UnresolvedType, "UnresolvedType"},
		{Kind(99), "Kind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Kind:       InvalidReferenceTable,
		Line:       7,
		Table:      "User",
		Column:     "roleId",
		RefTable:   "Rol",
		RefColumn:  "id",
		Suggestion: "Role",
	}
	got := d.String()
	for _, want := range []string{"line 7: ", "Rol.id", "table User", "column roleId", "did you mean Role?"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}

	plain := Diagnostic{Kind: DuplicateEnum, Enum: "Status"}
	if got := plain.String(); got != "duplicate declaration for enum Status" {
		t.Errorf("String() = %q", got)
	}
}

func TestDiagnosticFormat(t *testing.T) {
	d := Diagnostic{Kind: MissingEnumDeclaration, Table: "User", Column: "kind", Enum: "Kind"}
	got := d.Format(func(s string) string { return "<" + s + ">" })
	want := "missing declaration for enum <Kind> (table <User> column <kind>)"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if d.Message() != "missing declaration for enum Kind (table User column kind)" {
		t.Errorf("Message() = %q", d.Message())
	}
}

func TestDiagnosticJSON(t *testing.T) {
	data, err := json.Marshal(Diagnostic{Kind: MissingEnumDeclaration, Enum: "Kind"})
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, `"kind":"MissingEnumDeclaration"`) {
		t.Errorf("json = %s, want kind by name", got)
	}
	if strings.Contains(got, "ref_table") {
		t.Errorf("json = %s, want empty fields omitted", got)
	}

	var back Diagnostic
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back.Kind != MissingEnumDeclaration || back.Enum != "Kind" {
		t.Errorf("decoded = %+v", back)
	}
	if err := json.Unmarshal([]byte(`{"kind":"Bogus"}`), &back); err == nil {
		t.Error("Unmarshal(unknown kind) error = nil, want error")
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Report(Diagnostic{Kind: DuplicateTable, Table: "A"})
	c.Report(Diagnostic{Kind: UnrecognizedColumnToken, Token: "X"})
	c.Report(Diagnostic{Kind: DuplicateTable, Table: "B"})

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if c.Count(DuplicateTable) != 2 {
		t.Errorf("Count(DuplicateTable) = %d, want 2", c.Count(DuplicateTable))
	}
	if c.HasKind(MissingEnumDeclaration) {
		t.Error("HasKind(MissingEnumDeclaration) = true, want false")
	}

	items := c.Items()
	if items[0].Table != "A" || items[2].Table != "B" {
		t.Errorf("Items() order mismatch: %+v", items)
	}
	items[0].Table = "mutated"
	if c.Items()[0].Table != "A" {
		t.Error("Items() returned the internal slice")
	}
}

func TestTee(t *testing.T) {
	var a, b Collector
	s := Tee(&a, nil, &b)
	s.Report(Diagnostic{Kind: DuplicateEnum})
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("Tee delivered %d and %d, want 1 and 1", a.Len(), b.Len())
	}
	Discard.Report(Diagnostic{})
}
