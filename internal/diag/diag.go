// Package diag defines the recoverable diagnostics produced while parsing a
// diagram and generating DDL from it. Diagnostics are records, not errors:
// the run keeps going after each one.
package diag

import (
	"fmt"
	"strings"
)

// Kind identifies a class of diagnostic.
type Kind int

const (
	DuplicateTable Kind = iota
	DuplicateEnum
	MissingEnumDeclaration
	InvalidReferenceTable
	InvalidReferenceColumn
	UnrecognizedColumnToken
	// UnresolvedType warns that a referenced column never gets a settled
	// type, either because it was dropped itself or because references form
	// a cycle. The referencing column keeps the target's declared type.
	UnresolvedType
)

var kindNames = [...]string{
	DuplicateTable:          "DuplicateTable",
	DuplicateEnum:           "DuplicateEnum",
	MissingEnumDeclaration:  "MissingEnumDeclaration",
	InvalidReferenceTable:   "InvalidReferenceTable",
	InvalidReferenceColumn:  "InvalidReferenceColumn",
	UnrecognizedColumnToken: "UnrecognizedColumnToken",
	UnresolvedType:          "UnresolvedType",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets a Kind appear by name in JSON audit entries.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a Kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("diag: unknown kind %q", text)
}

// Diagnostic is a single recoverable problem. Only the identifiers relevant
// to the Kind are set.
type Diagnostic struct {
	Kind      Kind   `json:"kind"`
	Line      int    `json:"line,omitempty"`
	Table     string `json:"table,omitempty"`
	Column    string `json:"column,omitempty"`
	Enum      string `json:"enum,omitempty"`
	Token     string `json:"token,omitempty"`
	RefTable  string `json:"ref_table,omitempty"`
	RefColumn string `json:"ref_column,omitempty"`
	// Suggestion is the closest known name, when one exists.
	Suggestion string `json:"suggestion,omitempty"`
}

// String renders d as a single plain-text line.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", d.Line)
	}
	b.WriteString(d.Message())
	if d.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %s?)", d.Suggestion)
	}
	return b.String()
}

// Message describes d without position or suggestion.
func (d Diagnostic) Message() string {
	return d.Format(func(s string) string { return s })
}

// Format is like Message but passes every identifier (table, column, enum,
// token) through ident, so callers can style them.
func (d Diagnostic) Format(ident func(string) string) string {
	ref := ident(d.RefTable + "." + d.RefColumn)
	switch d.Kind {
	case DuplicateTable:
		return fmt.Sprintf("duplicate declaration for table %s", ident(d.Table))
	case DuplicateEnum:
		return fmt.Sprintf("duplicate declaration for enum %s", ident(d.Enum))
	case MissingEnumDeclaration:
		return fmt.Sprintf("missing declaration for enum %s (table %s column %s)",
			ident(d.Enum), ident(d.Table), ident(d.Column))
	case InvalidReferenceTable:
		return fmt.Sprintf("reference %s on table %s column %s is incorrect, table %s doesn't exist",
			ref, ident(d.Table), ident(d.Column), ident(d.RefTable))
	case InvalidReferenceColumn:
		return fmt.Sprintf("reference %s on table %s column %s is incorrect, column %s on table %s doesn't exist",
			ref, ident(d.Table), ident(d.Column), ident(d.RefColumn), ident(d.RefTable))
	case UnrecognizedColumnToken:
		return fmt.Sprintf("unable to process parameter %s on table %s column %s; a data type must be the second item of the column definition",
			ident(d.Token), ident(d.Table), ident(d.Column))
	case UnresolvedType:
		return fmt.Sprintf("type of %s referenced by table %s column %s cannot be resolved",
			ref, ident(d.Table), ident(d.Column))
	}
	return d.Kind.String()
}

// Sink receives diagnostics in the order they are produced.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Collector is a Sink that keeps diagnostics in emission order. The zero
// value is ready to use. It is not safe for concurrent use; each run owns
// its own Collector.
type Collector struct {
	items []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.items = append(c.items, d)
}

// Items returns a copy of the collected diagnostics.
func (c *Collector) Items() []Diagnostic {
	return append([]Diagnostic(nil), c.items...)
}

func (c *Collector) Len() int { return len(c.items) }

// Count returns how many diagnostics of kind k were collected.
func (c *Collector) Count(k Kind) int {
	n := 0
	for _, d := range c.items {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// HasKind reports whether at least one diagnostic of kind k was collected.
func (c *Collector) HasKind(k Kind) bool {
	return c.Count(k) > 0
}

// Tee returns a Sink that forwards every diagnostic to each of sinks.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}
