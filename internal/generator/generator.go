// Package generator renders a schema.Schema as MySQL DDL.
//
// The output format is a byte-exact contract: CREATE TABLE blocks in table
// declaration order, then one ALTER TABLE per foreign key.
package generator

import (
	"fmt"
	"strings"

	"github.com/sadopc/puml2sql/internal/diag"
	"github.com/sadopc/puml2sql/internal/schema"
)

// Resolution selects how enum and reference column types are settled.
type Resolution int

const (
	// Settled resolves every enum and reference type before any DDL is
	// written. Reference chains are followed; output does not depend on
	// table order.
	Settled Resolution = iota
	// Legacy reads the referenced column's type as it stands when the
	// referencing column is processed. A reference to a column that has not
	// been resolved yet sees its declared type, which may be empty.
	Legacy
)

func (r Resolution) String() string {
	if r == Legacy {
		return "legacy"
	}
	return "settled"
}

// ParseResolution parses "settled" or "legacy". The empty string means
// Settled.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "settled":
		return Settled, nil
	case "legacy":
		return Legacy, nil
	}
	return Settled, fmt.Errorf("generator: unknown resolution %q (want settled or legacy)", s)
}

// Options tunes generation.
type Options struct {
	Resolution Resolution
	// StrictKeys leaves dropped columns out of the PRIMARY KEY and UNIQUE
	// KEY listings. When false the listings name every declared key column.
	StrictKeys bool
}

// ForeignKey is a constraint emitted after all tables.
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// Name returns the constraint name, fk_<table>_<column>.
func (fk ForeignKey) Name() string {
	return "fk_" + fk.Table + "_" + fk.Column
}

// Statement renders the ALTER TABLE statement without a terminator.
func (fk ForeignKey) Statement() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		fk.Table, fk.Name(), fk.Column, fk.RefTable, fk.RefColumn)
}

// Output is the result of one generation.
type Output struct {
	// DDL is the complete script.
	DDL string
	// Statements holds each CREATE TABLE and ALTER TABLE statement of DDL
	// in order, without the trailing ";".
	Statements  []string
	ForeignKeys []ForeignKey
	// Dropped counts columns left out because of a diagnostic.
	Dropped int
}

// Generate renders s. The Schema is read only; calling Generate twice on
// the same Schema yields the same output.
func Generate(s *schema.Schema, sink diag.Sink, opts Options) *Output {
	if sink == nil {
		sink = diag.Discard
	}
	g := &generator{
		schema:   s,
		sink:     sink,
		opts:     opts,
		resolved: make(map[*schema.Column]resolution),
	}
	return g.run()
}

type generator struct {
	schema   *schema.Schema
	sink     diag.Sink
	opts     Options
	resolved map[*schema.Column]resolution
}

func (g *generator) run() *Output {
	out := &Output{}
	var b strings.Builder

	for _, t := range g.schema.Tables() {
		var (
			lines   []string
			uniques []string
			dropped = make(map[string]bool)
		)
		for _, c := range t.Columns() {
			r := g.resolve(t, c, nil)
			if r.failure != nil {
				g.sink.Report(*r.failure)
				dropped[c.Name] = true
				out.Dropped++
				continue
			}
			if r.warning != nil {
				g.sink.Report(*r.warning)
			}
			if r.fk != nil {
				out.ForeignKeys = append(out.ForeignKeys, *r.fk)
			}
			lines = append(lines, columnLine(c, r.typ))
		}
		for _, c := range t.Columns() {
			if !c.Unique || (g.opts.StrictKeys && dropped[c.Name]) {
				continue
			}
			uniques = append(uniques, uniqueKey(t.Name, c.Name))
		}

		stmt := createTable(t.Name, lines, g.primaryKeys(t, dropped), uniques)
		out.Statements = append(out.Statements, stmt)
		b.WriteString("\n")
		b.WriteString(stmt)
		b.WriteString(";\n")
	}

	if len(out.ForeignKeys) > 0 {
		fks := make([]string, len(out.ForeignKeys))
		for i, fk := range out.ForeignKeys {
			fks[i] = fk.Statement()
		}
		out.Statements = append(out.Statements, fks...)
		b.WriteString("\n")
		b.WriteString(strings.Join(fks, ";\n"))
		b.WriteString(";\n")
	}

	out.DDL = b.String()
	return out
}

func (g *generator) primaryKeys(t *schema.Table, dropped map[string]bool) []string {
	if !g.opts.StrictKeys {
		return t.PrimaryKeys
	}
	var keys []string
	for _, k := range t.PrimaryKeys {
		if !dropped[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

func createTable(name string, lines, primaryKeys, uniques []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (", name)
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, ",\n"))
	if len(primaryKeys) > 0 {
		fmt.Fprintf(&b, ",\nPRIMARY KEY (%s)", strings.Join(primaryKeys, ","))
	}
	if len(uniques) > 0 {
		b.WriteString(",\n")
		b.WriteString(strings.Join(uniques, ",\n"))
	}
	b.WriteString("\n)  ENGINE=INNODB")
	return b.String()
}

func uniqueKey(table, column string) string {
	return fmt.Sprintf("UNIQUE KEY `idx_%s_%s` (%s)", table, column, column)
}

func columnLine(c *schema.Column, typ string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` %s", c.Name, typ)
	b.WriteString(defaultClause(c, typ))
	if c.AutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	}
	return b.String()
}

func enumType(labels []string) string {
	return "ENUM('" + strings.Join(labels, "', '") + "')"
}
