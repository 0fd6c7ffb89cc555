package generator

import (
	"github.com/sadopc/puml2sql/internal/diag"
	"github.com/sadopc/puml2sql/internal/schema"
	"github.com/sadopc/puml2sql/internal/suggest"
)

// resolution is the outcome of settling one column's effective type. A
// non-nil failure means the column is dropped from the output; a non-nil
// warning is reported but the column is still emitted.
type resolution struct {
	typ     string
	fk      *ForeignKey
	failure *diag.Diagnostic
	warning *diag.Diagnostic
}

// resolve settles the effective type of c, which belongs to t. Results are
// memoized per column so a column reached through a reference chain is only
// resolved once. visiting holds the columns on the current reference chain.
func (g *generator) resolve(t *schema.Table, c *schema.Column, visiting map[*schema.Column]bool) resolution {
	if r, ok := g.resolved[c]; ok {
		return r
	}

	var r resolution
	switch {
	case c.EnumRef != "":
		labels, ok := g.schema.Enum(c.EnumRef)
		if !ok {
			r.failure = &diag.Diagnostic{
				Kind:       diag.MissingEnumDeclaration,
				Line:       c.Line,
				Table:      t.Name,
				Column:     c.Name,
				Enum:       c.EnumRef,
				Suggestion: suggest.Closest(c.EnumRef, g.schema.EnumNames()),
			}
			break
		}
		r.typ = enumType(labels)
	case c.Ref != nil:
		r = g.resolveRef(t, c, visiting)
	default:
		r.typ = c.SQLType
	}

	g.resolved[c] = r
	return r
}

func (g *generator) resolveRef(t *schema.Table, c *schema.Column, visiting map[*schema.Column]bool) resolution {
	ref := *c.Ref
	report := func(kind diag.Kind, suggestion string) *diag.Diagnostic {
		return &diag.Diagnostic{
			Kind:       kind,
			Line:       c.Line,
			Table:      t.Name,
			Column:     c.Name,
			RefTable:   ref.Table,
			RefColumn:  ref.Column,
			Suggestion: suggestion,
		}
	}
	failure := func(kind diag.Kind, suggestion string) resolution {
		return resolution{failure: report(kind, suggestion)}
	}

	rt := g.schema.Table(ref.Table)
	if rt == nil {
		return failure(diag.InvalidReferenceTable, suggest.Closest(ref.Table, g.schema.TableNames()))
	}
	rc := rt.Column(ref.Column)
	if rc == nil {
		return failure(diag.InvalidReferenceColumn, suggest.Closest(ref.Column, rt.ColumnNames()))
	}

	fk := &ForeignKey{
		Table:     t.Name,
		Column:    c.Name,
		RefTable:  ref.Table,
		RefColumn: ref.Column,
	}

	if g.opts.Resolution == Legacy {
		typ := rc.SQLType
		if prev, ok := g.resolved[rc]; ok && prev.failure == nil {
			typ = prev.typ
		}
		return resolution{typ: typ, fk: fk}
	}

	if visiting == nil {
		visiting = make(map[*schema.Column]bool)
	}
	// A target that cannot be settled falls back to its declared type. The
	// column and its constraint are kept.
	unsettled := func(typ string) resolution {
		return resolution{typ: typ, fk: fk, warning: report(diag.UnresolvedType, "")}
	}
	if rc == c || visiting[rc] {
		return unsettled(rc.SQLType)
	}
	visiting[c] = true
	target := g.resolve(rt, rc, visiting)
	delete(visiting, c)
	switch {
	case target.failure != nil:
		return unsettled(rc.SQLType)
	case target.warning != nil:
		return unsettled(target.typ)
	}
	return resolution{typ: target.typ, fk: fk}
}
