package generator

import (
	"strings"

	"github.com/sadopc/puml2sql/internal/schema"
)

// defaultClause renders " DEFAULT <v>" for c, or "" when c has no default
// literal or typ is empty. The literal is written as given.
func defaultClause(c *schema.Column, typ string) string {
	if !c.HasDefault() || typ == "" {
		return ""
	}
	v := *c.Default
	switch {
	case unquotedType(typ):
		return " DEFAULT " + v
	case typ == "BOOLEAN":
		if v == "true" {
			return " DEFAULT 1"
		}
		return " DEFAULT 0"
	default:
		return " DEFAULT '" + v + "'"
	}
}

// unquotedType reports whether defaults of typ are numeric or temporal and
// must not be quoted.
func unquotedType(typ string) bool {
	switch {
	case strings.Contains(typ, "INT"),
		strings.HasPrefix(typ, "DOUBLE"),
		strings.HasPrefix(typ, "FLOAT"),
		strings.HasPrefix(typ, "DECIMAL"):
		return true
	}
	return typ == "DATE" || typ == "TIMESTAMP"
}
