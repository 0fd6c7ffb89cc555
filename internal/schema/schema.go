// Package schema holds the in-memory model built from a class diagram: the
// tables, their columns and the declared enumerations. A Schema is owned by
// a single conversion run and is never shared between runs.
package schema

import "errors"

var (
	ErrDuplicateTable = errors.New("duplicate table")
	ErrDuplicateEnum  = errors.New("duplicate enum")
)

// Schema is the root of the model. Tables and enums keep declaration order.
type Schema struct {
	tables     map[string]*Table
	tableOrder []string
	enums      map[string][]string
	enumOrder  []string
}

// New returns an empty Schema.
func New() *Schema {
	return &Schema{
		tables: make(map[string]*Table),
		enums:  make(map[string][]string),
	}
}

// AddTable registers t. It returns ErrDuplicateTable if a table with the
// same name already exists; the existing table is left untouched.
func (s *Schema) AddTable(t *Table) error {
	if _, ok := s.tables[t.Name]; ok {
		return ErrDuplicateTable
	}
	s.tables[t.Name] = t
	s.tableOrder = append(s.tableOrder, t.Name)
	return nil
}

// AddEnum registers an enumeration with its labels in declared order.
func (s *Schema) AddEnum(name string, labels []string) error {
	if _, ok := s.enums[name]; ok {
		return ErrDuplicateEnum
	}
	s.enums[name] = append([]string(nil), labels...)
	s.enumOrder = append(s.enumOrder, name)
	return nil
}

// HasTable reports whether a table called name has been declared.
func (s *Schema) HasTable(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// HasEnum reports whether an enum called name has been declared.
func (s *Schema) HasEnum(name string) bool {
	_, ok := s.enums[name]
	return ok
}

// Table returns the table called name, or nil.
func (s *Schema) Table(name string) *Table {
	return s.tables[name]
}

// Tables returns the tables in first-declaration order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, 0, len(s.tableOrder))
	for _, name := range s.tableOrder {
		out = append(out, s.tables[name])
	}
	return out
}

// TableNames returns the declared table names in declaration order.
func (s *Schema) TableNames() []string {
	return append([]string(nil), s.tableOrder...)
}

// Enum returns the labels of the enum called name and whether it exists.
func (s *Schema) Enum(name string) ([]string, bool) {
	labels, ok := s.enums[name]
	return labels, ok
}

// EnumNames returns the declared enum names in declaration order.
func (s *Schema) EnumNames() []string {
	return append([]string(nil), s.enumOrder...)
}

// Table is a declared class block.
type Table struct {
	Name        string
	Line        int
	PrimaryKeys []string // declaration order, may repeat on re-declaration

	columns map[string]*Column
	order   []string
}

// NewTable returns an empty table declared at line.
func NewTable(name string, line int) *Table {
	return &Table{
		Name:    name,
		Line:    line,
		columns: make(map[string]*Column),
	}
}

// SetColumn stores c under its name. A column that is declared again keeps
// its original position; only the value is replaced.
func (t *Table) SetColumn(c *Column) {
	if _, ok := t.columns[c.Name]; !ok {
		t.order = append(t.order, c.Name)
	}
	t.columns[c.Name] = c
}

// AddPrimaryKey appends name to the primary key listing.
func (t *Table) AddPrimaryKey(name string) {
	t.PrimaryKeys = append(t.PrimaryKeys, name)
}

// Column returns the column called name, or nil.
func (t *Table) Column(name string) *Column {
	return t.columns[name]
}

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.columns[name])
	}
	return out
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	return append([]string(nil), t.order...)
}

// Column is one column declaration line of a class block.
type Column struct {
	Name string
	Line int

	IsPrimaryKey bool
	// IsForeignKeyMarker mirrors the diagram prefix only; it is not gated on
	// an actual reference and carries no meaning for generation.
	IsForeignKeyMarker bool

	NotNull       bool
	Unique        bool
	AutoIncrement bool

	SQLType string // verbatim type token, empty when unset
	EnumRef string // enum name from ENUM(X), empty when unset
	Default *string
	Ref     *ColumnRef
}

// ColumnRef names the target of a REF(table.column) token.
type ColumnRef struct {
	Table  string
	Column string
}

func (r ColumnRef) String() string {
	return r.Table + "." + r.Column
}

// HasDefault reports whether a non-empty DEFAULT(...) literal was given.
func (c *Column) HasDefault() bool {
	return c.Default != nil && *c.Default != ""
}
