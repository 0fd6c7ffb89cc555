// Package parser turns class-diagram text into a schema.Schema.
//
// Input is consumed one line at a time through Feed, so the caller decides
// how lines are read. Problems are reported to a diag.Sink and never stop
// the parse.
package parser

import (
	"strings"

	"github.com/sadopc/puml2sql/internal/diag"
	"github.com/sadopc/puml2sql/internal/schema"
	"github.com/sadopc/puml2sql/internal/suggest"
)

// Grammar markers.
const (
	DiagramStart = "@startuml"
	TableKeyword = "class"
	EnumKeyword  = "enum"
	BlockClose   = "}"
	Separator    = ".."
)

// Column modifier tokens.
const (
	TokenNotNull       = "NN"
	TokenAutoIncrement = "AUTO_INCREMENT"
	TokenUnique        = "UNIQUE"
	prefixRef          = "REF("
	prefixDefault      = "DEFAULT("
	prefixEnum         = "ENUM("
)

// modifierWords are offered as suggestions for unrecognized tokens.
var modifierWords = []string{
	TokenNotNull, TokenAutoIncrement, TokenUnique, "REF", "DEFAULT", "ENUM",
}

// State is the position of the parser in the diagram.
type State int

const (
	Outside State = iota
	InsideDiagram
	InsideTableBlock
	InsideEnumBlock
)

func (s State) String() string {
	switch s {
	case InsideDiagram:
		return "diagram"
	case InsideTableBlock:
		return "table"
	case InsideEnumBlock:
		return "enum"
	default:
		return "outside"
	}
}

// Parser builds one Schema. It is not safe for concurrent use; lines must be
// fed in input order.
type Parser struct {
	schema *schema.Schema
	sink   diag.Sink
	state  State
	line   int

	// Block currently open. Committed to schema on close or Finish.
	table      *schema.Table
	enumName   string
	enumLabels []string
}

// New returns a Parser reporting to sink. A nil sink discards diagnostics.
func New(sink diag.Sink) *Parser {
	if sink == nil {
		sink = diag.Discard
	}
	return &Parser{
		schema: schema.New(),
		sink:   sink,
	}
}

// State returns the current parser state.
func (p *Parser) State() State { return p.state }

// Line returns the number of lines fed so far.
func (p *Parser) Line() int { return p.line }

// Feed applies one input line.
func (p *Parser) Feed(raw string) {
	p.line++
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	switch p.state {
	case Outside:
		if strings.HasPrefix(line, DiagramStart) {
			p.state = InsideDiagram
		}
	case InsideDiagram:
		p.diagramLine(line)
	case InsideTableBlock:
		if line == BlockClose {
			p.closeBlock()
			return
		}
		p.columnLine(line)
	case InsideEnumBlock:
		if line == BlockClose {
			p.closeBlock()
			return
		}
		p.enumLabels = append(p.enumLabels, line)
	}
}

// Finish commits any block left open at end of input and returns the
// Schema. The Parser must not be fed after Finish.
func (p *Parser) Finish() *schema.Schema {
	p.closeBlock()
	return p.schema
}

// Parse is a convenience wrapper that feeds every line and finishes.
func Parse(lines []string, sink diag.Sink) *schema.Schema {
	p := New(sink)
	for _, l := range lines {
		p.Feed(l)
	}
	return p.Finish()
}

func (p *Parser) diagramLine(line string) {
	keyword, name, ok := blockHeader(line)
	if !ok {
		// Anything else at the top level, including "@enduml" and the body
		// of a rejected duplicate block, is ignored. The diagram never ends.
		return
	}

	switch keyword {
	case TableKeyword:
		if p.schema.HasTable(name) {
			p.sink.Report(diag.Diagnostic{Kind: diag.DuplicateTable, Line: p.line, Table: name})
			return
		}
		p.table = schema.NewTable(name, p.line)
		p.state = InsideTableBlock
	case EnumKeyword:
		if p.schema.HasEnum(name) {
			p.sink.Report(diag.Diagnostic{Kind: diag.DuplicateEnum, Line: p.line, Enum: name})
			return
		}
		p.enumName = name
		p.enumLabels = []string{}
		p.state = InsideEnumBlock
	}
}

// blockHeader recognizes "class Name" and "enum Name" lines. A trailing "{"
// on the name is dropped.
func blockHeader(line string) (keyword, name string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	if fields[0] != TableKeyword && fields[0] != EnumKeyword {
		return "", "", false
	}
	name = strings.TrimSuffix(fields[1], "{")
	if name == "" {
		return "", "", false
	}
	return fields[0], name, true
}

func (p *Parser) closeBlock() {
	switch p.state {
	case InsideTableBlock:
		// Cannot collide: duplicates are rejected before the block opens.
		_ = p.schema.AddTable(p.table)
		p.table = nil
	case InsideEnumBlock:
		_ = p.schema.AddEnum(p.enumName, p.enumLabels)
		p.enumName, p.enumLabels = "", nil
	default:
		return
	}
	p.state = InsideDiagram
}

// columnLine parses one column declaration of the open table.
func (p *Parser) columnLine(line string) {
	tokens := strings.Fields(line)
	col := p.declareColumn(tokens[0])
	if col == nil {
		return
	}
	for i := 1; i < len(tokens); i++ {
		p.applyToken(col, i, tokens[i])
	}
	p.table.SetColumn(col)
}

// declareColumn interprets the first token of a column line. It returns nil
// for separator lines.
func (p *Parser) declareColumn(tok string) *schema.Column {
	if tok == Separator {
		return nil
	}
	col := &schema.Column{Line: p.line}
	switch tok[0] {
	case '#', '+':
		col.Name = tok[1:]
		col.IsPrimaryKey = true
		col.IsForeignKeyMarker = tok[0] == '+'
		p.table.AddPrimaryKey(col.Name)
	default:
		col.Name = strings.TrimPrefix(tok, "-")
		col.IsForeignKeyMarker = true
	}
	return col
}

func (p *Parser) applyToken(col *schema.Column, index int, tok string) {
	switch {
	case tok == TokenNotNull:
		col.NotNull = true
	case tok == TokenAutoIncrement:
		col.AutoIncrement = true
	case tok == TokenUnique:
		col.Unique = true
	case isCall(tok, prefixRef):
		table, column, _ := strings.Cut(callArg(tok, prefixRef), ".")
		col.Ref = &schema.ColumnRef{Table: table, Column: column}
	case isCall(tok, prefixDefault):
		v := callArg(tok, prefixDefault)
		col.Default = &v
	case index == 1 && col.SQLType == "" && col.EnumRef == "":
		if isCall(tok, prefixEnum) {
			col.EnumRef = callArg(tok, prefixEnum)
			return
		}
		col.SQLType = tok
	default:
		p.sink.Report(diag.Diagnostic{
			Kind:       diag.UnrecognizedColumnToken,
			Line:       p.line,
			Table:      p.table.Name,
			Column:     col.Name,
			Token:      tok,
			Suggestion: suggest.Closest(tok, modifierWords),
		})
	}
}

// isCall reports whether tok has the form PREFIX...).
func isCall(tok, prefix string) bool {
	return len(tok) > len(prefix) && strings.HasPrefix(tok, prefix) && strings.HasSuffix(tok, ")")
}

func callArg(tok, prefix string) string {
	return tok[len(prefix) : len(tok)-1]
}
