// Package highlight renders generated MySQL DDL with the styles of a theme.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/puml2sql/internal/theme"
)

// Highlighter tokenises SQL text using chroma and renders it with lipgloss
// styles from a theme.
type Highlighter struct {
	lexer chroma.Lexer
}

// New creates a Highlighter that uses the MySQL lexer. If the MySQL lexer is
// unavailable it falls back to the generic SQL lexer.
func New() *Highlighter {
	l := lexers.Get("MySQL")
	if l == nil {
		l = lexers.Get("SQL")
	}
	if l == nil {
		l = lexers.Fallback
	}
	// Coalesce runs of identical token types so the loop below processes
	// fewer, larger chunks.
	l = chroma.Coalesce(l)

	return &Highlighter{lexer: l}
}

// Highlight tokenises sql and returns a string where each token is styled
// with the corresponding lipgloss style from the provided theme. Newlines are
// preserved so multi-line statements render correctly.
func (h *Highlighter) Highlight(sql string, th *theme.Theme) string {
	if th == nil {
		return sql
	}

	iter, err := h.lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) * 2) // rough estimate

	for _, tok := range iter.Tokens() {
		value := tok.Value
		if value == "" {
			continue
		}

		style, ok := styleFor(tok.Type, th)
		if !ok {
			b.WriteString(value)
			continue
		}

		// Style each line of a multi-line token separately so a newline is
		// always emitted as-is.
		if strings.Contains(value, "\n") {
			lines := strings.Split(value, "\n")
			for i, line := range lines {
				if line != "" {
					b.WriteString(style.Render(line))
				}
				if i < len(lines)-1 {
					b.WriteByte('\n')
				}
			}
		} else {
			b.WriteString(style.Render(value))
		}
	}

	return b.String()
}

// styleFor maps a chroma token type to the corresponding lipgloss.Style from
// the theme. The second return value is false when the token should pass
// through unstyled.
func styleFor(tt chroma.TokenType, th *theme.Theme) (lipgloss.Style, bool) {
	switch {
	// KeywordType is a subtype of Keyword, so check it first to give column
	// types (e.g. INT, VARCHAR) their own colour.
	case tt == chroma.KeywordType:
		return th.SQLType, true
	case tt == chroma.NameFunction || tt == chroma.NameBuiltin:
		return th.SQLFunction, true
	case tt.InCategory(chroma.Keyword):
		return th.SQLKeyword, true
	case tt.InSubCategory(chroma.LiteralString):
		return th.SQLString, true
	case tt.InSubCategory(chroma.LiteralNumber):
		return th.SQLNumber, true
	case tt.InCategory(chroma.Comment):
		return th.SQLComment, true
	case tt == chroma.Operator || tt == chroma.OperatorWord:
		return th.SQLOperator, true
	case tt.InCategory(chroma.Name):
		return th.SQLIdentifier, true
	default:
		return lipgloss.Style{}, false
	}
}
