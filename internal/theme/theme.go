// Package theme provides the styles used when puml2sql writes to a terminal.
// Generated SQL and diagnostics reference a lipgloss.Style held in a Theme so
// the whole look can be swapped from the config file.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds lipgloss.Style values for everything puml2sql prints in color.
type Theme struct {
	Name string

	// SQL Syntax highlighting
	SQLKeyword    lipgloss.Style
	SQLString     lipgloss.Style
	SQLNumber     lipgloss.Style
	SQLComment    lipgloss.Style
	SQLOperator   lipgloss.Style
	SQLFunction   lipgloss.Style
	SQLType       lipgloss.Style
	SQLIdentifier lipgloss.Style

	// Diagnostics
	DiagLocation lipgloss.Style
	DiagKind     lipgloss.Style
	DiagIdent    lipgloss.Style
	DiagHint     lipgloss.Style

	// Run history table
	TableBorder lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style

	// General
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	MutedText   lipgloss.Style
}

// ---------------------------------------------------------------------------
// Theme definitions
// ---------------------------------------------------------------------------

// newDefaultTheme builds the Default dark theme.
func newDefaultTheme() *Theme {
	return &Theme{
		Name: "default",

		// SQL Syntax highlighting
		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CE9178")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B5CEA8")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6A9955")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DCDCAA")),
		SQLType: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4EC9B0")),
		SQLIdentifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CDCFE")),

		// Diagnostics
		DiagLocation: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#858585")),
		DiagKind: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CCA700")),
		DiagIdent: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4EC9B0")),
		DiagHint: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#9CDCFE")),

		// Run history table
		TableBorder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3C3C3C")),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")).
			Background(lipgloss.Color("#252526")),
		TableCell: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),

		// General
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F44747")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6A9955")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCA700")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")),
	}
}

// newLightTheme builds the Light theme suitable for light terminal backgrounds.
func newLightTheme() *Theme {
	return &Theme{
		Name: "light",

		// SQL Syntax highlighting
		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000FF")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A31515")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#098658")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#008000")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#795E26")),
		SQLType: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#267F99")),
		SQLIdentifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#001080")),

		// Diagnostics
		DiagLocation: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")),
		DiagKind: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BF8803")),
		DiagIdent: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#267F99")),
		DiagHint: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#001080")),

		// Run history table
		TableBorder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0451A5")).
			Background(lipgloss.Color("#F3F3F3")),
		TableCell: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")),

		// General
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E51400")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16825D")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BF8803")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")),
	}
}

// newMonokaiTheme builds the Monokai theme.
func newMonokaiTheme() *Theme {
	return &Theme{
		Name: "monokai",

		// SQL Syntax highlighting
		SQLKeyword: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F92672")),
		SQLString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6DB74")),
		SQLNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AE81FF")),
		SQLComment: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#75715E")),
		SQLOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F92672")),
		SQLFunction: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")),
		SQLType: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#66D9EF")).
			Italic(true),
		SQLIdentifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),

		// Diagnostics
		DiagLocation: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#75715E")),
		DiagKind: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E6DB74")),
		DiagIdent: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E22E")),
		DiagHint: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#66D9EF")),

		// Run history table
		TableBorder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#49483E")),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E22E")).
			Background(lipgloss.Color("#3E3D32")),
		TableCell: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),

		// General
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F92672")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6DB74")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#75715E")),
	}
}

// ---------------------------------------------------------------------------
// Registry and accessors
// ---------------------------------------------------------------------------

// Themes maps theme names to their Theme definitions.
var Themes = map[string]*Theme{
	"default": newDefaultTheme(),
	"light":   newLightTheme(),
	"monokai": newMonokaiTheme(),
}

// Default returns the default dark theme.
func Default() *Theme {
	return Themes["default"]
}

// Lookup returns the theme identified by name and reports whether it exists.
func Lookup(name string) (*Theme, bool) {
	t, ok := Themes[name]
	return t, ok
}
