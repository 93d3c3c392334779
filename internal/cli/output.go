package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"projector-generator/internal/diagnostic"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func severityStyle(s diagnostic.DiagnosticSeverity) lipgloss.Style {
	switch s {
	case diagnostic.DiagnosticError:
		return errorStyle
	case diagnostic.DiagnosticWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// printDiagnostic writes one diagnostic line, with suggestions indented
// below it. short rewrites qualified type names.
func printDiagnostic(w io.Writer, d diagnostic.Diagnostic, short func(string) string) {
	label := severityStyle(d.Severity).Render(fmt.Sprintf("%-7s", d.Severity))

	where := short(d.Target)
	if d.Member != "" {
		where += "." + d.Member
	}
	if where != "" {
		where = mutedStyle.Render(where) + " "
	}

	fmt.Fprintf(w, "%s %s %s%s\n", label, d.Code, where, short(d.Message))

	for _, s := range d.Suggestions {
		fmt.Fprintf(w, "        %s %s\n", mutedStyle.Render("did you mean"), s)
	}
}
