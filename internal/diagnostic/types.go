package diagnostic

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"projector-generator/internal/common"
)

// Diagnostics holds all diagnostic information produced while planning.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Target is the canonical name of the projection type this relates to (if any).
	Target string
	// Member is the target member this relates to (if any).
	Member string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, target, member string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Target:   target,
		Member:   member,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, target, member string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Target:   target,
		Member:   member,
	})
}

// AddInfo adds an info diagnostic with optional suggestions.
func (d *Diagnostics) AddInfo(code, message, target, member string, suggestions ...string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity:    DiagnosticInfo,
		Code:        code,
		Message:     message,
		Target:      target,
		Member:      member,
		Suggestions: suggestions,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// HasErrorFor reports whether an error with the given code was raised for target.
func (d *Diagnostics) HasErrorFor(code, target string) bool {
	return slices.ContainsFunc(d.Errors, func(e Diagnostic) bool {
		return e.Code == code && e.Target == target
	})
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Len returns the total number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// All yields errors first, then warnings, then infos.
func (d *Diagnostics) All() iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
			for _, diag := range group {
				if !yield(diag) {
					return
				}
			}
		}
	}
}

// Sort orders every severity group by target, member and code so that
// output does not depend on traversal order.
func (d *Diagnostics) Sort() {
	byPosition := func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Target, b.Target),
			cmp.Compare(a.Member, b.Member),
			cmp.Compare(a.Code, b.Code),
		)
	}

	slices.SortStableFunc(d.Errors, byPosition)
	slices.SortStableFunc(d.Warnings, byPosition)
	slices.SortStableFunc(d.Infos, byPosition)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Target != "" {
		prefix = append(prefix, "["+d.Target+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
