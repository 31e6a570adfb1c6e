package ui

import "fmt"

// Status symbols. Output stays uncolored apart from names and hints.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

func status(symbol, msg string) string {
	return symbol + " " + msg
}

// Check prefixes msg with a checkmark.
func Check(msg string) string { return status(SymbolSuccess, msg) }

// Checkf is Check with formatting.
func Checkf(format string, args ...any) string { return Check(fmt.Sprintf(format, args...)) }

// Error prefixes msg with a cross.
func Error(msg string) string { return status(SymbolError, msg) }

// Warning prefixes msg with a warning sign.
func Warning(msg string) string { return status(SymbolWarning, msg) }

// Warningf is Warning with formatting.
func Warningf(format string, args ...any) string { return Warning(fmt.Sprintf(format, args...)) }

// Info prefixes msg with an info sign.
func Info(msg string) string { return status(SymbolInfo, msg) }

// Header renders a bold label.
func Header(msg string) string { return Bold.Render(msg) }

// Name renders a property, option or database name in the accent color.
func Name(s string) string { return Accent.Render(s) }

// Hint renders secondary text.
func Hint(msg string) string { return Muted.Render(msg) }

// Count returns "1 page" or "3 pages".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
