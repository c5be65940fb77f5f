// Package progress prints operator-facing progress lines for feature list
// updates, choosing symbols and colors from the terminal's capabilities.
package progress

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether stdout is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether ANSI colors should be used
	SupportsColor bool
	// SupportsUnicode indicates whether unicode symbols render correctly
	SupportsUnicode bool
}

// Symbols are the marks printed in front of progress lines.
type Symbols struct {
	Checkmark string
	Warning   string
	Failure   string
}
