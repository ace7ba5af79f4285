// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols prefix the one-line summaries commands print to stderr.
const (
	// Success marks a run or replay that finished without failures.
	Success = "✓"

	// Error marks failed samples or a failed command.
	Error = "✗"

	// Warning marks partial results, such as links that could not be applied.
	Warning = "!"

	// Info marks informational lines.
	Info = "i"
)

// Status picks Success or Error.
func Status(ok bool) string {
	if ok {
		return Success
	}
	return Error
}
