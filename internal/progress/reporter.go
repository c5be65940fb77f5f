package progress

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/featurectl/internal/feature"
	"github.com/fatih/color"
)

// descriptionWidth is how many runes of a description a change line shows.
const descriptionWidth = 50

// Reporter writes progress lines for apply runs.
type Reporter struct {
	out     io.Writer
	symbols Symbols
	green   *color.Color
	yellow  *color.Color
	red     *color.Color
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, caps TerminalCapabilities) *Reporter {
	r := &Reporter{
		out:     out,
		symbols: SelectSymbols(caps),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		red:     color.New(color.FgRed),
	}
	if !caps.SupportsColor {
		for _, c := range []*color.Color{r.green, r.yellow, r.red} {
			c.DisableColor()
		}
	}
	return r
}

// Change prints one flag group transition.
func (r *Reporter) Change(c feature.Change) {
	fmt.Fprintf(r.out, "%s Marked feature %d as %s: %s...\n",
		r.green.Sprint(r.symbols.Checkmark), c.Index, c.Group, feature.Truncate(c.Description, descriptionWidth))
}

// NotFound prints a description target that matched no record.
func (r *Reporter) NotFound(description string) {
	fmt.Fprintf(r.out, "%s Not found: %s\n", r.yellow.Sprint(r.symbols.Warning), description)
}

// Report prints every change in report followed by the aggregate summary.
func (r *Reporter) Report(report *feature.Report, stats feature.Stats, markDevDone bool) {
	for _, c := range report.Changes {
		r.Change(c)
	}
	r.Summary(report.Changed(), stats, markDevDone)
}

// Summary prints the changed count and the progress totals. Runs that also
// advanced the dev group get both percentages.
func (r *Reporter) Summary(changed int, stats feature.Stats, markDevDone bool) {
	fmt.Fprintf(r.out, "\n%s Updated %d feature fields\n", r.green.Sprint(r.symbols.Checkmark), changed)

	if !markDevDone {
		fmt.Fprintf(r.out, "\nNew passing count: %d/%d\n", stats.Passing, stats.Total)
		return
	}
	fmt.Fprintf(r.out, "Passing: %d/%d (%.1f%%)\n", stats.Passing, stats.Total, stats.PassingPercent())
	fmt.Fprintf(r.out, "Dev Done: %d/%d (%.1f%%)\n", stats.DevDone, stats.Total, stats.DevDonePercent())
}

// DryRun notes that nothing was written.
func (r *Reporter) DryRun(path string) {
	fmt.Fprintf(r.out, "%s Dry run: %s not written\n", r.yellow.Sprint(r.symbols.Warning), path)
}

// Failure prints a failed step.
func (r *Reporter) Failure(msg string) {
	fmt.Fprintf(r.out, "%s %s\n", r.red.Sprint(r.symbols.Failure), msg)
}
