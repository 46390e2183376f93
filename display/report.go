package display

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/jsongen/dump"
	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/generate"
	"github.com/teranos/jsongen/logger"
	"github.com/teranos/jsongen/output"
)

// Report prints a run summary. In check mode written files are reported
// as stale instead. Unchanged companions and the compiler version are
// listed from -v on.
func Report(w io.Writer, r *generate.Result, check bool) {
	for _, warning := range r.Warnings {
		pterm.Fprintln(w, pterm.Yellow("⚠ "+warning))
	}
	if r.CompilerVersion != "" && logger.Enabled(logger.OutputCompiler) {
		pterm.Fprintln(w, pterm.Gray("Compiler: "+r.CompilerVersion))
	}

	for _, f := range r.Files {
		if f.Output == "" {
			continue
		}
		name := filepath.Base(f.Output)
		types := plural(len(f.Generated), "type")
		switch {
		case f.Action == output.Write && check:
			pterm.Fprintln(w, fmt.Sprintf("  %s %s %s", pterm.Red("✗ Stale:"), pterm.White(name), pterm.Gray(types)))
		case f.Action == output.Write:
			pterm.Fprintln(w, fmt.Sprintf("  %s %s %s", pterm.LightGreen("✓ Wrote:"), pterm.White(name), pterm.Gray(types)))
		case f.Action == output.Unchanged && logger.Enabled(logger.OutputProgress):
			pterm.Fprintln(w, fmt.Sprintf("  %s %s", pterm.Gray("· Unchanged:"), name))
		}
	}

	written := r.Count(output.Write)
	unchanged := r.Count(output.Unchanged)
	switch {
	case check && written > 0:
		pterm.Fprintln(w, pterm.Red(fmt.Sprintf("%s out of date", plural(written, "companion"))))
	case check:
		pterm.Fprintln(w, pterm.LightGreen(fmt.Sprintf("✓ Companions are up to date (%s checked)", plural(unchanged, "file"))))
	default:
		pterm.Fprintln(w, pterm.Gray(fmt.Sprintf("%d written, %d unchanged in %dms", written, unchanged, r.DurationMS)))
	}
}

// ReportError prints every compiler diagnostic carried by err, the error
// itself and any remediation hints.
func ReportError(w io.Writer, err error) {
	var diag *dump.DiagnosticsError
	if errors.As(err, &diag) {
		for _, chunk := range diag.Chunks {
			pterm.Fprintln(w, strings.TrimRight(chunk, "\n"))
		}
		pterm.Fprintln(w)
	}

	pterm.Fprintln(w, pterm.Red("Error: ")+err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Fprintln(w, pterm.LightCyan("Hint: ")+hint)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
