package logger

// OutputCategory is a kind of output gated on verbosity rather than on log
// severity. Raw compiler output is logged at debug level, yet only -vvv
// should print it.
type OutputCategory int

const (
	OutputResults  OutputCategory = iota // written or stale companions
	OutputErrors                         // errors, diagnostics and hints
	OutputProgress                       // unchanged companions (-v)
	OutputCompiler                       // compiler version, runtime module build (-v)
	OutputCommand                        // full compiler command lines (-vv)
	OutputDumpText                       // raw compiler output (-vvv)
)

var categories = [...]struct {
	name  string
	level int
}{
	OutputResults:  {"results", VerbosityUser},
	OutputErrors:   {"errors", VerbosityUser},
	OutputProgress: {"progress", VerbosityInfo},
	OutputCompiler: {"compiler", VerbosityInfo},
	OutputCommand:  {"command", VerbosityDebug},
	OutputDumpText: {"dump-text", VerbosityTrace},
}

// ShouldOutput reports whether category is shown at verbosity. Unknown
// categories need trace verbosity.
func ShouldOutput(verbosity int, category OutputCategory) bool {
	if category < 0 || int(category) >= len(categories) {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= categories[category].level
}

// Enabled reports whether category is shown at the verbosity the logger
// was initialized with.
func Enabled(category OutputCategory) bool {
	return ShouldOutput(verbosity, category)
}

func (c OutputCategory) String() string {
	if c < 0 || int(c) >= len(categories) {
		return "unknown"
	}
	return categories[c].name
}
