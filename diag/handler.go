package diag

import (
	"sync"

	"github.com/programmerjake/pegc/source"
)

// Reporter is the external collaborator that actually displays or collects
// diagnostics; the compiler pipeline never writes to the terminal directly.
// Callers supply one to NewHandler (the CLI's implementation is
// diag.PrettyPrinter; tests typically collect into a slice).
type Reporter interface {
	Report(WithPos)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(WithPos)

// Report implements Reporter.
func (f ReporterFunc) Report(d WithPos) { f(d) }

// Handler accumulates diagnostics for one compilation and tracks whether any
// Error or FatalError has been reported, per spec §4.5 and §7: "Info and
// Warning are informational; Error sets the pipeline failure flag but the
// pass continues ...; FatalError unwinds the entire compilation."
//
// Grounded on reporter.Handler in the teacher (bufbuild/protocompile): a
// mutex-guarded accumulator in front of a pluggable Reporter.
type Handler struct {
	reporter Reporter

	mu        sync.Mutex
	anyErrors bool
}

// NewHandler builds a Handler that forwards every diagnostic to rep. A nil
// Reporter silently discards diagnostics (still tracking anyErrors).
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = ReporterFunc(func(WithPos) {})
	}
	return &Handler{reporter: rep}
}

// Report records a diagnostic at the given level and location. It returns
// ErrFatal if level is FatalError (the caller must propagate this error and
// stop the pipeline immediately, performing no further work), and nil
// otherwise — including for Error, which marks the compilation as failed but
// lets analysis continue so as many problems as possible are surfaced in one
// run.
func (h *Handler) Report(level Level, pos source.Location, format string, args ...interface{}) error {
	d := Newf(level, pos, format, args...)
	h.mu.Lock()
	if level == Error || level == FatalError {
		h.anyErrors = true
	}
	h.mu.Unlock()

	h.reporter.Report(d)

	if level == FatalError {
		return ErrFatal
	}
	return nil
}

// AnyErrors reports whether any Error- or FatalError-level diagnostic has
// been reported through this Handler so far. The CLI driver uses this to
// decide the process exit status and whether to skip emission.
func (h *Handler) AnyErrors() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.anyErrors
}
