// Package pegc implements a PEG parser generator: it reads a grammar file
// and emits a self-contained Go source file implementing a packrat
// recursive-descent parser for that grammar.
//
// Compile is the package-level orchestration entry point tying the pipeline
// stages together (tokenize is internal to grammar.NewParser): grammar
// parsing, semantic analysis, and code emission. It is the direct analogue
// of the driver loop in original_source/src/main.cpp, translated from
// C++'s throw FatalError/catch to Go's error-return idiom (see diag.ErrFatal
// and diag/errors.go).
package pegc

import (
	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/emit"
	"github.com/programmerjake/pegc/grammar"
	"github.com/programmerjake/pegc/sema"
	"github.com/programmerjake/pegc/source"
)

// Options controls one Compile call's emitted output, independent of the
// grammar file's own contents.
type Options struct {
	// Package is the emitted Go file's package name; "main" if empty.
	Package string

	// CarryComments controls //line source-mapping directives in the
	// emitted output (see emit.Options.CarryComments).
	CarryComments bool
}

// Compile runs the full pipeline over a grammar file's contents: parse,
// analyze, emit. h collects every diagnostic reported along the way,
// regardless of the returned error.
//
// Compile returns a non-nil error only when a stage itself returns one
// (diag.ErrFatal). When Error- or FatalError-level diagnostics were reported
// during grammar parsing or semantic analysis, h.AnyErrors() is true after
// that stage and Compile returns an empty string with a nil error, skipping
// the remaining stages (per spec §7: "Error sets the pipeline failure flag
// but the pass continues"). Callers must therefore check h.AnyErrors() as
// well as the returned error.
func Compile(filename string, contents []byte, opts Options, h *diag.Handler) (string, error) {
	src := source.New(filename, contents)

	p := grammar.NewParser(src, h)
	g, err := p.Parse()
	if err != nil {
		return "", err
	}
	if h.AnyErrors() {
		return "", nil
	}

	if err := sema.Analyze(g, h); err != nil {
		return "", err
	}
	if h.AnyErrors() {
		return "", nil
	}

	out, err := emit.Emit(g, emit.Options{Package: opts.Package, CarryComments: opts.CarryComments})
	if err != nil {
		return "", err
	}
	return out, nil
}
