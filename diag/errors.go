package diag

import (
	"errors"
	"fmt"

	"github.com/programmerjake/pegc/source"
)

// ErrFatal is returned by Handler.Report (and propagated up through the
// pipeline) when a FatalError-level diagnostic is reported. It is the direct
// translation of the C++ original's `throw FatalError` / `catch(FatalError&)`
// unwind (see original_source/src/error.h and src/main.cpp): Go has no
// exceptions, so "unwinding to the top of the pipeline" is modeled as every
// pipeline stage checking for this sentinel and returning early.
var ErrFatal = errors.New("pegc: fatal error, compilation aborted")

// WithPos is a diagnostic message annotated with the source location that
// caused it. The zero Location (no Source) means "no specific location",
// rendered with no position prefix at all per spec §7 ("error: boom").
type WithPos interface {
	error
	Level() Level
	Pos() source.Location
	Unwrap() error
}

type withPos struct {
	level      Level
	pos        source.Location
	underlying error
}

func (e *withPos) Error() string {
	p := e.pos.Pos()
	if p.Filename == "" {
		return fmt.Sprintf("%s: %v", e.level, e.underlying)
	}
	return fmt.Sprintf("%s: %s: %v", p, e.level, e.underlying)
}

func (e *withPos) Level() Level            { return e.level }
func (e *withPos) Pos() source.Location    { return e.pos }
func (e *withPos) Unwrap() error           { return e.underlying }

// New builds a WithPos diagnostic at the given level and location.
func New(level Level, pos source.Location, err error) WithPos {
	return &withPos{level: level, pos: pos, underlying: err}
}

// Newf is like New but formats its message like fmt.Errorf.
func Newf(level Level, pos source.Location, format string, args ...interface{}) WithPos {
	return &withPos{level: level, pos: pos, underlying: fmt.Errorf(format, args...)}
}

var _ WithPos = (*withPos)(nil)
