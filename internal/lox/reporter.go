package lox

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Reporter separates error *detection* (scanner, parser, resolver,
// interpreter) from error *display*. It also tracks the two sticky flags the
// driver uses to decide whether to keep running and what to exit with.
type Reporter interface {
	Report(err error)
	HadError() bool
	HadRuntimeError() bool
	// Reset clears both flags; called between REPL lines so one bad line
	// doesn't poison the rest of the session.
	Reset()
}

// plainFormatter renders a logrus entry as just its message, so Reporter can
// route through logrus's leveling and hooks while still emitting exactly the
// "[line L] Error: M" text callers depend on.
type plainFormatter struct{}

func (plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// SimpleReporter logs every reported error at error level and folds them
// into a multierror.Error, so a caller that wants a single combined
// diagnostic can still get one.
type SimpleReporter struct {
	log           *logrus.Logger
	hadErr        bool
	hadRuntimeErr bool
	errs          *multierror.Error
}

// NewSimpleReporter creates a Reporter that writes to writer.
func NewSimpleReporter(writer io.Writer) *SimpleReporter {
	log := logrus.New()
	log.SetOutput(writer)
	log.SetFormatter(plainFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return &SimpleReporter{log: log}
}

func (r *SimpleReporter) Report(err error) {
	if _, ok := err.(*RuntimeError); ok {
		r.hadRuntimeErr = true
	} else {
		r.hadErr = true
	}
	r.errs = multierror.Append(r.errs, err)
	r.log.Error(err.Error())
}

func (r *SimpleReporter) HadError() bool {
	return r.hadErr
}

func (r *SimpleReporter) HadRuntimeError() bool {
	return r.hadRuntimeErr
}

func (r *SimpleReporter) Reset() {
	r.hadErr = false
	r.hadRuntimeErr = false
	r.errs = nil
}

// Errors returns every error reported since the last Reset, combined into a
// single error, or nil if there were none.
func (r *SimpleReporter) Errors() error {
	return r.errs.ErrorOrNil()
}

// Logger exposes the underlying logrus.Logger so the driver can attach
// verbose, out-of-band diagnostics (e.g. the --ast dump of parsed expressions)
// without those messages going through the error-flag bookkeeping above.
func (r *SimpleReporter) Logger() *logrus.Logger {
	return r.log
}
