package errorsx

import "github.com/pkg/errors"

// StackTracer is implemented by errors which already recorded a stack trace.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStack records a stack trace on err. Errors which already carry one are
// returned unchanged, keeping the original capture point.
func WithStack(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(StackTracer); ok {
		return err
	}

	return errors.WithStack(err)
}
