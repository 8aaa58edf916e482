package errors

import (
	"github.com/pkg/errors"
)

// stackTracer is implemented by errors that carry a call stack, as produced
// by github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace walks the error cause chain and returns the deepest stack
// trace found, or nil if no layer carries one.
func stackTrace(err error) errors.StackTrace {
	var trace errors.StackTrace
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			trace = st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return trace
}
