// Package errors provides an error type carrying the call stack at the time
// of its creation, so unexpected errors can be reported with a stack trace.
//
// Indicative errors, such as a malformed media type, should not use this type.
package errors

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
)

// MaxStackDepth the maximum number of frames collected when creating a new Error.
var MaxStackDepth = 50

// Error wraps one or many reasons and the callers collected when it was created.
type Error struct {
	reasons []error
	callers []uintptr
}

// New create a new `*Error` wrapping the given reason and collecting the callers.
//
// Returns nil if the reason is nil. If the reason already is an `*Error`, it is
// returned unchanged. `[]error` and `[]any` reasons are flattened and their nil
// elements are dropped. Any value that is not an error is wrapped in a `Reason`.
func New(reason any) error {
	return NewSkip(reason, 3)
}

// NewSkip is like `New` but skips the given amount of frames when collecting
// the callers.
func NewSkip(reason any, skip int) error {
	if reason == nil {
		return nil
	}
	if e, ok := reason.(*Error); ok {
		return e
	}
	callers := make([]uintptr, MaxStackDepth)
	n := runtime.Callers(skip, callers)
	return &Error{
		reasons: toErr(reason),
		callers: callers[:n],
	}
}

// Errorf is a shortcut for `errors.New(fmt.Errorf(format, args...))`.
func Errorf(format string, args ...any) error {
	return NewSkip(fmt.Errorf(format, args...), 3)
}

func toErr(reason any) []error {
	switch r := reason.(type) {
	case error:
		return []error{r}
	case []error:
		return lo.Filter(r, func(e error, _ int) bool {
			return e != nil
		})
	case []any:
		errs := make([]error, 0, len(r))
		for _, e := range r {
			if e != nil {
				errs = append(errs, toErr(e)...)
			}
		}
		return errs
	default:
		return []error{Reason{reason: r}}
	}
}

func (e *Error) Error() string {
	if len(e.reasons) == 0 {
		return "goyave.dev/negotiator/util/errors.Error: no reason"
	}
	return strings.Join(lo.Map(e.reasons, func(r error, _ int) string {
		if r == nil {
			return "<nil>"
		}
		return r.Error()
	}), "\n")
}

// String returns the error message followed by the stack trace.
func (e *Error) String() string {
	return e.Error() + "\n" + e.StackFrames().String()
}

// Unwrap returns the underlying reasons, allowing `errors.Is` and `errors.As`
// to inspect them.
func (e *Error) Unwrap() []error {
	return e.reasons
}

// Len returns the number of underlying reasons.
func (e *Error) Len() int {
	return len(e.reasons)
}

// Callers returns the callers collected at the time of creation.
func (e *Error) Callers() []uintptr {
	return e.callers
}

// StackFrames returns the parsed stack frames of this error.
func (e *Error) StackFrames() FrameStack {
	stack := make(FrameStack, 0, len(e.callers))
	if len(e.callers) == 0 {
		return stack
	}
	frames := runtime.CallersFrames(e.callers)
	for {
		frame, more := frames.Next()
		stack = append(stack, frame)
		if !more {
			break
		}
	}
	return stack
}

// FileLine returns the file path and line at which the error was created.
func (e *Error) FileLine() string {
	frames := e.StackFrames()
	if len(frames) == 0 {
		return "[unknown file line]"
	}
	return fmt.Sprintf("%s:%d", frames[0].File, frames[0].Line)
}

// MarshalJSON marshals the reasons. A single reason is marshaled as is,
// many reasons are marshaled as an array.
func (e *Error) MarshalJSON() ([]byte, error) {
	switch len(e.reasons) {
	case 0:
		return json.Marshal(e.Error())
	case 1:
		return marshalReason(e.reasons[0])
	}
	raw := make([]json.RawMessage, 0, len(e.reasons))
	for _, r := range e.reasons {
		res, err := marshalReason(r)
		if err != nil {
			return nil, err
		}
		raw = append(raw, res)
	}
	return json.Marshal(raw)
}

func marshalReason(e error) ([]byte, error) {
	switch err := e.(type) {
	case json.Marshaler, nil:
		return json.Marshal(err)
	default:
		return json.Marshal(err.Error())
	}
}

// FrameStack slice of frames containing information about the stack.
type FrameStack []runtime.Frame

func (s FrameStack) String() string {
	return strings.Join(lo.Map(s, func(f runtime.Frame, _ int) string {
		return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
	}), "\n")
}

// Reason wraps a reason that is not an error, preserving its JSON marshaling.
type Reason struct {
	reason any
}

// Value returns the wrapped value.
func (r Reason) Value() any {
	return r.reason
}

func (r Reason) Error() string {
	return fmt.Sprintf("%v", r.reason)
}

// MarshalJSON marshals the wrapped value.
func (r Reason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.reason)
}
