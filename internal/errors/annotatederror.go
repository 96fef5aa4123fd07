// Package errors is a drop-in replacement for the standard library errors package that annotates errors with
// [slog.Attr] and the source location where the error was created or wrapped.
//
// Log annotated errors with [SlogError] to get the annotations and the location into the log record.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	file  string
	line  int
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

type sentinelError struct {
	msg string
}

func (e *sentinelError) Error() string {
	return e.msg
}

// NewSentinel creates an error meant to be declared at package level and compared with [Is].
// Sentinels carry no source location.
func NewSentinel(msg string) error {
	return &sentinelError{msg: msg}
}

// New creates an error annotated with the caller's source location and the given attributes.
func New(msg string, attrs ...slog.Attr) error {
	_, file, line, _ := runtime.Caller(1)
	return &annotatedError{msg: msg, err: nil, attrs: attrs, file: file, line: line}
}

// Wrap annotates err with a message, the caller's source location and the given attributes.
//
// Wrap returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	_, file, line, _ := runtime.Caller(1)
	return &annotatedError{msg: msg, err: err, attrs: attrs, file: file, line: line}
}

// DecoratePanic converts a value recovered from a panic into an error located at the panicking line.
//
// Call it directly from the deferred function that recovers.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}

	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])

	var (
		file       string
		line       int
		sawGopanic bool
	)
	for {
		frame, more := frames.Next()
		if sawGopanic && !strings.HasPrefix(frame.Function, "runtime.") {
			file, line = frame.File, frame.Line
			break
		}
		if frame.Function == "runtime.gopanic" {
			sawGopanic = true
		}
		if !more {
			break
		}
	}

	if err, ok := excp.(error); ok {
		return &annotatedError{msg: "panic", err: err, attrs: nil, file: file, line: line}
	}
	return &annotatedError{msg: fmt.Sprintf("panic: %v", excp), err: nil, attrs: nil, file: file, line: line}
}

// SlogError turns err into a log attribute grouping the message, all annotations in the chain, and the source
// location of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{} //nolint:exhaustruct // empty attributes are ignored by handlers.
	}

	var (
		annotations []any
		source      string
	)
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		ae, ok := e.(*annotatedError)
		if !ok {
			continue
		}
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if ae.file != "" {
			source = fmt.Sprintf("%s:%d", ae.file, ae.line)
		}
	}

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors. See [errors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
