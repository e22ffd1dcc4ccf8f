/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package errors

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind classifies why a decode failed - see specification part 7.
type Kind int

const (
	// KindUnspecified is used for errors predating the Kind taxonomy;
	// treat it the same as InternalError.
	KindUnspecified Kind = iota
	// KindData marks a malformed or truncated codestream.
	KindData
	// KindUnsupported marks a T.88 feature this decoder declines to implement.
	KindUnsupported
	// KindResourceExceeded marks a configured limits.Limits ceiling being hit.
	KindResourceExceeded
	// KindInternal marks an invariant the decoder controls being violated.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "DataError"
	case KindUnsupported:
		return "UnsupportedError"
	case KindResourceExceeded:
		return "ResourceExceeded"
	case KindInternal:
		return "InternalError"
	default:
		return "Error"
	}
}

type processError struct {
	header  string
	process string
	message string
	wrapped error
	frame   xerrors.Frame
	kind    Kind
}

func (p *processError) Error() string {
	var message string
	if p.header != "" {
		message = p.header
	}
	message += "Process: " + p.process
	if p.message != "" {
		message += " Message: " + p.message
	}

	if p.wrapped != nil {
		message += ". " + p.wrapped.Error()
	}
	return message
}

// Format implements xerrors.Formatter so %+v prints the call site that raised the error.
func (p *processError) Format(f fmt.State, c rune) { xerrors.FormatError(p, f, c) }

// FormatError implements xerrors.Formatter.
func (p *processError) FormatError(pr xerrors.Printer) error {
	pr.Print(p.Error())
	p.frame.Format(pr)
	return p.wrapped
}

// Unwrap allows errors.Is/errors.As to traverse into the wrapped cause.
func (p *processError) Unwrap() error {
	return p.wrapped
}

// Error returns an error wrapped with provided 'process' and with given 'message'.
func Error(processName, message string) error {
	return newProcessError(message, processName, KindUnspecified)
}

// Errorf returns an error with provided message, arguments and process name.
func Errorf(processName, message string, arguments ...interface{}) error {
	return newProcessError(fmt.Sprintf(message, arguments...), processName, KindUnspecified)
}

// Data reports a malformed or truncated codestream.
func Data(processName, message string, arguments ...interface{}) error {
	return newProcessError(fmt.Sprintf(message, arguments...), processName, KindData)
}

// Unsupported reports a T.88 feature this decoder declines to implement.
func Unsupported(processName, message string, arguments ...interface{}) error {
	return newProcessError(fmt.Sprintf(message, arguments...), processName, KindUnsupported)
}

// ResourceExceeded reports a limits.Limits ceiling being hit.
func ResourceExceeded(processName, message string, arguments ...interface{}) error {
	return newProcessError(fmt.Sprintf(message, arguments...), processName, KindResourceExceeded)
}

// Internal reports an invariant the decoder controls being violated.
func Internal(processName, message string, arguments ...interface{}) error {
	return newProcessError(fmt.Sprintf(message, arguments...), processName, KindInternal)
}

// GetKind returns the Kind carried by err, or KindUnspecified if err was not
// produced by this package (or any wrapped cause in its chain is unmarked).
func GetKind(err error) Kind {
	var perr *processError
	if xerrors.As(err, &perr) {
		return perr.kind
	}
	return KindUnspecified
}

func newProcessError(message, processName string, kind Kind) *processError {
	return &processError{header: "[JBIG2]", message: message, process: processName, frame: xerrors.Caller(2), kind: kind}
}

// Wrap wraps the error with the message and provided process. The wrapped
// error's Kind is carried over, so wrapping never downgrades a classified
// error back to KindUnspecified.
func Wrap(err error, processName, message string) error {
	kind := GetKind(err)
	if perror, ok := err.(*processError); ok {
		perror.header = ""
	}
	perror := newProcessError(message, processName, kind)
	perror.wrapped = err
	return perror
}

// Wrapf wraps the error with the formatted message and arguments, carrying
// over the wrapped error's Kind.
func Wrapf(err error, processName, message string, arguments ...interface{}) error {
	kind := GetKind(err)
	if perror, ok := err.(*processError); ok {
		perror.header = ""
	}
	perror := newProcessError(fmt.Sprintf(message, arguments...), processName, kind)
	perror.wrapped = err
	return perror
}
