// SPDX-License-Identifier: EPL-2.0

package convert

import (
	"errors"
	"fmt"
)

// Error kinds. Every error handed to a completion callback matches exactly
// one of these with errors.Is.
var (
	ErrMissingInput                = errors.New("input file can't be empty")
	ErrMissingOutput               = errors.New("output file can't be empty")
	ErrInvalidRequest              = errors.New("invalid conversion request")
	ErrUnsupportedInputFormat      = errors.New("input file is in an incompatible format")
	ErrOutputExists                = errors.New("output file exists already")
	ErrUnresolvedOutputFormat      = errors.New("unable to resolve output format")
	ErrAmbiguousConversion         = errors.New("unable to determine formats for conversion")
	ErrUnsupportedSampleRateChange = errors.New("sample rate conversion is not supported between compressed formats")
	ErrUnresolvedParameter         = errors.New("unable to resolve conversion parameter")
	ErrNotFound                    = errors.New("audio file not found")
	ErrCodec                       = errors.New("codec failure")
	ErrIO                          = errors.New("file system failure")
	ErrCancelled                   = errors.New("conversion cancelled")
	ErrPlannerBusy                 = errors.New("planner already has a conversion in flight")
)

// Operations recorded on Error.
const (
	OpValidate  = "validate"
	OpProbe     = "probe"
	OpResolve   = "resolve"
	OpTranscode = "transcode"
	OpCleanup   = "cleanup"
)

// Error carries the kind of a conversion failure together with the
// underlying cause, if any.
type Error struct {
	Kind error  // one of the Err* kinds above
	Op   string // stage that failed
	Path string // file the stage was working on
	Err  error  // underlying cause, may be nil
}

func newError(kind error, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}

func (e *Error) Error() string {
	msg := e.Op + " " + e.Path + ": " + e.Kind.Error()
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
