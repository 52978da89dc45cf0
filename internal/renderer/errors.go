package renderer

import (
	"errors"
	"fmt"
)

// ErrorKind is the severity of a renderer failure
type ErrorKind int

const (
	// KindFatal failures leave the engine unable to continue
	KindFatal ErrorKind = iota
	// KindError failures degrade the affected feature
	KindError
	// KindSkip failures drop a single item and carry on
	KindSkip
)

func (k ErrorKind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindError:
		return "error"
	case KindSkip:
		return "skip"
	}
	return "unknown"
}

var (
	ErrBackendInit     = errors.New("graphics backend initialization failed")
	ErrFontLoad        = errors.New("font could not be loaded")
	ErrGlyphLoad       = errors.New("glyph could not be loaded")
	ErrMissingGlyph    = errors.New("glyph not loaded")
	ErrShaderSource    = errors.New("shader source could not be read")
	ErrShaderCompile   = errors.New("shader compilation failed")
	ErrShaderLink      = errors.New("shader program link failed")
	ErrShaderNotLinked = errors.New("shader program not linked")
)

// Error wraps a renderer failure with its severity and the operation that
// produced it
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// BackendError marks a failure to bring up the window or the GL context.
// These are always fatal.
func BackendError(op string, cause error) *Error {
	return newError(KindFatal, op, fmt.Errorf("%w: %v", ErrBackendInit, cause))
}

// KindOf reports the severity of err. Errors that are not renderer errors
// are treated as KindError.
func KindOf(err error) ErrorKind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindError
}

// IsFatal reports whether err must stop the engine
func IsFatal(err error) bool {
	return err != nil && KindOf(err) == KindFatal
}
