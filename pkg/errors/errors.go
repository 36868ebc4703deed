package errors

import (
	"errors"
	"fmt"
)

// Kind classifies where in the sync pipeline an error came from
type Kind string

const (
	KindIdentityResolution Kind = "identity_resolution"
	KindPhotoFetch         Kind = "photo_fetch"
	KindDataShape          Kind = "data_shape"
	KindUpload             Kind = "upload"
	KindIO                 Kind = "io"
	KindNetwork            Kind = "network"
)

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrIdentityResolution = &Error{Kind: KindIdentityResolution}
	ErrPhotoFetch         = &Error{Kind: KindPhotoFetch}
	ErrDataShape          = &Error{Kind: KindDataShape}
	ErrUpload             = &Error{Kind: KindUpload}
	ErrIO                 = &Error{Kind: KindIO}
	ErrNetwork            = &Error{Kind: KindNetwork}
)

// Error is the error type returned by every photosync component
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "users.get"
	Message string
	Code    int // HTTP status or remote API error code, 0 when not applicable
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}

	prefix := string(e.Kind) + " error"
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d): %s", prefix, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an Error of the given kind
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap builds an Error of the given kind around err
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
