package models

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid arguments")
)

// Kind is the closed set of failure categories the ingestion workflow can report.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUpload
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpload:
		return "upload"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Error carries a Kind alongside a client-facing message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func UploadError(msg string, err error) error {
	return &Error{Kind: KindUpload, Msg: msg, Err: err}
}

func PersistenceError(msg string, err error) error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

func InternalError(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
