package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure by the step that produced it.
type Kind int

const (
	KindFetch Kind = iota + 1
	KindAPI
	KindIO
	KindConfig
)

var (
	ErrFetch  = errors.New("fetch error")
	ErrAPI    = errors.New("api error")
	ErrIO     = errors.New("io error")
	ErrConfig = errors.New("config error")
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindAPI:
		return "api"
	case KindIO:
		return "io"
	case KindConfig:
		return "config"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindFetch:
		return ErrFetch
	case KindAPI:
		return ErrAPI
	case KindIO:
		return ErrIO
	case KindConfig:
		return ErrConfig
	default:
		return nil
	}
}

// Error carries the failing step kind, the operation and the cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()

	return s != nil && s == target
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}
