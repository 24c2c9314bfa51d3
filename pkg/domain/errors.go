package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the catalog reports to its callers.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindServerUnavailable
	KindOwnerNotFound
	KindGenreNotFound
	KindItemNotFound
	KindGenreAlreadyExists
	KindBadRequest
)

// String returns the kind's name
func (k ErrorKind) String() string {
	switch k {
	case KindServerUnavailable:
		return "ServerUnavailable"
	case KindOwnerNotFound:
		return "OwnerNotFound"
	case KindGenreNotFound:
		return "GenreNotFound"
	case KindItemNotFound:
		return "ItemNotFound"
	case KindGenreAlreadyExists:
		return "GenreAlreadyExists"
	case KindBadRequest:
		return "BadRequest"
	default:
		return "Unknown"
	}
}

// DefaultStatus is the HTTP status used when no store status was captured
func (k ErrorKind) DefaultStatus() int {
	switch k {
	case KindServerUnavailable:
		return http.StatusServiceUnavailable
	case KindOwnerNotFound, KindGenreNotFound, KindItemNotFound:
		return http.StatusNotFound
	case KindGenreAlreadyExists:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single error type returned by the catalog core.
// Subject names the owner, genre or item the failure is about.
type Error struct {
	Kind    ErrorKind
	Subject string
	Status  int
	Detail  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServerUnavailable:
		return "Database server is offline"
	case KindOwnerNotFound:
		return fmt.Sprintf("Cannot find user with ID: %s", e.Subject)
	case KindGenreNotFound:
		return fmt.Sprintf("Cannot find genre: %s", e.Subject)
	case KindItemNotFound:
		return fmt.Sprintf("Cannot find book with ID: %s", e.Subject)
	case KindGenreAlreadyExists:
		return fmt.Sprintf("Genre already exists: %s", e.Subject)
	case KindBadRequest:
		if e.Detail != "" {
			return e.Detail
		}
		return "Bad data given"
	default:
		return "Unknown error has occurred"
	}
}

// StatusCode returns the captured store status, or the kind's default.
func (e *Error) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.DefaultStatus()
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrGenreNotFound) works
// regardless of subject.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons
var (
	ErrUnknown            = &Error{Kind: KindUnknown}
	ErrServerUnavailable  = &Error{Kind: KindServerUnavailable}
	ErrOwnerNotFound      = &Error{Kind: KindOwnerNotFound}
	ErrGenreNotFound      = &Error{Kind: KindGenreNotFound}
	ErrItemNotFound       = &Error{Kind: KindItemNotFound}
	ErrGenreAlreadyExists = &Error{Kind: KindGenreAlreadyExists}
	ErrBadRequest         = &Error{Kind: KindBadRequest}
)

func ServerUnavailable() *Error { return &Error{Kind: KindServerUnavailable} }

func OwnerNotFound(ownerID string) *Error {
	return &Error{Kind: KindOwnerNotFound, Subject: ownerID}
}

func GenreNotFound(genre string) *Error {
	return &Error{Kind: KindGenreNotFound, Subject: genre}
}

func ItemNotFound(itemID string) *Error {
	return &Error{Kind: KindItemNotFound, Subject: itemID}
}

func GenreAlreadyExists(genre string) *Error {
	return &Error{Kind: KindGenreAlreadyExists, Subject: genre}
}

// BadRequest carries a user-facing detail message; an empty detail renders the generic text.
func BadRequest(detail string) *Error {
	return &Error{Kind: KindBadRequest, Detail: detail}
}

// Unknown records the store status that could not be classified (0 if none).
func Unknown(status int) *Error {
	return &Error{Kind: KindUnknown, Status: status}
}

// KindOf extracts the ErrorKind of err; foreign errors are KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status an error should be rendered with.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode()
	}
	return http.StatusInternalServerError
}
