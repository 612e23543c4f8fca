// Package apperr defines the closed set of error kinds produced by the attachment
// lifecycle. Callers switch on Kind instead of matching error strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that did not originate here.
	KindUnknown Kind = iota
	// KindValidation is a client-caused, non-retryable policy violation. No network call was made.
	KindValidation
	// KindUpload is a store failure while uploading; it triggers rollback of the submission.
	KindUpload
	// KindStore is a transport or auth failure on any other store call.
	KindStore
	// KindPartialDeletion means some keys survived every deletion strategy.
	KindPartialDeletion
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpload:
		return "upload"
	case KindStore:
		return "store"
	case KindPartialDeletion:
		return "partial_deletion"
	default:
		return "unknown"
	}
}

// Error is the typed error carried across the attachment subsystem.
type Error struct {
	Kind Kind
	// Op names the failing operation, e.g. "storage.upload".
	Op string
	// Key is the storage key involved, if any.
	Key string
	Err error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Err != nil {
		if msg != "" {
			return fmt.Sprintf("%s: %v", msg, e.Err)
		}
		return e.Err.Error()
	}
	if msg == "" {
		return e.Kind.String() + " error"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, &apperr.Error{Kind: apperr.KindUpload}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// Validation wraps err as a validation failure.
func Validation(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// Upload wraps err as an upload failure for key.
func Upload(op, key string, err error) *Error {
	return &Error{Kind: KindUpload, Op: op, Key: key, Err: err}
}

// Store wraps err as a store failure for key.
func Store(op, key string, err error) *Error {
	return &Error{Kind: KindStore, Op: op, Key: key, Err: err}
}

// PartialDeletion reports keys that could not be removed.
func PartialDeletion(op string, failed []string, err error) *Error {
	if err == nil {
		err = errors.New("deletion strategies exhausted")
	}
	return &Error{Kind: KindPartialDeletion, Op: op, Err: fmt.Errorf("%d object(s) not deleted: %w", len(failed), err)}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
