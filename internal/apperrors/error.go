package apperrors

import "fmt"

// Error is the typed error every domain/service layer returns for a
// taxonomy-covered failure. It carries enough context for internal/envelope
// to build the full wire error shape without re-deriving anything.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

// New constructs a taxonomy error. details is optional free-form context
// merged into the wire error's `details` object (shortfalls, ids, etc).
func New(kind Kind, message string, details map[string]any) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// Wrap attaches a taxonomy kind to an underlying error, preserving it for
// errors.Unwrap-based inspection while giving the envelope layer a kind to
// render.
func Wrap(kind Kind, cause error, details map[string]any) *Error {
	return &Error{Kind: kind, Message: cause.Error(), Details: details, cause: cause}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// Is supports errors.Is(err, apperrors.New(kind, ...)) style comparisons by
// matching on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, defaulting
// to KindInternalError for anything unrecognized — the taxonomy never lets an
// untyped error reach the wire.
func KindOf(err error) Kind {
	var appErr *Error
	if asError(err, &appErr) {
		return appErr.Kind
	}
	return KindInternalError
}

// asError is a small local errors.As to avoid importing errors just for this.
func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
