// Package fault defines the error taxonomy shared by all domain services.
//
// Services return *fault.Error for every expected failure condition so that
// handlers can map kinds to HTTP statuses in one place. Unexpected errors
// (driver failures, malformed rows) are wrapped as KindBackend and carry the
// underlying error for logging.
package fault

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Kind classifies an expected failure.
type Kind int

const (
	// KindAuthMissing means no authenticated identity was available at call
	// time. Entity operations short-circuit before touching the store.
	KindAuthMissing Kind = iota
	// KindNotFound means the record does not exist or is owned by another
	// user. Cross-owner access always reports NotFound, never a distinct
	// denial.
	KindNotFound
	// KindValidation means malformed input was rejected before persistence.
	KindValidation
	// KindConflict means the write collided with existing state, such as a
	// duplicate id_key during seeding.
	KindConflict
	// KindBackend is any other store-layer failure. The raw message is
	// surfaced, never swallowed.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindAuthMissing:
		return "auth_missing"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "backend"
	}
}

// Error is the uniform error shape returned by entity services.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so errors.Is(err, &Error{Kind: k}) works with
// the sentinel helpers below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func AuthMissing() *Error {
	return &Error{Kind: KindAuthMissing, Msg: "usuário não autenticado"}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Msg: what + " não encontrado(a) ou acesso negado"}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Backend(msg string, err error) *Error {
	return &Error{Kind: KindBackend, Msg: msg, Err: err}
}

// FromStore translates a store-layer error into the taxonomy. pgx's
// ErrNoRows becomes NotFound for the named entity; anything else is a
// backend fault.
func FromStore(entity string, err error) *Error {
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(entity)
	}
	return Backend(entity, err)
}

// KindOf extracts the Kind from err, defaulting to KindBackend for errors
// outside the taxonomy.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindBackend
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// HTTPStatus maps an error to the status code handlers should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindAuthMissing:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Warning records a non-fatal auxiliary failure inside a multi-step write.
// The operation as a whole is a qualified success; the warning tells the
// caller which bookkeeping step was left incomplete.
type Warning struct {
	Step   string `json:"step"`
	Detail string `json:"detail"`
}

func Warn(step string, err error) Warning {
	return Warning{Step: step, Detail: err.Error()}
}
