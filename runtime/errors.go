// Package runtime defines the errors reported by the Informix adapter.
package runtime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Error kinds. Every *Error matches exactly one of these with errors.Is.
var (
	// ErrConnection is returned when the server cannot be reached or rejects the login.
	ErrConnection = errors.New("informix connection failed")

	// ErrStatement is returned when the server rejects a statement.
	ErrStatement = errors.New("informix statement failed")

	// ErrConstraintViolation is returned when a statement violates a constraint.
	ErrConstraintViolation = errors.New("informix constraint violation")

	// ErrTypeMapping is returned when an abstract column type has no native form.
	ErrTypeMapping = errors.New("no native type mapping")

	// ErrUnsupported is returned for operations the adapter does not implement.
	ErrUnsupported = errors.New("operation not supported by the informix adapter")

	// ErrNoRows is returned when a single value was required but nothing came back.
	ErrNoRows = errors.New("no rows in result")

	// ErrInvalidCatalogRow is returned when a system catalog row is incomplete.
	ErrInvalidCatalogRow = errors.New("invalid catalog row")
)

// Error carries the operation and statement that failed.
type Error struct {
	Kind error
	Op   string
	SQL  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying driver error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// NewError builds an *Error of the given kind.
func NewError(kind error, op, sql string, err error) *Error {
	return &Error{Kind: kind, Op: op, SQL: sql, Err: err}
}

// Unsupported reports an operation the adapter does not implement.
func Unsupported(op string) error {
	return &Error{Kind: ErrUnsupported, Op: op}
}

// sqlcodePattern finds the SQLCODE the Informix client embeds in its messages,
// e.g. "-268: Unique constraint (informix.u104_1) violated."
var sqlcodePattern = regexp.MustCompile(`(?:^|[^\d])(-\d{3,5})\b`)

// constraintCodes are SQLCODEs raised for integrity violations.
var constraintCodes = map[int]bool{
	-239: true, // duplicate value in unique index
	-268: true, // unique constraint violated
	-346: true, // could not update a row in the table
	-391: true, // cannot insert a null into column
	-530: true, // check constraint failed
	-691: true, // missing key in referenced table
	-692: true, // key value referenced by a dependent table
	-703: true, // primary key on table has a field with a null key value
}

// SQLCode extracts the Informix SQLCODE from a driver error, or 0.
func SQLCode(err error) int {
	if err == nil {
		return 0
	}
	m := sqlcodePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return code
}

// Classify wraps a driver error raised while running a statement.
// Errors that are already classified pass through unchanged.
func Classify(op, sql string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	if constraintCodes[SQLCode(err)] {
		return NewError(ErrConstraintViolation, op, sql, err)
	}
	return NewError(ErrStatement, op, sql, err)
}

// ConnectionError wraps a failure to establish a connection.
func ConnectionError(database string, err error) error {
	return NewError(ErrConnection, fmt.Sprintf("connect %s", database), "", err)
}

// IsConstraintViolation checks if an error is a constraint violation.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// IsUnsupported checks if an error signals an unimplemented operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
