package domain

import (
	"errors"
	"fmt"
)

// Engine error codes. Negative by convention: engine-facing calls return
// a negative code on failure and the message is retrieved separately
// through the last-error channel.
const (
	CodeUnknown                   = -1
	CodeDuplicateKey              = -16
	CodeCollectionNotFound        = -24
	CodeWriteWithoutTransaction   = -27
	CodeTransactionInProgress     = -28
	CodeRollbackNotInTransaction  = -29
	CodeUnknownUpdateOperation    = -37
	CodeIncrementNonNumericField  = -38
	CodeCollectionAlreadyExists   = -43
	CodeCannotUpdatePrimaryKey    = -44
	CodeNotAValidDatabase         = -46
)

// EngineError is a failure originating from the database engine. It
// carries the engine code and message the error channel exposes.
type EngineError struct {
	Code    int
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

// NewEngineError builds an EngineError from a code and a formatted
// message.
func NewEngineError(code int, format string, args ...any) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrConversion is returned when a host value cannot be mapped to the
// value model. It names the unsupported Go type.
type ErrConversion struct {
	GoType string
}

func (e *ErrConversion) Error() string {
	return fmt.Sprintf("cannot convert value of type %s", e.GoType)
}

// ErrIntegerOverflow is returned when a host number cannot be represented
// as a 64-bit integer. The reference behavior was silent truncation; an
// explicit error replaces it.
type ErrIntegerOverflow struct {
	Value string
}

func (e *ErrIntegerOverflow) Error() string {
	return fmt.Sprintf("number %s does not fit in 64-bit integer range", e.Value)
}

// ErrCursorState is returned when a cursor operation is invoked in a
// state that does not allow it.
type ErrCursorState struct {
	Op    string
	State CursorState
}

func (e *ErrCursorState) Error() string {
	return fmt.Sprintf("cursor: %s is not valid in state %s", e.Op, e.State)
}

// ErrDecode wraps a third-party decoding failure from [Decoder.Decode].
type ErrDecode struct {
	Err error
}

func (e *ErrDecode) Error() string {
	return "decode: " + e.Err.Error()
}

func (e *ErrDecode) Unwrap() error {
	return e.Err
}

var (
	// ErrCursorReleased is returned by cursor operations after Release.
	ErrCursorReleased = errors.New("cursor is released")

	// ErrEngineClosed is returned by engine operations after Close.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrReadOnlyTransaction is returned when a write is attempted
	// inside a read-only transaction.
	ErrReadOnlyTransaction = errors.New("transaction is read-only")

	// ErrNilDocument is returned when an operation requires a document
	// and got nil.
	ErrNilDocument = errors.New("document is nil")

	// ErrNoBackupSource is returned by Backup when the engine has no
	// persistent store to snapshot.
	ErrNoBackupSource = errors.New("engine has no persistent store to back up")
)
