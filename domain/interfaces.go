// Package domain contains the interfaces, option types and errors shared
// by the jotdb adapters.
//
// The central boundary is [Engine]: a flat, synchronous surface with one
// method per database operation, taking and returning only [bval] values,
// primitive scalars and opaque handles. Everything engine-specific
// (storage, indexing, query evaluation) stays behind it.
package domain

import (
	"context"
	"io"
	"time"

	"github.com/jotdb/jotdb/pkg/bval"
)

// TransactionMode selects the isolation requested from the engine when a
// transaction is started. The values are the engine's wire flags.
type TransactionMode int

const (
	TransactionAuto      TransactionMode = 0
	TransactionReadOnly  TransactionMode = 1
	TransactionReadWrite TransactionMode = 2
)

// String returns the mode name.
func (m TransactionMode) String() string {
	switch m {
	case TransactionAuto:
		return "auto"
	case TransactionReadOnly:
		return "read-only"
	case TransactionReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// Engine is the database collaborator behind the binding core. All
// methods are synchronous and execute on the calling goroutine; a method
// may block only on the engine's own I/O. Failures are reported as
// [*EngineError] so callers can retrieve the code and message.
type Engine interface {
	// CreateCollection creates a named collection. Creating a
	// collection that already exists is an error.
	CreateCollection(ctx context.Context, name string) error

	// Insert stores a document in the collection. When the document has
	// no "_id" field the engine assigns one and sets it on the given
	// document; the assigned or existing id is returned.
	Insert(ctx context.Context, collection string, doc *bval.Document) (bval.ObjectID, error)

	// Find starts one query execution and returns the handle streaming
	// its result set. A nil query matches every document. The handle
	// must be closed exactly once.
	Find(ctx context.Context, collection string, query *bval.Document) (Handle, error)

	// Update modifies every document matching query according to the
	// update document and returns the number of documents touched. A
	// nil query matches every document.
	Update(ctx context.Context, collection string, query, update *bval.Document) (int64, error)

	// Delete removes every document matching query and returns the
	// number removed. A nil query matches every document.
	Delete(ctx context.Context, collection string, query *bval.Document) (int64, error)

	// DeleteAll removes every document in the collection.
	DeleteAll(ctx context.Context, collection string) (int64, error)

	// Drop removes the collection itself.
	Drop(ctx context.Context, collection string) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context, collection string) (int64, error)

	// StartTransaction begins an explicit transaction. Transactions do
	// not nest.
	StartTransaction(ctx context.Context, mode TransactionMode) error

	// Commit makes the current transaction's changes durable.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction's changes. The engine
	// never rolls back implicitly; callers must ask for it.
	Rollback(ctx context.Context) error

	// Backup streams a point-in-time snapshot of the engine's store to
	// w, honoring ctx cancellation.
	Backup(ctx context.Context, w io.Writer) error

	// Version returns the engine version string.
	Version() string

	// Close releases the engine. Using the engine afterwards is an
	// error.
	Close() error
}

// DB is the host-facing database surface. It accepts plain Go values
// (maps, structs, scalars) and converts them before talking to the
// [Engine]; results come back as cursors over converted rows.
//
// All methods are safe for concurrent use.
type DB interface {
	// CreateCollection creates a named collection.
	CreateCollection(ctx context.Context, collection string) error

	// Insert converts doc and stores it, returning the document id. doc
	// may be a map, a struct or a *bval.Document.
	Insert(ctx context.Context, collection string, doc any) (bval.ObjectID, error)

	// Find runs a query and returns the cursor over its results. A nil
	// query matches every document. The cursor must be released.
	Find(ctx context.Context, collection string, query any) (Cursor, error)

	// FindAll runs a query and drains the cursor, returning every row in
	// host form.
	FindAll(ctx context.Context, collection string, query any) ([]any, error)

	// Update modifies matching documents and returns how many were
	// touched. update may use the $set, $inc and $unset operators or be
	// a plain replacement document.
	Update(ctx context.Context, collection string, query, update any) (int64, error)

	// Delete removes matching documents and returns how many were
	// removed.
	Delete(ctx context.Context, collection string, query any) (int64, error)

	// DeleteAll removes every document in the collection.
	DeleteAll(ctx context.Context, collection string) (int64, error)

	// Drop removes the collection itself.
	Drop(ctx context.Context, collection string) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context, collection string) (int64, error)

	// StartTransaction begins an explicit transaction on the engine.
	StartTransaction(ctx context.Context, mode TransactionMode) error

	// Commit makes the current transaction durable.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction. Nothing rolls back
	// implicitly on error.
	Rollback(ctx context.Context) error

	// LastErrorCode returns the engine code of the most recent failed
	// operation, or zero when none failed yet.
	LastErrorCode() int

	// LastErrorMessage returns the message of the most recent failed
	// operation.
	LastErrorMessage() string

	// Backup streams a snapshot of the engine's store to w.
	Backup(ctx context.Context, w io.Writer) error

	// Version returns the engine version string.
	Version() string

	// Close releases the engine.
	Close() error
}

// Handle is one query execution's result stream. It is single-pass and
// must be closed exactly once regardless of how far it was consumed.
type Handle interface {
	// Step fetches the next record. It returns (row, true, nil) while
	// records remain, (zero, false, nil) at the end of the stream, and
	// a non-nil error on engine failure.
	Step(ctx context.Context) (bval.Value, bool, error)

	// Close releases the engine-side result set.
	Close() error
}

// CursorState is the observable state of a [Cursor]. StateHasRow shares
// the engine's wire value for "row available"; StateExhausted shares the
// engine's halt value.
type CursorState int

const (
	StateReady     CursorState = 0
	StateExhausted CursorState = -1
	StateHasRow    CursorState = 2
	StateFailed    CursorState = -2
)

// String returns the state name.
func (s CursorState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateHasRow:
		return "has-row"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state can no longer change.
func (s CursorState) Terminal() bool {
	return s == StateExhausted || s == StateFailed
}

// Cursor drives one [Handle] through the pull protocol: Step until the
// state stops being StateHasRow, then Release. Release is required even
// when consumption stops early.
type Cursor interface {
	// Step advances to the next row. On a terminal state it is a no-op
	// returning that same state.
	Step(ctx context.Context) (CursorState, error)

	// State returns the current state without side effects.
	State() CursorState

	// Get returns the current row. It is valid only in StateHasRow and
	// does not advance.
	Get() (bval.Value, error)

	// Next combines Step and the StateHasRow check for range-style
	// loops. A false return may mean exhaustion or failure; check Err.
	Next(ctx context.Context) bool

	// Scan converts the current row to its host representation and
	// decodes it into target.
	Scan(ctx context.Context, target any) error

	// Err returns the error that moved the cursor to StateFailed, if
	// any.
	Err() error

	// Release closes the underlying handle. Releasing twice is a
	// no-op; every other operation after Release fails.
	Release() error
}

// Converter maps between host Go values and the bval value model, in both
// directions, recursively.
type Converter interface {
	// ToValue converts a host value. Unsupported host types fail with
	// [*ErrConversion]; numeric values that cannot be represented fail
	// with [*ErrIntegerOverflow].
	ToValue(v any) (bval.Value, error)

	// FromValue converts back to the host representation. It is total:
	// every value variant has exactly one host form.
	FromValue(v bval.Value) (any, error)
}

// Registry resolves application wrapper types around [bval.ObjectID]
// during conversion. It is passed to the converter at construction, tying
// its lifetime to one session instead of the process.
type Registry interface {
	// WrapObjectID builds the host wrapper for an id.
	WrapObjectID(id bval.ObjectID) any

	// UnwrapObjectID extracts the id from a host value, reporting
	// whether the value was a recognized wrapper.
	UnwrapObjectID(v any) (bval.ObjectID, bool)
}

// Decoder fills a caller-provided target from a converted row.
type Decoder interface {
	Decode(src any, target any) error
}

// Serializer converts documents to bytes for the engine's store.
type Serializer interface {
	Serialize(ctx context.Context, doc *bval.Document) ([]byte, error)
}

// Deserializer converts stored bytes back to documents.
type Deserializer interface {
	Deserialize(ctx context.Context, data []byte) (*bval.Document, error)
}

// TimeGetter provides the wall clock used for generated timestamps.
// ObjectID generation and DateTime "now" must share one TimeGetter so
// their relative order stays meaningful.
type TimeGetter interface {
	GetTime() time.Time
}

// IDGenerator produces unique ObjectIDs for one process instance.
type IDGenerator interface {
	NewObjectID() bval.ObjectID
}
