// Package jotdb provides an embedded document database binding for
// golang.
//
// Documents are modeled by the bval package: a tagged value type covering
// null, booleans, integers, doubles, strings, binary, ObjectIDs, UTC
// datetimes, documents and arrays. Host Go values (maps, structs,
// scalars) are converted to that model on the way in and back on the
// way out, so most code never builds bval values by hand.
//
// The basic usage starts with creating a [DB] instance through [Open]
// for a file-backed database or [New] for an in-memory one.
package jotdb

import (
	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/internal/adapter/datastore"
	"github.com/jotdb/jotdb/pkg/bval"
)

// Version is the library version reported alongside the engine version.
const Version = "0.4.0"

var (
	// ErrCursorReleased is returned when trying to perform operations
	// on a released [Cursor].
	ErrCursorReleased = domain.ErrCursorReleased
	// ErrEngineClosed is returned when using a [DB] after Close.
	ErrEngineClosed = domain.ErrEngineClosed
	// ErrReadOnlyTransaction is returned by write operations inside a
	// transaction started with [TransactionReadOnly].
	ErrReadOnlyTransaction = domain.ErrReadOnlyTransaction
	// ErrNilDocument is returned when a nil document is passed where
	// one is required, for example to [DB.Insert].
	ErrNilDocument = domain.ErrNilDocument
	// ErrNoBackupSource is returned by [DB.Backup] on an in-memory
	// database.
	ErrNoBackupSource = domain.ErrNoBackupSource
)

// EngineError carries the engine's error code and message. The code is
// also available afterwards through [DB.LastErrorCode].
type EngineError = domain.EngineError

// ErrConversion is returned when a host Go value has no representation
// in the document value model.
type ErrConversion = domain.ErrConversion

// ErrTypeMismatch is returned by the [Value] accessors when the value
// holds a different type than the one requested.
type ErrTypeMismatch = bval.ErrTypeMismatch

// ErrIntegerOverflow is returned when an unsigned host integer exceeds
// the signed 64-bit range of the value model.
type ErrIntegerOverflow = domain.ErrIntegerOverflow

// ErrIndexOutOfRange is returned by [Array] accessors for positions
// outside the array.
type ErrIndexOutOfRange = bval.ErrIndexOutOfRange

// ErrCursorState is returned when a cursor operation is called in a
// state that does not allow it, for example [Cursor.Get] before the
// first step.
type ErrCursorState = domain.ErrCursorState

// ErrInvalidHex is returned by [ObjectIDFromHex] for input that is not
// 24 hexadecimal characters.
type ErrInvalidHex = bval.ErrInvalidHex

// ErrDecode wraps third party decoding errors raised by [Cursor.Scan].
type ErrDecode = domain.ErrDecode

// Value is a single document value. The zero Value is null.
type Value = bval.Value

// Document is an ordered string-keyed collection of values.
type Document = bval.Document

// Array is an index-addressed collection of values.
type Array = bval.Array

// ObjectID is a 12-byte document identifier.
type ObjectID = bval.ObjectID

// DateTime is a UTC instant with millisecond precision.
type DateTime = bval.DateTime

// DB is the database handle returned by [Open] and [New].
type DB = domain.DB

// Cursor streams one query's results. See [DB.Find].
type Cursor = domain.Cursor

// CursorState is the observable state of a [Cursor].
type CursorState = domain.CursorState

// TransactionMode selects the isolation of an explicit transaction.
type TransactionMode = domain.TransactionMode

// Engine is the boundary behind [DB], replaceable with [WithEngine].
type Engine = domain.Engine

// Converter maps between host Go values and the document value model.
type Converter = domain.Converter

// Registry resolves application ObjectID wrapper types during
// conversion.
type Registry = domain.Registry

// Decoder fills caller structs from converted rows.
type Decoder = domain.Decoder

// Serializer converts documents to bytes for the engine's store.
type Serializer = domain.Serializer

// Deserializer converts stored bytes back to documents.
type Deserializer = domain.Deserializer

// TimeGetter provides the wall clock for generated ids and timestamps.
type TimeGetter = domain.TimeGetter

// IDGenerator produces unique ObjectIDs.
type IDGenerator = domain.IDGenerator

// Option configures the [DB] returned by [Open] and [New].
type Option = datastore.Option

const (
	TransactionAuto      = domain.TransactionAuto
	TransactionReadOnly  = domain.TransactionReadOnly
	TransactionReadWrite = domain.TransactionReadWrite
)

const (
	StateReady     = domain.StateReady
	StateHasRow    = domain.StateHasRow
	StateExhausted = domain.StateExhausted
	StateFailed    = domain.StateFailed
)

// Aliases for the option constructors of [domain], so callers configure
// everything from this package.
var (
	WithPath              = domain.WithPath
	WithFileMode          = domain.WithFileMode
	WithEngine            = domain.WithEngine
	WithConverter         = domain.WithConverter
	WithDecoder           = domain.WithDecoder
	WithDatastoreRegistry = domain.WithDatastoreRegistry
	WithTimeGetter        = domain.WithTimeGetter
	WithIDGenerator       = domain.WithIDGenerator
	WithSerializer        = domain.WithSerializer
	WithDeserializer      = domain.WithDeserializer
)

// NewDocument returns an empty document.
func NewDocument() *Document { return bval.NewDocument() }

// NewObjectIDFromHex parses the canonical 24-character hex form.
func NewObjectIDFromHex(s string) (ObjectID, error) {
	return bval.ObjectIDFromHex(s)
}

// Open creates a [DB] backed by the database file at path, creating the
// file when it does not exist:
//
// - [WithFileMode]: sets the permissions of the store file.
//
// - [WithEngine]: replaces the default engine entirely.
//
// - [WithConverter]: sets the host value converter.
//
// - [WithDecoder]: sets the decoder used by [Cursor.Scan].
//
// - [WithDatastoreRegistry]: registers application ObjectID wrapper
// types with the default converter.
//
// - [WithTimeGetter]: sets the clock used for generated ids.
//
// - [WithIDGenerator]: sets the ObjectID generator.
//
// - [WithSerializer], [WithDeserializer]: set the row codec of the
// default engine's store.
func Open(path string, options ...Option) (DB, error) {
	options = append([]Option{domain.WithPath(path)}, options...)
	return New(options...)
}

// New creates an in-memory [DB]. It accepts the same options as [Open].
func New(options ...Option) (DB, error) {
	db, err := datastore.NewDatastore(options...)
	if err != nil {
		return nil, err
	}
	reportOpen(db.Version())
	return &trackedDB{DB: db}, nil
}

// trackedDB forwards everything to the datastore and reports lifecycle
// events to the optional analytics sink.
type trackedDB struct {
	domain.DB
}

func (t *trackedDB) Close() error {
	err := t.DB.Close()
	reportClose(err == nil)
	return err
}
