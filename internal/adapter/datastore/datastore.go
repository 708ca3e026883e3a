// Package datastore contains the default [domain.DB] implementation.
//
// The datastore is the host-facing half of the binding: it converts Go
// values to the bval model, hands them to the engine, wraps result
// handles in cursors and keeps the last engine error around for
// inspection.
package datastore

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/internal/adapter/convert"
	"github.com/jotdb/jotdb/internal/adapter/cursor"
	"github.com/jotdb/jotdb/internal/adapter/decoder"
	"github.com/jotdb/jotdb/internal/adapter/engine"
	"github.com/jotdb/jotdb/pkg/bval"
)

// Option configures a Datastore.
type Option = domain.DatastoreOption

// Datastore implements domain.DB.
type Datastore struct {
	engine domain.Engine
	conv   domain.Converter
	dec    domain.Decoder

	mu       sync.Mutex
	lastCode int
	lastMsg  string
}

// NewDatastore returns a new implementation of domain.DB. Without
// [domain.WithEngine] the reference engine is used, persistent when
// [domain.WithPath] is given.
func NewDatastore(options ...Option) (domain.DB, error) {
	opts := domain.DatastoreOptions{}
	for _, option := range options {
		option(&opts)
	}

	if opts.Converter == nil {
		var convOptions []domain.ConverterOption
		if opts.Registry != nil {
			convOptions = append(convOptions, domain.WithRegistry(opts.Registry))
		}
		opts.Converter = convert.NewConverter(convOptions...)
	}
	if opts.Decoder == nil {
		opts.Decoder = decoder.NewDecoder()
	}
	if opts.Engine == nil {
		var engineOptions []domain.EngineOption
		if opts.Path != "" {
			engineOptions = append(engineOptions, domain.WithEnginePath(opts.Path))
		}
		if opts.FileMode != 0 {
			engineOptions = append(engineOptions, domain.WithEngineFileMode(opts.FileMode))
		}
		if opts.Serializer != nil {
			engineOptions = append(engineOptions, domain.WithEngineSerializer(opts.Serializer))
		}
		if opts.Deserializer != nil {
			engineOptions = append(engineOptions, domain.WithEngineDeserializer(opts.Deserializer))
		}
		if opts.TimeGetter != nil {
			engineOptions = append(engineOptions, domain.WithEngineTimeGetter(opts.TimeGetter))
		}
		if opts.IDGenerator != nil {
			engineOptions = append(engineOptions, domain.WithEngineIDGenerator(opts.IDGenerator))
		}
		var err error
		opts.Engine, err = engine.NewEngine(engineOptions...)
		if err != nil {
			return nil, err
		}
	}

	return &Datastore{
		engine: opts.Engine,
		conv:   opts.Converter,
		dec:    opts.Decoder,
	}, nil
}

// record feeds the last-error channel. Later failures overwrite earlier
// ones; successes leave it untouched.
func (d *Datastore) record(err error) error {
	if err == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var engineErr *domain.EngineError
	if errors.As(err, &engineErr) {
		d.lastCode = engineErr.Code
		d.lastMsg = engineErr.Message
	} else {
		d.lastCode = domain.CodeUnknown
		d.lastMsg = err.Error()
	}
	return err
}

// toDoc converts a host query or document to a bval document. nil stays
// nil so match-all queries pass through untouched.
func (d *Datastore) toDoc(v any) (*bval.Document, error) {
	if v == nil {
		return nil, nil
	}
	if doc, ok := v.(*bval.Document); ok {
		return doc, nil
	}
	val, err := d.conv.ToValue(v)
	if err != nil {
		return nil, err
	}
	return val.AsDocument()
}

// CreateCollection implements domain.DB.
func (d *Datastore) CreateCollection(ctx context.Context, collection string) error {
	return d.record(d.engine.CreateCollection(ctx, collection))
}

// Insert implements domain.DB.
func (d *Datastore) Insert(ctx context.Context, collection string, doc any) (bval.ObjectID, error) {
	document, err := d.toDoc(doc)
	if err != nil {
		return bval.ObjectID{}, d.record(err)
	}
	if document == nil {
		return bval.ObjectID{}, d.record(domain.ErrNilDocument)
	}
	id, err := d.engine.Insert(ctx, collection, document)
	return id, d.record(err)
}

// Find implements domain.DB.
func (d *Datastore) Find(ctx context.Context, collection string, query any) (domain.Cursor, error) {
	queryDoc, err := d.toDoc(query)
	if err != nil {
		return nil, d.record(err)
	}
	handle, err := d.engine.Find(ctx, collection, queryDoc)
	if err != nil {
		return nil, d.record(err)
	}
	return cursor.NewCursor(handle,
		domain.WithCursorConverter(d.conv),
		domain.WithCursorDecoder(d.dec),
		domain.WithCursorOnError(func(err error) { _ = d.record(err) }),
	), nil
}

// FindAll implements domain.DB. It drains the cursor for callers that
// want the whole result set at once.
func (d *Datastore) FindAll(ctx context.Context, collection string, query any) ([]any, error) {
	cur, err := d.Find(ctx, collection, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Release() }()

	var rows []any
	for cur.Next(ctx) {
		row, err := cur.Get()
		if err != nil {
			return rows, d.record(err)
		}
		host, err := d.conv.FromValue(row)
		if err != nil {
			return rows, d.record(err)
		}
		rows = append(rows, host)
	}
	if err := cur.Err(); err != nil {
		return rows, err
	}
	return rows, nil
}

// Update implements domain.DB.
func (d *Datastore) Update(ctx context.Context, collection string, query, update any) (int64, error) {
	queryDoc, err := d.toDoc(query)
	if err != nil {
		return 0, d.record(err)
	}
	updateDoc, err := d.toDoc(update)
	if err != nil {
		return 0, d.record(err)
	}
	count, err := d.engine.Update(ctx, collection, queryDoc, updateDoc)
	return count, d.record(err)
}

// Delete implements domain.DB.
func (d *Datastore) Delete(ctx context.Context, collection string, query any) (int64, error) {
	queryDoc, err := d.toDoc(query)
	if err != nil {
		return 0, d.record(err)
	}
	count, err := d.engine.Delete(ctx, collection, queryDoc)
	return count, d.record(err)
}

// DeleteAll implements domain.DB.
func (d *Datastore) DeleteAll(ctx context.Context, collection string) (int64, error) {
	count, err := d.engine.DeleteAll(ctx, collection)
	return count, d.record(err)
}

// Drop implements domain.DB.
func (d *Datastore) Drop(ctx context.Context, collection string) error {
	return d.record(d.engine.Drop(ctx, collection))
}

// Count implements domain.DB.
func (d *Datastore) Count(ctx context.Context, collection string) (int64, error) {
	count, err := d.engine.Count(ctx, collection)
	return count, d.record(err)
}

// StartTransaction implements domain.DB.
func (d *Datastore) StartTransaction(ctx context.Context, mode domain.TransactionMode) error {
	return d.record(d.engine.StartTransaction(ctx, mode))
}

// Commit implements domain.DB.
func (d *Datastore) Commit(ctx context.Context) error {
	return d.record(d.engine.Commit(ctx))
}

// Rollback implements domain.DB.
func (d *Datastore) Rollback(ctx context.Context) error {
	return d.record(d.engine.Rollback(ctx))
}

// LastErrorCode implements domain.DB.
func (d *Datastore) LastErrorCode() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastCode
}

// LastErrorMessage implements domain.DB.
func (d *Datastore) LastErrorMessage() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastMsg
}

// Backup implements domain.DB.
func (d *Datastore) Backup(ctx context.Context, w io.Writer) error {
	return d.record(d.engine.Backup(ctx, w))
}

// Version implements domain.DB.
func (d *Datastore) Version() string {
	return d.engine.Version()
}

// Close implements domain.DB.
func (d *Datastore) Close() error {
	return d.record(d.engine.Close())
}
