// Package engine contains the reference [domain.Engine] implementation:
// an in-process engine holding every collection in memory, with an
// optional bbolt-backed store for durability.
//
// It exists so the binding core has a collaborator to run against; the
// conversion and cursor layers treat it exactly like an external engine.
// Collections keep documents in insertion order; "_id" uniqueness is
// enforced with a binary search tree keyed by the id's canonical
// rendering.
package engine

import (
	"context"
	"strings"
	"sync"

	"github.com/vinicius-lino-figueiredo/bst"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/internal/adapter/idgenerator"
	"github.com/jotdb/jotdb/internal/adapter/serializer"
	"github.com/jotdb/jotdb/internal/adapter/timegetter"
	"github.com/jotdb/jotdb/pkg/bval"
)

const engineVersion = "jotdb-engine/0.4.0"

// Engine implements domain.Engine.
type Engine struct {
	mu          sync.Mutex
	collections map[string]*collection
	snapshot    map[string]*collection
	txnMode     domain.TransactionMode
	inTxn       bool
	dirty       map[string]bool
	store       *store
	ids         domain.IDGenerator
	closed      bool
}

type collection struct {
	docs []*bval.Document
	ids  *bst.BinarySearchTree
}

func newCollection() *collection {
	return &collection{ids: newIDTree()}
}

func newIDTree() *bst.BinarySearchTree {
	return bst.NewBinarySearchTree(bst.Options{
		Unique: true,
		CompareKeys: func(a, b any) int {
			return strings.Compare(a.(string), b.(string))
		},
	})
}

func (c *collection) clone() *collection {
	res := newCollection()
	res.docs = make([]*bval.Document, len(c.docs))
	for i, d := range c.docs {
		cl := d.Clone()
		res.docs[i] = cl
		_ = res.ids.Insert(idKey(cl), cl)
	}
	return res
}

// idKey renders a document's "_id" as the index key. ObjectIDs use the
// canonical hex form; any other id type uses its debug rendering, which
// is injective enough for equality.
func idKey(doc *bval.Document) string {
	v, ok := doc.Get("_id")
	if !ok {
		return ""
	}
	if id, err := v.AsObjectID(); err == nil {
		return id.Hex()
	}
	return v.String()
}

// NewEngine returns a new implementation of domain.Engine. Without
// [domain.WithEnginePath] the engine is in-memory only; with it, the
// store file is opened (created if missing) and existing collections are
// loaded.
func NewEngine(options ...domain.EngineOption) (*Engine, error) {
	opts := domain.EngineOptions{
		FileMode:     0o644,
		Serializer:   serializer.NewSerializer(),
		Deserializer: serializer.NewDeserializer(),
		TimeGetter:   timegetter.NewTimeGetter(),
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = idgenerator.NewIDGenerator(
			domain.WithIDTimeGetter(opts.TimeGetter),
		)
	}

	e := &Engine{
		collections: make(map[string]*collection),
		dirty:       make(map[string]bool),
		ids:         opts.IDGenerator,
	}

	if opts.Path != "" {
		st, err := openStore(opts.Path, opts.FileMode, opts.Serializer, opts.Deserializer)
		if err != nil {
			return nil, err
		}
		e.store = st
		if err := st.load(e.collections); err != nil {
			_ = st.close()
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) guard(ctx context.Context, write bool) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if e.closed {
		return domain.ErrEngineClosed
	}
	if write && e.inTxn && e.txnMode == domain.TransactionReadOnly {
		return domain.ErrReadOnlyTransaction
	}
	return nil
}

func (e *Engine) get(name string) (*collection, error) {
	col, ok := e.collections[name]
	if !ok {
		return nil, domain.NewEngineError(domain.CodeCollectionNotFound,
			"collection not found: %s", name)
	}
	return col, nil
}

// CreateCollection implements domain.Engine.
func (e *Engine) CreateCollection(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, true); err != nil {
		return err
	}
	if _, ok := e.collections[name]; ok {
		return domain.NewEngineError(domain.CodeCollectionAlreadyExists,
			"collection already exists: %s", name)
	}
	e.collections[name] = newCollection()
	return e.touched(ctx, name)
}

// Insert implements domain.Engine. When doc has no "_id", one is
// generated and set on doc so the caller observes the assigned id.
func (e *Engine) Insert(ctx context.Context, name string, doc *bval.Document) (bval.ObjectID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, true); err != nil {
		return bval.ObjectID{}, err
	}
	if doc == nil {
		return bval.ObjectID{}, domain.ErrNilDocument
	}
	col, err := e.get(name)
	if err != nil {
		return bval.ObjectID{}, err
	}

	var id bval.ObjectID
	if v, ok := doc.Get("_id"); ok {
		id, _ = v.AsObjectID() // zero when the caller chose another id type
	} else {
		id = e.ids.NewObjectID()
		doc.Set("_id", bval.ObjectIDValue(id))
	}

	stored := doc.Clone()
	if err := col.ids.Insert(idKey(stored), stored); err != nil {
		return bval.ObjectID{}, domain.NewEngineError(domain.CodeDuplicateKey,
			"duplicate _id in collection %s: %s", name, idKey(stored))
	}
	col.docs = append(col.docs, stored)

	if err := e.persistPut(ctx, name, stored); err != nil {
		return bval.ObjectID{}, err
	}
	return id, nil
}

// Find implements domain.Engine. The returned handle streams a snapshot
// of the matching documents taken at call time.
func (e *Engine) Find(ctx context.Context, name string, query *bval.Document) (domain.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, false); err != nil {
		return nil, err
	}
	col, err := e.get(name)
	if err != nil {
		return nil, err
	}

	var rows []bval.Value
	for _, doc := range col.docs {
		if match(doc, query) {
			rows = append(rows, bval.ObjectValue(doc.Clone()))
		}
	}
	return &handle{rows: rows}, nil
}

// Update implements domain.Engine.
func (e *Engine) Update(ctx context.Context, name string, query, update *bval.Document) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, true); err != nil {
		return 0, err
	}
	if update == nil {
		return 0, domain.ErrNilDocument
	}
	col, err := e.get(name)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, doc := range col.docs {
		if !match(doc, query) {
			continue
		}
		if err := applyUpdate(doc, update); err != nil {
			return count, err
		}
		if err := e.persistPut(ctx, name, doc); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Delete implements domain.Engine.
func (e *Engine) Delete(ctx context.Context, name string, query *bval.Document) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, true); err != nil {
		return 0, err
	}
	col, err := e.get(name)
	if err != nil {
		return 0, err
	}

	var count int64
	remaining := col.docs[:0]
	for _, doc := range col.docs {
		if !match(doc, query) {
			remaining = append(remaining, doc)
			continue
		}
		col.ids.Delete(idKey(doc), doc)
		if err := e.persistDelete(ctx, name, doc); err != nil {
			return count, err
		}
		count++
	}
	col.docs = remaining
	return count, nil
}

// DeleteAll implements domain.Engine.
func (e *Engine) DeleteAll(ctx context.Context, name string) (int64, error) {
	return e.Delete(ctx, name, nil)
}

// Drop implements domain.Engine.
func (e *Engine) Drop(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, true); err != nil {
		return err
	}
	if _, err := e.get(name); err != nil {
		return err
	}
	delete(e.collections, name)
	if e.store != nil && !e.inTxn {
		return e.store.drop(name)
	}
	e.dirty[name] = true
	return nil
}

// Count implements domain.Engine.
func (e *Engine) Count(ctx context.Context, name string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, false); err != nil {
		return 0, err
	}
	col, err := e.get(name)
	if err != nil {
		return 0, err
	}
	return int64(len(col.docs)), nil
}

// StartTransaction implements domain.Engine. The whole dataset is
// snapshotted; rollback restores it. Transactions do not nest.
func (e *Engine) StartTransaction(ctx context.Context, mode domain.TransactionMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, false); err != nil {
		return err
	}
	if e.inTxn {
		return domain.NewEngineError(domain.CodeTransactionInProgress,
			"transaction already in progress")
	}

	e.snapshot = make(map[string]*collection, len(e.collections))
	for name, col := range e.collections {
		e.snapshot[name] = col.clone()
	}
	e.inTxn = true
	e.txnMode = mode
	e.dirty = make(map[string]bool)
	return nil
}

// Commit implements domain.Engine.
func (e *Engine) Commit(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, false); err != nil {
		return err
	}
	if !e.inTxn {
		return domain.NewEngineError(domain.CodeWriteWithoutTransaction,
			"commit outside of a transaction")
	}

	if e.store != nil {
		for name := range e.dirty {
			if err := e.store.rewrite(ctx, name, e.collections[name]); err != nil {
				return err
			}
		}
	}
	e.endTxn()
	return nil
}

// Rollback implements domain.Engine.
func (e *Engine) Rollback(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, false); err != nil {
		return err
	}
	if !e.inTxn {
		return domain.NewEngineError(domain.CodeRollbackNotInTransaction,
			"rollback outside of a transaction")
	}

	e.collections = e.snapshot
	e.endTxn()
	return nil
}

func (e *Engine) endTxn() {
	e.snapshot = nil
	e.inTxn = false
	e.txnMode = domain.TransactionAuto
	e.dirty = make(map[string]bool)
}

// Version implements domain.Engine.
func (e *Engine) Version() string {
	return engineVersion
}

// Close implements domain.Engine. An open transaction's buffered changes
// are discarded, matching the no-implicit-commit rule.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.ErrEngineClosed
	}
	e.closed = true
	e.collections = nil
	e.snapshot = nil
	if e.store != nil {
		return e.store.close()
	}
	return nil
}

// persistPut writes one document through to the store, or defers it to
// commit time inside an explicit transaction.
func (e *Engine) persistPut(ctx context.Context, name string, doc *bval.Document) error {
	if e.store == nil {
		return nil
	}
	if e.inTxn {
		e.dirty[name] = true
		return nil
	}
	return e.store.put(ctx, name, doc)
}

func (e *Engine) persistDelete(ctx context.Context, name string, doc *bval.Document) error {
	if e.store == nil {
		return nil
	}
	if e.inTxn {
		e.dirty[name] = true
		return nil
	}
	return e.store.delete(name, idKey(doc))
}

func (e *Engine) touched(ctx context.Context, name string) error {
	if e.store == nil {
		return nil
	}
	if e.inTxn {
		e.dirty[name] = true
		return nil
	}
	return e.store.createBucket(name)
}

type handle struct {
	mu     sync.Mutex
	rows   []bval.Value
	pos    int
	closed bool
}

// Step implements domain.Handle.
func (h *handle) Step(ctx context.Context) (bval.Value, bool, error) {
	select {
	case <-ctx.Done():
		return bval.Value{}, false, ctx.Err()
	default:
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return bval.Value{}, false, domain.ErrCursorReleased
	}
	if h.pos >= len(h.rows) {
		return bval.Value{}, false, nil
	}
	row := h.rows[h.pos]
	h.pos++
	return row, true, nil
}

// Close implements domain.Handle.
func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.rows = nil
	return nil
}
