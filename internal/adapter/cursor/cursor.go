// Package cursor contains the default [domain.Cursor] implementation: a
// pull-based, single-pass state machine over one query execution's
// result handle.
//
// The consumption protocol is Step; while State is StateHasRow: Get,
// Step; then Release. Release is required in every state, including
// after early abandonment, because the handle owns an engine-side result
// set.
package cursor

import (
	"context"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/internal/adapter/convert"
	"github.com/jotdb/jotdb/internal/adapter/decoder"
	"github.com/jotdb/jotdb/pkg/bval"
	"github.com/jotdb/jotdb/pkg/ctxsync"
)

// Cursor implements domain.Cursor.
type Cursor struct {
	handle    domain.Handle
	mu        *ctxsync.Mutex
	state     domain.CursorState
	row       bval.Value
	storedErr error
	released  bool
	conv      domain.Converter
	dec       domain.Decoder
	onError   func(error)
}

// NewCursor returns a new implementation of domain.Cursor wrapping one
// result handle. The cursor starts in StateReady.
func NewCursor(handle domain.Handle, options ...domain.CursorOption) domain.Cursor {
	opts := domain.CursorOptions{
		Converter: convert.NewConverter(),
		Decoder:   decoder.NewDecoder(),
	}
	for _, option := range options {
		option(&opts)
	}

	return &Cursor{
		handle:  handle,
		mu:      ctxsync.NewMutex(),
		state:   domain.StateReady,
		conv:    opts.Converter,
		dec:     opts.Decoder,
		onError: opts.OnError,
	}
}

// Step implements domain.Cursor. On terminal states it returns the same
// state without touching the handle.
func (c *Cursor) Step(ctx context.Context) (domain.CursorState, error) {
	if err := c.mu.LockWithContext(ctx); err != nil {
		return c.state, err
	}
	defer c.mu.Unlock()

	if c.released {
		return c.state, domain.ErrCursorReleased
	}
	if c.state.Terminal() {
		return c.state, nil
	}

	row, more, err := c.handle.Step(ctx)
	if err != nil {
		c.fail(err)
		return c.state, err
	}
	if !more {
		c.state = domain.StateExhausted
		c.row = bval.Value{}
		return c.state, nil
	}
	c.state = domain.StateHasRow
	c.row = row
	return c.state, nil
}

// State implements domain.Cursor.
func (c *Cursor) State() domain.CursorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Get implements domain.Cursor. It does not advance the cursor.
func (c *Cursor) Get() (bval.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return bval.Value{}, domain.ErrCursorReleased
	}
	if c.state != domain.StateHasRow {
		return bval.Value{}, &domain.ErrCursorState{Op: "get", State: c.state}
	}
	return c.row, nil
}

// Next implements domain.Cursor. A false return means exhaustion,
// failure or release; Err distinguishes them.
func (c *Cursor) Next(ctx context.Context) bool {
	state, err := c.Step(ctx)
	return err == nil && state == domain.StateHasRow
}

// Scan implements domain.Cursor.
func (c *Cursor) Scan(ctx context.Context, target any) error {
	if err := c.mu.LockWithContext(ctx); err != nil {
		return err
	}
	defer c.mu.Unlock()

	if c.released {
		return domain.ErrCursorReleased
	}
	if c.state != domain.StateHasRow {
		return &domain.ErrCursorState{Op: "scan", State: c.state}
	}

	host, err := c.conv.FromValue(c.row)
	if err != nil {
		return err
	}
	return c.dec.Decode(host, target)
}

// Err implements domain.Cursor.
func (c *Cursor) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storedErr
}

// Release implements domain.Cursor. It closes the handle exactly once;
// further Release calls are no-ops.
func (c *Cursor) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return nil
	}
	c.released = true
	c.row = bval.Value{}
	if !c.state.Terminal() {
		c.state = domain.StateExhausted
	}
	return c.handle.Close()
}

func (c *Cursor) fail(err error) {
	c.state = domain.StateFailed
	c.storedErr = err
	c.row = bval.Value{}
	if c.onError != nil {
		c.onError(err)
	}
}
