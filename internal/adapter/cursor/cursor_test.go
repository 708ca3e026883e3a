package cursor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/pkg/bval"
)

// handleMock implements [domain.Handle].
type handleMock struct {
	mock.Mock
}

// Step implements [domain.Handle].
func (h *handleMock) Step(ctx context.Context) (bval.Value, bool, error) {
	call := h.Called(ctx)
	return call.Get(0).(bval.Value), call.Bool(1), call.Error(2)
}

// Close implements [domain.Handle].
func (h *handleMock) Close() error {
	call := h.Called()
	return call.Error(0)
}

// rowsHandle yields the given rows in order, then reports exhaustion.
type rowsHandle struct {
	rows   []bval.Value
	steps  int
	closes int
}

func (h *rowsHandle) Step(context.Context) (bval.Value, bool, error) {
	h.steps++
	if len(h.rows) == 0 {
		return bval.Value{}, false, nil
	}
	row := h.rows[0]
	h.rows = h.rows[1:]
	return row, true, nil
}

func (h *rowsHandle) Close() error {
	h.closes++
	return nil
}

func rowDoc(n int64) bval.Value {
	doc := bval.NewDocument()
	doc.Set("n", bval.Int64(n))
	return bval.ObjectValue(doc)
}

type CursorTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *CursorTestSuite) SetupTest() {
	s.ctx = context.Background()
}

// Draining N rows takes exactly N+1 steps; the extra one observes the
// end of the stream.
func (s *CursorTestSuite) TestDrain() {
	handle := &rowsHandle{rows: []bval.Value{rowDoc(1), rowDoc(2), rowDoc(3)}}
	cur := NewCursor(handle)

	var got []bval.Value
	for cur.Next(s.ctx) {
		row, err := cur.Get()
		s.NoError(err)
		got = append(got, row)
	}

	s.Len(got, 3)
	s.Equal(4, handle.steps)
	s.Equal(domain.StateExhausted, cur.State())
	s.NoError(cur.Err())
	s.NoError(cur.Release())
	s.Equal(1, handle.closes)
}

func (s *CursorTestSuite) TestGetBeforeFirstStep() {
	cur := NewCursor(&rowsHandle{rows: []bval.Value{rowDoc(1)}})

	_, err := cur.Get()
	var state *domain.ErrCursorState
	s.ErrorAs(err, &state)
	s.Equal(domain.StateReady, state.State)
}

// Stepping an exhausted cursor stays exhausted and never touches the
// handle again.
func (s *CursorTestSuite) TestExhaustionIsTerminal() {
	handle := &rowsHandle{}
	cur := NewCursor(handle)

	state, err := cur.Step(s.ctx)
	s.NoError(err)
	s.Equal(domain.StateExhausted, state)

	state, err = cur.Step(s.ctx)
	s.NoError(err)
	s.Equal(domain.StateExhausted, state)
	s.Equal(1, handle.steps)
}

func (s *CursorTestSuite) TestFailure() {
	boom := errors.New("backing store went away")
	handle := new(handleMock)
	handle.On("Step", mock.Anything).Return(bval.Value{}, false, boom).Once()
	handle.On("Close").Return(nil).Once()

	var observed error
	cur := NewCursor(handle, domain.WithCursorOnError(func(err error) {
		observed = err
	}))

	state, err := cur.Step(s.ctx)
	s.ErrorIs(err, boom)
	s.Equal(domain.StateFailed, state)
	s.ErrorIs(cur.Err(), boom)
	s.ErrorIs(observed, boom)

	// Terminal: another step is a no-op, not a retry.
	state, err = cur.Step(s.ctx)
	s.NoError(err)
	s.Equal(domain.StateFailed, state)

	s.NoError(cur.Release())
	s.Equal(domain.StateFailed, cur.State())
	handle.AssertExpectations(s.T())
}

func (s *CursorTestSuite) TestReleaseIsIdempotent() {
	handle := &rowsHandle{rows: []bval.Value{rowDoc(1)}}
	cur := NewCursor(handle)

	s.True(cur.Next(s.ctx))
	s.NoError(cur.Release())
	s.NoError(cur.Release())
	s.Equal(1, handle.closes)

	_, err := cur.Get()
	s.ErrorIs(err, domain.ErrCursorReleased)
	_, err = cur.Step(s.ctx)
	s.ErrorIs(err, domain.ErrCursorReleased)
	s.False(cur.Next(s.ctx))
}

func (s *CursorTestSuite) TestScan() {
	doc := bval.NewDocument()
	doc.Set("title", bval.String("Dune"))
	doc.Set("year", bval.Int64(1965))
	handle := &rowsHandle{rows: []bval.Value{bval.ObjectValue(doc)}}
	cur := NewCursor(handle)

	s.True(cur.Next(s.ctx))

	var book struct {
		Title string `jotdb:"title"`
		Year  int    `jotdb:"year"`
	}
	s.NoError(cur.Scan(s.ctx, &book))
	s.Equal("Dune", book.Title)
	s.Equal(1965, book.Year)

	s.NoError(cur.Release())
}

func (s *CursorTestSuite) TestStepCanceledContext() {
	handle := &rowsHandle{rows: []bval.Value{rowDoc(1)}}
	cur := NewCursor(handle)

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.False(cur.Next(ctx))
	// The cursor itself is still usable with a live context.
	s.True(cur.Next(s.ctx))
	s.NoError(cur.Release())
}

func TestCursorTestSuite(t *testing.T) {
	suite.Run(t, new(CursorTestSuite))
}
