package bval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ValueTestSuite struct {
	suite.Suite
}

func (s *ValueTestSuite) TestZeroValueIsNull() {
	var v Value
	s.Equal(TypeNull, v.Type())
	s.True(v.IsNull())
	s.True(v.Equal(Null()))
}

func (s *ValueTestSuite) TestScalarAccessors() {
	b, err := Boolean(true).AsBool()
	s.NoError(err)
	s.True(b)

	n, err := Int64(-42).AsInt64()
	s.NoError(err)
	s.Equal(int64(-42), n)

	f, err := Double(2.5).AsDouble()
	s.NoError(err)
	s.Equal(2.5, f)

	str, err := String("melange").AsString()
	s.NoError(err)
	s.Equal("melange", str)

	bin, err := Binary([]byte{1, 2, 3}).AsBinary()
	s.NoError(err)
	s.Equal([]byte{1, 2, 3}, bin)
}

func (s *ValueTestSuite) TestAccessorTypeMismatch() {
	_, err := Int64(1).AsString()
	s.Error(err)
	var mismatch *ErrTypeMismatch
	s.ErrorAs(err, &mismatch)
	s.Equal(TypeString, mismatch.Want)
	s.Equal(TypeInt64, mismatch.Got)

	// An integer is not silently readable as a double.
	_, err = Int64(1).AsDouble()
	s.Error(err)
}

func (s *ValueTestSuite) TestDateTimeAccessor() {
	instant := time.Date(2021, 6, 12, 8, 30, 0, 0, time.UTC)
	v := DateTimeValue(NewDateTime(instant))
	dt, err := v.AsDateTime()
	s.NoError(err)
	s.Equal(instant, dt.Time())
}

func (s *ValueTestSuite) TestCloneIsDeep() {
	inner := NewDocument()
	inner.Set("n", Int64(1))
	arr := NewArray()
	arr.Push(ObjectValue(inner))
	original := ArrayValue(arr)

	clone := original.Clone()
	clonedArr, err := clone.AsArray()
	s.NoError(err)
	first, err := clonedArr.Get(0)
	s.NoError(err)
	clonedDoc, err := first.AsDocument()
	s.NoError(err)
	clonedDoc.Set("n", Int64(99))

	got, _ := inner.Get("n")
	s.True(got.Equal(Int64(1)))
}

func (s *ValueTestSuite) TestEqual() {
	s.True(Int64(7).Equal(Int64(7)))
	s.False(Int64(7).Equal(Double(7)))
	s.False(Int64(7).Equal(Int64(8)))
	s.True(Binary([]byte("ab")).Equal(Binary([]byte("ab"))))

	a := NewDocument()
	a.Set("x", Int64(1))
	a.Set("y", Int64(2))
	b := NewDocument()
	b.Set("y", Int64(2))
	b.Set("x", Int64(1))
	// Key order participates in document equality.
	s.False(ObjectValue(a).Equal(ObjectValue(b)))
}

func TestValueTestSuite(t *testing.T) {
	suite.Run(t, new(ValueTestSuite))
}
