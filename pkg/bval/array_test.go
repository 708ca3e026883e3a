package bval

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ArrayTestSuite struct {
	suite.Suite
}

func (s *ArrayTestSuite) TestPushGetSet() {
	arr := NewArray()
	arr.Push(Int64(1))
	arr.Push(String("two"))
	s.Equal(2, arr.Len())

	v, err := arr.Get(1)
	s.NoError(err)
	s.True(v.Equal(String("two")))

	s.NoError(arr.Set(0, Boolean(true)))
	v, err = arr.Get(0)
	s.NoError(err)
	s.True(v.Equal(Boolean(true)))
}

func (s *ArrayTestSuite) TestOutOfRange() {
	arr := NewArray()
	arr.Push(Int64(1))

	_, err := arr.Get(1)
	var oor *ErrIndexOutOfRange
	s.ErrorAs(err, &oor)
	s.Equal(1, oor.Index)
	s.Equal(1, oor.Len)

	_, err = arr.Get(-1)
	s.Error(err)
	s.Error(arr.Set(5, Int64(0)))
}

func (s *ArrayTestSuite) TestCloneIndependence() {
	arr := NewArray()
	arr.Push(Int64(1))
	clone := arr.Clone()
	s.NoError(clone.Set(0, Int64(9)))

	v, _ := arr.Get(0)
	s.True(v.Equal(Int64(1)))
}

func TestArrayTestSuite(t *testing.T) {
	suite.Run(t, new(ArrayTestSuite))
}
