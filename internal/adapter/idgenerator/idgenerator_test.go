package idgenerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jotdb/jotdb/domain"
)

// timeGetterMock implements [domain.TimeGetter].
type timeGetterMock struct {
	mock.Mock
}

// GetTime implements [domain.TimeGetter].
func (t *timeGetterMock) GetTime() time.Time {
	call := t.Called()
	return call.Get(0).(time.Time)
}

type IDGeneratorTestSuite struct {
	suite.Suite
}

func (s *IDGeneratorTestSuite) TestTimestampPrefix() {
	instant := time.Date(2021, 6, 16, 13, 18, 8, 0, time.UTC)
	tg := new(timeGetterMock)
	tg.On("GetTime").Return(instant)

	gen := NewIDGenerator(domain.WithIDTimeGetter(tg))
	id := gen.NewObjectID()

	s.Equal(instant, id.Timestamp())
	s.False(id.IsZero())
}

func (s *IDGeneratorTestSuite) TestUniqueness() {
	gen := NewIDGenerator()

	seen := make(map[string]bool)
	for range 1000 {
		hex := gen.NewObjectID().Hex()
		s.False(seen[hex], hex)
		seen[hex] = true
	}
}

// Two generators never share a discriminator, so their ids cannot
// collide even within the same second.
func (s *IDGeneratorTestSuite) TestDistinctGenerators() {
	a := NewIDGenerator().NewObjectID()
	b := NewIDGenerator().NewObjectID()
	s.NotEqual(a.Bytes()[4:9], b.Bytes()[4:9])
}

func TestIDGeneratorTestSuite(t *testing.T) {
	suite.Run(t, new(IDGeneratorTestSuite))
}
