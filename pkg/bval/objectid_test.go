package bval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ObjectIDTestSuite struct {
	suite.Suite
}

func (s *ObjectIDTestSuite) TestHexRoundTrip() {
	const hex = "60c9fa10b83bdb0000000001"
	id, err := ObjectIDFromHex(hex)
	s.NoError(err)
	s.Equal(hex, id.Hex())
	s.Len(id.Hex(), 24)
}

func (s *ObjectIDTestSuite) TestHexIsLowercase() {
	id, err := ObjectIDFromHex("60C9FA10B83BDB00000000AB")
	s.NoError(err)
	s.Equal("60c9fa10b83bdb00000000ab", id.Hex())
}

func (s *ObjectIDTestSuite) TestFromHexRejectsBadInput() {
	var invalid *ErrInvalidHex

	_, err := ObjectIDFromHex("short")
	s.ErrorAs(err, &invalid)

	_, err = ObjectIDFromHex("zzc9fa10b83bdb0000000001")
	s.ErrorAs(err, &invalid)
}

func (s *ObjectIDTestSuite) TestBytesRoundTrip() {
	raw := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	id, err := ObjectIDFromBytes(raw)
	s.NoError(err)
	s.Equal(raw, id.Bytes())

	_, err = ObjectIDFromBytes(raw[:11])
	s.Error(err)
}

func (s *ObjectIDTestSuite) TestTimestamp() {
	// 0x60c9fa10 is 2021-06-16T13:18:08Z.
	id, err := ObjectIDFromHex("60c9fa10b83bdb0000000001")
	s.NoError(err)
	s.Equal(time.Date(2021, 6, 16, 13, 18, 8, 0, time.UTC), id.Timestamp())
}

func (s *ObjectIDTestSuite) TestIsZero() {
	var id ObjectID
	s.True(id.IsZero())
	id[11] = 1
	s.False(id.IsZero())
}

func TestObjectIDTestSuite(t *testing.T) {
	suite.Run(t, new(ObjectIDTestSuite))
}
