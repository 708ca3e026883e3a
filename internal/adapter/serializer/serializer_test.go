package serializer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/pkg/bval"
)

type SerializerTestSuite struct {
	suite.Suite
	ctx context.Context
	ser domain.Serializer
	des domain.Deserializer
}

func (s *SerializerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ser = NewSerializer()
	s.des = NewDeserializer()
}

func (s *SerializerTestSuite) TestRoundTrip() {
	id, err := bval.ObjectIDFromHex("60c9fa10b83bdb0000000001")
	s.NoError(err)

	inner := bval.NewDocument()
	inner.Set("deep", bval.Boolean(true))

	arr := bval.NewArray()
	arr.Push(bval.Int64(1))
	arr.Push(bval.Double(2.5))
	arr.Push(bval.Null())

	doc := bval.NewDocument()
	doc.Set("_id", bval.ObjectIDValue(id))
	doc.Set("title", bval.String("Dune"))
	doc.Set("year", bval.Int64(1965))
	doc.Set("rating", bval.Double(4.5))
	doc.Set("in_print", bval.Boolean(true))
	doc.Set("cover", bval.Binary([]byte{0x89, 0x50}))
	doc.Set("released", bval.DateTimeValue(bval.NewDateTime(
		time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC))))
	doc.Set("meta", bval.ObjectValue(inner))
	doc.Set("scores", bval.ArrayValue(arr))
	doc.Set("nothing", bval.Null())

	raw, err := s.ser.Serialize(s.ctx, doc)
	s.NoError(err)

	got, err := s.des.Deserialize(s.ctx, raw)
	s.NoError(err)
	s.True(doc.Equal(got), "got %s", got)
}

// Key order is part of the encoding, not an accident of map iteration.
func (s *SerializerTestSuite) TestKeyOrderSurvives() {
	doc := bval.NewDocument()
	doc.Set("z", bval.Int64(1))
	doc.Set("a", bval.Int64(2))
	doc.Set("m", bval.Int64(3))

	raw, err := s.ser.Serialize(s.ctx, doc)
	s.NoError(err)
	got, err := s.des.Deserialize(s.ctx, raw)
	s.NoError(err)
	s.Equal([]string{"z", "a", "m"}, got.Keys())
}

func (s *SerializerTestSuite) TestNilDocument() {
	_, err := s.ser.Serialize(s.ctx, nil)
	s.ErrorIs(err, domain.ErrNilDocument)
}

func (s *SerializerTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	doc := bval.NewDocument()
	_, err := s.ser.Serialize(ctx, doc)
	s.ErrorIs(err, context.Canceled)

	_, err = s.des.Deserialize(ctx, nil)
	s.ErrorIs(err, context.Canceled)
}

func TestSerializerTestSuite(t *testing.T) {
	suite.Run(t, new(SerializerTestSuite))
}
