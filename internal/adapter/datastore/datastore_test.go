package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/pkg/bval"
)

type M = map[string]any

type DatastoreTestSuite struct {
	suite.Suite
	ctx context.Context
	db  domain.DB
}

func (s *DatastoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := NewDatastore()
	s.Require().NoError(err)
	s.db = db
}

func (s *DatastoreTestSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *DatastoreTestSuite) TestInsertFind() {
	s.NoError(s.db.CreateCollection(s.ctx, "books"))

	id, err := s.db.Insert(s.ctx, "books", M{
		"title":  "Dune",
		"author": "Frank Herbert",
	})
	s.NoError(err)
	s.False(id.IsZero())

	cur, err := s.db.Find(s.ctx, "books", M{"author": "Frank Herbert"})
	s.NoError(err)
	defer func() { s.NoError(cur.Release()) }()

	s.True(cur.Next(s.ctx))

	var book struct {
		ID     bval.ObjectID `jotdb:"_id"`
		Title  string        `jotdb:"title"`
		Author string        `jotdb:"author"`
	}
	s.NoError(cur.Scan(s.ctx, &book))
	s.Equal("Dune", book.Title)
	s.Equal("Frank Herbert", book.Author)
	s.Equal(id, book.ID)

	s.False(cur.Next(s.ctx))
	s.NoError(cur.Err())
}

func (s *DatastoreTestSuite) TestInsertStruct() {
	s.NoError(s.db.CreateCollection(s.ctx, "books"))

	type book struct {
		Title string `jotdb:"title"`
		Year  int    `jotdb:"year"`
	}
	_, err := s.db.Insert(s.ctx, "books", book{Title: "Dune", Year: 1965})
	s.NoError(err)

	count, err := s.db.Count(s.ctx, "books")
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *DatastoreTestSuite) TestFindAll() {
	s.NoError(s.db.CreateCollection(s.ctx, "books"))
	for _, title := range []string{"Dune", "Dune Messiah", "Children of Dune"} {
		_, err := s.db.Insert(s.ctx, "books", M{"title": title})
		s.NoError(err)
	}

	rows, err := s.db.FindAll(s.ctx, "books", nil)
	s.NoError(err)
	s.Len(rows, 3)

	first, ok := rows[0].(M)
	s.True(ok)
	s.Equal("Dune", first["title"])
}

func (s *DatastoreTestSuite) TestUpdateDelete() {
	s.NoError(s.db.CreateCollection(s.ctx, "books"))
	_, err := s.db.Insert(s.ctx, "books", M{"title": "Dune", "copies": 1})
	s.NoError(err)

	count, err := s.db.Update(s.ctx, "books", M{"title": "Dune"},
		M{"$inc": M{"copies": 4}})
	s.NoError(err)
	s.Equal(int64(1), count)

	rows, err := s.db.FindAll(s.ctx, "books", M{"copies": 5})
	s.NoError(err)
	s.Len(rows, 1)

	count, err = s.db.Delete(s.ctx, "books", M{"title": "Dune"})
	s.NoError(err)
	s.Equal(int64(1), count)
}

// A failed call lands in the last-error channel; the next failure
// overwrites it.
func (s *DatastoreTestSuite) TestLastError() {
	s.Zero(s.db.LastErrorCode())

	_, err := s.db.Count(s.ctx, "nope")
	s.Error(err)
	s.Equal(domain.CodeCollectionNotFound, s.db.LastErrorCode())
	s.Contains(s.db.LastErrorMessage(), "nope")

	s.NoError(s.db.CreateCollection(s.ctx, "books"))
	err = s.db.CreateCollection(s.ctx, "books")
	s.Error(err)
	s.Equal(domain.CodeCollectionAlreadyExists, s.db.LastErrorCode())

	// Success does not clear the stored error.
	_, err = s.db.Count(s.ctx, "books")
	s.NoError(err)
	s.Equal(domain.CodeCollectionAlreadyExists, s.db.LastErrorCode())
}

func (s *DatastoreTestSuite) TestConversionErrorRecorded() {
	s.NoError(s.db.CreateCollection(s.ctx, "books"))

	_, err := s.db.Insert(s.ctx, "books", M{"bad": make(chan int)})
	s.Error(err)
	s.Equal(domain.CodeUnknown, s.db.LastErrorCode())
}

func (s *DatastoreTestSuite) TestTransaction() {
	s.NoError(s.db.CreateCollection(s.ctx, "books"))

	s.NoError(s.db.StartTransaction(s.ctx, domain.TransactionReadWrite))
	_, err := s.db.Insert(s.ctx, "books", M{"title": "Dune"})
	s.NoError(err)
	s.NoError(s.db.Rollback(s.ctx))

	count, err := s.db.Count(s.ctx, "books")
	s.NoError(err)
	s.Zero(count)
}

func (s *DatastoreTestSuite) TestInsertNil() {
	s.NoError(s.db.CreateCollection(s.ctx, "books"))
	_, err := s.db.Insert(s.ctx, "books", nil)
	s.ErrorIs(err, domain.ErrNilDocument)
}

func TestDatastoreTestSuite(t *testing.T) {
	suite.Run(t, new(DatastoreTestSuite))
}
