package jotdb_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/jotdb/jotdb"
)

type JotDBTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *JotDBTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *JotDBTestSuite) TestOpenPersists() {
	path := filepath.Join(s.T().TempDir(), "library.db")

	db, err := jotdb.Open(path)
	s.Require().NoError(err)
	s.NoError(db.CreateCollection(s.ctx, "books"))
	_, err = db.Insert(s.ctx, "books", map[string]any{"title": "Dune"})
	s.NoError(err)
	s.NoError(db.Close())

	db, err = jotdb.Open(path)
	s.Require().NoError(err)
	defer func() { s.NoError(db.Close()) }()

	count, err := db.Count(s.ctx, "books")
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *JotDBTestSuite) TestBackup() {
	path := filepath.Join(s.T().TempDir(), "library.db")

	db, err := jotdb.Open(path)
	s.Require().NoError(err)
	defer func() { s.NoError(db.Close()) }()
	s.NoError(db.CreateCollection(s.ctx, "books"))

	var buf bytes.Buffer
	s.NoError(db.Backup(s.ctx, &buf))
	s.NotZero(buf.Len())

	db2, err := jotdb.New()
	s.Require().NoError(err)
	defer func() { s.NoError(db2.Close()) }()
	s.ErrorIs(db2.Backup(s.ctx, &buf), jotdb.ErrNoBackupSource)
}

func (s *JotDBTestSuite) TestLastError() {
	db, err := jotdb.New()
	s.Require().NoError(err)
	defer func() { s.NoError(db.Close()) }()

	_, err = db.Count(s.ctx, "nope")
	s.Error(err)
	s.Equal(-24, db.LastErrorCode())
}

func (s *JotDBTestSuite) TestVersion() {
	db, err := jotdb.New()
	s.Require().NoError(err)
	defer func() { s.NoError(db.Close()) }()
	s.NotEmpty(db.Version())
}

func TestJotDBTestSuite(t *testing.T) {
	suite.Run(t, new(JotDBTestSuite))
}
