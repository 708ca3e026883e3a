package engine

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/dolmen-go/contextio"
	bolt "go.etcd.io/bbolt"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/pkg/bval"
)

// store persists collections in a bbolt file: one bucket per
// collection, one entry per document keyed by its rendered "_id".
type store struct {
	db  *bolt.DB
	ser domain.Serializer
	des domain.Deserializer
}

func openStore(path string, mode os.FileMode, ser domain.Serializer, des domain.Deserializer) (*store, error) {
	db, err := bolt.Open(path, mode, nil)
	if err != nil {
		return nil, domain.NewEngineError(domain.CodeNotAValidDatabase,
			"cannot open database file %s: %v", path, err)
	}
	return &store{db: db, ser: ser, des: des}, nil
}

// load reads every bucket into collections. Documents come back in key
// order; insertion order does not survive a reopen.
func (s *store) load(collections map[string]*collection) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, bucket *bolt.Bucket) error {
			col := newCollection()
			err := bucket.ForEach(func(_, raw []byte) error {
				doc, err := s.des.Deserialize(context.Background(), raw)
				if err != nil {
					return err
				}
				col.docs = append(col.docs, doc)
				return col.ids.Insert(idKey(doc), doc)
			})
			if err != nil {
				return err
			}
			collections[string(name)] = col
			return nil
		})
	})
}

func (s *store) put(ctx context.Context, name string, doc *bval.Document) error {
	raw, err := s.ser.Serialize(ctx, doc)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(idKey(doc)), raw)
	})
}

func (s *store) delete(name, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(name))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

func (s *store) createBucket(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
}

func (s *store) drop(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(name))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

// rewrite replaces a bucket with the collection's current contents. A
// nil collection means it was dropped inside the transaction.
func (s *store) rewrite(ctx context.Context, name string, col *collection) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(name)); err != nil &&
			!errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		if col == nil {
			return nil
		}
		bucket, err := tx.CreateBucket([]byte(name))
		if err != nil {
			return err
		}
		for _, doc := range col.docs {
			raw, err := s.ser.Serialize(ctx, doc)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(idKey(doc)), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *store) close() error {
	return s.db.Close()
}

// Backup implements domain.Engine. It streams a consistent snapshot of
// the store file to w, honoring ctx cancellation mid-copy. In-memory
// engines have nothing to stream.
func (e *Engine) Backup(ctx context.Context, w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.guard(ctx, false); err != nil {
		return err
	}
	if e.store == nil {
		return domain.ErrNoBackupSource
	}
	return e.store.db.View(func(tx *bolt.Tx) error {
		_, err := tx.WriteTo(contextio.NewWriter(ctx, w))
		return err
	})
}
