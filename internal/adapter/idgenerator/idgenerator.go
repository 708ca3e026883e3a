// Package idgenerator contains the default [domain.IDGenerator]
// implementation: ObjectIDs built from the wall clock, a per-process
// discriminator and a monotonic counter, with no engine involvement.
package idgenerator

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/internal/adapter/timegetter"
	"github.com/jotdb/jotdb/pkg/bval"
)

// IDGenerator implements domain.IDGenerator.
type IDGenerator struct {
	tg      domain.TimeGetter
	machine [5]byte
	counter atomic.Uint32
}

// NewIDGenerator returns a new implementation of domain.IDGenerator. The
// process discriminator and the counter seed are drawn from a random
// UUID, so two generators in the same process still produce disjoint ids.
func NewIDGenerator(opts ...domain.IDGeneratorOption) domain.IDGenerator {
	options := domain.IDGeneratorOptions{TimeGetter: timegetter.NewTimeGetter()}
	for _, opt := range opts {
		opt(&options)
	}

	seed := uuid.New()
	g := &IDGenerator{tg: options.TimeGetter}
	copy(g.machine[:], seed[0:5])
	g.counter.Store(binary.BigEndian.Uint32(seed[5:9]) & 0xFFFFFF)
	return g
}

// NewObjectID implements domain.IDGenerator.
func (g *IDGenerator) NewObjectID() bval.ObjectID {
	var id bval.ObjectID
	secs := uint32(g.tg.GetTime().Unix())
	binary.BigEndian.PutUint32(id[0:4], secs)
	copy(id[4:9], g.machine[:])
	c := g.counter.Add(1) & 0xFFFFFF
	id[9] = byte(c >> 16)
	id[10] = byte(c >> 8)
	id[11] = byte(c)
	return id
}
