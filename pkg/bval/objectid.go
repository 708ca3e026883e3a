package bval

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// ObjectID is a 12-byte generated identity value: a 4-byte big-endian
// unix-seconds timestamp, a 5-byte process discriminator and a 3-byte
// counter. Two ObjectIDs are equal iff their 12 bytes are equal.
type ObjectID [12]byte

// ErrInvalidHex is returned by [ObjectIDFromHex] for input that is not 24
// hexadecimal characters.
type ErrInvalidHex struct {
	Input string
}

func (e *ErrInvalidHex) Error() string {
	return fmt.Sprintf("bval: %q is not a valid 24 character hex object id", e.Input)
}

// ObjectIDFromHex parses the canonical 24-character hex rendering.
func ObjectIDFromHex(s string) (ObjectID, error) {
	if len(s) != 24 {
		return ObjectID{}, &ErrInvalidHex{Input: s}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ObjectID{}, &ErrInvalidHex{Input: s}
	}
	var id ObjectID
	copy(id[:], b)
	return id, nil
}

// ObjectIDFromBytes builds an ObjectID from exactly 12 raw bytes.
func ObjectIDFromBytes(b []byte) (ObjectID, error) {
	if len(b) != 12 {
		return ObjectID{}, fmt.Errorf("bval: object id requires 12 bytes, got %d", len(b))
	}
	var id ObjectID
	copy(id[:], b)
	return id, nil
}

// Hex returns the canonical lowercase rendering, always 24 characters.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns a copy of the raw 12 bytes.
func (id ObjectID) Bytes() []byte {
	b := make([]byte, 12)
	copy(b, id[:])
	return b
}

// Timestamp returns the creation instant embedded in the id, at second
// resolution.
func (id ObjectID) Timestamp() time.Time {
	secs := binary.BigEndian.Uint32(id[0:4])
	return time.Unix(int64(secs), 0).UTC()
}

// IsZero reports whether the id is all zero bytes.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

func (id ObjectID) String() string {
	return "ObjectId(" + id.Hex() + ")"
}
