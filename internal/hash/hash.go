package hash

import (
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// DigestLengthBytes is the length of Sum's output.
const DigestLengthBytes = 32

// Hash is a domain separated hash with an extendable output.
//
// Its output stream is used as a deterministic source of randomness, for example
// to derive key material from a seed.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash bound to context. Hashes created with different
// contexts produce unrelated outputs for the same input.
func New(context string) *Hash {
	hash := &Hash{h: blake3.New()}
	_ = writeFrame(hash.h, tagContext, []byte(context))
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny writes each of data to the hash state. Only []byte and string are
// accepted; each is framed with its type, so "x" and []byte("x") hash differently.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var err error
		switch t := d.(type) {
		case []byte:
			err = writeFrame(hash.h, tagBytes, t)
		case string:
			err = writeFrame(hash.h, tagString, []byte(t))
		default:
			return fmt.Errorf("hash.Hash: unsupported type %T", d)
		}
		if err != nil {
			return fmt.Errorf("hash.Hash: write %T: %w", d, err)
		}
	}
	return nil
}
