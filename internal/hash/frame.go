package hash

import (
	"encoding/binary"
	"io"
)

// Tags for the values New and WriteAny accept.
const (
	tagContext = "context"
	tagBytes   = "[]byte"
	tagString  = "string"
)

// writeFrame writes tag and data, each preceded by its length as a big-endian
// uint64, so that no two sequences of frames produce the same byte stream.
func writeFrame(w io.Writer, tag string, data []byte) error {
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(tag)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, tag); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(length[:], uint64(len(data)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
