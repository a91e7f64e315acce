package hash

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	testFunc := func(vs ...interface{}) error {
		h := New("test")
		return h.WriteAny(vs...)
	}

	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.NoError(t, testFunc("seed"))
	assert.Error(t, testFunc(42))
}

func TestHash_DomainSeparation(t *testing.T) {
	sum := func(context string, vs ...interface{}) []byte {
		h := New(context)
		require.NoError(t, h.WriteAny(vs...))
		return h.Sum()
	}

	assert.Equal(t, sum("a", []byte("x")), sum("a", []byte("x")))
	assert.NotEqual(t, sum("a", []byte("x")), sum("b", []byte("x")))
	assert.NotEqual(t, sum("a", []byte("x")), sum("a", "x"))
	assert.NotEqual(t, sum("a", []byte("xy")), sum("a", []byte("x"), []byte("y")))
	assert.NotEqual(t, sum("a", []byte("x"), []byte{}), sum("a", []byte("x")))
}

func TestHash_DigestExtendsSum(t *testing.T) {
	h := New("digest")
	require.NoError(t, h.WriteAny([]byte("seed")))

	long := make([]byte, 100)
	_, err := io.ReadFull(h.Digest(), long)
	require.NoError(t, err)
	assert.Equal(t, h.Sum(), long[:DigestLengthBytes])
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, "ab", []byte{7}))
	assert.Equal(t, []byte{
		0, 0, 0, 0, 0, 0, 0, 2, 'a', 'b',
		0, 0, 0, 0, 0, 0, 0, 1, 7,
	}, buf.Bytes())
}
