package ecdsa

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomDigest(t *testing.T) [DigestLen]byte {
	var digest [DigestLen]byte
	_, err := rand.Read(digest[:])
	require.NoError(t, err)
	return digest
}

func TestSignRecoverable(t *testing.T) {
	for i := 0; i < 10; i++ {
		sk := GenerateKey(rand.Reader)
		digest := randomDigest(t)

		sig := SignRecoverable(sk, digest)
		require.LessOrEqual(t, sig.RecoveryID, byte(MaxRecoveryID))
		assert.False(t, sig.S.IsOverHalfOrder())
		assert.True(t, sig.Verify(sk.Public(), digest))

		pk, err := sig.RecoverPublicKey(digest)
		require.NoError(t, err)
		assert.True(t, pk.Equal(sk.Public()))
	}
}

func TestRecoverWrongParity(t *testing.T) {
	sk := GenerateKey(rand.Reader)
	digest := randomDigest(t)
	sig := SignRecoverable(sk, digest)

	sig.RecoveryID ^= 1
	pk, err := sig.RecoverPublicKey(digest)
	if err == nil {
		assert.False(t, pk.Equal(sk.Public()))
	}
	// the signature itself is still valid for the real key
	assert.True(t, sig.Verify(sk.Public(), digest))
}

func TestRecoverOverflowBit(t *testing.T) {
	sk := GenerateKey(rand.Reader)
	digest := randomDigest(t)
	sig := SignRecoverable(sk, digest)

	// R + N exceeds the field prime unless R < P - N, which is negligible
	sig.RecoveryID |= 2
	_, err := sig.RecoverPublicKey(digest)
	assert.ErrorIs(t, err, ErrRecoveryFailed)
}

func TestRecoverWrongDigest(t *testing.T) {
	sk := GenerateKey(rand.Reader)
	digest := randomDigest(t)
	sig := SignRecoverable(sk, digest)

	digest[0] ^= 0x01
	pk, err := sig.RecoverPublicKey(digest)
	if err == nil {
		assert.False(t, pk.Equal(sk.Public()))
	}
	assert.False(t, sig.Verify(sk.Public(), digest))
}

func TestWitnessLockRoundTrip(t *testing.T) {
	sk := GenerateKey(rand.Reader)
	digest := randomDigest(t)
	sig := SignRecoverable(sk, digest)

	lock := sig.WitnessLock()
	require.Len(t, lock, WitnessLockLen)
	assert.Equal(t, sig.RecoveryID, lock[0])

	parsed, err := ParseWitnessLock(lock)
	require.NoError(t, err)
	assert.Equal(t, sig.RecoveryID, parsed.RecoveryID)
	assert.True(t, sig.R.Equal(&parsed.R))
	assert.True(t, sig.S.Equal(&parsed.S))
}

func TestParseWitnessLockRejects(t *testing.T) {
	sk := GenerateKey(rand.Reader)
	valid := SignRecoverable(sk, randomDigest(t)).WitnessLock()

	for _, n := range []int{0, 1, WitnessLockLen - 1} {
		_, err := ParseWitnessLock(valid[:n])
		assert.ErrorIs(t, err, ErrWitnessLength, "length %d", n)
	}
	_, err := ParseWitnessLock(append(append([]byte{}, valid...), 0))
	assert.ErrorIs(t, err, ErrWitnessLength)

	for _, recid := range []byte{4, 27, 31, 0xff} {
		lock := append([]byte{}, valid...)
		lock[0] = recid
		_, err = ParseWitnessLock(lock)
		assert.ErrorIs(t, err, ErrRecoveryID, "recovery id %d", recid)
	}

	order := secp256k1.Params().N.Bytes()

	highR := append([]byte{}, valid...)
	copy(highR[1:33], order)
	_, err = ParseWitnessLock(highR)
	assert.ErrorIs(t, err, ErrSignatureEncoding)

	highS := append([]byte{}, valid...)
	copy(highS[33:], order)
	_, err = ParseWitnessLock(highS)
	assert.ErrorIs(t, err, ErrSignatureEncoding)

	zeroR := append([]byte{}, valid...)
	copy(zeroR[1:33], make([]byte, 32))
	_, err = ParseWitnessLock(zeroR)
	assert.ErrorIs(t, err, ErrSignatureEncoding)

	zeroS := append([]byte{}, valid...)
	copy(zeroS[33:], make([]byte, 32))
	_, err = ParseWitnessLock(zeroS)
	assert.ErrorIs(t, err, ErrSignatureEncoding)
}

func TestRecoverRejectsBadRecoveryID(t *testing.T) {
	sig := SignRecoverable(GenerateKey(rand.Reader), randomDigest(t))
	sig.RecoveryID = MaxRecoveryID + 1
	_, err := sig.RecoverPublicKey(randomDigest(t))
	assert.ErrorIs(t, err, ErrRecoveryID)
}

func TestSignatureDeterministic(t *testing.T) {
	sk := KeyFromSeed([]byte("deterministic"))
	digest := sha256.Sum256([]byte("message"))
	a := SignRecoverable(sk, digest).WitnessLock()
	b := SignRecoverable(sk, digest).WitnessLock()
	assert.Equal(t, a, b)
}
