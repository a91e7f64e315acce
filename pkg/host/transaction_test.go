package host

import (
	"crypto/rand"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/recover-lock/pkg/ecdsa"
	"github.com/taurusgroup/recover-lock/pkg/lock"
	"golang.org/x/crypto/blake2b"
)

func signedTransaction(t *testing.T) (*Transaction, *ecdsa.PrivateKey) {
	sk := ecdsa.GenerateKey(rand.Reader)
	var digest lock.Digest
	_, err := rand.Read(digest[:])
	require.NoError(t, err)

	sig := ecdsa.SignRecoverable(sk, digest)
	tx, err := NewTransaction(lock.DeriveFingerprint(sk.Public()), digest, sig.WitnessLock())
	require.NoError(t, err)
	return tx, sk
}

func hostCode(err error) lock.ErrorCode {
	var hostErr *lock.HostError
	if errors.As(err, &hostErr) {
		return hostErr.Code
	}
	return lock.CodeSuccess
}

func TestTransactionAuthorized(t *testing.T) {
	tx, _ := signedTransaction(t)
	assert.NoError(t, lock.Verify(tx))
	assert.Equal(t, lock.CodeSuccess, lock.Run(tx))
}

func TestTransactionFileRoundTrip(t *testing.T) {
	tx, _ := signedTransaction(t)
	path := filepath.Join(t.TempDir(), "tx.cbor")
	require.NoError(t, SaveFile(path, tx))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tx.ScriptArgs, loaded.ScriptArgs)
	assert.Equal(t, tx.TxHash, loaded.TxHash)
	assert.Equal(t, lock.CodeSuccess, lock.Run(loaded))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.cbor"))
	assert.Error(t, err)
}

func TestWitnessArgsOptional(t *testing.T) {
	for _, args := range []WitnessArgs{
		{},
		{Lock: Some(nil)},
		{Lock: Some([]byte{1, 2, 3}), OutputType: Some([]byte{9})},
	} {
		data, err := args.MarshalBinary()
		require.NoError(t, err)
		var decoded WitnessArgs
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.Equal(t, args.Lock.Valid, decoded.Lock.Valid)
		assert.Equal(t, len(args.Lock.Data), len(decoded.Lock.Data))
		assert.Equal(t, args.InputType.Valid, decoded.InputType.Valid)
		assert.Equal(t, args.OutputType.Valid, decoded.OutputType.Valid)
	}
}

func TestWitnessLockAbsentAndEmpty(t *testing.T) {
	tx, _ := signedTransaction(t)

	require.NoError(t, tx.SetWitness(0, WitnessArgs{InputType: Some([]byte{1})}))
	data, present, err := tx.WitnessLock(0, lock.SourceInput)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Nil(t, data)
	assert.Equal(t, lock.CodeVerification, lock.Run(tx))

	require.NoError(t, tx.SetWitness(0, WitnessArgs{Lock: Some([]byte{})}))
	data, present, err = tx.WitnessLock(0, lock.SourceInput)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Empty(t, data)
	assert.Equal(t, lock.CodeVerification, lock.Run(tx))
}

func TestWitnessLockHostFaults(t *testing.T) {
	tx, _ := signedTransaction(t)

	_, _, err := tx.WitnessLock(1, lock.SourceInput)
	assert.Equal(t, lock.CodeIndexOutOfBound, hostCode(err))
	_, _, err = tx.WitnessLock(-1, lock.SourceInput)
	assert.Equal(t, lock.CodeIndexOutOfBound, hostCode(err))
	_, _, err = tx.WitnessLock(0, lock.SourceCellDep)
	assert.Equal(t, lock.CodeIndexOutOfBound, hostCode(err))

	tx.Inputs = 2
	_, _, err = tx.WitnessLock(1, lock.SourceInput)
	assert.Equal(t, lock.CodeIndexOutOfBound, hostCode(err), "no witness at index 1")

	tx.Witnesses = append(tx.Witnesses, []byte{})
	_, _, err = tx.WitnessLock(1, lock.SourceInput)
	assert.Equal(t, lock.CodeItemMissing, hostCode(err))

	tx.Witnesses[1] = []byte{0xff, 0x00}
	_, _, err = tx.WitnessLock(1, lock.SourceInput)
	assert.Equal(t, lock.CodeEncoding, hostCode(err))

	tx.Witnesses[0] = []byte{0x01}
	assert.Equal(t, lock.CodeEncoding, lock.Run(tx))
}

func TestWitnessLockGroupInput(t *testing.T) {
	tx, _ := signedTransaction(t)
	signed := tx.Witnesses[0]

	tx.Inputs = 3
	tx.GroupInputs = []int{2}
	tx.Witnesses = [][]byte{nil, nil, signed}

	v := lock.NewVerifier(lock.WithWitness(0, lock.SourceGroupInput))
	assert.NoError(t, v.Verify(tx))

	_, _, err := tx.WitnessLock(1, lock.SourceGroupInput)
	assert.Equal(t, lock.CodeIndexOutOfBound, hostCode(err))

	// witness 0 of the inputs is not set
	assert.Equal(t, lock.CodeItemMissing, lock.Run(tx))
}

func TestDigestSources(t *testing.T) {
	tx, sk := signedTransaction(t)

	tx.TxHash = tx.TxHash[:31]
	_, err := tx.Digest()
	assert.Equal(t, lock.CodeLengthNotEnough, hostCode(err))

	tx.TxHash = make([]byte, 33)
	_, err = tx.Digest()
	assert.Equal(t, lock.CodeEncoding, hostCode(err))

	tx.TxHash = nil
	_, err = tx.Digest()
	assert.Equal(t, lock.CodeItemMissing, hostCode(err))

	tx.RawTx = []byte("raw transaction bytes")
	digest, err := tx.Digest()
	require.NoError(t, err)
	assert.Equal(t, lock.Digest(blake2b.Sum256(tx.RawTx)), digest)

	sig := ecdsa.SignRecoverable(sk, digest)
	require.NoError(t, tx.SetWitness(0, WitnessArgs{Lock: Some(sig.WitnessLock())}))
	assert.Equal(t, lock.CodeSuccess, lock.Run(tx))
}

func TestScriptArgsWrongLength(t *testing.T) {
	tx, _ := signedTransaction(t)
	tx.ScriptArgs = tx.ScriptArgs[:19]
	assert.Equal(t, lock.CodeVerification, lock.Run(tx))
}
