package host

import (
	"errors"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/recover-lock/pkg/lock"
	"golang.org/x/crypto/blake2b"
)

var (
	errNoDigest  = errors.New("transaction has neither tx hash nor raw transaction")
	errNoWitness = errors.New("witness is empty")
)

// Transaction is a synthetic host: the parts of a transaction a lock script
// can read, as stored in a fixture file.
type Transaction struct {
	// ScriptArgs are the arguments of the lock script being run.
	ScriptArgs []byte `cbor:"1,keyasint"`
	// TxHash is the transaction digest. When empty, the digest is the
	// BLAKE2b-256 hash of RawTx.
	TxHash []byte `cbor:"2,keyasint,omitempty"`
	RawTx  []byte `cbor:"3,keyasint,omitempty"`
	// Inputs and Outputs are the number of cells consumed and created.
	Inputs  int `cbor:"4,keyasint"`
	Outputs int `cbor:"5,keyasint"`
	// GroupInputs lists the inputs locked by this script. Nil means all inputs.
	GroupInputs []int `cbor:"6,keyasint,omitempty"`
	// Witnesses holds encoded WitnessArgs; witness i belongs to input i.
	Witnesses [][]byte `cbor:"7,keyasint"`
}

var _ lock.Host = (*Transaction)(nil)

// NewTransaction returns a single input, single output transaction locked by
// fingerprint, with lockData as the lock field of its only witness.
func NewTransaction(fingerprint lock.Fingerprint, digest lock.Digest, lockData []byte) (*Transaction, error) {
	tx := &Transaction{
		ScriptArgs: append([]byte{}, fingerprint[:]...),
		TxHash:     append([]byte{}, digest[:]...),
		Inputs:     1,
		Outputs:    1,
	}
	if err := tx.SetWitness(0, WitnessArgs{Lock: Some(lockData)}); err != nil {
		return nil, err
	}
	return tx, nil
}

// SetWitness encodes args as witness index, growing the witness list if needed.
func (tx *Transaction) SetWitness(index int, args WitnessArgs) error {
	if index < 0 {
		return fmt.Errorf("host: negative witness index %d", index)
	}
	data, err := args.MarshalBinary()
	if err != nil {
		return fmt.Errorf("host: encode witness %d: %w", index, err)
	}
	for len(tx.Witnesses) <= index {
		tx.Witnesses = append(tx.Witnesses, nil)
	}
	tx.Witnesses[index] = data
	return nil
}

// Fingerprint implements lock.Host.
func (tx *Transaction) Fingerprint() ([]byte, error) {
	return tx.ScriptArgs, nil
}

// Digest implements lock.Host.
func (tx *Transaction) Digest() (lock.Digest, error) {
	var digest lock.Digest
	switch {
	case len(tx.TxHash) > 0:
		if len(tx.TxHash) < lock.DigestLen {
			return digest, lock.NewHostError(lock.CodeLengthNotEnough, "load tx hash",
				fmt.Errorf("got %d bytes", len(tx.TxHash)))
		}
		if len(tx.TxHash) > lock.DigestLen {
			return digest, lock.NewHostError(lock.CodeEncoding, "load tx hash",
				fmt.Errorf("got %d bytes", len(tx.TxHash)))
		}
		copy(digest[:], tx.TxHash)
	case tx.RawTx != nil:
		digest = blake2b.Sum256(tx.RawTx)
	default:
		return digest, lock.NewHostError(lock.CodeItemMissing, "load tx hash", errNoDigest)
	}
	return digest, nil
}

// WitnessLock implements lock.Host.
func (tx *Transaction) WitnessLock(index int, source lock.Source) ([]byte, bool, error) {
	i, err := tx.witnessIndex(index, source)
	if err != nil {
		return nil, false, err
	}
	raw := tx.Witnesses[i]
	if len(raw) == 0 {
		return nil, false, lock.NewHostError(lock.CodeItemMissing, "load witness", errNoWitness)
	}
	var args WitnessArgs
	if err := args.UnmarshalBinary(raw); err != nil {
		return nil, false, lock.NewHostError(lock.CodeEncoding, "load witness", err)
	}
	return args.Lock.Data, args.Lock.Valid, nil
}

// witnessIndex resolves (index, source) to a position in tx.Witnesses.
func (tx *Transaction) witnessIndex(index int, source lock.Source) (int, error) {
	outOfBound := func() error {
		return lock.NewHostError(lock.CodeIndexOutOfBound, "load witness",
			fmt.Errorf("index %d of %s", index, source))
	}
	if index < 0 {
		return 0, outOfBound()
	}

	var i int
	switch source {
	case lock.SourceInput:
		if index >= tx.Inputs {
			return 0, outOfBound()
		}
		i = index
	case lock.SourceOutput:
		if index >= tx.Outputs {
			return 0, outOfBound()
		}
		i = index
	case lock.SourceGroupInput:
		group := tx.groupInputs()
		if index >= len(group) {
			return 0, outOfBound()
		}
		i = group[index]
	default:
		return 0, outOfBound()
	}
	if i >= len(tx.Witnesses) {
		return 0, outOfBound()
	}
	return i, nil
}

func (tx *Transaction) groupInputs() []int {
	if tx.GroupInputs != nil {
		return tx.GroupInputs
	}
	all := make([]int, tx.Inputs)
	for i := range all {
		all[i] = i
	}
	return all
}

type transactionMarshal Transaction

func (tx *Transaction) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*transactionMarshal)(tx))
}

func (tx *Transaction) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, (*transactionMarshal)(tx))
}

// LoadFile reads a CBOR encoded Transaction.
func LoadFile(path string) (*Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	var tx Transaction
	if err := tx.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("host: decode %s: %w", path, err)
	}
	return &tx, nil
}

// SaveFile writes tx to path as CBOR.
func SaveFile(path string, tx *Transaction) error {
	data, err := tx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("host: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return nil
}
