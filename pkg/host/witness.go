package host

import (
	"github.com/fxamacker/cbor/v2"
)

// cborNull is the single byte encoding of CBOR null.
const cborNull = 0xf6

// OptBytes is a byte string that may be absent, as opposed to merely empty.
type OptBytes struct {
	Data  []byte
	Valid bool
}

// Some wraps data as a present value, even when data is empty.
func Some(data []byte) OptBytes {
	if data == nil {
		data = []byte{}
	}
	return OptBytes{Data: data, Valid: true}
}

// MarshalCBOR encodes an absent value as null and a present one as a byte string.
func (o OptBytes) MarshalCBOR() ([]byte, error) {
	if !o.Valid {
		return []byte{cborNull}, nil
	}
	data := o.Data
	if data == nil {
		data = []byte{}
	}
	return cbor.Marshal(data)
}

func (o *OptBytes) UnmarshalCBOR(data []byte) error {
	if len(data) == 1 && data[0] == cborNull {
		*o = OptBytes{}
		return nil
	}
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	*o = Some(b)
	return nil
}

// WitnessArgs is the structured content of a witness.
//
// Lock holds the data consumed by the lock script of the matching input;
// the type fields are carried along for type scripts and never read here.
type WitnessArgs struct {
	_          struct{} `cbor:",toarray"`
	Lock       OptBytes
	InputType  OptBytes
	OutputType OptBytes
}

// witnessArgsMarshal drops the BinaryMarshaler methods, which cbor would
// otherwise call recursively.
type witnessArgsMarshal WitnessArgs

// MarshalBinary returns the witness bytes as stored in a transaction.
func (w *WitnessArgs) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*witnessArgsMarshal)(w))
}

func (w *WitnessArgs) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, (*witnessArgsMarshal)(w))
}
