package lock

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/recover-lock/pkg/ecdsa"
)

// Verifier runs the lock against a Host.
//
// A Verifier holds no state between calls and may be shared between goroutines.
type Verifier struct {
	log    zerolog.Logger
	index  int
	source Source
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger used for diagnostics. Rejection reasons are only
// ever reported here, at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Verifier) {
		v.log = log
	}
}

// WithWitness selects which witness carries the signature.
func WithWitness(index int, source Source) Option {
	return func(v *Verifier) {
		v.index = index
		v.source = source
	}
}

// NewVerifier returns a Verifier reading witness 0 of the inputs, which is
// where the lock expects its signature.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		log:    zerolog.Nop(),
		index:  0,
		source: SourceInput,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultVerifier = NewVerifier()

// Verify runs the lock with the default Verifier.
func Verify(host Host) error {
	return defaultVerifier.Verify(host)
}

// Run runs the lock with the default Verifier and returns the host status.
func Run(host Host) ErrorCode {
	return defaultVerifier.Run(host)
}

// Run returns CodeSuccess if the transaction is authorized, CodeVerification if
// the lock rejects it, or the code of the host fault that prevented the check.
func (v *Verifier) Run(host Host) ErrorCode {
	return StatusCode(v.Verify(host))
}

// Verify checks that the witness carries a signature over the transaction
// digest by the key whose fingerprint is committed in the script arguments.
//
// Every rejection matches ErrVerification. Errors raised by host are
// returned as they are.
func (v *Verifier) Verify(host Host) error {
	committed, err := host.Fingerprint()
	if err != nil {
		return err
	}
	digest, err := host.Digest()
	if err != nil {
		return err
	}
	log := v.log.With().Hex("fingerprint", committed).Hex("digest", digest[:]).Logger()

	lock, present, err := host.WitnessLock(v.index, v.source)
	if err != nil {
		return err
	}

	err = verify(log, committed, digest, lock, present)
	if err != nil {
		var verr *VerificationError
		if errors.As(err, &verr) {
			log.Debug().Str("reason", string(verr.Reason)).AnErr("cause", verr.Err).Msg("rejected")
		}
		return err
	}
	log.Debug().Msg("authorized")
	return nil
}

func verify(log zerolog.Logger, committed []byte, digest Digest, lock []byte, present bool) error {
	sig, err := decodeWitness(lock, present)
	if err != nil {
		return err
	}
	log.Debug().
		Int("witness_len", len(lock)).
		Uint8("recovery_id", sig.RecoveryID).
		Bool("high_s", sig.S.IsOverHalfOrder()).
		Msg("decoded witness")

	pk, err := sig.RecoverPublicKey(digest)
	if err != nil {
		return reject(ReasonRecoveryFailed, err)
	}

	derived := DeriveFingerprint(pk)
	log.Debug().Hex("public_key", pk.Compressed()).Stringer("derived", derived).Msg("recovered public key")
	if !derived.Matches(committed) {
		return reject(ReasonFingerprintMismatch, nil)
	}
	return nil
}

func decodeWitness(lock []byte, present bool) (*ecdsa.RecoverableSignature, error) {
	if !present {
		return nil, reject(ReasonWitnessAbsent, nil)
	}
	sig, err := ecdsa.ParseWitnessLock(lock)
	if err != nil {
		return nil, reject(ReasonWitnessMalformed, err)
	}
	return sig, nil
}
