package lock

import (
	"errors"
	"fmt"
)

// ErrorCode is the status returned to the host runtime.
type ErrorCode int8

const (
	CodeSuccess         ErrorCode = 0
	CodeIndexOutOfBound ErrorCode = 1
	CodeItemMissing     ErrorCode = 2
	CodeLengthNotEnough ErrorCode = 3
	CodeEncoding        ErrorCode = 4
	CodeVerification    ErrorCode = 5
	// CodeUnknown is returned for host errors that carry no code of their own.
	CodeUnknown ErrorCode = -1
)

func (c ErrorCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeIndexOutOfBound:
		return "index out of bound"
	case CodeItemMissing:
		return "item missing"
	case CodeLengthNotEnough:
		return "length not enough"
	case CodeEncoding:
		return "encoding"
	case CodeVerification:
		return "verification"
	default:
		return fmt.Sprintf("unknown(%d)", int8(c))
	}
}

// ErrVerification is matched by every rejection, whatever its reason.
var ErrVerification = errors.New("lock: verification failed")

// Reason is the internal cause of a rejection. It is only ever logged or
// inspected in tests; the host always sees CodeVerification.
type Reason string

const (
	ReasonWitnessAbsent       Reason = "witness lock absent"
	ReasonWitnessMalformed    Reason = "witness lock malformed"
	ReasonRecoveryFailed      Reason = "public key recovery failed"
	ReasonFingerprintMismatch Reason = "fingerprint mismatch"
)

// VerificationError is a rejection of the transaction by the lock.
type VerificationError struct {
	Reason Reason
	Err    error
}

func (e *VerificationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrVerification, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %v", ErrVerification, e.Reason, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrVerification) hold for every VerificationError.
func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

func reject(reason Reason, err error) error {
	return &VerificationError{Reason: reason, Err: err}
}

// HostError is a fault raised while reading from the host, such as a witness
// index past the end of the transaction. It is passed through unchanged.
type HostError struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *HostError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("lock: host %s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("lock: host %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// NewHostError is a helper for Host implementations.
func NewHostError(code ErrorCode, op string, err error) error {
	return &HostError{Code: code, Op: op, Err: err}
}

// StatusCode maps the result of Verify to the status returned to the host.
func StatusCode(err error) ErrorCode {
	if err == nil {
		return CodeSuccess
	}
	if errors.Is(err, ErrVerification) {
		return CodeVerification
	}
	var hostErr *HostError
	if errors.As(err, &hostErr) {
		return hostErr.Code
	}
	return CodeUnknown
}
