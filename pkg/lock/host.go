package lock

import "fmt"

// Source selects which group of transaction items a witness index refers to.
//
// The values match the ones used by the host runtime's syscalls.
type Source uint64

const (
	SourceInput       Source = 1
	SourceOutput      Source = 2
	SourceCellDep     Source = 3
	SourceHeaderDep   Source = 4
	SourceGroupInput  Source = 0x0100000000000001
	SourceGroupOutput Source = 0x0100000000000002
)

func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceOutput:
		return "output"
	case SourceCellDep:
		return "cell_dep"
	case SourceHeaderDep:
		return "header_dep"
	case SourceGroupInput:
		return "group_input"
	case SourceGroupOutput:
		return "group_output"
	default:
		return fmt.Sprintf("source(%#x)", uint64(s))
	}
}

// Host gives read access to the transaction being validated.
//
// Implementations report their own faults as *HostError so that the status
// code returned by Run reflects them; any other error is treated as an
// unclassified host fault.
type Host interface {
	// Fingerprint returns the committed script arguments. Their length is not
	// checked by the host; a value of the wrong size simply never matches.
	Fingerprint() ([]byte, error)

	// Digest returns the transaction digest, the message covered by the signature.
	Digest() (Digest, error)

	// WitnessLock returns the lock field of witness index from source.
	// present is false when the witness exists but carries no lock.
	WitnessLock(index int, source Source) (lock []byte, present bool, err error)
}
