package multisig

import (
	"github.com/iov-one/quorum/errors"
)

// multisig reserves error codes 1100-1119
var (
	// ErrNotWritable is returned when a record that the vote must mutate
	// was not declared writable by the caller.
	ErrNotWritable = errors.Register(1100, "record not writable")

	// ErrInvalidChoice is returned for a vote choice outside the allowed
	// set. Zero is reserved for not-yet-voted slots and is never a legal
	// input.
	ErrInvalidChoice = errors.Register(1101, "invalid vote choice")

	// ErrWrongOwner is returned when a supplied record is not owned by
	// this program. This guards against forged records before anything
	// is decoded.
	ErrWrongOwner = errors.Register(1102, "record not owned by program")

	// ErrNotAMember is returned when the voter is not registered in the
	// multisig group.
	ErrNotAMember = errors.Register(1103, "voter is not a group member")

	// ErrNotEligible is returned when a group member is excluded from a
	// specific proposal's eligibility list.
	ErrNotEligible = errors.Register(1104, "voter not eligible for this proposal")

	// ErrBadAddress is returned when a claimed record address does not
	// match its seed derivation. This prevents substituting an unrelated
	// record.
	ErrBadAddress = errors.Register(1105, "derived address mismatch")

	// ErrProposalMismatch is returned when the proposal record carries a
	// different proposal id than the instruction.
	ErrProposalMismatch = errors.Register(1106, "proposal id mismatch")

	// ErrProposalNotActive is returned for votes on resolved or
	// cancelled proposals.
	ErrProposalNotActive = errors.Register(1107, "proposal is not active")

	// ErrProposalExpired is returned for votes after the proposal
	// deadline.
	ErrProposalExpired = errors.Register(1108, "proposal expired")

	// ErrPermissionDenied is returned when the voter's ballot record has
	// its permission flag revoked.
	ErrPermissionDenied = errors.Register(1109, "voting permission revoked")

	// ErrDuplicateVote is returned when the voter already has a recorded
	// choice for this proposal. Votes are write-once.
	ErrDuplicateVote = errors.Register(1110, "already voted")
)
