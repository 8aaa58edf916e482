package multisig

import (
	"encoding/binary"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const pathVoteMsg = "multisig/vote"

// OpVote is the opcode that selects the vote operation. It is the first
// byte of every vote instruction.
const OpVote byte = 1

// Instruction layout, little-endian:
//   [0]    opcode (OpVote)
//   [1:9]  proposal_id, u64
//   [9]    vote_choice
//   [10]   bump
// followed by the referenced records in fixed order:
//   voter address, then multisig, proposal, ballot and config references.
//
// The opcode leads and the proposal id follows it. There is exactly one
// framing; anything shorter than the full instruction is malformed.
const (
	votePayloadSize = 11

	refSize     = 20 + 1
	voteMsgSize = votePayloadSize + 20 + 4*refSize
)

// Ref points a message at a record, carrying the writable declaration the
// caller made for it.
type Ref struct {
	Address  quorum.Address
	Writable bool
}

// Validate only checks that the reference is structurally usable.
func (r Ref) Validate() error {
	return r.Address.Validate()
}

var _ quorum.Msg = (*VoteMsg)(nil)

// VoteMsg casts one member's ballot on one proposal.
type VoteMsg struct {
	// Voter must be an authenticated signer of the transaction.
	Voter quorum.Address
	// Multisig, Proposal and Ballot must be declared writable. Config is
	// read-only.
	Multisig Ref
	Proposal Ref
	Ballot   Ref
	Config   Ref

	ProposalID uint64
	Choice     VoteChoice
	// Bump is the derivation nonce for the proposal and ballot
	// addresses.
	Bump uint8
}

// Path fulfills quorum.Msg to allow routing
func (VoteMsg) Path() string {
	return pathVoteMsg
}

// Validate checks that the message is structurally complete. Everything
// stateful, including the writable and choice gates, is enforced by the
// handler in its documented order.
func (m *VoteMsg) Validate() error {
	if err := m.Voter.Validate(); err != nil {
		return errors.Wrap(err, "voter")
	}
	if err := m.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig ref")
	}
	if err := m.Proposal.Validate(); err != nil {
		return errors.Wrap(err, "proposal ref")
	}
	if err := m.Ballot.Validate(); err != nil {
		return errors.Wrap(err, "ballot ref")
	}
	if err := m.Config.Validate(); err != nil {
		return errors.Wrap(err, "config ref")
	}
	return nil
}

// Marshal encodes the instruction payload followed by the record
// references.
func (m *VoteMsg) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, voteMsgSize)
	out[0] = OpVote
	binary.LittleEndian.PutUint64(out[1:], m.ProposalID)
	out[9] = byte(m.Choice)
	out[10] = m.Bump
	copy(out[votePayloadSize:], m.Voter)

	offset := votePayloadSize + quorum.AddressLength
	for _, ref := range []Ref{m.Multisig, m.Proposal, m.Ballot, m.Config} {
		copy(out[offset:], ref.Address)
		if ref.Writable {
			out[offset+quorum.AddressLength] = 1
		}
		offset += refSize
	}
	return out, nil
}

// Unmarshal decodes a vote instruction, failing on any truncated or
// misframed input before a single record is touched.
func (m *VoteMsg) Unmarshal(raw []byte) error {
	if len(raw) < votePayloadSize {
		return errors.Wrapf(errors.ErrInvalidInput, "instruction too short: %d", len(raw))
	}
	if raw[0] != OpVote {
		return errors.Wrapf(errors.ErrInvalidMsg, "opcode %d", raw[0])
	}
	if len(raw) != voteMsgSize {
		return errors.Wrapf(errors.ErrInvalidInput, "instruction size: %d", len(raw))
	}
	m.ProposalID = binary.LittleEndian.Uint64(raw[1:])
	m.Choice = VoteChoice(raw[9])
	m.Bump = raw[10]
	m.Voter = quorum.Address(raw[votePayloadSize : votePayloadSize+quorum.AddressLength]).Clone()

	offset := votePayloadSize + quorum.AddressLength
	for _, ref := range []*Ref{&m.Multisig, &m.Proposal, &m.Ballot, &m.Config} {
		ref.Address = quorum.Address(raw[offset : offset+quorum.AddressLength]).Clone()
		ref.Writable = raw[offset+quorum.AddressLength] != 0
		offset += refSize
	}
	return m.Validate()
}
