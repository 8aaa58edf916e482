package multisig

import (
	"encoding/binary"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Record payload sizes in bytes. The layouts are fixed and little-endian,
// with every field at a stable offset, so records can be addressed and
// sized without decoding them first.
const (
	MultisigSize       = 1 + MemberCapacity*20
	MultisigConfigSize = 8
	ProposalSize       = 8 + 1 + 8 + 1 + MemberCapacity*20 + MemberCapacity
	BallotSize         = 1 + 8 + 1 + MemberCapacity
)

var (
	_ quorum.Persistent = (*Multisig)(nil)
	_ quorum.Persistent = (*MultisigConfig)(nil)
	_ quorum.Persistent = (*Proposal)(nil)
	_ quorum.Persistent = (*Ballot)(nil)
)

// Multisig layout:
//   [0]     member_count
//   [1:201] members, 10 x 20 byte addresses

func (m *Multisig) Marshal() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, MultisigSize)
	out[0] = m.MemberCount
	for i, member := range m.Members {
		copy(out[1+i*quorum.AddressLength:], member)
	}
	return out, nil
}

func (m *Multisig) Unmarshal(raw []byte) error {
	if len(raw) != MultisigSize {
		return errors.Wrapf(errors.ErrInvalidInput, "multisig record size: %d", len(raw))
	}
	m.MemberCount = raw[0]
	for i := range m.Members {
		m.Members[i] = address(raw[1+i*quorum.AddressLength:])
	}
	return m.Validate()
}

// MultisigConfig layout:
//   [0:8] min_threshold, u64 little-endian

func (c *MultisigConfig) Marshal() ([]byte, error) {
	out := make([]byte, MultisigConfigSize)
	binary.LittleEndian.PutUint64(out, c.MinThreshold)
	return out, nil
}

func (c *MultisigConfig) Unmarshal(raw []byte) error {
	if len(raw) != MultisigConfigSize {
		return errors.Wrapf(errors.ErrInvalidInput, "config record size: %d", len(raw))
	}
	c.MinThreshold = binary.LittleEndian.Uint64(raw)
	return nil
}

// Proposal layout:
//   [0:8]     proposal_id, u64 little-endian
//   [8]       status
//   [9:17]    expiry, u64 little-endian POSIX seconds
//   [17]      active_count
//   [18:218]  active_members, 10 x 20 byte addresses
//   [218:228] votes, one choice byte per member index

func (p *Proposal) Marshal() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, ProposalSize)
	binary.LittleEndian.PutUint64(out, p.ProposalID)
	out[8] = byte(p.Status)
	binary.LittleEndian.PutUint64(out[9:], uint64(p.Expiry))
	out[17] = p.ActiveCount
	for i, member := range p.ActiveMembers {
		copy(out[18+i*quorum.AddressLength:], member)
	}
	for i, v := range p.Votes {
		out[18+MemberCapacity*quorum.AddressLength+i] = byte(v)
	}
	return out, nil
}

func (p *Proposal) Unmarshal(raw []byte) error {
	if len(raw) != ProposalSize {
		return errors.Wrapf(errors.ErrInvalidInput, "proposal record size: %d", len(raw))
	}
	p.ProposalID = binary.LittleEndian.Uint64(raw)
	p.Status = ProposalStatus(raw[8])
	p.Expiry = quorum.UnixTime(binary.LittleEndian.Uint64(raw[9:]))
	p.ActiveCount = raw[17]
	for i := range p.ActiveMembers {
		p.ActiveMembers[i] = address(raw[18+i*quorum.AddressLength:])
	}
	for i := range p.Votes {
		p.Votes[i] = VoteChoice(raw[18+MemberCapacity*quorum.AddressLength+i])
	}
	return p.Validate()
}

// Ballot layout:
//   [0]     has_permission
//   [1:9]   vote_count, u64 little-endian
//   [9]     bump
//   [10:20] votes, one choice byte per member index

func (b *Ballot) Marshal() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, BallotSize)
	if b.HasPermission {
		out[0] = 1
	}
	binary.LittleEndian.PutUint64(out[1:], b.VoteCount)
	out[9] = b.Bump
	for i, v := range b.Votes {
		out[10+i] = byte(v)
	}
	return out, nil
}

func (b *Ballot) Unmarshal(raw []byte) error {
	if len(raw) != BallotSize {
		return errors.Wrapf(errors.ErrInvalidInput, "ballot record size: %d", len(raw))
	}
	b.HasPermission = raw[0] != 0
	b.VoteCount = binary.LittleEndian.Uint64(raw[1:])
	b.Bump = raw[9]
	for i := range b.Votes {
		b.Votes[i] = VoteChoice(raw[10+i])
	}
	return b.Validate()
}

// address copies an address-sized chunk from the raw buffer, keeping a nil
// value for an all-zero (unset) slot.
func address(raw []byte) quorum.Address {
	chunk := raw[:quorum.AddressLength]
	empty := true
	for _, b := range chunk {
		if b != 0 {
			empty = false
			break
		}
	}
	if empty {
		return nil
	}
	return quorum.Address(chunk).Clone()
}
