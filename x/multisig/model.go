package multisig

import (
	"encoding/binary"
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// MemberCapacity is the fixed number of member slots in a multisig group
// and the matching number of vote slots on every proposal and ballot. The
// tally scan relies on this bound, it is an invariant of the record layout
// and not a tuning knob.
const MemberCapacity = 10

// Seed domains for derived record addresses. Proposal and ballot records of
// the same (group, proposal id) pair must never collide, so each record
// type derives from its own leading seed.
const (
	SeedProposal = "proposal"
	SeedBallot   = "ballot"
)

// VoteChoice is a single member's decision on a proposal.
type VoteChoice byte

const (
	// VoteUnset marks a member slot that has not voted yet. It is never
	// a legal input.
	VoteUnset VoteChoice = 0
	VoteFor   VoteChoice = 1
	// VoteAgainst votes to reject the proposal.
	VoteAgainst VoteChoice = 2
	// VoteAbstain counts towards the total but never towards a
	// threshold.
	VoteAbstain VoteChoice = 3
)

// Validate returns an error unless the choice is one a voter may submit.
func (c VoteChoice) Validate() error {
	if c < VoteFor || c > VoteAbstain {
		return errors.Wrapf(ErrInvalidChoice, "choice %d", c)
	}
	return nil
}

func (c VoteChoice) String() string {
	switch c {
	case VoteUnset:
		return "unset"
	case VoteFor:
		return "for"
	case VoteAgainst:
		return "against"
	case VoteAbstain:
		return "abstain"
	default:
		return fmt.Sprintf("invalid(%d)", byte(c))
	}
}

// ProposalStatus is the lifecycle state of a proposal. Once a proposal
// leaves Active it never returns.
type ProposalStatus byte

const (
	ProposalActive    ProposalStatus = 0
	ProposalSucceeded ProposalStatus = 1
	ProposalFailed    ProposalStatus = 2
	ProposalCancelled ProposalStatus = 3
)

// Validate returns an error for status values outside the known set.
func (s ProposalStatus) Validate() error {
	if s > ProposalCancelled {
		return errors.Wrapf(errors.ErrInvalidState, "status %d", s)
	}
	return nil
}

func (s ProposalStatus) String() string {
	switch s {
	case ProposalActive:
		return "active"
	case ProposalSucceeded:
		return "succeeded"
	case ProposalFailed:
		return "failed"
	case ProposalCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("invalid(%d)", byte(s))
	}
}

// Multisig is the registered member set of one authority group. The member
// index is stable and doubles as the vote slot index on every proposal of
// this group.
type Multisig struct {
	MemberCount uint8
	Members     [MemberCapacity]quorum.Address
}

// Validate enforces the member count bound and that the populated member
// entries are well formed and free of duplicates. Entries at or after
// MemberCount are unspecified and not inspected.
func (m *Multisig) Validate() error {
	if int(m.MemberCount) > MemberCapacity {
		return errors.Wrapf(errors.ErrInvalidModel, "member count %d exceeds capacity", m.MemberCount)
	}
	seen := make(map[string]struct{}, m.MemberCount)
	for i := 0; i < int(m.MemberCount); i++ {
		member := m.Members[i]
		if err := member.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
		key := member.String()
		if _, ok := seen[key]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "member %d", i)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// MemberIndex returns the position of the given address in the member list
// and an ok flag that is false when the address is not a member. The whole
// populated range is scanned.
func (m *Multisig) MemberIndex(addr quorum.Address) (int, bool) {
	for i := 0; i < int(m.MemberCount); i++ {
		if m.Members[i].Equals(addr) {
			return i, true
		}
	}
	return 0, false
}

// MultisigConfig carries the governance parameters of one group.
type MultisigConfig struct {
	// MinThreshold is the number of same-choice ballots that finalizes a
	// proposal. The comparison is inclusive.
	MinThreshold uint64
}

// Validate requires a usable threshold.
func (c *MultisigConfig) Validate() error {
	if c.MinThreshold == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "threshold must not be zero")
	}
	return nil
}

// Proposal is a single decision under vote.
type Proposal struct {
	ProposalID uint64
	Status     ProposalStatus
	// Expiry is the absolute time after which new votes are rejected and
	// the proposal may resolve to cancelled.
	Expiry quorum.UnixTime
	// ActiveMembers is the per-proposal eligibility allow-list. A group
	// member missing here cannot vote on this proposal.
	ActiveCount   uint8
	ActiveMembers [MemberCapacity]quorum.Address
	// Votes holds one choice slot per member index. Slots are write-once.
	Votes [MemberCapacity]VoteChoice
}

// Validate checks internal consistency of the proposal record.
func (p *Proposal) Validate() error {
	if err := p.Status.Validate(); err != nil {
		return err
	}
	if err := p.Expiry.Validate(); err != nil {
		return errors.Wrap(err, "expiry")
	}
	if int(p.ActiveCount) > MemberCapacity {
		return errors.Wrapf(errors.ErrInvalidModel, "active count %d exceeds capacity", p.ActiveCount)
	}
	for i := 0; i < int(p.ActiveCount); i++ {
		if err := p.ActiveMembers[i].Validate(); err != nil {
			return errors.Wrapf(err, "active member %d", i)
		}
	}
	for i, v := range p.Votes {
		if v != VoteUnset {
			if err := v.Validate(); err != nil {
				return errors.Wrapf(err, "vote slot %d", i)
			}
		}
	}
	return nil
}

// Eligible returns true if the address is on the proposal's allow-list.
func (p *Proposal) Eligible(addr quorum.Address) bool {
	for i := 0; i < int(p.ActiveCount); i++ {
		if p.ActiveMembers[i].Equals(addr) {
			return true
		}
	}
	return false
}

// TallyResult is the outcome of scanning the vote slots once.
type TallyResult struct {
	For     uint64
	Against uint64
	Abstain uint64
}

// TotalVotes returns the number of members that have cast any ballot.
func (t TallyResult) TotalVotes() uint64 {
	return t.For + t.Against + t.Abstain
}

// Tally counts the populated vote slots. Only the slots of registered
// members are scanned, capped at the record capacity.
func (p *Proposal) Tally(memberCount uint8) TallyResult {
	count := int(memberCount)
	if count > MemberCapacity {
		count = MemberCapacity
	}
	var res TallyResult
	for i := 0; i < count; i++ {
		switch p.Votes[i] {
		case VoteFor:
			res.For++
		case VoteAgainst:
			res.Against++
		case VoteAbstain:
			res.Abstain++
		default:
			// not voted yet
		}
	}
	return res
}

// NextStatus resolves the status the proposal moves to after a tally. The
// priority order is fixed: reaching the threshold with for votes wins over
// reaching it with against votes, which wins over expiry cancellation.
func NextStatus(tally TallyResult, minThreshold uint64, expired bool) ProposalStatus {
	switch {
	case tally.For >= minThreshold:
		return ProposalSucceeded
	case tally.Against >= minThreshold:
		return ProposalFailed
	case expired:
		return ProposalCancelled
	default:
		return ProposalActive
	}
}

// Ballot tracks one member's voting permission and history for one
// proposal. It is created lazily on the first vote.
type Ballot struct {
	HasPermission bool
	// VoteCount is incremented on every successful vote call.
	VoteCount uint64
	// Bump is the nonce used to derive this ballot's own address.
	Bump uint8
	// Votes mirrors the proposal vote slots at this voter's index and is
	// the source of truth for duplicate detection.
	Votes [MemberCapacity]VoteChoice
}

// Validate checks internal consistency of the ballot record.
func (b *Ballot) Validate() error {
	for i, v := range b.Votes {
		if v != VoteUnset {
			if err := v.Validate(); err != nil {
				return errors.Wrapf(err, "vote slot %d", i)
			}
		}
	}
	return nil
}

// ProposalAddress derives the address a proposal record of this group and
// proposal id must live at.
func ProposalAddress(group quorum.Address, proposalID uint64, bump uint8) (quorum.Address, error) {
	return quorum.Derive(derivationSeeds(SeedProposal, group, proposalID), bump)
}

// BallotAddress derives the address a ballot record of this group and
// proposal id must live at. It uses a different seed domain than the
// proposal so the two can never collide.
func BallotAddress(group quorum.Address, proposalID uint64, bump uint8) (quorum.Address, error) {
	return quorum.Derive(derivationSeeds(SeedBallot, group, proposalID), bump)
}

// VoteAddresses searches for the highest bump that derives valid addresses
// for both the proposal and the ballot of the given group and proposal id.
// The vote instruction carries a single bump, so only a bump valid for both
// seed domains can be used.
func VoteAddresses(group quorum.Address, proposalID uint64) (quorum.Address, quorum.Address, uint8, error) {
	for i := 255; i >= 0; i-- {
		bump := uint8(i)
		proposal, err := ProposalAddress(group, proposalID, bump)
		if err != nil {
			continue
		}
		ballot, err := BallotAddress(group, proposalID, bump)
		if err != nil {
			continue
		}
		return proposal, ballot, bump, nil
	}
	return nil, nil, 0, errors.Wrap(errors.ErrHuman, "no valid bump for group and proposal")
}

func derivationSeeds(domain string, group quorum.Address, proposalID uint64) [][]byte {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], proposalID)
	return [][]byte{[]byte(domain), group, id[:]}
}
