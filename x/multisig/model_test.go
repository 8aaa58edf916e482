package multisig

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestVoteChoiceValidate(t *testing.T) {
	cases := map[string]struct {
		choice  VoteChoice
		wantErr *errors.Error
	}{
		"for":          {choice: VoteFor},
		"against":      {choice: VoteAgainst},
		"abstain":      {choice: VoteAbstain},
		"unset":        {choice: VoteUnset, wantErr: ErrInvalidChoice},
		"out of range": {choice: VoteChoice(4), wantErr: ErrInvalidChoice},
		"garbage":      {choice: VoteChoice(255), wantErr: ErrInvalidChoice},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.choice.Validate())
		})
	}
}

func TestMultisigValidate(t *testing.T) {
	a := quorumtest.NewCondition().Address()
	b := quorumtest.NewCondition().Address()

	cases := map[string]struct {
		mutate  func(m *Multisig)
		wantErr *errors.Error
	}{
		"empty group": {
			mutate: func(m *Multisig) { m.MemberCount = 0 },
		},
		"two members": {
			mutate: func(m *Multisig) {
				m.MemberCount = 2
				m.Members[0] = a
				m.Members[1] = b
			},
		},
		"count above capacity": {
			mutate:  func(m *Multisig) { m.MemberCount = MemberCapacity + 1 },
			wantErr: errors.ErrInvalidModel,
		},
		"duplicate member": {
			mutate: func(m *Multisig) {
				m.MemberCount = 2
				m.Members[0] = a
				m.Members[1] = a
			},
			wantErr: errors.ErrDuplicate,
		},
		"unset member within count": {
			mutate: func(m *Multisig) {
				m.MemberCount = 2
				m.Members[0] = a
			},
			wantErr: errors.ErrInvalidInput,
		},
		"garbage beyond count ignored": {
			mutate: func(m *Multisig) {
				m.MemberCount = 1
				m.Members[0] = a
				m.Members[5] = quorum.Address("short")
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var m Multisig
			tc.mutate(&m)
			assert.IsErr(t, tc.wantErr, m.Validate())
		})
	}
}

func TestMemberIndexScansAllSlots(t *testing.T) {
	var m Multisig
	m.MemberCount = MemberCapacity
	members := make([]quorum.Address, MemberCapacity)
	for i := range members {
		members[i] = quorumtest.NewCondition().Address()
		m.Members[i] = members[i]
	}

	// every member must be found at its own index, including the last one
	for i, member := range members {
		idx, ok := m.MemberIndex(member)
		if !ok {
			t.Fatalf("member %d not found", i)
		}
		assert.Equal(t, i, idx)
	}

	if _, ok := m.MemberIndex(quorumtest.NewCondition().Address()); ok {
		t.Fatal("outsider must not be found")
	}
}

func TestProposalEligible(t *testing.T) {
	a := quorumtest.NewCondition().Address()
	b := quorumtest.NewCondition().Address()

	var p Proposal
	p.ActiveCount = 1
	p.ActiveMembers[0] = a
	// entries beyond the active count are not consulted
	p.ActiveMembers[1] = b

	if !p.Eligible(a) {
		t.Fatal("listed member must be eligible")
	}
	if p.Eligible(b) {
		t.Fatal("member beyond active count must not be eligible")
	}
}

func TestTally(t *testing.T) {
	cases := map[string]struct {
		votes       []VoteChoice
		memberCount uint8
		want        TallyResult
	}{
		"no votes": {
			memberCount: 3,
			want:        TallyResult{},
		},
		"mixed": {
			votes:       []VoteChoice{VoteFor, VoteAgainst, VoteAbstain, VoteFor},
			memberCount: 4,
			want:        TallyResult{For: 2, Against: 1, Abstain: 1},
		},
		"unset slots skipped": {
			votes:       []VoteChoice{VoteFor, VoteUnset, VoteAgainst},
			memberCount: 3,
			want:        TallyResult{For: 1, Against: 1},
		},
		"slots beyond member count ignored": {
			votes:       []VoteChoice{VoteFor, VoteFor, VoteFor},
			memberCount: 2,
			want:        TallyResult{For: 2},
		},
		"member count capped at capacity": {
			votes:       []VoteChoice{VoteFor, VoteFor},
			memberCount: 200,
			want:        TallyResult{For: 2},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var p Proposal
			copy(p.Votes[:], tc.votes)
			assert.Equal(t, tc.want, p.Tally(tc.memberCount))
		})
	}
}

func TestTallyResultTotalVotes(t *testing.T) {
	res := TallyResult{For: 2, Against: 1, Abstain: 3}
	assert.Equal(t, uint64(6), res.TotalVotes())
}

func TestNextStatus(t *testing.T) {
	cases := map[string]struct {
		tally     TallyResult
		threshold uint64
		expired   bool
		want      ProposalStatus
	}{
		"below threshold stays active": {
			tally:     TallyResult{For: 1},
			threshold: 2,
			want:      ProposalActive,
		},
		"for at threshold succeeds": {
			tally:     TallyResult{For: 2},
			threshold: 2,
			want:      ProposalSucceeded,
		},
		"against at threshold fails": {
			tally:     TallyResult{Against: 2},
			threshold: 2,
			want:      ProposalFailed,
		},
		"success beats failure": {
			tally:     TallyResult{For: 2, Against: 2},
			threshold: 2,
			want:      ProposalSucceeded,
		},
		"success beats expiry": {
			tally:     TallyResult{For: 2},
			threshold: 2,
			expired:   true,
			want:      ProposalSucceeded,
		},
		"failure beats expiry": {
			tally:     TallyResult{Against: 2},
			threshold: 2,
			expired:   true,
			want:      ProposalFailed,
		},
		"expired without quorum cancels": {
			tally:     TallyResult{For: 1, Abstain: 1},
			threshold: 2,
			expired:   true,
			want:      ProposalCancelled,
		},
		"abstain never resolves": {
			tally:     TallyResult{Abstain: 5},
			threshold: 2,
			want:      ProposalActive,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, NextStatus(tc.tally, tc.threshold, tc.expired))
		})
	}
}

func TestVoteAddressesDistinctDomains(t *testing.T) {
	group := quorumtest.NewCondition().Address()

	proposal, ballot, bump, err := VoteAddresses(group, 42)
	assert.Nil(t, err)

	if proposal.Equals(ballot) {
		t.Fatal("proposal and ballot addresses must not collide")
	}

	// both addresses must verify against their own seed domain and the
	// shared bump
	gotProposal, err := ProposalAddress(group, 42, bump)
	assert.Nil(t, err)
	assert.Equal(t, proposal, gotProposal)

	gotBallot, err := BallotAddress(group, 42, bump)
	assert.Nil(t, err)
	assert.Equal(t, ballot, gotBallot)
}

func TestVoteAddressesDependOnProposalID(t *testing.T) {
	group := quorumtest.NewCondition().Address()

	p1, b1, _, err := VoteAddresses(group, 1)
	assert.Nil(t, err)
	p2, b2, _, err := VoteAddresses(group, 2)
	assert.Nil(t, err)

	if p1.Equals(p2) || b1.Equals(b2) {
		t.Fatal("different proposals must derive different addresses")
	}
}
