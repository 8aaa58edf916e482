package multisig

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func validVoteMsg() *VoteMsg {
	return &VoteMsg{
		Voter:      quorumtest.NewCondition().Address(),
		Multisig:   Ref{Address: quorumtest.NewCondition().Address(), Writable: true},
		Proposal:   Ref{Address: quorumtest.NewCondition().Address(), Writable: true},
		Ballot:     Ref{Address: quorumtest.NewCondition().Address(), Writable: true},
		Config:     Ref{Address: quorumtest.NewCondition().Address()},
		ProposalID: 12345,
		Choice:     VoteFor,
		Bump:       254,
	}
}

func TestVoteMsgRoundtrip(t *testing.T) {
	msg := validVoteMsg()

	raw, err := msg.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, voteMsgSize, len(raw))

	var got VoteMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)
}

func TestVoteMsgFraming(t *testing.T) {
	msg := validVoteMsg()
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	// opcode first, then the little-endian proposal id, choice and bump
	assert.Equal(t, OpVote, raw[0])
	assert.Equal(t, uint64(12345), binary.LittleEndian.Uint64(raw[1:]))
	assert.Equal(t, byte(VoteFor), raw[9])
	assert.Equal(t, byte(254), raw[10])
	assert.Equal(t, []byte(msg.Voter), raw[11:31])

	// writable flags trail each referenced address
	assert.Equal(t, byte(1), raw[31+20])
	assert.Equal(t, byte(0), raw[31+4*refSize-1])
}

func TestVoteMsgUnmarshalRejectsBadFrames(t *testing.T) {
	valid, err := validVoteMsg().Marshal()
	assert.Nil(t, err)

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"empty": {
			raw:     nil,
			wantErr: errors.ErrInvalidInput,
		},
		"shorter than the payload": {
			raw:     valid[:votePayloadSize-1],
			wantErr: errors.ErrInvalidInput,
		},
		"payload without references": {
			raw:     valid[:votePayloadSize],
			wantErr: errors.ErrInvalidInput,
		},
		"truncated references": {
			raw:     valid[:voteMsgSize-1],
			wantErr: errors.ErrInvalidInput,
		},
		"trailing garbage": {
			raw:     append(append([]byte{}, valid...), 0),
			wantErr: errors.ErrInvalidInput,
		},
		"unknown opcode": {
			raw: func() []byte {
				bad := append([]byte{}, valid...)
				bad[0] = 2
				return bad
			}(),
			wantErr: errors.ErrInvalidMsg,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var msg VoteMsg
			assert.IsErr(t, tc.wantErr, msg.Unmarshal(tc.raw))
		})
	}
}

func TestVoteMsgOpcodeCheckedBeforeSize(t *testing.T) {
	// a frame that is both too short and carries a wrong opcode must be
	// rejected for the opcode, the length gate only guards the payload read
	raw := make([]byte, votePayloadSize)
	raw[0] = 99
	var msg VoteMsg
	assert.IsErr(t, errors.ErrInvalidMsg, msg.Unmarshal(raw))
}

func TestVoteMsgValidateRequiresAddresses(t *testing.T) {
	msg := validVoteMsg()
	msg.Ballot.Address = nil
	assert.IsErr(t, errors.ErrInvalidInput, msg.Validate())

	msg = validVoteMsg()
	msg.Voter = msg.Voter[:10]
	assert.IsErr(t, errors.ErrInvalidInput, msg.Validate())
}

func TestVoteMsgPath(t *testing.T) {
	assert.Equal(t, "multisig/vote", VoteMsg{}.Path())
}
