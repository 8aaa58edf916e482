package multisig

import (
	"fmt"

	"github.com/tendermint/tendermint/libs/common"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/record"
	"github.com/iov-one/quorum/x"
)

const voteCost = 0

const (
	tagProposalID = "proposal-id"
	tagAction     = "action"
	tagVoter      = "voter"
)

// RegisterRoutes registers handlers for multisig message processing. The
// program address is the identity all multisig records must be owned by;
// it is injected here so that every deployment (and every test) can run
// under its own identity.
func RegisterRoutes(r quorum.Registry, auth x.Authenticator, program quorum.Address) {
	r.Handle(pathVoteMsg, NewVoteHandler(auth, program))
}

// VoteHandler processes one vote per transaction: validation, lazy ballot
// creation, vote recording, tally and status transition. All of it happens
// with exclusive access to the touched records; atomicity across the
// record writes is the environment's guarantee.
type VoteHandler struct {
	auth    x.Authenticator
	program quorum.Address
	records record.Store
}

var _ quorum.Handler = (*VoteHandler)(nil)

// NewVoteHandler returns a vote handler bound to the given program
// identity.
func NewVoteHandler(auth x.Authenticator, program quorum.Address) *VoteHandler {
	return &VoteHandler{
		auth:    auth,
		program: program,
		records: record.NewStore(),
	}
}

func (h *VoteHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (quorum.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return quorum.CheckResult{}, err
	}
	return quorum.NewCheck(voteCost, ""), nil
}

func (h *VoteHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (quorum.DeliverResult, error) {
	var res quorum.DeliverResult
	vote, err := h.validate(ctx, db, tx)
	if err != nil {
		return res, err
	}

	ballot, ballotRec, err := h.loadOrCreateBallot(db, vote)
	if err != nil {
		return res, err
	}

	vote.proposal.Votes[vote.voterIndex] = vote.msg.Choice
	ballot.Votes[vote.voterIndex] = vote.msg.Choice

	tally := vote.proposal.Tally(vote.multisig.MemberCount)
	expired := vote.now > vote.proposal.Expiry
	next := NextStatus(tally, vote.config.MinThreshold, expired)
	vote.proposal.Status = next

	logger := quorum.GetLogger(ctx)
	logger.Debug("vote recorded",
		"proposal", vote.msg.ProposalID,
		"voter", vote.msg.Voter,
		"choice", vote.msg.Choice,
		"for", tally.For,
		"against", tally.Against,
		"abstain", tally.Abstain,
	)
	if next != ProposalActive {
		logger.Info("proposal resolved",
			"proposal", vote.msg.ProposalID,
			"status", next,
		)
	}

	// Both records are committed only on this success path. Any failure
	// above left the store untouched except for ballot creation, which
	// the environment rolls back together with the transaction.
	if err := h.commit(db, vote, ballot, ballotRec); err != nil {
		return res, err
	}

	res.Data = vote.msg.Ballot.Address
	res.Tags = []common.KVPair{
		quorum.Pair(tagProposalID, fmt.Sprint(vote.msg.ProposalID)),
		quorum.Pair(tagAction, "vote"),
		quorum.Pair(tagVoter, vote.msg.Voter.String()),
	}
	return res, nil
}

// voteContext carries everything validate gathered so that Deliver never
// re-reads or re-checks state.
type voteContext struct {
	msg        *VoteMsg
	multisig   Multisig
	config     MultisigConfig
	proposal   Proposal
	propRecord *record.Record
	voterIndex int
	now        quorum.UnixTime
}

// validate runs the full precondition chain in its documented order. The
// first failing check aborts with its typed error and nothing is mutated.
func (h *VoteHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*voteContext, error) {
	var msg VoteMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// The block clock is read exactly once and reused for both the
	// expiry gate and the cancellation transition.
	now, err := quorum.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}

	if !h.auth.HasAddress(ctx, msg.Voter) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "voter must sign")
	}

	for _, ref := range []struct {
		name string
		ref  Ref
	}{
		{"multisig", msg.Multisig},
		{"proposal", msg.Proposal},
		{"ballot", msg.Ballot},
	} {
		if !ref.ref.Writable {
			return nil, errors.Wrapf(ErrNotWritable, "%s record", ref.name)
		}
	}

	if err := msg.Choice.Validate(); err != nil {
		return nil, err
	}

	multisigRec, err := h.ownedRecord(db, msg.Multisig.Address, "multisig")
	if err != nil {
		return nil, err
	}
	propRec, err := h.ownedRecord(db, msg.Proposal.Address, "proposal")
	if err != nil {
		return nil, err
	}
	configRec, err := h.ownedRecord(db, msg.Config.Address, "config")
	if err != nil {
		return nil, err
	}

	vote := voteContext{
		msg:        &msg,
		propRecord: propRec,
		now:        now,
	}
	if err := vote.multisig.Unmarshal(multisigRec.Data); err != nil {
		return nil, errors.Wrap(err, "multisig record")
	}

	voterIndex, ok := vote.multisig.MemberIndex(msg.Voter)
	if !ok {
		return nil, errors.Wrapf(ErrNotAMember, "voter %s", msg.Voter)
	}
	vote.voterIndex = voterIndex

	if !quorum.VerifyDerived(msg.Proposal.Address, derivationSeeds(SeedProposal, msg.Multisig.Address, msg.ProposalID), msg.Bump) {
		return nil, errors.Wrap(ErrBadAddress, "proposal record")
	}

	if err := vote.proposal.Unmarshal(propRec.Data); err != nil {
		return nil, errors.Wrap(err, "proposal record")
	}
	if vote.proposal.ProposalID != msg.ProposalID {
		return nil, errors.Wrapf(ErrProposalMismatch, "record has %d", vote.proposal.ProposalID)
	}
	if vote.proposal.Status != ProposalActive {
		return nil, errors.Wrapf(ErrProposalNotActive, "status %s", vote.proposal.Status)
	}
	// Voting is allowed up to and including the expiry moment.
	if now > vote.proposal.Expiry {
		return nil, errors.Wrapf(ErrProposalExpired, "expired at %s", vote.proposal.Expiry)
	}
	if !vote.proposal.Eligible(msg.Voter) {
		return nil, errors.Wrapf(ErrNotEligible, "voter %s", msg.Voter)
	}

	if !quorum.VerifyDerived(msg.Ballot.Address, derivationSeeds(SeedBallot, msg.Multisig.Address, msg.ProposalID), msg.Bump) {
		return nil, errors.Wrap(ErrBadAddress, "ballot record")
	}

	if err := vote.config.Unmarshal(configRec.Data); err != nil {
		return nil, errors.Wrap(err, "config record")
	}

	return &vote, nil
}

// ownedRecord loads a record and enforces the program ownership gate. A
// missing record and a foreign-owned record are both rejected before any
// of their bytes are interpreted.
func (h *VoteHandler) ownedRecord(db quorum.ReadOnlyKVStore, addr quorum.Address, name string) (*record.Record, error) {
	rec, err := h.records.Get(db, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "%s record", name)
	}
	if rec == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s record %s", name, addr)
	}
	if !rec.OwnedBy(h.program) {
		return nil, errors.Wrapf(ErrWrongOwner, "%s record %s", name, addr)
	}
	return rec, nil
}

// loadOrCreateBallot returns the voter's ballot for this proposal,
// creating and initializing it on the first vote. The creation is funded
// from the voter's own record.
func (h *VoteHandler) loadOrCreateBallot(db quorum.KVStore, vote *voteContext) (*Ballot, *record.Record, error) {
	addr := vote.msg.Ballot.Address
	rec, err := h.records.Get(db, addr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ballot record")
	}

	if rec == nil || !rec.OwnedBy(h.program) {
		if rec != nil {
			// Some other program claimed the derived address. The
			// environment will not let us rewrite it.
			return nil, nil, errors.Wrapf(ErrWrongOwner, "ballot record %s", addr)
		}
		rec, err = h.records.Create(db, addr, h.program, vote.msg.Voter, BallotSize)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create ballot")
		}
		ballot := &Ballot{
			HasPermission: true,
			VoteCount:     1,
			Bump:          vote.msg.Bump,
		}
		return ballot, rec, nil
	}

	var ballot Ballot
	if err := ballot.Unmarshal(rec.Data); err != nil {
		return nil, nil, errors.Wrap(err, "ballot record")
	}
	if !ballot.HasPermission {
		return nil, nil, errors.Wrapf(ErrPermissionDenied, "voter %s", vote.msg.Voter)
	}
	if ballot.Votes[vote.voterIndex] != VoteUnset {
		return nil, nil, errors.Wrapf(ErrDuplicateVote, "voter %s", vote.msg.Voter)
	}
	ballot.VoteCount++
	return &ballot, rec, nil
}

// commit serializes the mutated proposal and ballot back into their
// records. Nothing before this point changed any stored entity bytes.
func (h *VoteHandler) commit(db quorum.KVStore, vote *voteContext, ballot *Ballot, ballotRec *record.Record) error {
	propData, err := vote.proposal.Marshal()
	if err != nil {
		return errors.Wrap(err, "proposal")
	}
	vote.propRecord.Data = propData
	if err := h.records.Save(db, vote.msg.Proposal.Address, vote.propRecord); err != nil {
		return errors.Wrap(err, "proposal record")
	}

	ballotData, err := ballot.Marshal()
	if err != nil {
		return errors.Wrap(err, "ballot")
	}
	ballotRec.Data = ballotData
	if err := h.records.Save(db, vote.msg.Ballot.Address, ballotRec); err != nil {
		return errors.Wrap(err, "ballot record")
	}
	return nil
}
