/*
Package multisig implements collective decision making for a group of
registered members.

A multisig record lists the members allowed to participate. Each decision is
a proposal record with its own eligibility list, deadline and per-member
vote slots. Members cast weighted-equal ballots (for, against, abstain) and
the proposal resolves once one side reaches the configured threshold, or is
cancelled when the deadline passes without a resolution.

The only operation this package processes is casting a vote. Everything a
vote touches is a record (see the record package): the multisig group, the
group configuration, the proposal, and a lazily created per-voter ballot
that makes a second vote by the same member detectable.
*/
package multisig
