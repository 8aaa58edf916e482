/*
Package quorum contains the common types that tie the extension packages
together: addresses and the conditions they are derived from, deterministic
seed-based address derivation, context helpers for block time and logging,
and the Handler/Tx interfaces that every message processor implements.

The actual decision-making logic lives under x/multisig. The record store
that handlers mutate lives under record, backed by the key-value storage
defined in store.
*/
package quorum
