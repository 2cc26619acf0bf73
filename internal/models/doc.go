// Package models defines the core domain models for splitvault.
//
// # Models
//
//   - Split: a creator-posted obligation with a fixed list of participants,
//     an asset, a total amount and a deadline
//   - Participant: one participant's owed amount, collateral and progress
//     through the settlement lifecycle
//   - Transfer: a journal row for one value movement caused by a split
//   - Account: a registered account whose address is the caller identity
//
// # Participant lifecycle
//
// A participant moves through a small state machine:
//
//	Unapproved -> Approved -> Paid -> Withdrawn
//	              Approved -> Penalized
//
// The boolean flags exposed to callers (agreement approved, payment approved,
// paid, penalty levied, collateral withdrawn) are derived from the state, so a
// participant can never be both penalized and withdrawn.
//
// # Identifiers
//
// Split identifiers are 32-byte digests rendered as 0x-prefixed hex. Accounts
// are identified by their address string; a split's custody balance lives in
// the ledger under CustodyAccount(id).
package models
