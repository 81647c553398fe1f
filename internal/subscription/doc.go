// Package subscription implements the subscription lifecycle for the
// single-cycle product model: activation from ClickFunnels purchase events,
// trial handling, lazy expiry at read time, and one-month renewals.
//
// The state machine itself is pure: Evaluate and ActivateFromPurchase take
// the current snapshot and an explicit instant and never touch storage.
// Service wires the pure functions to a user.Store and performs the
// lazy-expiry write that Evaluate signals, so stale "active" snapshots
// self-heal on the next read even between sweeps.
//
// Valid transitions are inactive -> {trial, active}, trial -> {active,
// expired}, active -> expired, and expired -> active via an explicit
// renewal only. Cancelled is terminal and is never produced here, but it is
// recognized as not entitled.
package subscription
