// Package webhook ingests ClickFunnels purchase events. The inbound
// payload is untrusted and loosely structured, so it is modeled as an
// explicit tree of optional fields: everything except the contact email
// may be absent without aborting processing.
//
// Processing is idempotent under at-least-once delivery. Records are keyed
// by email and the subscription snapshot is a full overwrite, so
// re-delivering the same purchase converges to the same final state
// without any dedup storage.
package webhook
