// Package remotepolicy implements the "--remote-policy <url>" ambient
// transport (SPEC_FULL.md §A5): a policy.Implementation backed by a
// long-lived WebSocket connection to an external policy server, so the
// policy under test need not be a Go value linked into this binary.
//
// Grounded on the Dialer/ReadMessage/WriteJSON pattern in
// _examples/poaiw-blockchain-paw/explorer/indexer/internal/subscriber/subscriber.go;
// the wire message shapes themselves (request/response, not framing or
// reconnect policy) are this package's own, since the distilled spec
// leaves the remote-policy wire protocol unspecified and out of scope.
package remotepolicy
