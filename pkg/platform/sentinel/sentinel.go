package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, gateways, and sinks
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store or on the platform
// - ErrAlreadyOpen: the user already has a live shopping ticket bound
// - ErrChannelGone: channel handle no longer resolves on the platform
// - ErrUnavailable: external collaborator temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyOpen = errors.New("ticket already open")
	ErrChannelGone = errors.New("channel gone")
	ErrUnavailable = errors.New("unavailable")
)
