// Package domain holds the typed identifiers shared across the storefront.
// IDs arriving from the messaging platform are opaque strings; typing them
// keeps a user ID from being passed where a channel handle belongs.
package domain

import (
	"strings"

	dErrors "shopfront/pkg/domain-errors"
)

// UserID identifies a shopper or administrator on the messaging platform.
type UserID string

// ChannelID is an opaque handle to a platform channel (ticket or log sink).
type ChannelID string

// Namespace selects one independently persisted catalog scope.
type Namespace string

func (u UserID) String() string    { return string(u) }
func (c ChannelID) String() string { return string(c) }
func (n Namespace) String() string { return string(n) }

// IsZero reports whether the channel reference is unset. A zero ChannelID
// means "no ticket bound", never a real channel.
func (c ChannelID) IsZero() bool { return c == "" }

// ParseUserID validates an identifier received at a trust boundary.
// Platform IDs are opaque but never empty and never contain whitespace.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id cannot be empty")
	}
	if strings.ContainsAny(s, " \t\n") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id cannot contain whitespace")
	}
	return UserID(s), nil
}

// ParseNamespace validates a catalog namespace name from external input.
// Whether the namespace is actually served is checked against configuration
// by the catalog service; this only rejects structurally invalid names.
func ParseNamespace(s string) (Namespace, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "namespace cannot be empty")
	}
	if strings.ContainsAny(s, " \t\n/\\") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "namespace cannot contain whitespace or path separators")
	}
	return Namespace(strings.ToLower(s)), nil
}

// Actor carries the identity and capability of the caller into core
// operations. Admin is an explicit capability flag set by the transport
// layer after it has authenticated the caller; core code checks it as a
// precondition instead of reaching into ambient context.
type Actor struct {
	ID    UserID
	Admin bool
}
