/*
Package user resolves the identity a client presents when it opens a connection.

The identity is taken verbatim from handshake data, never verified, and stays fixed
for the lifetime of the connection.
*/
package user

import "net/url"

// AnonymousName is the display name used when the handshake carries no email.
const AnonymousName = "Anonymous"

// Handshake query parameter names.
const (
	ParamUserID = "userId"
	ParamEmail  = "email"
)

// Identity is the (userId, displayName) pair bound to one connection.
// ID may be empty; it is still used as a presence key.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"email"`
}

// FromHandshake extracts the identity from handshake query values.
func FromHandshake(values url.Values) Identity {
	return New(values.Get(ParamUserID), values.Get(ParamEmail))
}

// New builds an Identity, defaulting an empty display name to AnonymousName.
func New(id, displayName string) Identity {
	if displayName == "" {
		displayName = AnonymousName
	}
	return Identity{ID: id, DisplayName: displayName}
}
