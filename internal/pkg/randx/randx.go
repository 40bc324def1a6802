// Package randx generates identifiers for relay connections.
package randx

import "github.com/google/uuid"

// ConnectionID returns a random UUID v4 identifying one WebSocket connection.
func ConnectionID() string {
	return uuid.NewString()
}
