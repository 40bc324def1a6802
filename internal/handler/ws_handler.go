package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"debatehub/internal/app/chat"
	"debatehub/internal/app/user"
	"debatehub/internal/pkg/logx"
)

// HandleWebSocket upgrades the request, resolves the handshake identity from the query
// string and runs the connection until it closes.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader) http.HandlerFunc {
	limits := chat.EventLimits{
		Rate:  deps.Config.EventRate,
		Burst: deps.Config.EventBurst,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identity := user.FromHandshake(r.URL.Query())

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written the HTTP error response.
			logx.Warn("Failed to upgrade connection to WebSocket", "error", err.Error(), "user_id", identity.ID)
			return
		}

		client := chat.NewClient(deps.Service, conn, identity, limits)

		go client.WritePump()

		client.ReadPump(r.Context())
	}
}
