/*
Package handler provides the HTTP surface of the relay: routing, CORS, the WebSocket
endpoint, and read-only presence endpoints.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"debatehub/internal/pkg/logx"
	"debatehub/internal/pkg/resp"
)

const serviceName = "Debate Hub Relay"

// Router builds the chi router with CORS, request logging and panic recovery.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: deps.Config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": serviceName,
		})
	})

	r.Route("/api/rooms", func(rooms chi.Router) {
		rooms.Get("/", HandleListRooms(deps))
		rooms.Get("/{roomID}/users", HandleRoomUsers(deps))
	})

	upgrader := newUpgrader(deps)
	wsHandler := http.Handler(HandleWebSocket(deps, upgrader))
	if deps.ConnectLimiter != nil {
		wsHandler = deps.ConnectLimiter.Middleware(wsHandler)
	}
	r.Method(http.MethodGet, "/ws", wsHandler)

	return r
}

// newUpgrader accepts requests without an Origin header (non-browser clients), any origin in
// development, and otherwise only the configured origins.
func newUpgrader(deps *AppDeps) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(deps.Config.AllowedOrigins))
	allowAll := false
	for _, origin := range deps.Config.AllowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(origin)] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAll || deps.Config.IsDevelopment() {
				return true
			}

			if _, ok := allowed[strings.ToLower(strings.TrimRight(origin, "/"))]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: origin not allowed.", "origin", origin)
			return false
		},
	}
}
