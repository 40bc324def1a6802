package handler

import (
	"debatehub/internal/app/chat"
	"debatehub/internal/configs"
	"debatehub/internal/pkg/limiter"
)

// AppDeps holds what the HTTP layer needs from the rest of the application.
type AppDeps struct {
	Service *chat.Service
	Config  *configs.AppConfig

	// ConnectLimiter throttles WebSocket upgrades per client IP.
	ConnectLimiter *limiter.KeyedLimiter
}
