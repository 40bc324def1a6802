package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"debatehub/internal/pkg/errs"
	"debatehub/internal/pkg/resp"
)

// HandleListRooms returns every active room with its ordered display names.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Service.Registry.Snapshot())
	}
}

// HandleRoomUsers returns the ordered display names present in one room.
func HandleRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		if roomID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		users, ok := deps.Service.Registry.Users(roomID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"roomId": roomID,
			"users":  users,
		})
	}
}
