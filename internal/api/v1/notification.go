package v1

import (
	"net/http"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/model"
)

// listNotifications returns the caller's notifications, newest first.
// ?unread=true keeps the unread ones only.
func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	find := &model.FindNotification{UserID: &userID}
	if r.URL.Query().Get("unread") == "true" {
		unread := false
		find.Read = &unread
	}

	notifications, err := h.store.ListNotifications(r.Context(), find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, notifications)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkNotificationRead(r.Context(), request.GetUserID(r), request.RouteIntParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// notificationStream upgrades to a websocket that receives the caller's
// notifications as they are recorded.
func (h *Handler) notificationStream(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, request.GetUserID(r))
}
