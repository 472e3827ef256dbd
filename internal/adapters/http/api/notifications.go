// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/aimdash/aimdash/internal/domain/model"
)

// NotificationDependencies defines the interface for draining the
// notification queue.
type NotificationDependencies interface {
	DrainNotifications(ctx context.Context, max int) []model.Notification
}

// NotificationsHandler handles notification drain requests.
type NotificationsHandler struct {
	deps NotificationDependencies
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(deps NotificationDependencies) *NotificationsHandler {
	return &NotificationsHandler{deps: deps}
}

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
}

// HandleDrain handles GET /notifications?max=N requests. Draining is
// destructive: returned notifications leave the queue.
func (h *NotificationsHandler) HandleDrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var max int
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid max; must be a positive integer"))
			return
		}
		max = n
	}

	ns := h.deps.DrainNotifications(r.Context(), max)
	if ns == nil {
		ns = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: ns})
}
