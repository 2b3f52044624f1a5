package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/fairshare/internal/identity"
	"github.com/felixgeelhaar/fairshare/internal/notifications/application/commands"
	"github.com/felixgeelhaar/fairshare/internal/notifications/application/queries"
	"github.com/felixgeelhaar/fairshare/internal/notifications/domain"
)

// NotificationsHandler handles notification inbox API requests.
// Every operation is scoped to the authenticated recipient.
type NotificationsHandler struct {
	list        *queries.ListNotificationsHandler
	markRead    *commands.MarkReadHandler
	markAllRead *commands.MarkAllReadHandler
	identities  identity.Provider
	logger      *slog.Logger
}

// NotificationsHandlerConfig holds dependencies for the notifications handler.
type NotificationsHandlerConfig struct {
	List        *queries.ListNotificationsHandler
	MarkRead    *commands.MarkReadHandler
	MarkAllRead *commands.MarkAllReadHandler
	Identities  identity.Provider
	Logger      *slog.Logger
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(cfg NotificationsHandlerConfig) *NotificationsHandler {
	if cfg.Identities == nil {
		cfg.Identities = identity.ContextProvider{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &NotificationsHandler{
		list:        cfg.List,
		markRead:    cfg.MarkRead,
		markAllRead: cfg.MarkAllRead,
		identities:  cfg.Identities,
		logger:      cfg.Logger,
	}
}

// List handles GET /api/v1/notifications
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	recipient, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	result, err := h.list.Handle(r.Context(), queries.ListNotificationsQuery{
		RecipientID: recipient.ID,
		Limit:       parseIntParam(r, "limit", 0),
	})
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": result,
	})
}

// MarkRead handles POST /api/v1/notifications/{notificationID}/read
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	recipient, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	notificationID, ok := parseUUIDPath(w, r, "notificationID")
	if !ok {
		return
	}

	err := h.markRead.Handle(r.Context(), commands.MarkReadCommand{
		RecipientID:    recipient.ID,
		NotificationID: notificationID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, "Notification not found")
			return
		}
		h.logger.Error("failed to mark notification read", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	recipient, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	result, err := h.markAllRead.Handle(r.Context(), commands.MarkAllReadCommand{
		RecipientID: recipient.ID,
	})
	if err != nil {
		h.logger.Error("failed to mark notifications read", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *NotificationsHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (*identity.Identity, bool) {
	recipient, err := h.identities.Resolve(r.Context())
	if err != nil {
		h.logger.Error("failed to resolve identity", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve identity")
		return nil, false
	}
	if recipient == nil {
		writeError(w, http.StatusUnauthorized, "Identity required")
		return nil, false
	}
	return recipient, true
}
