package controllers

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ropeworks/ropeworks/modules/notifications/domain/entities/notification"
	"github.com/ropeworks/ropeworks/modules/notifications/services"
	"github.com/ropeworks/ropeworks/pkg/application"
	"github.com/ropeworks/ropeworks/pkg/authz"
	"github.com/ropeworks/ropeworks/pkg/composables"
	"github.com/ropeworks/ropeworks/pkg/configuration"
	"github.com/ropeworks/ropeworks/pkg/httpapi"
	"github.com/ropeworks/ropeworks/pkg/intl"
)

type NotificationController struct {
	app           application.Application
	notifications *services.NotificationService
	basePath      string
}

func NewNotificationController(app application.Application) application.Controller {
	return &NotificationController{
		app:           app,
		notifications: app.Service(services.NotificationService{}).(*services.NotificationService),
		basePath:      "/api/notifications",
	}
}

func (c *NotificationController) Key() string {
	return c.basePath
}

func (c *NotificationController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	// Literal paths before the {id} matcher.
	router.HandleFunc("/unread-count", c.unreadCount).Methods(http.MethodGet)
	router.HandleFunc("/read-all", c.markAllRead).Methods(http.MethodPatch)
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("/{id}/read", c.markRead).Methods(http.MethodPatch)
}

type notificationResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Read      bool    `json:"read"`
	ReadAt    *string `json:"readAt"`
	CreatedAt string  `json:"createdAt"`
}

func toNotificationResponse(n *notification.Notification) *notificationResponse {
	resp := &notificationResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read(),
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &readAt
	}
	return resp
}

func writeNotificationsError(w http.ResponseWriter, r *http.Request, err error) {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok && id != "" {
		meta["requestId"] = id
	}
	switch {
	case authz.IsForbidden(err):
		_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", intl.MustT(r.Context(), "Errors.Forbidden"), meta)
	case errors.Is(err, composables.ErrNoUserFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", intl.MustT(r.Context(), "Errors.Unauthenticated"), meta)
	case errors.Is(err, notification.ErrNotificationNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Notifications.NotFound"), meta)
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", intl.MustT(r.Context(), "Errors.Internal"), meta)
	}
}

func (c *NotificationController) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := c.notifications.UnreadCount(r.Context())
	if err != nil {
		writeNotificationsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]int64{"unreadCount": count})
}

func (c *NotificationController) list(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	pagination, err := composables.UseQuery(&composables.PaginationParams{Limit: conf.PageSize}, r)
	if err != nil {
		_ = httpapi.WriteValidationError(w, "VALIDATION", httpapi.QueryFieldErrors(err))
		return
	}
	if fields := pagination.Validate(); len(fields) > 0 {
		_ = httpapi.WriteValidationError(w, "VALIDATION", fields)
		return
	}
	items, err := c.notifications.List(r.Context(), min(pagination.Limit, conf.MaxPageSize), pagination.Offset)
	if err != nil {
		writeNotificationsError(w, r, err)
		return
	}
	out := make([]*notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationResponse(n))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *NotificationController) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", intl.MustT(r.Context(), "Notifications.NotFound"), nil)
		return
	}
	n, err := c.notifications.MarkRead(r.Context(), id)
	if err != nil {
		writeNotificationsError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toNotificationResponse(n))
}

func (c *NotificationController) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := c.notifications.MarkAllRead(r.Context()); err != nil {
		writeNotificationsError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
