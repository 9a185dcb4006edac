package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventhub-backend/internal/application"
	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	"github.com/oksasatya/eventhub-backend/pkg/response"
	"github.com/oksasatya/eventhub-backend/pkg/validation"
)

type GuestHandler struct {
	Svc    *application.GuestService
	Logger *logrus.Logger
}

func NewGuestHandler(svc *application.GuestService, logger *logrus.Logger) *GuestHandler {
	return &GuestHandler{Svc: svc, Logger: logger}
}

type manageGuestRequest struct {
	ID      string `json:"id"`
	EventID string `json:"event_id" binding:"required,uuid"`
	UserID  string `json:"user_id" binding:"required,uuid"`
	Status  string `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ManageGuest POST /api/guests creates or updates an invitation.
func (h *GuestHandler) ManageGuest(c *gin.Context) {
	var req manageGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	g := &entity.Guest{
		ID:      req.ID,
		EventID: req.EventID,
		UserID:  req.UserID,
		Status:  entity.GuestStatus(req.Status),
	}
	g, err := h.Svc.ManageGuest(c.Request.Context(), g)
	if err != nil {
		h.renderError(c, err, "failed to save guest")
		return
	}
	response.Success(c, http.StatusOK, g, "guest saved", nil)
}

// ListByEvent GET /api/events/:eventId/guests
func (h *GuestHandler) ListByEvent(c *gin.Context) {
	guests, err := h.Svc.GetGuestListByEventID(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		h.renderError(c, err, "failed to list guests")
		return
	}
	response.Success(c, http.StatusOK, guests, "guest list", nil)
}

// UpdateStatus PATCH /api/guests/:guestId/status
func (h *GuestHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	g, err := h.Svc.UpdateGuestStatus(c.Request.Context(), c.Param("guestId"), req.Status)
	if err != nil {
		h.renderError(c, err, "failed to update guest status")
		return
	}
	response.Success(c, http.StatusOK, g, "guest status updated", nil)
}

// Invitations GET /api/users/:id/invitations
func (h *GuestHandler) Invitations(c *gin.Context) {
	guests, err := h.Svc.GetInvitationsByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err, "failed to list invitations")
		return
	}
	response.Success(c, http.StatusOK, guests, "invitations", nil)
}

// AcceptedEvents GET /api/users/:id/accepted-events
func (h *GuestHandler) AcceptedEvents(c *gin.Context) {
	ids, err := h.Svc.GetAcceptedEventIDsByUserID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err, "failed to list accepted events")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event_ids": ids}, "accepted events", nil)
}

func (h *GuestHandler) renderError(c *gin.Context, err error, fallback string) {
	if ve, ok := application.AsValidationError(err); ok {
		response.Error[any](c, http.StatusBadRequest, ve.Reason, nil)
		return
	}
	if errors.Is(err, application.ErrGuestNotFound) {
		response.Error[any](c, http.StatusNotFound, "guest not found", nil)
		return
	}
	if h.Logger != nil {
		h.Logger.WithError(err).Error(fallback)
	}
	response.Error[any](c, http.StatusInternalServerError, fallback, nil)
}
