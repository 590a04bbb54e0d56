package handler

import (
	"context"
	"net/http"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/service"
	"wsuconnect/pkg/response"
	"wsuconnect/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type AppointmentHandler struct {
	service     service.AppointmentService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewAppointmentHandler(service service.AppointmentService, redisClient *redis.Client) *AppointmentHandler {
	return &AppointmentHandler{
		service:     service,
		redisClient: redisClient,
		upgrader:    newUpgrader(),
	}
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.BookAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": appointment})
}

func (h *AppointmentHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.AppointmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	appointments, err := h.service.List(c.Request.Context(), userID, entity.AppointmentStatus(filter.Status))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appointments})
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.decide(c, h.service.Confirm)
}

func (h *AppointmentHandler) Decline(c *gin.Context) {
	h.decide(c, h.service.Decline)
}

func (h *AppointmentHandler) decide(c *gin.Context, action func(ctx context.Context, lecturerID, appointmentID uuid.UUID) (*entity.Appointment, error)) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	appointment, err := action(c.Request.Context(), userID, appointmentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appointment})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	appointment, err := h.service.Cancel(c.Request.Context(), userID, appointmentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appointment})
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return
	}

	var input dto.RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	appointment, err := h.service.Reschedule(c.Request.Context(), userID, appointmentID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appointment})
}

// HandleWebSocket streams appointment change events for the caller.
func (h *AppointmentHandler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	streamChannel(c, h.upgrader, h.redisClient, service.AppointmentChannel(userID))
}
