package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/domain"
	"github.com/yokitheyo/webpoptimizer/internal/dto"
	"github.com/yokitheyo/webpoptimizer/internal/worker"
)

// NotificationHandler receives bucket notifications from storage webhook
// targets.
type NotificationHandler struct {
	service     domain.BatchService
	maxBodySize int64
}

func NewNotificationHandler(service domain.BatchService, maxBodySizeKB int) *NotificationHandler {
	return &NotificationHandler{
		service:     service,
		maxBodySize: int64(maxBodySizeKB) * 1024,
	}
}

func (h *NotificationHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.POST("/notifications", h.HandleNotification)
}

// HandleNotification POST /notifications
func (h *NotificationHandler) HandleNotification(c *ginext.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBodySize+1))
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to read notification body")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to read request body",
		})
		return
	}
	if int64(len(body)) > h.maxBodySize {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error:   "body_too_large",
			Message: fmt.Sprintf("Notification exceeds maximum allowed (%d KB)", h.maxBodySize/1024),
		})
		return
	}

	result, err := h.service.Process(c.Request.Context(), body)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedRecord) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "malformed_record",
				Message: err.Error(),
			})
			return
		}
		zlog.Logger.Error().Err(err).Msg("failed to process notification")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "processing_failed",
			Message: "Failed to process notification",
		})
		return
	}

	worker.LogOutcomes(result)

	c.JSON(http.StatusOK, dto.MapBatchToReport(result))
}
