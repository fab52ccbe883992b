package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubev2v/loopbridge/internal/models"
	"github.com/kubev2v/loopbridge/internal/services"
	srvErrors "github.com/kubev2v/loopbridge/pkg/errors"
)

// Session is the part of services.Session the handlers use.
type Session interface {
	Status() models.BridgeStatus
	Click(ctx context.Context) (uint64, error)
	StartProducer(ctx context.Context) (models.WorkerStatus, error)
	StartBlocking(ctx context.Context) (models.WorkerStatus, error)
}

type Handler struct {
	session Session
}

func New(session Session) *Handler {
	return &Handler{session: session}
}

// RegisterHandlers mounts the API on router.
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/status", h.GetStatus)
	router.POST("/clicks", h.PostClick)
	router.POST("/producers", h.PostProducer)
	router.POST("/blocking", h.PostBlocking)
}

// GetStatus returns a snapshot of workers, pollers and consumers
// (GET /status)
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Status())
}

// PostClick simulates one click on the loop
// (POST /clicks)
func (h *Handler) PostClick(c *gin.Context) {
	n, err := h.session.Click(c.Request.Context())
	if err != nil {
		respondError(c, "click", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"clicks": n})
}

// PostProducer starts a producer relaying messages to the label
// (POST /producers)
func (h *Handler) PostProducer(c *gin.Context) {
	w, err := h.session.StartProducer(c.Request.Context())
	if err != nil {
		respondError(c, "producer", err)
		return
	}
	c.JSON(http.StatusAccepted, w)
}

// PostBlocking starts a blocking call on a worker
// (POST /blocking)
func (h *Handler) PostBlocking(c *gin.Context) {
	w, err := h.session.StartBlocking(c.Request.Context())
	if err != nil {
		respondError(c, "blocking", err)
		return
	}
	c.JSON(http.StatusAccepted, w)
}

func respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrProducerRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case srvErrors.IsLoopTerminatedError(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case srvErrors.IsQueueFullError(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		zap.S().Named("handler").Errorw("request failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
