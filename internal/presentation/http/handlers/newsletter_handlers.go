package handlers

import (
	"errors"
	"net/http"

	"github.com/Win2WinFormation/win2win-go/internal/application/services"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// NewsletterHandlers contains the newsletter subscription handler
type NewsletterHandlers struct {
	newsletterService *services.NewsletterService
	logger            *logging.ChanneledLogger
	perfTracker       *performance.Tracker
}

// NewNewsletterHandlers creates newsletter handlers with injected dependencies
func NewNewsletterHandlers(newsletterService *services.NewsletterService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *NewsletterHandlers {
	return &NewsletterHandlers{
		newsletterService: newsletterService,
		logger:            logger,
		perfTracker:       perfTracker,
	}
}

// PostSubscribe handles POST /api/newsletter/subscribe. Input validation is
// synchronous and happens before any network call; the forwards behind a
// valid subscription are best-effort and never fail the response.
func (h *NewsletterHandlers) PostSubscribe(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_subscribe_request")
	defer marker.Complete()

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrEmailRequired.Error()})
		return
	}

	if err := h.newsletterService.Subscribe(req.Email); err != nil {
		if errors.Is(err, services.ErrEmailRequired) || errors.Is(err, services.ErrEmailInvalid) {
			marker.SetSuccess(false)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Newsletter().Error("Subscription failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{"status": "subscribed"})
}

// SubscribeRequest represents the JSON body of a newsletter subscription
type SubscribeRequest struct {
	Email string `json:"email"`
}
