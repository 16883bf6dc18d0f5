package handlers

import (
	"net/http"

	"github.com/Win2WinFormation/win2win-go/internal/application/services"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/analytics"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/performance"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/persistence/kv"
	"github.com/Win2WinFormation/win2win-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandlers contains the event collection HTTP handlers
type AnalyticsHandlers struct {
	eventService *services.EventService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(eventService *services.EventService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		eventService: eventService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// PostEvent handles POST /api/analytics/events - accepts one tracked event.
// The response is 202 whether or not the event was emitted: gating on the
// caller's analytics consent is silent, and collector failures are swallowed
// downstream, so the client-side flow never sees an analytics error.
func (h *AnalyticsHandlers) PostEvent(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_event_request")
	defer marker.Complete()

	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Analytics().Error("Event request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	store := kv.NewCookieStore(c, config.CookieSecure)
	h.eventService.TrackEvent(store, analytics.EventInput{
		EventType:      req.EventType,
		EventCategory:  req.EventCategory,
		EventAction:    req.EventAction,
		EventLabel:     req.EventLabel,
		PageURL:        req.PageURL,
		Referrer:       req.Referrer,
		AdditionalData: req.AdditionalData,
	})

	marker.SetSuccess(true)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// PostPageView handles POST /api/analytics/pageviews - the fixed-shape page
// view route used by the site's navigation tracking.
func (h *AnalyticsHandlers) PostPageView(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_pageview_request")
	defer marker.Complete()

	var req PageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Analytics().Error("Page view request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	store := kv.NewCookieStore(c, config.CookieSecure)
	h.eventService.TrackPageView(store, req.Path, req.Referrer)

	marker.SetSuccess(true)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// TrackEventRequest represents the JSON body of a tracked event
type TrackEventRequest struct {
	EventType      string         `json:"eventType" binding:"required"`
	EventCategory  string         `json:"eventCategory" binding:"required"`
	EventAction    string         `json:"eventAction" binding:"required"`
	EventLabel     string         `json:"eventLabel,omitempty"`
	PageURL        string         `json:"pageUrl"`
	Referrer       string         `json:"referrer"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
}

// PageViewRequest represents the JSON body of a page view
type PageViewRequest struct {
	Path     string `json:"path" binding:"required"`
	Referrer string `json:"referrer"`
}
