// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/Win2WinFormation/win2win-go/internal/application/services"
	"github.com/Win2WinFormation/win2win-go/internal/domain/entities/consent"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/performance"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/persistence/kv"
	"github.com/Win2WinFormation/win2win-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// ConsentHandlers contains all consent-related HTTP handlers
type ConsentHandlers struct {
	consentService *services.ConsentService
	eventService   *services.EventService
	backend        *backend.Client
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewConsentHandlers creates consent handlers with injected dependencies
func NewConsentHandlers(consentService *services.ConsentService, eventService *services.EventService, backendClient *backend.Client, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ConsentHandlers {
	return &ConsentHandlers{
		consentService: consentService,
		eventService:   eventService,
		backend:        backendClient,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostConsent handles POST and PUT /api/privacy/consent - records a consent decision
func (h *ConsentHandlers) PostConsent(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_consent_request")
	defer marker.Complete()
	h.logger.Consent().Debug("Received consent decision request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var req ConsentDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Consent().Error("Consent request JSON binding failed", "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	store := kv.NewCookieStore(c, config.CookieSecure)
	manager := h.consentService.ManagerFor(store, h.eventService.EmitterFor(store, c.Request.Referer()))

	var record *consent.Record
	switch req.Action {
	case "accept_all":
		record = manager.AcceptAll(req.Path)
	case "reject_all":
		record = manager.RejectAll(req.Path)
	case "", "custom":
		record = manager.UpdateConsent(consent.Settings{
			Analytics:   req.Analytics,
			Marketing:   req.Marketing,
			Preferences: req.Preferences,
		}, req.Path)
	default:
		h.logger.Consent().Error("Unknown consent action", "action", req.Action)
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	h.logger.Consent().Info("Consent decision processed",
		"sessionId", record.SessionID,
		"action", req.Action,
		"analytics", record.Analytics,
		"duration", time.Since(start))

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostConsent request", "duration", marker.Duration, "success", true)

	c.JSON(http.StatusOK, gin.H{
		"consent":       record,
		"bannerVisible": manager.BannerVisible(),
	})
}

// GetConsent handles GET /api/privacy/consent - returns the caller's consent
// state, or proxies a backend lookup when a sessionId is supplied. The lookup
// is the one path with no local fallback, so backend failures become a 500.
func (h *ConsentHandlers) GetConsent(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_consent_request")
	defer marker.Complete()

	if sessionID := c.Query("sessionId"); sessionID != "" {
		record, err := h.backend.LookupConsent(c.Request.Context(), sessionID)
		if err != nil {
			h.logger.Backend().Error("Consent lookup failed", "sessionId", sessionID, "error", err.Error())
			marker.SetSuccess(false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch consent record"})
			return
		}

		marker.SetSuccess(true)
		c.Data(http.StatusOK, "application/json", record)
		return
	}

	store := kv.NewCookieStore(c, config.CookieSecure)
	record := h.consentService.GetPreferences(store)

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"consent":       record,
		"bannerVisible": record == nil,
	})
}

// DeleteConsent handles DELETE /api/privacy/consent - the GDPR withdrawal
func (h *ConsentHandlers) DeleteConsent(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("delete_consent_request")
	defer marker.Complete()
	h.logger.Consent().Debug("Received consent withdrawal request", "method", c.Request.Method, "path", c.Request.URL.Path)

	store := kv.NewCookieStore(c, config.CookieSecure)
	manager := h.consentService.ManagerFor(store, h.eventService.EmitterFor(store, c.Request.Referer()))
	manager.ClearAllConsent()

	h.logger.Consent().Info("Consent withdrawal processed", "duration", time.Since(start))

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for DeleteConsent request", "duration", marker.Duration, "success", true)

	c.JSON(http.StatusOK, gin.H{
		"status":        "cleared",
		"bannerVisible": manager.BannerVisible(),
	})
}

// ConsentDecisionRequest represents the JSON body of a consent decision.
// Action selects the banner shortcut ("accept_all", "reject_all") or a
// per-category save (empty or "custom"). An essential field in the body is
// accepted and ignored; the persisted record always forces it on. Path is the
// page the decision was made on and receives the caught-up page view.
type ConsentDecisionRequest struct {
	Action      string `json:"action,omitempty"`
	Essential   bool   `json:"essential,omitempty"`
	Analytics   bool   `json:"analytics"`
	Marketing   bool   `json:"marketing"`
	Preferences bool   `json:"preferences"`
	Path        string `json:"path,omitempty"`
}
