package handlers

import (
	"net/http"

	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/messaging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AdminHandlers contains the back-office consent lookup and activity feed
type AdminHandlers struct {
	backend     *backend.Client
	broadcaster *messaging.ActivityBroadcaster
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	upgrader    websocket.Upgrader
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(backendClient *backend.Client, broadcaster *messaging.ActivityBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AdminHandlers {
	return &AdminHandlers{
		backend:     backendClient,
		broadcaster: broadcaster,
		logger:      logger,
		perfTracker: perfTracker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are already filtered by the CORS layer; the token check
			// in the auth middleware is what actually guards this endpoint.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetConsentLookup handles GET /api/admin/consent?sessionId= - the
// authenticated proxy of the backend consent lookup
func (h *AdminHandlers) GetConsentLookup(c *gin.Context) {
	marker := h.perfTracker.StartOperation("admin_consent_lookup")
	defer marker.Complete()

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	record, err := h.backend.LookupConsent(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Backend().Error("Admin consent lookup failed", "sessionId", sessionID, "error", err.Error())
		marker.SetSuccess(false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch consent record"})
		return
	}

	marker.SetSuccess(true)
	c.Data(http.StatusOK, "application/json", record)
}

// GetActivityFeed handles GET /api/admin/activity/ws - upgrades to a
// websocket carrying live consent decisions and tracked events
func (h *AdminHandlers) GetActivityFeed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.System().Error("Activity feed upgrade failed", "error", err.Error())
		return
	}

	h.logger.System().Info("Activity feed client connected", "remoteAddr", conn.RemoteAddr().String())
	h.broadcaster.ServeClient(conn)
}
