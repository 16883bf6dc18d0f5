// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/Win2WinFormation/win2win-go/internal/application/services"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/email"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/messaging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/performance"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	SessionService    *services.SessionService
	ConsentService    *services.ConsentService
	EventService      *services.EventService
	NewsletterService *services.NewsletterService
	AuthService       *services.AuthService

	// Infrastructure Dependencies
	Logger              *logging.ChanneledLogger
	PerfTracker         *performance.Tracker
	Backend             *backend.Client
	EmailService        email.Service
	ActivityBroadcaster *messaging.ActivityBroadcaster
}

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, backendClient *backend.Client, emailService email.Service, broadcaster *messaging.ActivityBroadcaster) *Container {
	sessionService := services.NewSessionService(logger)
	consentService := services.NewConsentService(logger, backendClient, sessionService, broadcaster)
	eventService := services.NewEventService(logger, backendClient, sessionService, consentService, broadcaster)

	return &Container{
		SessionService:    sessionService,
		ConsentService:    consentService,
		EventService:      eventService,
		NewsletterService: services.NewNewsletterService(logger, backendClient, emailService),
		AuthService:       services.NewAuthService(logger),

		Logger:              logger,
		PerfTracker:         perfTracker,
		Backend:             backendClient,
		EmailService:        emailService,
		ActivityBroadcaster: broadcaster,
	}
}
