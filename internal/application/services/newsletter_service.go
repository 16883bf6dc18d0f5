package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/backend"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/email"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
)

// Validation errors surfaced to the subscriber before any network call
var (
	ErrEmailRequired = errors.New("une adresse email est requise")
	ErrEmailInvalid  = errors.New("l'adresse email est invalide")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewsletterService handles newsletter subscriptions: synchronous input
// validation, then best-effort forwards for the backend registration and the
// confirmation email.
type NewsletterService struct {
	logger  *logging.ChanneledLogger
	backend *backend.Client
	email   email.Service
}

// NewNewsletterService creates a new newsletter service. emailService may be
// nil, in which case no confirmation email is sent.
func NewNewsletterService(logger *logging.ChanneledLogger, backendClient *backend.Client, emailService email.Service) *NewsletterService {
	return &NewsletterService{
		logger:  logger,
		backend: backendClient,
		email:   emailService,
	}
}

// Subscribe validates the address synchronously and rejects bad input before
// any network call. The backend registration and the confirmation email both
// run detached; their failures never reach the subscriber.
func (s *NewsletterService) Subscribe(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(address) {
		return ErrEmailInvalid
	}

	s.logger.Newsletter().Info("Newsletter subscription accepted", "email", address)

	s.backend.Detach("forward_subscriber", func() error {
		return s.backend.ForwardSubscriber(address)
	})

	if s.email != nil {
		s.backend.Detach("send_subscription_confirmation", func() error {
			return s.email.SendNewsletterConfirmation(address)
		})
	}

	return nil
}
