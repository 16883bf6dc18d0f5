// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendNewsletterConfirmation(toEmail string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("NEWSLETTER_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "newsletter@win2win.fr"
	}

	fromName := os.Getenv("NEWSLETTER_EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Win2Win"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

const confirmationHTML = `<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
  <h2>Bienvenue chez Win2Win !</h2>
  <p>Votre inscription &agrave; notre newsletter est bien enregistr&eacute;e.</p>
  <p>Vous recevrez nos actualit&eacute;s, nos prochaines formations et nos conseils directement dans votre bo&icirc;te mail.</p>
  <p style="color: #6b7280; font-size: 12px;">Vous pouvez vous d&eacute;sinscrire &agrave; tout moment depuis le lien en bas de nos emails.</p>
</div>`

// SendNewsletterConfirmation sends the subscription confirmation email.
func (c *ResendClient) SendNewsletterConfirmation(toEmail string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: "Votre inscription à la newsletter Win2Win",
		Html:    confirmationHTML,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email via Resend: %w", err)
	}

	return nil
}
