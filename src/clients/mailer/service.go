package mailer

import (
	"context"
	"fmt"

	"payplan/src/config"
	aws_handler "payplan/src/utils/aws"
)

// MailerClientI is the outbound delivery collaborator. Send returns the
// provider message id. No retry contract is assumed from the provider; the
// dispatcher records failures and the next run retries unlogged recipients.
type MailerClientI interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// NewClient builds the mailer selected by mailer.provider.
func NewClient(cfg *config.Config) (MailerClientI, error) {
	switch cfg.Mailer.Provider {
	case config.SES:
		sess, err := aws_handler.NewSession(cfg.Mailer.Region)
		if err != nil {
			return nil, err
		}
		return NewSESMailerClient(sess, cfg.Mailer.Sender), nil
	case config.HTTPAPI:
		return NewHTTPMailerClient(cfg.Mailer.BaseURL, cfg.Mailer.Token, cfg.Mailer.Sender), nil
	default:
		return nil, fmt.Errorf("unknown mailer provider %q", cfg.Mailer.Provider)
	}
}
