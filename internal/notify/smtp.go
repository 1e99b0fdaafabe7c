package notify

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the outbound mail transport settings. Username and
// Password come from the EMAIL_USERNAME / EMAIL_PASSWORD environment (see
// internal/app config).
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var _ Notifier = (*SMTPNotifier)(nil)

// SMTPNotifier sends confirmation mail over authenticated SMTP.
type SMTPNotifier struct {
	client *mail.Client
	from   string
}

// NewSMTPNotifier creates the SMTP client. The connection is established per
// send, not here.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPNotifier{client: client, from: from}, nil
}

// SendOrderConfirmation renders and sends one confirmation message.
func (n *SMTPNotifier) SendOrderConfirmation(ctx context.Context, c Confirmation) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return errors.Wrap(err, "set from address")
	}
	if err := msg.To(c.To); err != nil {
		return errors.Wrap(err, "set recipient")
	}
	msg.Subject(confirmationSubject)
	msg.SetBodyString(mail.TypeTextPlain, confirmationBody(c))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrapf(err, "send confirmation for order %s", c.OrderID)
	}
	return nil
}
