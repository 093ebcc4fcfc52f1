// Package mail renders and delivers the service's outbound e-mail:
// account confirmation, password reset and the available-spaces notice.
package mail

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/parking/internal/logging"
	gomail "github.com/wneessen/go-mail"
)

// Message is a single HTML e-mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Dispatcher delivers messages. Callers treat delivery as fire-and-forget:
// a failed send is logged, never rolled back.
type Dispatcher interface {
	Send(ctx context.Context, m Message) error
}

// SMTPConfig configures SMTPDispatcher.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPDispatcher sends through an SMTP relay. A connection is opened per
// message.
type SMTPDispatcher struct {
	cfg  SMTPConfig
	opts []gomail.Option
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	return &SMTPDispatcher{cfg: cfg, opts: opts}
}

func (d *SMTPDispatcher) Send(ctx context.Context, m Message) error {
	msg, err := buildMsg(d.cfg.From, m)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(d.cfg.Host, d.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

func buildMsg(from string, m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, m.HTMLBody)
	return msg, nil
}

// LogDispatcher records messages in the log instead of sending them. Used
// when no SMTP relay is configured.
type LogDispatcher struct {
	logger logging.Logger
}

func NewLogDispatcher(logger logging.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(ctx context.Context, m Message) error {
	d.logger.Info(ctx, "mail not sent, no smtp relay configured",
		"to", m.To, "subject", m.Subject, "body_bytes", len(m.HTMLBody))
	return nil
}
