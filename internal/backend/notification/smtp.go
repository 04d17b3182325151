package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
	subject         = "New Question"
)

// SMTPConfig holds the mail server settings. Username doubles as the sender.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// Enabled reports whether enough is configured to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Username != "" && c.Password != "" && c.To != ""
}

// SMTPNotifier mails each notice over STARTTLS with plain auth.
type SMTPNotifier struct {
	config SMTPConfig
}

func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	if config.Host == "" {
		config.Host = DefaultSMTPHost
	}
	if config.Port == 0 {
		config.Port = DefaultSMTPPort
	}
	return &SMTPNotifier{config: config}
}

func (n *SMTPNotifier) buildMessage(notice QuestionNotice) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(n.config.Username); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", n.config.Username, err)
	}
	if err := m.To(n.config.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", n.config.To, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("You have received a new question (#%d):\n\n%s", notice.ID, notice.Question))
	return m, nil
}

func (n *SMTPNotifier) NotifyQuestion(ctx context.Context, notice QuestionNotice) error {
	m, err := n.buildMessage(notice)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(n.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.config.Username),
		mail.WithPassword(n.config.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if deadline, ok := ctx.Deadline(); ok {
		opts = append(opts, mail.WithTimeout(time.Until(deadline)))
	}
	client, err := mail.NewClient(n.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail via %s:%d: %w", n.config.Host, n.config.Port, err)
	}
	return nil
}
