package email

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPConfig carries the connection settings for the SMTP provider.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SMTPProvider delivers via plain SMTP with STARTTLS auth.
type SMTPProvider struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPProvider(cfg SMTPConfig) (*SMTPProvider, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP_USERNAME and SMTP_PASSWORD are required")
	}

	return &SMTPProvider{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

func (p *SMTPProvider) SendEmail(ctx context.Context, msg *Message) error {
	addr := p.host + ":" + p.port
	auth := smtp.PlainAuth("", p.username, p.password, p.host)

	fromHeader := fmt.Sprintf("%s <%s>", msg.FromName, msg.From)

	raw := []byte(fmt.Sprintf("From: %s\r\n", fromHeader) +
		fmt.Sprintf("To: %s\r\n", msg.To) +
		fmt.Sprintf("Subject: %s\r\n", msg.Subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		msg.Body + "\r\n")

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

func (p *SMTPProvider) Name() string {
	return "smtp"
}
