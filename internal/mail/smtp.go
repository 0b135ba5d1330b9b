package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the dialer settings plus the envelope sender and the
// public base URL used to build confirmation links.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string // e.g. "https://potluck.example.com"
}

// SMTPNotifier sends mail through a plain SMTP relay via gomail.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendConfirmation(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/v1/auth/confirm?token=%s", n.cfg.BaseURL, token)
	body := fmt.Sprintf(
		"<p>Welcome to Potluck!</p>"+
			"<p>Please confirm your email address by clicking the link below:</p>"+
			"<p><a href=%q>%s</a></p>"+
			"<p>The link expires in 100 hours. If you didn't sign up, ignore this email.</p>",
		link, link)

	return n.send(ctx, to, "Confirm your email", body)
}

func (n *SMTPNotifier) SendTwoFactorCode(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(
		"<p>Your Potluck login code is:</p>"+
			"<p><strong>%s</strong></p>"+
			"<p>The code expires in 10 minutes. If you didn't try to log in, "+
			"someone may have your password.</p>",
		code)

	return n.send(ctx, to, "Your login code", body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: send %q to %s: %w", subject, to, err)
	}
	return nil
}
