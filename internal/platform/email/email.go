// Package email delivers invite notifications over SMTP. When email is
// disabled or unconfigured the mailer degrades to a logger so invite
// creation never fails on delivery.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"civitec/internal/domain/users"
	"civitec/internal/platform/config"
)

const dialTimeout = 10 * time.Second

// New picks the mailer for the current configuration. The log mailer
// records the accept URL so operators can relay invites by hand in
// environments without an SMTP relay.
func New(cfg config.Config) users.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return logMailer{}
	}
	return &smtpMailer{
		addr:         fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		host:         cfg.SMTPHost,
		from:         cfg.EmailFrom,
		user:         cfg.SMTPUser,
		password:     cfg.SMTPPassword,
		useTLS:       cfg.SMTPUseTLS,
		municipality: cfg.SeedMunicipality,
	}
}

type logMailer struct{}

func (logMailer) SendInvite(_ context.Context, inv users.Invite, acceptURL string) error {
	slog.Info("invite email suppressed, delivery disabled",
		"email", inv.Email,
		"role", inv.Role,
		"acceptUrl", acceptURL,
		"expiresAt", inv.ExpiresAt)
	return nil
}

type smtpMailer struct {
	addr         string
	host         string
	from         string
	user         string
	password     string
	useTLS       bool
	municipality string
}

func (m *smtpMailer) SendInvite(ctx context.Context, inv users.Invite, acceptURL string) error {
	to := strings.TrimSpace(inv.Email)
	if to == "" {
		return fmt.Errorf("invite %s has no recipient", inv.ID)
	}

	subject := "Convite de acesso - " + m.municipality
	body := users.InviteEmailBody(m.municipality, acceptURL, inv.ExpiresAt)

	client, err := m.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect %s: %w", m.addr, err)
	}
	defer client.Close()

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("mail from %s: %w", m.from, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt %s: %w", to, err)
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.message(to, subject, body)); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *smtpMailer) connect(ctx context.Context) (*smtp.Client, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if m.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			client.Close()
			return nil, err
		}
	}
	if m.user != "" {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}

// message assembles an RFC 5322 plain-text message. Subjects carry the
// municipality name, which can hold accented characters, so they are
// Q-encoded.
func (m *smtpMailer) message(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
