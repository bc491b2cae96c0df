package email

import (
	"strings"
	"testing"

	"civitec/internal/platform/config"
)

func TestNewFallsBackToLogMailerWhenDisabled(t *testing.T) {
	cfg := config.Config{EmailEnabled: false, SMTPHost: "smtp.example.org"}
	if _, ok := New(cfg).(logMailer); !ok {
		t.Fatal("expected log mailer when email is disabled")
	}

	cfg = config.Config{EmailEnabled: true, SMTPHost: ""}
	if _, ok := New(cfg).(logMailer); !ok {
		t.Fatal("expected log mailer without an SMTP host")
	}
}

func TestNewBuildsSMTPMailerFromConfig(t *testing.T) {
	cfg := config.Config{
		EmailEnabled:     true,
		SMTPHost:         "smtp.example.org",
		SMTPPort:         587,
		EmailFrom:        "noreply@prefeitura.gov.br",
		SeedMunicipality: "Prefeitura de Horizonte Azul",
	}
	mailer, ok := New(cfg).(*smtpMailer)
	if !ok {
		t.Fatal("expected SMTP mailer when fully configured")
	}
	if mailer.addr != "smtp.example.org:587" {
		t.Fatalf("unexpected addr %q", mailer.addr)
	}
	if mailer.municipality != "Prefeitura de Horizonte Azul" {
		t.Fatalf("unexpected municipality %q", mailer.municipality)
	}
}

func TestMessageCarriesInviteContent(t *testing.T) {
	m := &smtpMailer{
		from:         "noreply@prefeitura.gov.br",
		municipality: "Prefeitura de São João",
	}
	subject := "Convite de acesso - " + m.municipality
	msg := string(m.message("maria@example.org", subject,
		"Para criar sua conta, acesse: https://civitec.example.org/convites/aceitar?token=abc\r\n"))

	if !strings.Contains(msg, "To: maria@example.org\r\n") {
		t.Fatalf("missing recipient header:\n%s", msg)
	}
	if !strings.Contains(msg, "charset=\"UTF-8\"") {
		t.Fatalf("missing charset header:\n%s", msg)
	}
	// Accented municipality names force a Q-encoded subject.
	if strings.Contains(msg, "Subject: Convite de acesso - Prefeitura de São João") {
		t.Fatalf("subject not encoded:\n%s", msg)
	}
	if !strings.Contains(msg, "token=abc") {
		t.Fatalf("missing accept link:\n%s", msg)
	}
}
