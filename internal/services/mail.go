package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"net/url"
	"strings"
)

// Mailer dispatches the account verification email. Registration treats a
// dispatch failure as non-fatal.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
}

var verifyTemplate = template.Must(template.New("verify").Parse(`<html>
  <body>
    <p>Welcome to Time Capsule!</p>
    <p>Click <a href="{{.Link}}">here</a> to verify your email address, or paste this link into your browser:</p>
    <p>{{.Link}}</p>
    <p>The link expires in 24 hours. If you did not create an account, you can ignore this email.</p>
  </body>
</html>`))

// SMTPMailer sends verification mail over SMTP.
type SMTPMailer struct {
	addr          string // host:port
	username      string
	password      string
	from          string
	fromName      string
	verifyBaseURL string
}

func NewSMTPMailer(addr, username, password, from, fromName, verifyBaseURL string) *SMTPMailer {
	return &SMTPMailer{
		addr:          addr,
		username:      username,
		password:      password,
		from:          from,
		fromName:      fromName,
		verifyBaseURL: verifyBaseURL,
	}
}

func (m *SMTPMailer) SendVerificationEmail(_ context.Context, to, token string) error {
	link := fmt.Sprintf("%s?token=%s", m.verifyBaseURL, url.QueryEscape(token))

	var body bytes.Buffer
	if err := verifyTemplate.Execute(&body, struct{ Link string }{Link: link}); err != nil {
		return err
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.fromName, m.from),
		fmt.Sprintf("To: %s", to),
		"Subject: Verify your Time Capsule account",
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body.String(),
	}, "\r\n")

	host := m.addr
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	auth := smtp.PlainAuth("", m.username, m.password, host)

	log.Printf("[MAIL] sending verification email to=%s via=%s", to, m.addr)
	return smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg))
}

// LogMailer is used when SMTP is not configured: it logs the verification
// link instead of sending it, so local development still works end to end.
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(_ context.Context, to, token string) error {
	log.Printf("[MAIL] SMTP not configured; verification token for %s: %s", to, token)
	return nil
}
