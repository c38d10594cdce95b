// Outbound SMTP delivery for one-time login codes.
//
// Environment:
//   - EMAIL_HOST, EMAIL_PORT: SMTP endpoint (465 means implicit TLS)
//   - EMAIL_USER, EMAIL_PASS: credentials
//   - EMAIL_FROM: sender address (defaults to EMAIL_USER)
//   - EMAIL_DISABLED: log codes instead of sending (development only)

package client

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"

	"github.com/briefing-hub/backend/internal/config"
)

type Mailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	disabled bool
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     from,
		disabled: cfg.Disabled == "true" || cfg.Disabled == "1",
	}
}

// SendOTP delivers the login code to the given address. One attempt, no
// retry; the caller decides what a failure means.
func (m *Mailer) SendOTP(to, code string) error {
	subject := "Your login code"
	text := fmt.Sprintf("Your one-time login code is %s. It expires in 10 minutes.", code)
	html := fmt.Sprintf("<p>Your one-time login code is <strong>%s</strong>.</p><p>It expires in 10 minutes.</p>", code)
	return m.send(to, subject, text, html)
}

func (m *Mailer) send(to, subject, text, html string) error {
	if m.disabled {
		log.Printf("email disabled; would send to %s: %s", to, text)
		return nil
	}
	if m.host == "" || m.user == "" || m.password == "" {
		return errors.New("smtp not configured")
	}

	msg := buildMessage(m.from, to, subject, text, html)
	addr := net.JoinHostPort(m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	if m.port == "465" {
		return m.sendTLS(addr, auth, to, msg)
	}

	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}
	return m.transmit(c, auth, to, msg)
}

func (m *Mailer) sendTLS(addr string, auth smtp.Auth, to, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return err
	}
	defer conn.Close()
	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Close()
	return m.transmit(c, auth, to, msg)
}

func (m *Mailer) transmit(c *smtp.Client, auth smtp.Auth, to, msg string) error {
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from, to, subject, text, html string) string {
	boundary := "briefing-otp-boundary"
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(`Content-Type: multipart/alternative; boundary="` + boundary + `"` + "\r\n\r\n")
	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(text + "\r\n\r\n")
	sb.WriteString("--" + boundary + "\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(html + "\r\n\r\n")
	sb.WriteString("--" + boundary + "--\r\n")
	return sb.String()
}
