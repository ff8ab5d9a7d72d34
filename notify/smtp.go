package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"studio/config"
)

// SMTP sends through a mail relay. Port 465 uses implicit TLS, any other
// port upgrades with STARTTLS when the relay offers it.
type SMTP struct {
	host     string
	port     int
	user     string
	password string
	from     string

	dial func(ctx context.Context, addr string, implicitTLS bool) (net.Conn, error)
}

func NewSMTP(host string, port int, user, password, from string) *SMTP {
	return &SMTP{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		dial:     dialRelay,
	}
}

func (s *SMTP) Backend() config.MailBackendKind {
	return config.MailSMTP
}

func (s *SMTP) Notify(ctx context.Context, n EnrollmentNotification) error {
	html, err := RenderHTML(n)
	if err != nil {
		return &NotificationError{Backend: config.MailSMTP, Err: err}
	}
	if err := s.send(ctx, n.To, n.Subject, html); err != nil {
		log.Printf("[NOTIFY] error sending email: %v", err)
		return &NotificationError{Backend: config.MailSMTP, Err: err}
	}
	log.Printf("[NOTIFY] enrollment email sent to %s", n.To)
	return nil
}

func (s *SMTP) send(ctx context.Context, to, subject, html string) error {
	fromAddr, err := mail.ParseAddress(s.from)
	if err != nil {
		return fmt.Errorf("invalid from address %q: %w", s.from, err)
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	implicitTLS := s.port == 465
	conn, err := s.dial(ctx, addr, implicitTLS)
	if err != nil {
		return err
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if !implicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return err
			}
		}
	}
	if err := c.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
		return err
	}
	if err := c.Mail(fromAddr.Address); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(s.from, to, subject, html)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage assembles a single-part HTML message.
func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n\r\n", mimeHeader(subject))
	b.WriteString(html)
	return []byte(b.String())
}

// mimeHeader encodes non-ASCII subjects (course titles are often Cyrillic).
func mimeHeader(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

func dialRelay(ctx context.Context, addr string, implicitTLS bool) (net.Conn, error) {
	if implicitTLS {
		host, _, _ := net.SplitHostPort(addr)
		d := &tls.Dialer{Config: &tls.Config{ServerName: host}}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}
