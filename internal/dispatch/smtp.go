package dispatch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rotisserie/eris"
)

// SMTPTransport delivers mail over SMTP with STARTTLS. It is the fallback
// transport when no SendGrid key is configured.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTP creates an SMTP transport.
func NewSMTP(host string, port int, username, password string) *SMTPTransport {
	if port <= 0 {
		port = 587
	}
	return &SMTPTransport{host: host, port: port, username: username, password: password}
}

func (t *SMTPTransport) Send(ctx context.Context, e Email) error {
	addr := fmt.Sprintf("%s:%d", t.host, t.port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return eris.Wrapf(err, "smtp: dial %s", addr)
	}

	c, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return eris.Wrap(err, "smtp: handshake")
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: t.host}); err != nil {
			return eris.Wrap(err, "smtp: starttls")
		}
	}

	if t.username != "" {
		auth := smtp.PlainAuth("", t.username, t.password, t.host)
		if err := c.Auth(auth); err != nil {
			return eris.Wrap(err, "smtp: auth")
		}
	}

	if err := c.Mail(e.FromAddress); err != nil {
		return eris.Wrap(err, "smtp: mail from")
	}
	if err := c.Rcpt(e.ToAddress); err != nil {
		return eris.Wrap(err, "smtp: rcpt to")
	}

	w, err := c.Data()
	if err != nil {
		return eris.Wrap(err, "smtp: data")
	}
	if _, err := w.Write([]byte(t.buildMessage(e))); err != nil {
		w.Close()
		return eris.Wrap(err, "smtp: write body")
	}
	if err := w.Close(); err != nil {
		return eris.Wrap(err, "smtp: close body")
	}

	return eris.Wrap(c.Quit(), "smtp: quit")
}

func (t *SMTPTransport) buildMessage(e Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", e.FromName, e.FromAddress)
	fmt.Fprintf(&b, "To: %s <%s>\r\n", e.ToName, e.ToAddress)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(e.BodyHTML)
	return b.String()
}
