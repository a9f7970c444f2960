package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// defaultSendTimeout acota el envio cuando ctx no trae deadline.
const defaultSendTimeout = 10 * time.Second

// SMTPSender envia correos via SMTP. Toda la conversacion queda atada al
// ctx del llamador: cuando ctx vence o se cancela, la conexion se cierra.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool
	dialer   net.Dialer
}

func NewSMTPSender(host string, port int, username, password, from, fromName string, useTLS bool) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		useTLS:   useTLS,
	}, nil
}

// SendWelcome avisa al usuario que su cuenta fue creada.
func (s *SMTPSender) SendWelcome(ctx context.Context, toEmail, name string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("to email is required")
	}
	msg := buildMessage(s.from, s.fromName, toEmail, "Welcome to LogiTrace", welcomeBody(name))
	return s.send(ctx, toEmail, msg)
}

func (s *SMTPSender) send(ctx context.Context, to, msg string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSendTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	raw, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return smtpError(ctx, "dial", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = raw.Close() })
	defer stop()

	conn := raw
	if s.useTLS {
		conn = tls.Client(conn, &tls.Config{ServerName: s.host})
	}
	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return smtpError(ctx, "greeting", err)
	}
	defer client.Close()

	if !s.useTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return smtpError(ctx, "starttls", err)
			}
		}
	}
	if s.username != "" {
		if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
			return smtpError(ctx, "auth", err)
		}
	}
	if err := client.Mail(s.from); err != nil {
		return smtpError(ctx, "mail from", err)
	}
	if err := client.Rcpt(to); err != nil {
		return smtpError(ctx, "rcpt to", err)
	}
	w, err := client.Data()
	if err != nil {
		return smtpError(ctx, "data", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		_ = w.Close()
		return smtpError(ctx, "write body", err)
	}
	if err := w.Close(); err != nil {
		return smtpError(ctx, "end data", err)
	}
	return client.Quit()
}

// smtpError antepone el error de ctx cuando la conexion murio por deadline o cancelacion.
func smtpError(ctx context.Context, step string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("smtp %s: %w: %w", step, ctxErr, err)
	}
	return fmt.Errorf("smtp %s: %w", step, err)
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		"From: " + fromHeader,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}

func welcomeBody(name string) string {
	greeting := "Hello"
	if n := strings.TrimSpace(name); n != "" {
		greeting = "Hello " + n
	}
	return greeting + ",\n\nYour LogiTrace account has been created. You can now sign in with this email address.\n"
}
