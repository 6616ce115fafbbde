package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/agendafacil/api-agendamento/internal/config"
	"github.com/agendafacil/api-agendamento/internal/models"
)

// Mailer envia e-mail via SMTP. Cada conta pode ter settings próprios;
// sem eles vale o SMTP global da instância.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

type Message struct {
	To      string
	Subject string
	Body    string
}

func (m *Mailer) Send(settings models.EmailSettings, msg Message) error {
	host := m.cfg.Host
	port := m.cfg.Port
	user := m.cfg.User
	pass := m.cfg.Password
	fromEmail := m.cfg.FromEmail
	fromName := m.cfg.FromName

	if settings.Provider == "smtp" && settings.SMTPHost != "" {
		host = settings.SMTPHost
		port = settings.SMTPPort
		user = settings.SMTPUser
		pass = settings.SMTPPass
	}
	if settings.FromEmail != "" {
		fromEmail = settings.FromEmail
	}
	if settings.FromName != "" {
		fromName = settings.FromName
	}

	if host == "" || fromEmail == "" {
		return fmt.Errorf("mail: smtp não configurado")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", host, port)

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}

	return smtp.SendMail(addr, auth, fromEmail, []string{msg.To}, []byte(b.String()))
}
