package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/Meetparmar40/tailors-track/pkg/account"
	"github.com/Meetparmar40/tailors-track/pkg/workspace"
)

type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

// EmailNotifier delivers workspace access notices over SMTP. It implements
// workspace.GrantNotifier; delivery failures are reported to the caller and
// never block the grant itself.
type EmailNotifier struct {
	SMTPConfig SMTPConfig
	client     *mail.Client
}

func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(30),
	}

	if config.Username != "" && config.Password != "" {
		slog.Info("Adding SMTP authentication", "user", config.Username)
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if !config.TLS {
		slog.Info("Using NoTLS policy")
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{
				InsecureSkipVerify: true,
			}),
			mail.WithTLSPolicy(mail.NoTLS),
		)
	} else {
		slog.Info("Using TLS Mandatory policy")
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{
				InsecureSkipVerify: true,
			}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	}

	slog.Info("Creating mail client", "Host", config.Host, "Port", config.Port)
	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		slog.Error("Failed to create mail client", "err", err)
		return nil, err
	}

	return &EmailNotifier{SMTPConfig: config, client: client}, nil
}

const grantSubject = "You have been given access to a workspace"

const grantTextTemplate = `Hello {{.GranteeName}},

{{.OwnerName}} ({{.OwnerEmail}}) has given you {{.Role}} access to their workspace.

Sign in and switch workspaces to start working on their behalf.
`

const grantHtmlTemplate = `<p>Hello {{.GranteeName}},</p>
<p><b>{{.OwnerName}}</b> ({{.OwnerEmail}}) has given you <b>{{.Role}}</b> access to their workspace.</p>
<p>Sign in and switch workspaces to start working on their behalf.</p>
`

// NotifyGranted emails the grantee that workspace access has been shared
// with them.
func (e *EmailNotifier) NotifyGranted(ctx context.Context, grantee, owner account.Profile, role workspace.Role) error {
	if grantee.Email == "" {
		return fmt.Errorf("grant notice requires grantee email")
	}

	data := map[string]string{
		"GranteeName": displayName(grantee),
		"OwnerName":   displayName(owner),
		"OwnerEmail":  owner.Email,
		"Role":        string(role),
	}

	textBody, err := renderTemplate("text", grantTextTemplate, data)
	if err != nil {
		return err
	}
	htmlBody, err := renderTemplate("html", grantHtmlTemplate, data)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(e.SMTPConfig.From); err != nil {
		slog.Error("Failed to set from address", "err", err)
		return err
	}
	if err := msg.To(grantee.Email); err != nil {
		slog.Error("Failed to set to address", "err", err)
		return err
	}
	msg.Subject(grantSubject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	if err := e.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("Failed to send email", "err", err)
		return err
	}

	slog.Info("Grant notice sent", "to", grantee.Email, "host", e.SMTPConfig.Host, "port", e.SMTPConfig.Port)
	return nil
}

func renderTemplate(name, text string, data map[string]string) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		slog.Error("Failed to parse notice template", "name", name, "err", err)
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("Failed to execute notice template", "name", name, "err", err)
		return "", err
	}
	return buf.String(), nil
}

func displayName(p account.Profile) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
