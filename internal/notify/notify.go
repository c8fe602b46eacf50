// Package notify delivers password reset links.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"net/url"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/emersion/go-message/mail"
)

type ResetMail struct {
	To        string
	Pseudo    string
	Token     string
	ExpiresAt time.Time
}

type Sender interface {
	SendPasswordReset(ctx context.Context, m ResetMail) error
}

// ErrLogSenderInProduction is returned by New when RESET_SENDER=log is
// configured for a production deployment.
var ErrLogSenderInProduction = errors.New("RESET_SENDER=log would write reset tokens to production logs; use smtp")

// New returns the sender selected by RESET_SENDER.
func New(cfg *config.Config) (Sender, error) {
	switch cfg.ResetSender {
	case "smtp":
		return &SMTPSender{
			Addr:    net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
			From:    cfg.ResetFrom,
			BaseURL: cfg.ResetBaseURL,
			send:    smtp.SendMail,
		}, nil
	case "log":
		if cfg.IsProduction() {
			return nil, ErrLogSenderInProduction
		}
		return LogSender{BaseURL: cfg.ResetBaseURL}, nil
	default:
		return nil, fmt.Errorf("unknown RESET_SENDER %q", cfg.ResetSender)
	}
}

// LogSender writes the reset link to the log instead of mailing it.
type LogSender struct {
	BaseURL string
}

func (s LogSender) SendPasswordReset(_ context.Context, m ResetMail) error {
	slog.Info("password reset requested", "to", m.To, "link", ResetLink(s.BaseURL, m.Token), "expires_at", m.ExpiresAt)
	return nil
}

type SMTPSender struct {
	Addr    string
	From    string
	BaseURL string
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, m ResetMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := BuildResetMessage(s.From, s.BaseURL, m, time.Now())
	if err != nil {
		return err
	}
	if err := s.send(s.Addr, nil, s.From, []string{m.To}, raw); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func ResetLink(baseURL, token string) string {
	return baseURL + "/reset-password?token=" + url.QueryEscape(token)
}

// BuildResetMessage renders an RFC 5322 message carrying the reset link.
func BuildResetMessage(from, baseURL string, m ResetMail, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{{Name: "Sport Matcher", Address: from}})
	h.SetAddressList("To", []*mail.Address{{Name: m.Pseudo, Address: m.To}})
	h.SetSubject("Réinitialisation de votre mot de passe")
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	body := fmt.Sprintf("Bonjour %s,\n\nPour choisir un nouveau mot de passe, ouvrez ce lien :\n%s\n\nCe lien expire le %s.\n",
		m.Pseudo, ResetLink(baseURL, m.Token), m.ExpiresAt.UTC().Format(time.RFC1123))
	if _, err := w.Write([]byte(body)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
