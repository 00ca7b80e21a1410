// Package email, transactional email gönderimini soyutlar.
// Resend API üzerinden gönderir; API key yoksa nil sender kullanılır
// ve email akışları sessizce atlanır.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// EmailSender, email gönderim interface'i.
// AuthService bu interface'e bağımlıdır — testlerde fake kullanılır.
type EmailSender interface {
	// SendPasswordReset, şifre sıfırlama linkini gönderir.
	SendPasswordReset(ctx context.Context, to, token string) error
}

// resendSender, Resend API ile çalışan implementasyon.
type resendSender struct {
	client    *resend.Client
	fromEmail string
	appURL    string
}

// NewResendSender, constructor. apiKey boşsa nil döner —
// çağıran taraf nil kontrolü yapar, email devre dışı kalır.
func NewResendSender(apiKey, fromEmail, appURL string) EmailSender {
	if apiKey == "" {
		return nil
	}
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

func (s *resendSender) SendPasswordReset(ctx context.Context, to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)

	html := fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
			<h2>Şifre Sıfırlama</h2>
			<p>Mezun hesabınız için şifre sıfırlama isteği aldık.</p>
			<p>
				<a href="%s" style="display: inline-block; padding: 12px 24px;
					background: #1a73e8; color: #fff; text-decoration: none;
					border-radius: 6px;">Şifremi Sıfırla</a>
			</p>
			<p>Bu link 1 saat içinde geçerliliğini yitirir.</p>
			<p style="color: #888; font-size: 13px;">
				Bu isteği siz yapmadıysanız bu emaili yok sayabilirsiniz.
			</p>
		</div>`, resetURL)

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: "Mezun — Şifre Sıfırlama",
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
