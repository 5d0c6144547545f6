package identity

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer writes OTP codes to the application log instead of sending
// email. Used in development and wherever SMTP is not configured.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendOTP(_ context.Context, email, code string) error {
	m.logger.Info().Str("email", email).Str("otp", code).Msg("otp issued")
	return nil
}
