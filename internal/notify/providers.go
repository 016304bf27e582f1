package notify

import (
	"fmt"
	"net/http"

	"github.com/terraincognita07/fetalrisk/internal/config"
	"go.uber.org/zap"
)

func NewEmailSender(cfg config.EmailConfig, httpClient *http.Client, logger *zap.Logger) (EmailSender, error) {
	switch cfg.Provider {
	case config.ProviderLog, "":
		return NewLogEmailSender(logger), nil
	case config.ProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.From), nil
	case config.ProviderSendGrid:
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridURL, cfg.From, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func NewSMSSender(cfg config.SMSConfig, httpClient *http.Client, logger *zap.Logger) (SMSSender, error) {
	switch cfg.Provider {
	case config.ProviderLog, "":
		return NewLogSMSSender(logger), nil
	case config.ProviderTwilio:
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.TwilioBaseURL, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}
