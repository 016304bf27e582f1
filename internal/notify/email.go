// Package notify delivers risk alerts over email and SMS.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

type EmailSender interface {
	Send(ctx context.Context, message EmailMessage) error
}

// LogEmailSender records messages in the log instead of delivering them.
type LogEmailSender struct {
	logger *zap.Logger
}

func NewLogEmailSender(logger *zap.Logger) *LogEmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogEmailSender{logger: logger}
}

func (sender *LogEmailSender) Send(_ context.Context, message EmailMessage) error {
	sender.logger.Info("email delivery skipped (log provider)",
		zap.String("to", message.To),
		zap.String("subject", message.Subject),
	)
	return nil
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username string, password string, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

// Send dials, upgrades with STARTTLS when offered, and delivers one message.
func (sender *SMTPSender) Send(ctx context.Context, message EmailMessage) error {
	msg, err := buildSMTPMessage(sender.from, message)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(sender.host, sender.clientOptions()...)
	if err != nil {
		return fmt.Errorf("configure smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", message.To, err)
	}
	return nil
}

func (sender *SMTPSender) clientOptions() []mail.Option {
	options := []mail.Option{
		mail.WithPort(sender.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if sender.port == smtpsPort {
		options = append(options, mail.WithSSL())
	}
	if sender.username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(sender.username),
			mail.WithPassword(sender.password),
		)
	}
	return options
}

const smtpsPort = 465

func buildSMTPMessage(from string, message EmailMessage) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", message.To, err)
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Body)
	return msg, nil
}

type SendGridSender struct {
	apiKey     string
	baseURL    string
	from       string
	httpClient *http.Client
}

func NewSendGridSender(apiKey string, baseURL string, from string, httpClient *http.Client) *SendGridSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SendGridSender{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		from:       from,
		httpClient: httpClient,
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMail struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

func (sender *SendGridSender) Send(ctx context.Context, message EmailMessage) error {
	body, err := json.Marshal(sendGridMail{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: message.To}}}},
		From:             sendGridAddress{Email: sender.from},
		Subject:          message.Subject,
		Content:          []sendGridContent{{Type: "text/plain", Value: message.Body}},
	})
	if err != nil {
		return fmt.Errorf("encode sendgrid mail: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, sender.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+sender.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := sender.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("call sendgrid: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 4<<10))
		return fmt.Errorf("sendgrid returned HTTP %d: %s", response.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
