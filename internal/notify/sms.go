package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

type SMSMessage struct {
	To   string
	Body string
}

type SMSSender interface {
	Send(ctx context.Context, message SMSMessage) error
}

type LogSMSSender struct {
	logger *zap.Logger
}

func NewLogSMSSender(logger *zap.Logger) *LogSMSSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSMSSender{logger: logger}
}

func (sender *LogSMSSender) Send(_ context.Context, message SMSMessage) error {
	sender.logger.Info("sms delivery skipped (log provider)", zap.String("to", message.To))
	return nil
}

// TwilioSender posts to the Twilio Messages resource with basic auth.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
}

func NewTwilioSender(accountSID string, authToken string, from string, baseURL string, httpClient *http.Client) *TwilioSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (sender *TwilioSender) Send(ctx context.Context, message SMSMessage) error {
	form := url.Values{}
	form.Set("To", message.To)
	form.Set("From", sender.from)
	form.Set("Body", message.Body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", sender.baseURL, url.PathEscape(sender.accountSID))
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	request.SetBasicAuth(sender.accountSID, sender.authToken)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := sender.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("call twilio: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 4<<10))
		return fmt.Errorf("twilio returned HTTP %d: %s", response.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
