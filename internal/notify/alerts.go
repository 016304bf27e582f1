package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/fetalrisk/internal/models"
	"go.uber.org/zap"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	defaultSMSTimeout = 6 * time.Second
)

// Alert carries everything needed to describe one evaluation to the patient.
type Alert struct {
	User       models.User
	Patient    models.Patient
	Reading    models.Reading
	Evaluation models.RiskEvaluation
}

type EmailEnqueuer interface {
	Enqueue(message EmailMessage) bool
}

type AlertObserver interface {
	ObserveAlert(channel string, result string)
}

// AlertDispatcher queues email for warning and critical evaluations and sends
// SMS inline for critical ones. Delivery failures never reach the caller.
type AlertDispatcher struct {
	emails     EmailEnqueuer
	sms        SMSSender
	smsTimeout time.Duration
	logger     *zap.Logger
	observer   AlertObserver
}

func NewAlertDispatcher(emails EmailEnqueuer, sms SMSSender, smsTimeout time.Duration, logger *zap.Logger, observer AlertObserver) *AlertDispatcher {
	if smsTimeout <= 0 {
		smsTimeout = defaultSMSTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertDispatcher{
		emails:     emails,
		sms:        sms,
		smsTimeout: smsTimeout,
		logger:     logger,
		observer:   observer,
	}
}

func (dispatcher *AlertDispatcher) Dispatch(ctx context.Context, alert Alert) {
	level := alert.Evaluation.RiskLevel
	if level != models.RiskLevelWarning && level != models.RiskLevelCritical {
		return
	}

	if dispatcher.emails != nil && strings.TrimSpace(alert.User.Email) != "" {
		if !dispatcher.emails.Enqueue(BuildAlertEmail(alert)) {
			dispatcher.logger.Warn("email alert not queued", zap.Uint("patient_id", alert.Patient.ID))
		}
	}

	contact := strings.TrimSpace(alert.Patient.ContactNumber)
	if level != models.RiskLevelCritical || contact == "" || dispatcher.sms == nil {
		return
	}

	smsCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatcher.smsTimeout)
	defer cancel()

	if err := dispatcher.sms.Send(smsCtx, SMSMessage{To: contact, Body: BuildCriticalSMS(alert)}); err != nil {
		dispatcher.logger.Error("sms alert failed", zap.Uint("patient_id", alert.Patient.ID), zap.Error(err))
		dispatcher.observe(ChannelSMS, "failed")
		return
	}
	dispatcher.observe(ChannelSMS, "sent")
}

func (dispatcher *AlertDispatcher) observe(channel string, result string) {
	if dispatcher.observer != nil {
		dispatcher.observer.ObserveAlert(channel, result)
	}
}

func BuildAlertEmail(alert Alert) EmailMessage {
	evaluation := alert.Evaluation
	reading := alert.Reading

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", displayName(alert.User.Name))
	fmt.Fprintf(&body, "A %s risk level was detected for patient %s.\n\n", strings.ToUpper(evaluation.RiskLevel), alert.Patient.Name)
	fmt.Fprintf(&body, "Risk level: %s\n", evaluation.RiskLevel)
	fmt.Fprintf(&body, "Risk score: %s\n", formatScore(evaluation.RiskScore))
	fmt.Fprintf(&body, "Reason: %s\n\n", evaluation.Reason)
	body.WriteString("Latest vitals:\n")
	fmt.Fprintf(&body, "  Maternal HR: %s bpm\n", formatInt(reading.MaternalHR))
	fmt.Fprintf(&body, "  Blood pressure: %s/%s mmHg\n", formatInt(reading.SystolicBP), formatInt(reading.DiastolicBP))
	fmt.Fprintf(&body, "  Fetal HR: %s bpm\n", formatInt(reading.FetalHR))
	fmt.Fprintf(&body, "  Fetal movements: %s\n", formatInt(reading.FetalMovementCount))
	fmt.Fprintf(&body, "  SpO2: %s%%\n", formatInt(reading.SpO2))
	fmt.Fprintf(&body, "  Temperature: %s °C\n", formatFloat(reading.Temperature))
	fmt.Fprintf(&body, "  Recorded at: %s\n\n", reading.RecordedAt.Format(time.RFC1123))
	body.WriteString("Please review the dashboard and contact your healthcare provider if needed.\n")

	return EmailMessage{
		To:      alert.User.Email,
		Subject: fmt.Sprintf("⚠️ Fetal Risk Alert — %s level detected", strings.ToUpper(evaluation.RiskLevel)),
		Body:    body.String(),
	}
}

func BuildCriticalSMS(alert Alert) string {
	return fmt.Sprintf("🚨 FETAL RISK ALERT (CRITICAL)\nPatient: %s\nReason: %s\nPlease check the dashboard immediately.",
		alert.Patient.Name, alert.Evaluation.Reason)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}

func formatScore(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *score)
}

func formatInt(value *int) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *value)
}

func formatFloat(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *value)
}
