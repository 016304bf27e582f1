package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	PredictorModeHTTP      = "http"
	PredictorModeScript    = "script"
	PredictorModeHeuristic = "heuristic"

	ProviderLog      = "log"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderTwilio   = "twilio"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
	"secret":                                     {},
}

type Config struct {
	Port        string        `mapstructure:"PORT"`
	DBPath      string        `mapstructure:"DB_PATH"`
	SecretKey   string        `mapstructure:"SECRET_KEY"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
	Timezone    string        `mapstructure:"TZ"`
	CORSOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`

	Log       LogConfig       `mapstructure:",squash"`
	Predictor PredictorConfig `mapstructure:",squash"`
	AI        AIConfig        `mapstructure:",squash"`
	Email     EmailConfig     `mapstructure:",squash"`
	SMS       SMSConfig       `mapstructure:",squash"`
	Tracing   TracingConfig   `mapstructure:",squash"`
}

type LogConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type PredictorConfig struct {
	Mode            string        `mapstructure:"PREDICTOR_MODE"`
	URL             string        `mapstructure:"ML_SERVICE_URL"`
	Timeout         time.Duration `mapstructure:"PREDICTOR_TIMEOUT"`
	ScriptCommand   string        `mapstructure:"PREDICTOR_SCRIPT_COMMAND"`
	BreakerFailures uint32        `mapstructure:"PREDICTOR_BREAKER_FAILURES"`
	BreakerCooldown time.Duration `mapstructure:"PREDICTOR_BREAKER_COOLDOWN"`
}

type AIConfig struct {
	APIKey        string        `mapstructure:"OPENAI_API_KEY"`
	BaseURL       string        `mapstructure:"OPENAI_BASE_URL"`
	Model         string        `mapstructure:"OPENAI_MODEL"`
	Timeout       time.Duration `mapstructure:"OPENAI_TIMEOUT"`
	RatePerMinute int           `mapstructure:"AI_RATE_PER_MINUTE"`
}

type EmailConfig struct {
	Provider       string        `mapstructure:"EMAIL_PROVIDER"`
	From           string        `mapstructure:"EMAIL_FROM"`
	QueueSize      int           `mapstructure:"EMAIL_QUEUE_SIZE"`
	SendTimeout    time.Duration `mapstructure:"EMAIL_SEND_TIMEOUT"`
	SMTPHost       string        `mapstructure:"SMTP_HOST"`
	SMTPPort       int           `mapstructure:"SMTP_PORT"`
	SMTPUsername   string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword   string        `mapstructure:"SMTP_PASSWORD"`
	SendGridAPIKey string        `mapstructure:"SENDGRID_API_KEY"`
	SendGridURL    string        `mapstructure:"SENDGRID_BASE_URL"`
}

type SMSConfig struct {
	Provider         string        `mapstructure:"SMS_PROVIDER"`
	Timeout          time.Duration `mapstructure:"SMS_TIMEOUT"`
	TwilioAccountSID string        `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string        `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string        `mapstructure:"TWILIO_FROM_NUMBER"`
	TwilioBaseURL    string        `mapstructure:"TWILIO_BASE_URL"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"TRACING_ENABLED"`
	Endpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	ServiceName string  `mapstructure:"TRACING_SERVICE_NAME"`
	SampleRate  float64 `mapstructure:"TRACING_SAMPLE_RATE"`
}

var defaults = map[string]any{
	"PORT":                       "8080",
	"DB_PATH":                    "data/fetalrisk.db",
	"SECRET_KEY":                 "",
	"TOKEN_TTL":                  "24h",
	"TZ":                         "UTC",
	"CORS_ALLOWED_ORIGINS":       "http://localhost:3000,http://localhost:3001,http://localhost:3002,https://skfetal-risk-frontend.onrender.com",
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "json",
	"PREDICTOR_MODE":             PredictorModeHTTP,
	"ML_SERVICE_URL":             "https://skfetal-risk-ml.onrender.com/predict",
	"PREDICTOR_TIMEOUT":          "8s",
	"PREDICTOR_SCRIPT_COMMAND":   "python3 ml/predict.py",
	"PREDICTOR_BREAKER_FAILURES": 5,
	"PREDICTOR_BREAKER_COOLDOWN": "30s",
	"OPENAI_API_KEY":             "",
	"OPENAI_BASE_URL":            "https://api.openai.com/v1",
	"OPENAI_MODEL":               "gpt-4o-mini",
	"OPENAI_TIMEOUT":             "20s",
	"AI_RATE_PER_MINUTE":         20,
	"EMAIL_PROVIDER":             ProviderLog,
	"EMAIL_FROM":                 "alerts@fetalrisk.local",
	"EMAIL_QUEUE_SIZE":           256,
	"EMAIL_SEND_TIMEOUT":         "10s",
	"SMTP_HOST":                  "",
	"SMTP_PORT":                  587,
	"SMTP_USERNAME":              "",
	"SMTP_PASSWORD":              "",
	"SENDGRID_API_KEY":           "",
	"SENDGRID_BASE_URL":          "https://api.sendgrid.com",
	"SMS_PROVIDER":               ProviderLog,
	"SMS_TIMEOUT":                "6s",
	"TWILIO_ACCOUNT_SID":         "",
	"TWILIO_AUTH_TOKEN":          "",
	"TWILIO_FROM_NUMBER":         "",
	"TWILIO_BASE_URL":            "https://api.twilio.com/2010-04-01",
	"TRACING_ENABLED":            false,
	"OTLP_ENDPOINT":              "localhost:4318",
	"TRACING_SERVICE_NAME":       "fetalrisk",
	"TRACING_SAMPLE_RATE":        1.0,
}

// Load reads configuration from the environment and, when configFile is not
// empty, from that file. Environment variables win over file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := ValidateSecretKey(c.SecretKey); err != nil {
		return err
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	switch c.Predictor.Mode {
	case PredictorModeHTTP:
		if strings.TrimSpace(c.Predictor.URL) == "" {
			return errors.New("ML_SERVICE_URL is required when PREDICTOR_MODE is http")
		}
	case PredictorModeScript:
		if strings.TrimSpace(c.Predictor.ScriptCommand) == "" {
			return errors.New("PREDICTOR_SCRIPT_COMMAND is required when PREDICTOR_MODE is script")
		}
	case PredictorModeHeuristic:
	default:
		return fmt.Errorf("PREDICTOR_MODE must be %q, %q or %q, got %q",
			PredictorModeHTTP, PredictorModeScript, PredictorModeHeuristic, c.Predictor.Mode)
	}
	if c.Predictor.Timeout <= 0 {
		return errors.New("PREDICTOR_TIMEOUT must be positive")
	}

	switch c.Email.Provider {
	case ProviderLog:
	case ProviderSMTP:
		if c.Email.SMTPHost == "" {
			return errors.New("SMTP_HOST is required when EMAIL_PROVIDER is smtp")
		}
	case ProviderSendGrid:
		if c.Email.SendGridAPIKey == "" {
			return errors.New("SENDGRID_API_KEY is required when EMAIL_PROVIDER is sendgrid")
		}
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be log, smtp or sendgrid, got %q", c.Email.Provider)
	}
	if c.Email.QueueSize <= 0 {
		return errors.New("EMAIL_QUEUE_SIZE must be positive")
	}

	switch c.SMS.Provider {
	case ProviderLog:
	case ProviderTwilio:
		if c.SMS.TwilioAccountSID == "" || c.SMS.TwilioAuthToken == "" || c.SMS.TwilioFrom == "" {
			return errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER are required when SMS_PROVIDER is twilio")
		}
	default:
		return fmt.Errorf("SMS_PROVIDER must be log or twilio, got %q", c.SMS.Provider)
	}

	if c.Tracing.Enabled && strings.TrimSpace(c.Tracing.Endpoint) == "" {
		return errors.New("OTLP_ENDPOINT is required when TRACING_ENABLED is true")
	}
	return nil
}

// ValidateSecretKey rejects empty, placeholder and short JWT signing secrets.
func ValidateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(trimmed)]; insecure {
		return errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(trimmed) < minSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func splitList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
	}
	return result
}
