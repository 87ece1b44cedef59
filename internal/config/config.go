package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the web service configuration.
type Config struct {
	Port          string        `envconfig:"PORT" default:"8000"`
	Env           string        `envconfig:"ENV" default:"development"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	TemplatesDir  string        `envconfig:"TEMPLATES_DIR" default:"templates"`
	StaticDir     string        `envconfig:"STATIC_DIR" default:"static"`
	TempDir       string        `envconfig:"TEMP_DIR"`
	ChromePath    string        `envconfig:"CHROME_PATH"`
	RenderTimeout time.Duration `envconfig:"RENDER_TIMEOUT" default:"60s"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	ArchiveBackend string `envconfig:"ARCHIVE_BACKEND" default:"none"`
	ArchiveDir     string `envconfig:"ARCHIVE_DIR" default:"./resume-data/archive"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3Prefix       string `envconfig:"S3_PREFIX"`
	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`
	AWSRegion      string `envconfig:"AWS_REGION"`

	EventsBackend string `envconfig:"EVENTS_BACKEND" default:"none"`
	AMQPURL       string `envconfig:"AMQP_URL"`
	AMQPExchange  string `envconfig:"AMQP_EXCHANGE" default:"cv_events"`
	GCPProjectID  string `envconfig:"GCP_PROJECT_ID"`
	PubSubTopic   string `envconfig:"PUBSUB_TOPIC" default:"cv-generated"`
}

// Load reads the service configuration from the environment. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	var err error
	if cfg.ArchiveBackend, err = normalizeBackend("ARCHIVE_BACKEND", cfg.ArchiveBackend, "local", "s3"); err != nil {
		return nil, err
	}
	if cfg.EventsBackend, err = normalizeBackend("EVENTS_BACKEND", cfg.EventsBackend, "amqp", "pubsub"); err != nil {
		return nil, err
	}

	switch {
	case cfg.ArchiveBackend == "s3" && cfg.S3Bucket == "":
		return nil, fmt.Errorf("S3_BUCKET is required when ARCHIVE_BACKEND=s3")
	case cfg.EventsBackend == "amqp" && cfg.AMQPURL == "":
		return nil, fmt.Errorf("AMQP_URL is required when EVENTS_BACKEND=amqp")
	case cfg.EventsBackend == "pubsub" && cfg.GCPProjectID == "":
		return nil, fmt.Errorf("GCP_PROJECT_ID is required when EVENTS_BACKEND=pubsub")
	}
	return &cfg, nil
}

// Notifier holds the settings shared by the email notifiers.
type Notifier struct {
	SenderEmail string `envconfig:"SENDER_EMAIL" validate:"required,email"`
	AppPassword string `envconfig:"GEMINI_APP_PASSWORD" validate:"required"`
	GeminiKey   string `envconfig:"GEMINI_API_KEY"`
	GeminiModel string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	SMTPHost    string `envconfig:"SMTP_HOST" default:"smtp.gmail.com" validate:"required,hostname"`
	SMTPPort    int    `envconfig:"SMTP_PORT" default:"465" validate:"min=1,max=65535"`
	ReportPath  string `envconfig:"REPORT_PATH" default:"tools/.last_analysis.log"`
}

// LoadNotifier reads the notifier settings without validating them, so
// callers can decide whether missing credentials are fatal.
func LoadNotifier() (*Notifier, error) {
	_ = godotenv.Load()

	var cfg Notifier
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// SettingsError lists the environment variables that failed validation.
type SettingsError struct {
	Fields []string
}

func (e *SettingsError) Error() string {
	return "invalid notifier settings: " + strings.Join(e.Fields, ", ")
}

// Validate reports missing or malformed notifier settings as a *SettingsError.
func (n *Notifier) Validate() error {
	if err := validate.Struct(n); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			serr := &SettingsError{}
			for _, fe := range verrs {
				serr.Fields = append(serr.Fields, envName(fe.StructField()))
			}
			return serr
		}
		return err
	}
	return nil
}

func envName(field string) string {
	switch field {
	case "SenderEmail":
		return "SENDER_EMAIL"
	case "AppPassword":
		return "GEMINI_APP_PASSWORD"
	case "SMTPHost":
		return "SMTP_HOST"
	case "SMTPPort":
		return "SMTP_PORT"
	default:
		return field
	}
}

// normalizeBackend lower-cases raw and checks it against allowed. Empty and
// "none" disable the backend.
func normalizeBackend(key, raw string, allowed ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" || v == "none" {
		return "none", nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("%s=%q is not one of none, %s", key, raw, strings.Join(allowed, ", "))
}
