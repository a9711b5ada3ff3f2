package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Parser   ParserConfig   `yaml:"parser"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Mail     MailConfig     `yaml:"mail"`
	Events   EventsConfig   `yaml:"events"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Port        string   `yaml:"port"`
	UploadDir   string   `yaml:"upload_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // mysql | postgres | sqlite
	DSN    string `yaml:"dsn"`
}

type StorageConfig struct {
	Provider       string `yaml:"provider"` // gcs | yandex
	Folder         string `yaml:"folder"`
	GCSBucket      string `yaml:"gcs_bucket"`
	GCSCredentials string `yaml:"gcs_credentials"`
	GCSPublicRead  bool   `yaml:"gcs_public_read"`
	YandexToken    string `yaml:"yandex_token"`
	YandexAPIBase  string `yaml:"yandex_api_base"`
}

type ParserConfig struct {
	Mode           string `yaml:"mode"` // remote | local
	URL            string `yaml:"url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UnidocLicense  string `yaml:"unidoc_license"`
}

type ScoringConfig struct {
	Provider          string   `yaml:"provider"` // gemini | vertex | openai | langchain
	GeminiAPIKey      string   `yaml:"gemini_api_key"`
	GeminiModels      []string `yaml:"gemini_models"`
	VertexProject     string   `yaml:"vertex_project"`
	VertexLocation    string   `yaml:"vertex_location"`
	VertexModel       string   `yaml:"vertex_model"`
	OpenAIAPIKey      string   `yaml:"openai_api_key"`
	OpenAIBaseURL     string   `yaml:"openai_base_url"`
	OpenAIModel       string   `yaml:"openai_model"`
	LangchainModel    string   `yaml:"langchain_model"`
	HRNotifyThreshold int      `yaml:"hr_notify_threshold"`
	FallbackSalaryMin int      `yaml:"fallback_salary_min"`
	FallbackSalaryMax int      `yaml:"fallback_salary_max"`
	SkillVocabulary   []string `yaml:"skill_vocabulary"`
}

// PipelineConfig tunes the submission pipeline itself.
type PipelineConfig struct {
	// A submission still unscored after this many minutes is treated as
	// abandoned and may be resumed by a new application.
	RecoveryAfterMinutes int `yaml:"recovery_after_minutes"`
}

type MailConfig struct {
	Transport        string `yaml:"transport"` // smtp | gmail | none
	FromAddress      string `yaml:"from_address"`
	FromName         string `yaml:"from_name"`
	SMTPHost         string `yaml:"smtp_host"`
	SMTPPort         int    `yaml:"smtp_port"`
	SMTPUsername     string `yaml:"smtp_username"`
	SMTPPassword     string `yaml:"smtp_password"`
	GmailCredentials string `yaml:"gmail_credentials"`
	FrontendURL      string `yaml:"frontend_url"`
}

type EventsConfig struct {
	RabbitMQURL string `yaml:"rabbitmq_url"`
	Queue       string `yaml:"queue"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | text
}

// Default returns a config with every optional value filled in.
func Default() Config {
	return Config{
		HTTP:     HTTPConfig{Port: "8080", UploadDir: "uploads"},
		Database: DatabaseConfig{Driver: "mysql"},
		Storage: StorageConfig{
			Provider:      "gcs",
			Folder:        "resumes",
			YandexAPIBase: "https://cloud-api.yandex.net/v1/disk",
		},
		Parser: ParserConfig{Mode: "remote", TimeoutSeconds: 30},
		Scoring: ScoringConfig{
			Provider: "gemini",
			GeminiModels: []string{
				"gemini-2.0-flash-001",
				"gemini-2.0-flash",
				"gemini-2.5-flash",
				"gemini-flash-latest",
			},
			VertexLocation:    "us-central1",
			VertexModel:       "gemini-1.5-flash",
			OpenAIModel:       "gpt-4o-mini",
			LangchainModel:    "gemini-2.5-flash",
			HRNotifyThreshold: 80,
			FallbackSalaryMin: 40000,
			FallbackSalaryMax: 80000,
		},
		Pipeline: PipelineConfig{RecoveryAfterMinutes: 15},
		Mail:     MailConfig{Transport: "smtp", SMTPPort: 587, FromName: "Job Board"},
		Events:   EventsConfig{Queue: "application_events"},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads .env (if present), then the YAML file at yamlPath (if present),
// then environment variables. Later sources win.
func Load(yamlPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if yamlPath != "" {
		b, err := os.ReadFile(yamlPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", yamlPath, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read %s: %w", yamlPath, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	str(&cfg.HTTP.Port, "PORT")
	str(&cfg.HTTP.UploadDir, "UPLOAD_DIR")
	list(&cfg.HTTP.CORSOrigins, "CORS_ORIGINS")

	str(&cfg.Database.Driver, "DB_DRIVER")
	str(&cfg.Database.DSN, "DB_DSN")

	str(&cfg.Storage.Provider, "STORAGE_PROVIDER")
	str(&cfg.Storage.Folder, "STORAGE_FOLDER")
	str(&cfg.Storage.GCSBucket, "GCS_BUCKET")
	str(&cfg.Storage.GCSCredentials, "GOOGLE_APPLICATION_CREDENTIALS")
	boolean(&cfg.Storage.GCSPublicRead, "GCS_PUBLIC_READ")
	str(&cfg.Storage.YandexToken, "YANDEX_DISK_TOKEN")
	str(&cfg.Storage.YandexAPIBase, "YANDEX_DISK_API")

	str(&cfg.Parser.Mode, "PARSER_MODE")
	str(&cfg.Parser.URL, "PARSER_URL")
	str(&cfg.Parser.APIKey, "PARSER_API_KEY")
	integer(&cfg.Parser.TimeoutSeconds, "PARSER_TIMEOUT_SECONDS")
	str(&cfg.Parser.UnidocLicense, "UNIDOC_LICENSE_API_KEY")

	str(&cfg.Scoring.Provider, "LLM_PROVIDER")
	str(&cfg.Scoring.GeminiAPIKey, "GEMINI_API_KEY")
	list(&cfg.Scoring.GeminiModels, "GEMINI_MODELS")
	str(&cfg.Scoring.VertexProject, "GOOGLE_CLOUD_PROJECT")
	str(&cfg.Scoring.VertexLocation, "GOOGLE_CLOUD_LOCATION")
	str(&cfg.Scoring.VertexModel, "VERTEX_MODEL")
	str(&cfg.Scoring.OpenAIAPIKey, "OPENAI_API_KEY")
	str(&cfg.Scoring.OpenAIBaseURL, "OPENAI_BASE_URL")
	str(&cfg.Scoring.OpenAIModel, "OPENAI_MODEL")
	str(&cfg.Scoring.LangchainModel, "LANGCHAIN_MODEL")
	integer(&cfg.Scoring.HRNotifyThreshold, "HR_NOTIFY_THRESHOLD")
	integer(&cfg.Scoring.FallbackSalaryMin, "FALLBACK_SALARY_MIN")
	integer(&cfg.Scoring.FallbackSalaryMax, "FALLBACK_SALARY_MAX")
	list(&cfg.Scoring.SkillVocabulary, "SKILL_VOCABULARY")

	integer(&cfg.Pipeline.RecoveryAfterMinutes, "APPLICATION_RECOVERY_MINUTES")

	str(&cfg.Mail.Transport, "MAIL_TRANSPORT")
	str(&cfg.Mail.FromAddress, "MAIL_FROM")
	str(&cfg.Mail.FromName, "MAIL_FROM_NAME")
	str(&cfg.Mail.SMTPHost, "SMTP_HOST")
	integer(&cfg.Mail.SMTPPort, "SMTP_PORT")
	str(&cfg.Mail.SMTPUsername, "SMTP_USERNAME")
	str(&cfg.Mail.SMTPPassword, "SMTP_PASSWORD")
	str(&cfg.Mail.GmailCredentials, "GMAIL_CREDENTIALS")
	str(&cfg.Mail.FrontendURL, "FRONTEND_URL")

	str(&cfg.Events.RabbitMQURL, "RABBITMQ_URL")
	str(&cfg.Events.Queue, "EVENTS_QUEUE")

	str(&cfg.Log.Level, "LOG_LEVEL")
	str(&cfg.Log.Format, "LOG_FORMAT")
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []string
	add := func(format string, args ...any) { errs = append(errs, fmt.Sprintf(format, args...)) }

	switch c.Database.Driver {
	case "mysql", "postgres":
		if c.Database.DSN == "" {
			add("DB_DSN is required for driver %s", c.Database.Driver)
		}
	case "sqlite":
	default:
		add("unknown DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Provider {
	case "gcs":
		if c.Storage.GCSBucket == "" {
			add("GCS_BUCKET is required for storage provider gcs")
		}
	case "yandex":
		if c.Storage.YandexToken == "" {
			add("YANDEX_DISK_TOKEN is required for storage provider yandex")
		}
	default:
		add("unknown STORAGE_PROVIDER %q", c.Storage.Provider)
	}

	switch c.Parser.Mode {
	case "remote":
		if c.Parser.URL == "" {
			add("PARSER_URL is required for parser mode remote")
		}
	case "local":
	default:
		add("unknown PARSER_MODE %q", c.Parser.Mode)
	}
	if c.Parser.TimeoutSeconds <= 0 {
		add("PARSER_TIMEOUT_SECONDS must be > 0")
	}

	switch c.Scoring.Provider {
	case "gemini", "langchain":
		if c.Scoring.GeminiAPIKey == "" {
			add("GEMINI_API_KEY is required for LLM provider %s", c.Scoring.Provider)
		}
	case "vertex":
		if c.Scoring.VertexProject == "" {
			add("GOOGLE_CLOUD_PROJECT is required for LLM provider vertex")
		}
	case "openai":
		if c.Scoring.OpenAIAPIKey == "" {
			add("OPENAI_API_KEY is required for LLM provider openai")
		}
	default:
		add("unknown LLM_PROVIDER %q", c.Scoring.Provider)
	}
	if c.Scoring.HRNotifyThreshold < 1 || c.Scoring.HRNotifyThreshold > 100 {
		add("HR_NOTIFY_THRESHOLD must be within 1..100")
	}
	if c.Scoring.FallbackSalaryMin > c.Scoring.FallbackSalaryMax {
		add("FALLBACK_SALARY_MIN must not exceed FALLBACK_SALARY_MAX")
	}

	if c.Pipeline.RecoveryAfterMinutes <= 0 {
		add("APPLICATION_RECOVERY_MINUTES must be > 0")
	}

	switch c.Mail.Transport {
	case "smtp":
		if c.Mail.SMTPHost == "" {
			add("SMTP_HOST is required for mail transport smtp")
		}
	case "gmail":
		if c.Mail.GmailCredentials == "" {
			add("GMAIL_CREDENTIALS is required for mail transport gmail")
		}
	case "none":
	default:
		add("unknown MAIL_TRANSPORT %q", c.Mail.Transport)
	}
	if c.Mail.Transport != "none" && c.Mail.FromAddress == "" {
		add("MAIL_FROM is required when mail is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func integer(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func boolean(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

// list splits a comma separated variable, dropping blanks.
func list(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}
