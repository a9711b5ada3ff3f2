package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: "9090"
storage:
  provider: yandex
scoring:
  hr_notify_threshold: 75
  gemini_models: [gemini-a, gemini-b]
`), 0o600))

	t.Setenv("HR_NOTIFY_THRESHOLD", "85")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("STORAGE_PROVIDER", "  ")
	t.Setenv("APPLICATION_RECOVERY_MINUTES", "30")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "yandex", cfg.Storage.Provider)
	assert.Equal(t, 85, cfg.Scoring.HRNotifyThreshold)
	assert.Equal(t, []string{"gemini-a", "gemini-b"}, cfg.Scoring.GeminiModels)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)

	assert.Equal(t, 30, cfg.Parser.TimeoutSeconds)
	assert.Equal(t, 40000, cfg.Scoring.FallbackSalaryMin)
	assert.Equal(t, 80000, cfg.Scoring.FallbackSalaryMax)
	assert.Equal(t, 30, cfg.Pipeline.RecoveryAfterMinutes)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.Parser.Mode)
	assert.Equal(t, 80, cfg.Scoring.HRNotifyThreshold)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	err := Default().Validate()
	require.Error(t, err)

	for _, want := range []string{"DB_DSN", "GCS_BUCKET", "PARSER_URL", "GEMINI_API_KEY", "SMTP_HOST", "MAIL_FROM"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Default()
	cfg.Database = DatabaseConfig{Driver: "sqlite"}
	cfg.Storage.Provider = "yandex"
	cfg.Storage.YandexToken = "token"
	cfg.Parser.Mode = "local"
	cfg.Scoring.Provider = "openai"
	cfg.Scoring.OpenAIAPIKey = "sk-test"
	cfg.Mail.Transport = "none"

	assert.NoError(t, cfg.Validate())
}

func TestValidate_Ranges(t *testing.T) {
	cfg := Default()
	cfg.Database = DatabaseConfig{Driver: "sqlite"}
	cfg.Storage.GCSBucket = "resumes"
	cfg.Parser.URL = "https://parser.example"
	cfg.Scoring.GeminiAPIKey = "key"
	cfg.Mail.Transport = "none"
	cfg.Scoring.HRNotifyThreshold = 101
	cfg.Scoring.FallbackSalaryMin = 90000

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HR_NOTIFY_THRESHOLD")
	assert.Contains(t, err.Error(), "FALLBACK_SALARY_MIN")
}

func TestValidate_ZeroThresholdRejected(t *testing.T) {
	cfg := Default()
	cfg.Database = DatabaseConfig{Driver: "sqlite"}
	cfg.Storage.GCSBucket = "resumes"
	cfg.Parser.URL = "https://parser.example"
	cfg.Scoring.GeminiAPIKey = "key"
	cfg.Mail.Transport = "none"
	cfg.Scoring.HRNotifyThreshold = 0
	cfg.Pipeline.RecoveryAfterMinutes = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HR_NOTIFY_THRESHOLD must be within 1..100")
	assert.Contains(t, err.Error(), "APPLICATION_RECOVERY_MINUTES")
}
