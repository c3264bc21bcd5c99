package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	DatabaseURL    string
	JWTSecret      string
	AllowedOrigins []string

	// LLM configuration
	LLMProvider         string // "gemini", "openai" or "vertex"
	LLMModel            string
	LLMAPIKey           string
	GoogleCloudProject  string
	GoogleCloudLocation string

	// Optional resume archive (S3 or R2). Disabled when S3Bucket is empty.
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	// Optional event publishing. Disabled when empty.
	RabbitMQURL string

	// Gmail import
	GmailCredentialsFile string
	GmailTokenFile       string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	// A missing .env is fine in containers; the environment wins either way.
	_ = godotenv.Load()

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "gemini"))

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		LLMProvider:         provider,
		LLMModel:            getEnv("LLM_MODEL", defaultModel(provider)),
		LLMAPIKey:           os.Getenv("LLM_API_KEY"),
		GoogleCloudProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleCloudLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    getEnv("S3_REGION", "auto"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", "credentials.json"),
		GmailTokenFile:       getEnv("GMAIL_TOKEN_FILE", "token.json"),
	}
}

// Validate reports the first missing or inconsistent setting the API server needs.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	switch c.LLMProvider {
	case "gemini", "openai":
		if c.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
	case "vertex":
		if c.GoogleCloudProject == "" {
			missing = append(missing, "GOOGLE_CLOUD_PROJECT")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want gemini, openai or vertex)", c.LLMProvider)
	}

	if c.S3Bucket != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		missing = append(missing, "S3_ACCESS_KEY/S3_SECRET_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) ArchiveEnabled() bool { return c.S3Bucket != "" }

func (c *Config) EventsEnabled() bool { return c.RabbitMQURL != "" }

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "vertex":
		return "gemini-1.5-flash"
	default:
		return "gemini-2.5-flash"
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
