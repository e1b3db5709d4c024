// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	AppURL      string
	CORSOrigins []string

	DatabaseURL string

	JWTSecretKey string
	JWTTTL       time.Duration

	// LLM, any OpenAI-compatible endpoint. Together AI by default.
	LLMAPIKey            string
	LLMBaseURL           string
	LLMModel             string
	LLMTimeout           time.Duration
	LLMMaxTokens         int
	TranslationMaxTokens int

	// File storage. MinIO is used when MinioEndpoint is set, otherwise UploadDir on disk.
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Background jobs. Redis streams when RedisAddr is set, otherwise an in-process pool.
	RedisAddr      string
	RedisPassword  string
	JobWorkers     int
	JobTimeout     time.Duration
	JobMaxAttempts int

	JudgmentsURL string

	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables or .env file.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8000"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		AppURL:      getEnv("APP_URL", "http://localhost:5173"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		DatabaseURL: getEnv("DATABASE_URL", "legal_assistant.db"),

		JWTSecretKey: getEnv("JWT_SECRET_KEY", "dev-secret-change-me"),
		JWTTTL:       getEnvAsDuration("JWT_TTL", 24*time.Hour),

		LLMAPIKey:            getEnv("LLM_API_KEY", ""),
		LLMBaseURL:           getEnv("LLM_BASE_URL", "https://api.together.xyz/v1"),
		LLMModel:             getEnv("LLM_MODEL", "mistralai/Mixtral-8x7B-Instruct-v0.1"),
		LLMTimeout:           getEnvAsDuration("LLM_TIMEOUT", 5*time.Minute),
		LLMMaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 1024),
		TranslationMaxTokens: getEnvAsInt("TRANSLATION_MAX_TOKENS", 4096),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "legal-documents"),
		MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		JobWorkers:     getEnvAsInt("JOB_WORKERS", 2),
		JobTimeout:     getEnvAsDuration("JOB_TIMEOUT", 15*time.Minute),
		JobMaxAttempts: getEnvAsInt("JOB_MAX_ATTEMPTS", 1),

		JudgmentsURL: getEnv("JUDGMENTS_URL", "https://www.sci.gov.in/"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "1234567890"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges everywhere and required secrets in production.
func (c *Config) Validate() error {
	if c.JobWorkers < 1 {
		return fmt.Errorf("JOB_WORKERS must be at least 1")
	}
	if c.JobMaxAttempts < 1 {
		return fmt.Errorf("JOB_MAX_ATTEMPTS must be at least 1")
	}
	if c.JobTimeout <= 0 || c.LLMTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	if c.IsProduction() {
		missing := []string{}
		if c.JWTSecretKey == "" || c.JWTSecretKey == "dev-secret-change-me" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if c.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required production environment variables: %v", missing)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as bool. Using default value.", key)
		return defaultValue
	}
	return b
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
