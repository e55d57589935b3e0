// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Storage  StorageConfig
	IMAP     IMAPConfig
	LLM      LLMConfig
	Retry    RetryConfig
	Sources  SourceDefaults
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	UploadDir string
	DataDir   string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// StorageConfig connects internal/storage's minio-go client to whichever
// S3-compatible endpoint this deployment uses for staged-file blobs.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// IMAPConfig supplies fallback connection defaults for the email
// acquisition adapter (C11) when a Source doesn't override them — mirrors
// the per-source domain.EmailSettings shape so an operator can omit most
// of it for a standard mailbox.
type IMAPConfig struct {
	DefaultPort       int
	DefaultTLS        bool
	ConnectTimeoutSec int
	FetchTimeoutSec   int
}

// LLMConfig configures the genai-backed color advisor (internal/llmadvisor).
type LLMConfig struct {
	Enabled    bool
	APIKey     string
	Model      string
	TimeoutSec int
}

// RetryConfig supplies package-level defaults for the email retry queue
// (C15) when a source doesn't configure its own interval/cutoff.
type RetryConfig struct {
	DefaultIntervalMinutes int
	DefaultCutoffHour      int
}

// SourceDefaults holds fallback values applied to a Source's optional
// sub-blocks at load time so a rule's absence in storage means "skipped",
// never "defaulted to a surprising value" at the domain layer (spec §9
// design note) — these are deployment-wide knobs, not business defaults.
type SourceDefaults struct {
	SafetyThresholdPct   float64
	ColorConfidenceFloor float64
	URLFetchTimeoutSec   int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "invpipe")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_DATA_DIR", "./data/output")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "invpipe-staged")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("IMAP_DEFAULT_PORT", 993)
		viper.SetDefault("IMAP_DEFAULT_TLS", true)
		viper.SetDefault("IMAP_CONNECT_TIMEOUT_SEC", 15)
		viper.SetDefault("IMAP_FETCH_TIMEOUT_SEC", 30)
		viper.SetDefault("LLM_ENABLED", false)
		viper.SetDefault("LLM_API_KEY", "")
		viper.SetDefault("LLM_MODEL", "gemini-2.0-flash")
		viper.SetDefault("LLM_TIMEOUT_SEC", 5)
		viper.SetDefault("RETRY_DEFAULT_INTERVAL_MINUTES", 30)
		viper.SetDefault("RETRY_DEFAULT_CUTOFF_HOUR", 18)
		viper.SetDefault("SOURCE_SAFETY_THRESHOLD_PCT", 50.0)
		viper.SetDefault("SOURCE_COLOR_CONFIDENCE_FLOOR", 0.9)
		viper.SetDefault("SOURCE_URL_FETCH_TIMEOUT_SEC", 30)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure upload and data directories exist
		ensureDir(viper.GetString("APP_UPLOAD_DIR"))
		ensureDir(viper.GetString("APP_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			App: AppConfig{
				UploadDir: viper.GetString("APP_UPLOAD_DIR"),
				DataDir:   viper.GetString("APP_DATA_DIR"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			IMAP: IMAPConfig{
				DefaultPort:       viper.GetInt("IMAP_DEFAULT_PORT"),
				DefaultTLS:        viper.GetBool("IMAP_DEFAULT_TLS"),
				ConnectTimeoutSec: viper.GetInt("IMAP_CONNECT_TIMEOUT_SEC"),
				FetchTimeoutSec:   viper.GetInt("IMAP_FETCH_TIMEOUT_SEC"),
			},
			LLM: LLMConfig{
				Enabled:    viper.GetBool("LLM_ENABLED"),
				APIKey:     viper.GetString("LLM_API_KEY"),
				Model:      viper.GetString("LLM_MODEL"),
				TimeoutSec: viper.GetInt("LLM_TIMEOUT_SEC"),
			},
			Retry: RetryConfig{
				DefaultIntervalMinutes: viper.GetInt("RETRY_DEFAULT_INTERVAL_MINUTES"),
				DefaultCutoffHour:      viper.GetInt("RETRY_DEFAULT_CUTOFF_HOUR"),
			},
			Sources: SourceDefaults{
				SafetyThresholdPct:   viper.GetFloat64("SOURCE_SAFETY_THRESHOLD_PCT"),
				ColorConfidenceFloor: viper.GetFloat64("SOURCE_COLOR_CONFIDENCE_FLOOR"),
				URLFetchTimeoutSec:   viper.GetInt("SOURCE_URL_FETCH_TIMEOUT_SEC"),
			},
		}
	})

	return instance
}

// LLMTimeout returns the configured LLM call timeout as a time.Duration.
func (c *Config) LLMTimeout() time.Duration {
	if c.LLM.TimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.LLM.TimeoutSec) * time.Second
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
