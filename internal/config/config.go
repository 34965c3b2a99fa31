// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Engine   EngineConfig
	Artifact ArtifactConfig
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

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

// EngineConfig holds the replenishment engine knobs: the sales channel
// filter, the policy for legacy rows without a channel tag, the path of the
// supplier parameter file and the batch worker count.
type EngineConfig struct {
	ChannelTag         string
	ChannelPolicy      string
	SupplierConfigPath string
	WorkerCount        int
}

// ArtifactConfig controls where the serialized trend/seasonality documents
// land: a local directory, optionally mirrored to S3-compatible storage.
type ArtifactConfig struct {
	Dir             string
	UploadEnabled   bool
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Bucket          string
	Region          string
	UseSSL          bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "replengo")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)
		viper.SetDefault("ENGINE_CHANNEL_TAG", "Vanzari Magazin_Client Final")
		viper.SetDefault("ENGINE_CHANNEL_POLICY", "strict")
		viper.SetDefault("ENGINE_SUPPLIER_CONFIG", "./data/supplier_config.json")
		viper.SetDefault("ENGINE_WORKER_COUNT", 4)
		viper.SetDefault("ARTIFACT_DIR", "./data/artifacts")
		viper.SetDefault("ARTIFACT_UPLOAD_ENABLED", false)
		viper.SetDefault("ARTIFACT_S3_ENDPOINT", "")
		viper.SetDefault("ARTIFACT_S3_ACCESS_KEY", "")
		viper.SetDefault("ARTIFACT_S3_SECRET_KEY", "")
		viper.SetDefault("ARTIFACT_S3_BUCKET", "")
		viper.SetDefault("ARTIFACT_S3_REGION", "us-east-1")
		viper.SetDefault("ARTIFACT_S3_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("ARTIFACT_DIR"))

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
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				ChannelTag:         viper.GetString("ENGINE_CHANNEL_TAG"),
				ChannelPolicy:      viper.GetString("ENGINE_CHANNEL_POLICY"),
				SupplierConfigPath: viper.GetString("ENGINE_SUPPLIER_CONFIG"),
				WorkerCount:        viper.GetInt("ENGINE_WORKER_COUNT"),
			},
			Artifact: ArtifactConfig{
				Dir:           viper.GetString("ARTIFACT_DIR"),
				UploadEnabled: viper.GetBool("ARTIFACT_UPLOAD_ENABLED"),
				Endpoint:      viper.GetString("ARTIFACT_S3_ENDPOINT"),
				AccessKey:     viper.GetString("ARTIFACT_S3_ACCESS_KEY"),
				SecretKey:     viper.GetString("ARTIFACT_S3_SECRET_KEY"),
				Bucket:        viper.GetString("ARTIFACT_S3_BUCKET"),
				Region:        viper.GetString("ARTIFACT_S3_REGION"),
				UseSSL:        viper.GetBool("ARTIFACT_S3_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
