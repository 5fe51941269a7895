package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/stockboard/stockboard/internal/storage"
)

const (
	BackendXML    = "xml"
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	LocationFile  = "file"
	LocationMinIO = "minio"

	AuthNone = ""
	AuthJWT  = "jwt"
	AuthOIDC = "oidc"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     *storage.MinIOConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Backend         string
	XMLPath         string
	XMLLocation     string
	XMLObjectKey    string
	CreateIfMissing bool
	MaxBodyBytes    int64
	StaticDir       string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled  bool
	RPS      float64
	Burst    int
	UseRedis bool
	Window   time.Duration
}

type AuthConfig struct {
	Mode         string
	JWTSecret    string
	JWTTTL       time.Duration
	OIDCIssuer   string
	OIDCClientID string
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT_SECONDS", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT_SECONDS", 30)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("STOCKS_BACKEND", BackendXML)
	v.SetDefault("STOCKS_XML_PATH", "Dat/dat.xml")
	v.SetDefault("STOCKS_XML_LOCATION", LocationFile)
	v.SetDefault("STOCKS_XML_OBJECT_KEY", "dat.xml")
	v.SetDefault("STOCKS_CREATE_IF_MISSING", false)
	v.SetDefault("STOCKS_MAX_BODY_BYTES", 1<<20)
	v.SetDefault("STATIC_DIR", "public")

	v.SetDefault("MONGODB_DATABASE", "stockboard")
	v.SetDefault("MONGODB_COLLECTION", "stocks")
	v.SetDefault("MONGODB_TIMEOUT", 10)

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "stockboard")

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	v.SetDefault("WRITE_AUTH_MODE", AuthNone)
	v.SetDefault("JWT_TTL_MINUTES", 60)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			LogLevel:        v.GetString("LOG_LEVEL"),
			ReadTimeout:     time.Duration(v.GetInt("SERVER_READ_TIMEOUT_SECONDS")) * time.Second,
			WriteTimeout:    time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT_SECONDS")) * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Store: StoreConfig{
			Backend:         strings.ToLower(strings.TrimSpace(v.GetString("STOCKS_BACKEND"))),
			XMLPath:         v.GetString("STOCKS_XML_PATH"),
			XMLLocation:     strings.ToLower(strings.TrimSpace(v.GetString("STOCKS_XML_LOCATION"))),
			XMLObjectKey:    v.GetString("STOCKS_XML_OBJECT_KEY"),
			CreateIfMissing: v.GetBool("STOCKS_CREATE_IF_MISSING"),
			MaxBodyBytes:    v.GetInt64("STOCKS_MAX_BODY_BYTES"),
			StaticDir:       v.GetString("STATIC_DIR"),
		},
		MongoDB: MongoDBConfig{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		MinIO: &storage.MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:      v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:    v.GetInt("RATE_LIMIT_BURST"),
			UseRedis: v.GetBool("RATE_LIMIT_USE_REDIS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		Auth: AuthConfig{
			Mode:         strings.ToLower(strings.TrimSpace(v.GetString("WRITE_AUTH_MODE"))),
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTTTL:       time.Duration(v.GetInt("JWT_TTL_MINUTES")) * time.Minute,
			OIDCIssuer:   v.GetString("OIDC_ISSUER"),
			OIDCClientID: v.GetString("OIDC_CLIENT_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects setting combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendXML:
		switch c.Store.XMLLocation {
		case LocationFile:
			if c.Store.XMLPath == "" {
				return fmt.Errorf("STOCKS_XML_PATH is required for the file location")
			}
		case LocationMinIO:
			if err := c.MinIO.Validate(); err != nil {
				return err
			}
			if c.Store.XMLObjectKey == "" {
				return fmt.Errorf("STOCKS_XML_OBJECT_KEY is required for the minio location")
			}
		default:
			return fmt.Errorf("unknown STOCKS_XML_LOCATION %q", c.Store.XMLLocation)
		}
	case BackendMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STOCKS_BACKEND %q", c.Store.Backend)
	}

	if c.Store.MaxBodyBytes <= 0 {
		return fmt.Errorf("STOCKS_MAX_BODY_BYTES must be positive")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
		}
		if c.RateLimit.UseRedis && c.Redis.Addr() == "" {
			return fmt.Errorf("REDIS_HOST is required when RATE_LIMIT_USE_REDIS is set")
		}
	}

	switch c.Auth.Mode {
	case AuthNone:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when WRITE_AUTH_MODE=jwt")
		}
	case AuthOIDC:
		if c.Auth.OIDCIssuer == "" || c.Auth.OIDCClientID == "" {
			return fmt.Errorf("OIDC_ISSUER and OIDC_CLIENT_ID are required when WRITE_AUTH_MODE=oidc")
		}
	default:
		return fmt.Errorf("unknown WRITE_AUTH_MODE %q", c.Auth.Mode)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
