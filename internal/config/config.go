package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Gateway GatewayConfig
	Fraud   FraudConfig
	Cache   CacheConfig
	S3      S3Config
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds sqlite connection settings.
type DBConfig struct {
	Path    string `mapstructure:"path"`
	MaxOpen int    `mapstructure:"max_open"`
	MaxIdle int    `mapstructure:"max_idle"`
}

// GatewayProviderConfig holds settings for a single vision model provider.
// APIKey has no default: it must come from the environment.
type GatewayProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// GatewayConfig holds vision gateway settings with multi-provider failover.
type GatewayConfig struct {
	Primary   GatewayProviderConfig `mapstructure:"primary"`
	Secondary GatewayProviderConfig `mapstructure:"secondary"`
	Tertiary  GatewayProviderConfig `mapstructure:"tertiary"`
}

// Configured returns the provider configs that have a provider name set,
// in failover order.
func (g *GatewayConfig) Configured() []*GatewayProviderConfig {
	var out []*GatewayProviderConfig
	for _, p := range []*GatewayProviderConfig{&g.Primary, &g.Secondary, &g.Tertiary} {
		if p.Provider != "" {
			out = append(out, p)
		}
	}
	return out
}

// FraudConfig holds the fraud heuristic thresholds.
type FraudConfig struct {
	HighAmountThreshold    float64 `mapstructure:"high_amount_threshold"`
	EdgeDensityThreshold   float64 `mapstructure:"edge_density_threshold"`
	ColorVarianceThreshold float64 `mapstructure:"color_variance_threshold"`
}

// CacheConfig holds gateway response cache settings. A zero TTL disables caching.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// S3Config holds optional check image archival settings. An empty bucket
// disables archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the CHECKLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHECKLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.path", "checks.db")
	v.SetDefault("db.max_open", 1)
	v.SetDefault("db.max_idle", 1)

	// Gateway defaults. No api_key default anywhere: keys are injected.
	v.SetDefault("gateway.primary.provider", "gemini")
	v.SetDefault("gateway.primary.default_model", "gemini-2.0-flash")
	v.SetDefault("gateway.primary.timeout_secs", 120)
	v.SetDefault("gateway.secondary.provider", "")
	v.SetDefault("gateway.secondary.default_model", "")
	v.SetDefault("gateway.secondary.timeout_secs", 120)
	v.SetDefault("gateway.tertiary.provider", "")
	v.SetDefault("gateway.tertiary.default_model", "")
	v.SetDefault("gateway.tertiary.timeout_secs", 120)

	// Fraud heuristic defaults
	v.SetDefault("fraud.high_amount_threshold", 10000.0)
	v.SetDefault("fraud.edge_density_threshold", 0.15)
	v.SetDefault("fraud.color_variance_threshold", 1000.0)

	// Cache defaults (disabled unless a TTL is set)
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("cache.cleanup_interval", "5m")

	// S3 defaults (archival disabled unless a bucket is set)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "CHECKLENS_SERVER_PORT",
		"server.read_timeout":             "CHECKLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "CHECKLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":              "CHECKLENS_SERVER_ENVIRONMENT",
		"db.path":                         "CHECKLENS_DB_PATH",
		"db.max_open":                     "CHECKLENS_DB_MAX_OPEN",
		"db.max_idle":                     "CHECKLENS_DB_MAX_IDLE",
		"gateway.primary.provider":        "CHECKLENS_GATEWAY_PRIMARY_PROVIDER",
		"gateway.primary.api_key":         "CHECKLENS_GATEWAY_PRIMARY_API_KEY",
		"gateway.primary.default_model":   "CHECKLENS_GATEWAY_PRIMARY_DEFAULT_MODEL",
		"gateway.primary.timeout_secs":    "CHECKLENS_GATEWAY_PRIMARY_TIMEOUT_SECS",
		"gateway.secondary.provider":      "CHECKLENS_GATEWAY_SECONDARY_PROVIDER",
		"gateway.secondary.api_key":       "CHECKLENS_GATEWAY_SECONDARY_API_KEY",
		"gateway.secondary.default_model": "CHECKLENS_GATEWAY_SECONDARY_DEFAULT_MODEL",
		"gateway.secondary.timeout_secs":  "CHECKLENS_GATEWAY_SECONDARY_TIMEOUT_SECS",
		"gateway.tertiary.provider":       "CHECKLENS_GATEWAY_TERTIARY_PROVIDER",
		"gateway.tertiary.api_key":        "CHECKLENS_GATEWAY_TERTIARY_API_KEY",
		"gateway.tertiary.default_model":  "CHECKLENS_GATEWAY_TERTIARY_DEFAULT_MODEL",
		"gateway.tertiary.timeout_secs":   "CHECKLENS_GATEWAY_TERTIARY_TIMEOUT_SECS",
		"fraud.high_amount_threshold":     "CHECKLENS_FRAUD_HIGH_AMOUNT_THRESHOLD",
		"fraud.edge_density_threshold":    "CHECKLENS_FRAUD_EDGE_DENSITY_THRESHOLD",
		"fraud.color_variance_threshold":  "CHECKLENS_FRAUD_COLOR_VARIANCE_THRESHOLD",
		"cache.ttl":                       "CHECKLENS_CACHE_TTL",
		"cache.cleanup_interval":          "CHECKLENS_CACHE_CLEANUP_INTERVAL",
		"s3.region":                       "CHECKLENS_S3_REGION",
		"s3.bucket":                       "CHECKLENS_S3_BUCKET",
		"s3.endpoint":                     "CHECKLENS_S3_ENDPOINT",
		"s3.access_key":                   "CHECKLENS_S3_ACCESS_KEY",
		"s3.secret_key":                   "CHECKLENS_S3_SECRET_KEY",
		"s3.presign_expiry":               "CHECKLENS_S3_PRESIGN_EXPIRY",
		"cors.allowed_origins":            "CHECKLENS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CHECKLENS_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CHECKLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Path:    v.GetString("db.path"),
		MaxOpen: v.GetInt("db.max_open"),
		MaxIdle: v.GetInt("db.max_idle"),
	}
	cfg.Gateway = GatewayConfig{
		Primary: GatewayProviderConfig{
			Provider:     v.GetString("gateway.primary.provider"),
			APIKey:       v.GetString("gateway.primary.api_key"),
			DefaultModel: v.GetString("gateway.primary.default_model"),
			TimeoutSecs:  v.GetInt("gateway.primary.timeout_secs"),
		},
		Secondary: GatewayProviderConfig{
			Provider:     v.GetString("gateway.secondary.provider"),
			APIKey:       v.GetString("gateway.secondary.api_key"),
			DefaultModel: v.GetString("gateway.secondary.default_model"),
			TimeoutSecs:  v.GetInt("gateway.secondary.timeout_secs"),
		},
		Tertiary: GatewayProviderConfig{
			Provider:     v.GetString("gateway.tertiary.provider"),
			APIKey:       v.GetString("gateway.tertiary.api_key"),
			DefaultModel: v.GetString("gateway.tertiary.default_model"),
			TimeoutSecs:  v.GetInt("gateway.tertiary.timeout_secs"),
		},
	}
	cfg.Fraud = FraudConfig{
		HighAmountThreshold:    v.GetFloat64("fraud.high_amount_threshold"),
		EdgeDensityThreshold:   v.GetFloat64("fraud.edge_density_threshold"),
		ColorVarianceThreshold: v.GetFloat64("fraud.color_variance_threshold"),
	}
	cfg.Cache = CacheConfig{
		TTL:             v.GetDuration("cache.ttl"),
		CleanupInterval: v.GetDuration("cache.cleanup_interval"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
