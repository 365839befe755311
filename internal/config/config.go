package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration.
// With no API keys configured the server runs open, which is the expected
// setup for a single-user studio bound to localhost.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// RedisConfig holds the optional collection-cache backend configuration.
// An empty Addr disables Redis and the cache falls back to direct reads.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// NATSConfig holds NATS JetStream configuration.
// An empty URL disables event publishing.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ServicesConfig holds the base URLs of the MegaYours platform services
type ServicesConfig struct {
	ForwarderURL   string        `mapstructure:"forwarder_url"`
	MegadataURL    string        `mapstructure:"megadata_url"`
	QueryURL       string        `mapstructure:"query_url"`
	SocialLoginURL string        `mapstructure:"social_login_url"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// WalletConfig holds wallet provider configuration. Local key material backs
// the metamask and phantom slots; walletconnect goes through a relay.
type WalletConfig struct {
	EVMPrivateKey      string        `mapstructure:"evm_private_key"`    // hex encoded secp256k1 key
	SolanaPrivateKey   string        `mapstructure:"solana_private_key"` // base58 encoded ed25519 key
	WalletConnectRelay string        `mapstructure:"walletconnect_relay_url"`
	HandshakeTimeout   time.Duration `mapstructure:"walletconnect_handshake_timeout"`
}

// StudioConfig holds configuration for the studio API server
type StudioConfig struct {
	BaseConfig    `mapstructure:",squash"`
	Server        ServerConfig   `mapstructure:"server"`
	Database      DatabaseConfig `mapstructure:"database"`
	Auth          AuthConfig     `mapstructure:"auth"`
	Redis         RedisConfig    `mapstructure:"redis"`
	NATS          NATSConfig     `mapstructure:"nats"`
	Services      ServicesConfig `mapstructure:"services"`
	Wallet        WalletConfig   `mapstructure:"wallet"`
	AutosaveDelay time.Duration  `mapstructure:"autosave_delay"`
}

// LoadStudioConfig loads configuration for the studio API server
func LoadStudioConfig(configFile string, envPath string) (*StudioConfig, error) {
	v := configureViper("studio", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.cache_ttl", "30s")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "megadata-studio")
	v.SetDefault("services.http_timeout", "30s")
	v.SetDefault("wallet.walletconnect_handshake_timeout", "60s")
	v.SetDefault("autosave_delay", "800ms")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config StudioConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if config.Services.ForwarderURL == "" {
		return nil, errors.New("services.forwarder_url is required")
	}
	if config.Services.MegadataURL == "" {
		return nil, errors.New("services.megadata_url is required")
	}
	if config.Services.QueryURL == "" {
		return nil, errors.New("services.query_url is required")
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/studio/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("MEGADATA_STUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"autosave_delay",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.api_keys",
		// Redis
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.cache_ttl",
		// NATS
		"nats.url",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Platform services
		"services.forwarder_url",
		"services.megadata_url",
		"services.query_url",
		"services.social_login_url",
		"services.http_timeout",
		// Wallets
		"wallet.evm_private_key",
		"wallet.solana_private_key",
		"wallet.walletconnect_relay_url",
		"wallet.walletconnect_handshake_timeout",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
