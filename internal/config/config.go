package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Zapper GraphQL configuration
	Zapper ZapperConfig

	// Ethereum node and mint contract configuration
	Ethereum EthereumConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// API server configuration
	API APIConfig

	// Farcaster frame configuration
	Frame FrameConfig

	// Logging configuration
	Log LogConfig
}

// ZapperConfig holds balance indexer settings
type ZapperConfig struct {
	GraphQLURL string        `envconfig:"ZAPPER_GRAPHQL_URL" default:"https://public.zapper.xyz/graphql"`
	APIKey     string        `envconfig:"ZAPPER_API_KEY" default:""`
	Timeout    time.Duration `envconfig:"ZAPPER_TIMEOUT" default:"15s"`
	RateLimit  float64       `envconfig:"ZAPPER_RATE_LIMIT" default:"5"`
	BurstLimit int           `envconfig:"ZAPPER_BURST_LIMIT" default:"5"`
	BalanceTTL time.Duration `envconfig:"ZAPPER_BALANCE_TTL" default:"2m"`
}

// EthereumConfig holds chain connection and minting settings
type EthereumConfig struct {
	RPCURL          string        `envconfig:"ETH_RPC_URL" default:"https://mainnet.base.org"`
	ChainID         int64         `envconfig:"ETH_CHAIN_ID" default:"8453"`
	ContractAddress string        `envconfig:"ETH_CONTRACT_ADDRESS" default:""`
	MintPriceWei    string        `envconfig:"ETH_MINT_PRICE_WEI" default:"1000000000000000"`
	PrivateKey      string        `envconfig:"ETH_PRIVATE_KEY" default:""`
	WalletRPCURL    string        `envconfig:"ETH_WALLET_RPC_URL" default:""`
	ChainPoll       time.Duration `envconfig:"ETH_CHAIN_POLL_INTERVAL" default:"4s"`
	RequestTimeout  time.Duration `envconfig:"ETH_REQUEST_TIMEOUT" default:"30s"`
	ReceiptTimeout  time.Duration `envconfig:"ETH_RECEIPT_TIMEOUT" default:"2m"`
	MaxRetries      int           `envconfig:"ETH_MAX_RETRIES" default:"3"`
	RetryDelay      time.Duration `envconfig:"ETH_RETRY_DELAY" default:"1s"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"ratemybags"`
	Password        string        `envconfig:"DB_PASSWORD" default:"ratemybags"`
	Name            string        `envconfig:"DB_NAME" default:"ratemybags"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	Migrate         bool          `envconfig:"DB_MIGRATE" default:"true"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8081"`
	PublicURL       string        `envconfig:"API_PUBLIC_URL" default:"https://ratemybags.xyz"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"3m"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    int           `envconfig:"API_RATE_LIMIT_RPS" default:"100"`
	WriteRateLimit  int           `envconfig:"API_WRITE_RATE_LIMIT" default:"30"` // per minute
	CacheTTL        time.Duration `envconfig:"API_CACHE_TTL" default:"30s"`
}

// FrameConfig holds Farcaster frame settings
type FrameConfig struct {
	ImageURL string `envconfig:"FRAME_IMAGE_URL" default:"https://ratemybags.xyz/api/og"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at runtime
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format))
	}
	if c.API.RateLimitRPS <= 0 || c.API.WriteRateLimit <= 0 {
		errs = append(errs, errors.New("API rate limits must be positive"))
	}
	if c.Zapper.RateLimit <= 0 || c.Zapper.BurstLimit <= 0 {
		errs = append(errs, errors.New("Zapper rate limits must be positive"))
	}
	if c.Frame.ImageURL == "" {
		errs = append(errs, errors.New("FRAME_IMAGE_URL is required"))
	}
	return errors.Join(errs...)
}

// MintingEnabled reports whether both a signer and a contract are configured
func (c EthereumConfig) MintingEnabled() bool {
	return c.PrivateKey != "" && c.ContractAddress != ""
}

// Addr returns the host:port pair for the Redis client
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
