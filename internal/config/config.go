package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
	"time"
)

const (
	// EnvConfigPath names the YAML file to load when no path is passed in.
	EnvConfigPath = "TABLEGATE_CONFIG"

	envEmulatorHost = "BIGTABLE_EMULATOR_HOST"
	envCredentials  = "GOOGLE_APPLICATION_CREDENTIALS"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Debug      bool       `yaml:"debug"`
	Bigtable   Bigtable   `yaml:"bigtable"`
	Pool       Pool       `yaml:"pool"`
	Retry      Retry      `yaml:"retry"`
	Auth       Auth       `yaml:"auth"`
	ChangeFeed ChangeFeed `yaml:"changeFeed"`
}

type Server struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type Bigtable struct {
	ProjectID       string `yaml:"projectId"`
	InstanceID      string `yaml:"instanceId"`
	CredentialsFile string `yaml:"credentialsFile"`
	EmulatorHost    string `yaml:"emulatorHost"`
}

type Pool struct {
	Channels              int `yaml:"channels"`
	MaxRequestsPerChannel int `yaml:"maxRequestsPerChannel"`
	TimeoutMs             int `yaml:"timeoutMs"`
	// Workers sizes the worker pool. Zero picks a size from the CPU count.
	Workers int `yaml:"workers"`
}

type Retry struct {
	MaxRetries     int     `yaml:"maxRetries"`
	InitialDelayMs int     `yaml:"initialDelayMs"`
	MaxDelayMs     int     `yaml:"maxDelayMs"`
	Multiplier     float64 `yaml:"multiplier"`
}

type Auth struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer"`
	Audience  string `yaml:"audience"`
}

// ChangeFeed is disabled when Port is zero.
type ChangeFeed struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// Timeout is the per call deadline. Zero means none.
func (p Pool) Timeout() time.Duration {
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

func (r Retry) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMs) * time.Millisecond
}

func (r Retry) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelayMs) * time.Millisecond
}

func defaults() *Config {
	return &Config{
		Server: Server{
			Address: "0.0.0.0",
			Port:    8080,
		},
		Pool: Pool{
			Channels:              4,
			MaxRequestsPerChannel: 100,
			TimeoutMs:             30000,
		},
		Retry: Retry{
			MaxRetries:     3,
			InitialDelayMs: 100,
			MaxDelayMs:     5000,
			Multiplier:     2,
		},
		ChangeFeed: ChangeFeed{
			Address: "127.0.0.1",
		},
	}
}

// NewConfig builds the configuration from defaults, an optional YAML file and
// the environment, in that order of precedence. A .env file in the working
// directory is loaded into the environment first, if there is one. An empty
// path falls back to $TABLEGATE_CONFIG.
func NewConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := defaults()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	var errGrp []error

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errGrp = append(errGrp, fmt.Errorf("invalid %s value: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("TABLEGATE_SERVER_ADDRESS", &c.Server.Address)
	num("TABLEGATE_SERVER_PORT", &c.Server.Port)
	if v, ok := os.LookupEnv("TABLEGATE_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			errGrp = append(errGrp, fmt.Errorf("invalid TABLEGATE_DEBUG value: %w", err))
		}
		c.Debug = debug
	}

	str("TABLEGATE_PROJECT_ID", &c.Bigtable.ProjectID)
	str("TABLEGATE_INSTANCE_ID", &c.Bigtable.InstanceID)
	str(envCredentials, &c.Bigtable.CredentialsFile)
	str("TABLEGATE_CREDENTIALS_FILE", &c.Bigtable.CredentialsFile)
	str(envEmulatorHost, &c.Bigtable.EmulatorHost)

	num("TABLEGATE_POOL_CHANNELS", &c.Pool.Channels)
	num("TABLEGATE_POOL_MAX_REQUESTS_PER_CHANNEL", &c.Pool.MaxRequestsPerChannel)
	num("TABLEGATE_POOL_TIMEOUT_MS", &c.Pool.TimeoutMs)
	num("TABLEGATE_POOL_WORKERS", &c.Pool.Workers)

	num("TABLEGATE_RETRY_MAX_RETRIES", &c.Retry.MaxRetries)
	num("TABLEGATE_RETRY_INITIAL_DELAY_MS", &c.Retry.InitialDelayMs)
	num("TABLEGATE_RETRY_MAX_DELAY_MS", &c.Retry.MaxDelayMs)
	if v, ok := os.LookupEnv("TABLEGATE_RETRY_MULTIPLIER"); ok {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errGrp = append(errGrp, fmt.Errorf("invalid TABLEGATE_RETRY_MULTIPLIER value: %w", err))
		}
		c.Retry.Multiplier = m
	}

	str("TABLEGATE_JWT_SECRET", &c.Auth.JWTSecret)
	str("TABLEGATE_JWT_ISSUER", &c.Auth.Issuer)
	str("TABLEGATE_JWT_AUDIENCE", &c.Auth.Audience)

	str("TABLEGATE_CHANGEFEED_ADDRESS", &c.ChangeFeed.Address)
	num("TABLEGATE_CHANGEFEED_PORT", &c.ChangeFeed.Port)

	return errors.Join(errGrp...)
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Server.Address == "" {
		errGrp = append(errGrp, errors.New("server address is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errGrp = append(errGrp, fmt.Errorf("invalid server port: %d", c.Server.Port))
	}
	if c.Bigtable.ProjectID == "" {
		errGrp = append(errGrp, errors.New("bigtable project id is required"))
	}
	if c.Bigtable.InstanceID == "" {
		errGrp = append(errGrp, errors.New("bigtable instance id is required"))
	}
	if c.Pool.Channels < 1 {
		errGrp = append(errGrp, fmt.Errorf("pool channels must be positive: %d", c.Pool.Channels))
	}
	if c.Pool.MaxRequestsPerChannel < 0 {
		errGrp = append(errGrp, fmt.Errorf("pool max requests per channel cannot be negative: %d", c.Pool.MaxRequestsPerChannel))
	}
	if c.Pool.TimeoutMs < 0 {
		errGrp = append(errGrp, fmt.Errorf("pool timeout cannot be negative: %d", c.Pool.TimeoutMs))
	}
	if c.Pool.Workers < 0 {
		errGrp = append(errGrp, fmt.Errorf("pool workers cannot be negative: %d", c.Pool.Workers))
	}
	if c.Retry.MaxRetries < 0 {
		errGrp = append(errGrp, fmt.Errorf("max retries cannot be negative: %d", c.Retry.MaxRetries))
	}
	if c.Retry.MaxRetries > 0 {
		if c.Retry.InitialDelayMs < 1 {
			errGrp = append(errGrp, fmt.Errorf("retry initial delay must be positive: %d", c.Retry.InitialDelayMs))
		}
		if c.Retry.MaxDelayMs < c.Retry.InitialDelayMs {
			errGrp = append(errGrp, fmt.Errorf("retry max delay %d is below initial delay %d",
				c.Retry.MaxDelayMs, c.Retry.InitialDelayMs))
		}
		if c.Retry.Multiplier < 1 {
			errGrp = append(errGrp, fmt.Errorf("retry multiplier must be at least 1: %g", c.Retry.Multiplier))
		}
	}
	if c.ChangeFeed.Port < 0 || c.ChangeFeed.Port > 65535 {
		errGrp = append(errGrp, fmt.Errorf("invalid change feed port: %d", c.ChangeFeed.Port))
	}
	return errors.Join(errGrp...)
}
