// Package config loads server settings from defaults, an optional YAML file,
// RPG_NARRATOR_* environment variables and command-line flags, in rising
// order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "RPG_NARRATOR"

// LockMargin is the headroom turn.lock_ttl needs beyond two narrator calls
const LockMargin = 30 * time.Second

// Narrator providers
const (
	ProviderGemini = "gemini"
	ProviderEcho   = "echo"
)

// Config is the full server configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Narrator NarratorConfig `mapstructure:"narrator"`
	Turn     TurnConfig     `mapstructure:"turn"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds listener settings
type ServerConfig struct {
	GRPCPort        int           `mapstructure:"grpc_port"`
	HTTPPort        int           `mapstructure:"http_port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds the store connection
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// NarratorConfig selects and tunes the generation service
type NarratorConfig struct {
	Provider         string        `mapstructure:"provider"`
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxOutputTokens  int           `mapstructure:"max_output_tokens"`
	SummaryMaxTokens int           `mapstructure:"summary_max_tokens"`
}

// TurnConfig tunes turn processing
type TurnConfig struct {
	TokenCeiling int           `mapstructure:"token_ceiling"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flagKeys maps command-line flags onto config keys
var flagKeys = map[string]string{
	"grpc-port":         "server.grpc_port",
	"http-port":         "server.http_port",
	"redis-addr":        "redis.addr",
	"narrator-provider": "narrator.provider",
	"narrator-model":    "narrator.model",
	"token-ceiling":     "turn.token_ceiling",
	"log-level":         "log.level",
	"log-format":        "log.format",
}

// RegisterFlags adds the overridable settings to a flag set
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file")
	flags.Int("grpc-port", 50051, "gRPC listen port")
	flags.Int("http-port", 8080, "HTTP listen port for /ws and /healthz")
	flags.String("redis-addr", "localhost:6379", "Redis address")
	flags.String("narrator-provider", ProviderGemini, "narrator provider (gemini|echo)")
	flags.String("narrator-model", "", "narrator model name")
	flags.Int("token-ceiling", 8000, "running token total that triggers history compaction")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
	flags.String("log-format", "json", "log format (json|text)")
}

// Load builds the configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("narrator.api_key", EnvPrefix+"_NARRATOR_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, errors.Wrap(err, "failed to bind api key env")
	}

	if flags != nil {
		if path, err := flags.GetString("config"); err == nil && path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.InvalidArgumentf("failed to read config %s: %v", path, err)
			}
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "failed to bind flag %s", name)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.InvalidArgumentf("failed to decode config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("narrator.provider", ProviderGemini)
	v.SetDefault("narrator.api_key", "")
	v.SetDefault("narrator.model", "")
	v.SetDefault("narrator.timeout", "60s")
	v.SetDefault("narrator.max_output_tokens", 1024)
	v.SetDefault("narrator.summary_max_tokens", 512)
	v.SetDefault("turn.token_ceiling", 8000)
	v.SetDefault("turn.lock_ttl", "3m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks every section
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	validatePort("server.grpc_port", c.Server.GRPCPort, vb)
	validatePort("server.http_port", c.Server.HTTPPort, vb)
	if c.Server.GRPCPort == c.Server.HTTPPort {
		vb.Field("server.http_port", "must differ from server.grpc_port")
	}
	errors.ValidateRequired("redis.addr", c.Redis.Addr, vb)
	errors.ValidateEnum("narrator.provider", c.Narrator.Provider, []string{ProviderGemini, ProviderEcho}, vb)
	if c.Narrator.Provider == ProviderGemini && c.Narrator.APIKey == "" {
		vb.Field("narrator.api_key", "is required for the gemini provider")
	}
	if c.Narrator.Timeout <= 0 {
		vb.Field("narrator.timeout", "must be positive")
	}
	errors.ValidatePositive("narrator.max_output_tokens", c.Narrator.MaxOutputTokens, vb)
	errors.ValidatePositive("narrator.summary_max_tokens", c.Narrator.SummaryMaxTokens, vb)
	errors.ValidatePositive("turn.token_ceiling", c.Turn.TokenCeiling, vb)
	// A turn makes a narration call and possibly a summary call under one lock
	if minTTL := 2*c.Narrator.Timeout + LockMargin; c.Turn.LockTTL <= minTTL {
		vb.Fieldf("turn.lock_ttl", "must exceed twice narrator.timeout plus %s (%s)", LockMargin, minTTL)
	}
	errors.ValidateEnum("log.level", strings.ToLower(c.Log.Level), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("log.format", strings.ToLower(c.Log.Format), []string{"json", "text"}, vb)

	return vb.Build()
}

func validatePort(field string, port int, vb *errors.ValidationBuilder) {
	if port <= 0 || port > 65535 {
		vb.Fieldf(field, "must be between 1 and 65535, got %d", port)
	}
}
