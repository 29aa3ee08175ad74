// Package profile holds the runtime configuration for the folio server.
package profile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/folio-reader/folio/internal/version"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where folio stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AI configuration for the passage-explanation endpoint.
	AIEnabled   bool   // FOLIO_AI_ENABLED
	AIBaseURL   string // FOLIO_AI_BASE_URL (default: https://api.openai.com/v1)
	AIAPIKey    string // FOLIO_AI_API_KEY
	AIChatModel string // FOLIO_AI_CHAT_MODEL (default: gpt-4o-mini)

	// ExplainConcurrency bounds simultaneous in-flight LLM calls.
	ExplainConcurrency int
	// ExplainRatePerMin bounds explanation requests per minute per instance.
	ExplainRatePerMin int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		return errors.Errorf("invalid mode %q, expected prod or dev", p.Mode)
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	switch p.Driver {
	case "sqlite", "postgres":
	default:
		return errors.Errorf("invalid driver %q, expected sqlite or postgres", p.Driver)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}
	return nil
}

// Load builds a profile from the optional config file plus FOLIO_* environment
// variables; environment wins over the file, the file over defaults.
func Load(configFile string) (*Profile, error) {
	v := viper.New()
	v.SetConfigName("folio")
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.folio")
	}

	v.SetEnvPrefix("folio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "dev")
	v.SetDefault("addr", "")
	v.SetDefault("port", 8081)
	v.SetDefault("data", ".")
	v.SetDefault("driver", "sqlite")
	v.SetDefault("dsn", "")
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.base-url", "https://api.openai.com/v1")
	v.SetDefault("ai.api-key", "")
	v.SetDefault("ai.chat-model", "gpt-4o-mini")
	v.SetDefault("explain.concurrency", 3)
	v.SetDefault("explain.rate-per-min", 30)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && configFile != "" {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	p := &Profile{
		Mode:               v.GetString("mode"),
		Addr:               v.GetString("addr"),
		Port:               v.GetInt("port"),
		Data:               v.GetString("data"),
		DSN:                v.GetString("dsn"),
		Driver:             v.GetString("driver"),
		AIEnabled:          v.GetBool("ai.enabled"),
		AIBaseURL:          v.GetString("ai.base-url"),
		AIAPIKey:           v.GetString("ai.api-key"),
		AIChatModel:        v.GetString("ai.chat-model"),
		ExplainConcurrency: v.GetInt("explain.concurrency"),
		ExplainRatePerMin:  v.GetInt("explain.rate-per-min"),
	}
	p.Version = version.GetCurrentVersion(p.Mode)

	if p.DSN == "" && p.Driver == "sqlite" {
		p.DSN = fmt.Sprintf("%s/folio_%s.db", p.Data, p.Mode)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
