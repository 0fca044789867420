package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the global configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Backend      BackendConfig      `mapstructure:"backend"`
	Workflow     WorkflowConfig     `mapstructure:"workflow"`
	Store        StoreConfig        `mapstructure:"store"`
	Server       ServerConfig       `mapstructure:"server"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// BackendConfig points at the logistics REST API.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WorkflowConfig tunes the reconciliation workflow.
type WorkflowConfig struct {
	Kind     string        `mapstructure:"kind"`
	BranchID string        `mapstructure:"branch_id"`
	Debounce time.Duration `mapstructure:"debounce"`
	// EngagementThreshold is how many scanned-valid members a manifest needs
	// before its gaps are reported as missing.
	EngagementThreshold  int    `mapstructure:"engagement_threshold"`
	ReportUnscannedAdded bool   `mapstructure:"report_unscanned_added"`
	Timezone             string `mapstructure:"timezone"`
}

// StoreConfig selects where workflow state is persisted.
type StoreConfig struct {
	Driver string       `mapstructure:"driver"` // badger | redis
	Badger BadgerConfig `mapstructure:"badger"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type BadgerConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type ConnectivityConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "reconciler")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("workflow.kind", "unloading")
	v.SetDefault("workflow.branch_id", "")
	v.SetDefault("workflow.debounce", 500*time.Millisecond)
	v.SetDefault("workflow.engagement_threshold", 1)
	v.SetDefault("workflow.timezone", "America/Hermosillo")
	v.SetDefault("store.driver", "badger")
	v.SetDefault("store.badger.path", ".reconciler/state")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.key_prefix", "reconciler:")
	v.SetDefault("server.port", "8080")
	v.SetDefault("connectivity.interval", 10*time.Second)
	v.SetDefault("connectivity.probe_timeout", 3*time.Second)
}

// Load reads the YAML file at configPath, if any, and applies RECONCILER_*
// environment overrides on top of the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("reconciler")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Workflow.EngagementThreshold < 1 {
		return fmt.Errorf("workflow.engagement_threshold must be at least 1")
	}
	if c.Workflow.Debounce < 0 {
		return fmt.Errorf("workflow.debounce must not be negative")
	}
	if _, err := time.LoadLocation(c.Workflow.Timezone); err != nil {
		return fmt.Errorf("workflow.timezone: %w", err)
	}
	switch c.Store.Driver {
	case "badger":
		if c.Store.Badger.Path == "" && !c.Store.Badger.InMemory {
			return fmt.Errorf("store.badger.path is required")
		}
	case "redis":
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required")
		}
	default:
		return fmt.Errorf("store.driver %q is not supported", c.Store.Driver)
	}
	return nil
}
