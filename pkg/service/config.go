package service

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env"
	"github.com/go-yaml/yaml"
)

// Duration is a time.Duration that decodes from strings such as "10m".
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	return d.UnmarshalText([]byte(s))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Config struct {
	Log struct {
		Level     string                 `yaml:"level" toml:"level" env:"SBI_LOG_LEVEL"`
		Formatter string                 `yaml:"formatter" toml:"formatter" env:"SBI_LOG_FORMAT"`
		Fields    map[string]interface{} `yaml:"fields" toml:"fields"`
	} `yaml:"log" toml:"log"`

	HTTP struct {
		Addr         string   `yaml:"addr" toml:"addr" env:"SBI_HTTP_ADDR"`
		APIRoot      string   `yaml:"api_root" toml:"api_root" env:"SBI_HTTP_API_ROOT"`
		ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout"`
		WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout"`
	} `yaml:"http" toml:"http"`

	Callback struct {
		Addr    string `yaml:"addr" toml:"addr" env:"SBI_CALLBACK_ADDR"`
		Enabled bool   `yaml:"enabled" toml:"enabled" env:"SBI_CALLBACK_ENABLED"`
	} `yaml:"callback" toml:"callback"`

	Auth struct {
		Mode       string `yaml:"mode" toml:"mode" env:"SBI_AUTH_MODE"`
		SigningKey string `yaml:"signing_key" toml:"signing_key" env:"SBI_AUTH_SIGNING_KEY"`
		Subject    string `yaml:"subject" toml:"subject" env:"SBI_AUTH_SUBJECT"`
	} `yaml:"auth" toml:"auth"`

	Dispatch struct {
		GenericErrorStatus int `yaml:"generic_error_status" toml:"generic_error_status" env:"SBI_GENERIC_ERROR_STATUS"`
	} `yaml:"dispatch" toml:"dispatch"`

	NRF struct {
		InstanceID      string   `yaml:"instance_id" toml:"instance_id" env:"SBI_NRF_INSTANCE_ID"`
		SearchCacheSize int      `yaml:"search_cache_size" toml:"search_cache_size" env:"SBI_NRF_SEARCH_CACHE_SIZE"`
		SearchValidity  Duration `yaml:"search_validity" toml:"search_validity"`
		ExpiryInterval  Duration `yaml:"expiry_interval" toml:"expiry_interval"`
	} `yaml:"nrf" toml:"nrf"`

	SMF struct {
		InstanceID        string   `yaml:"instance_id" toml:"instance_id" env:"SBI_SMF_INSTANCE_ID"`
		NotifyTimeout     Duration `yaml:"notify_timeout" toml:"notify_timeout"`
		NotifyConcurrency int      `yaml:"notify_concurrency" toml:"notify_concurrency" env:"SBI_SMF_NOTIFY_CONCURRENCY"`
	} `yaml:"smf" toml:"smf"`
}

func DefaultConfig() *Config {
	config := &Config{}
	config.Log.Level = "debug"
	config.Log.Formatter = "text"
	config.HTTP.Addr = ":8080"
	config.HTTP.APIRoot = "http://localhost:8080"
	config.HTTP.ReadTimeout = Duration(30 * time.Second)
	config.HTTP.WriteTimeout = Duration(30 * time.Second)
	config.Callback.Addr = ":8081"
	config.Callback.Enabled = true
	config.Auth.Mode = "allow-all"
	config.Auth.Subject = "anonymous"
	config.Dispatch.GenericErrorStatus = 500
	config.NRF.InstanceID = "7f2b3c1e-0000-4000-8000-000000000001"
	config.NRF.SearchCacheSize = 128
	config.NRF.SearchValidity = Duration(10 * time.Minute)
	config.NRF.ExpiryInterval = Duration(time.Minute)
	config.SMF.InstanceID = "7f2b3c1e-0000-4000-8000-000000000002"
	config.SMF.NotifyTimeout = Duration(5 * time.Second)
	config.SMF.NotifyConcurrency = 4

	return config
}

// ResolveConfig determines the application's config location and loads it.
func ResolveConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("SBI_CONFIG_PATH")
	}

	if configPath == "" {
		config := DefaultConfig()
		if err := applyEnvironment(config); err != nil {
			return nil, err
		}

		return config, nil
	}

	fp, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration: %v", err)
	}

	defer fp.Close()
	config, err := ParseConfig(fp, strings.TrimPrefix(path.Ext(configPath), "."))
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %v", configPath, err)
	}

	return config, nil
}

// ValidateConfig determines if the configuration is prepared correctly and valid to use.
func ValidateConfig(config *Config) (*Config, error) {
	switch config.Log.Formatter {
	case "text", "json":
	default:
		return nil, fmt.Errorf("log.formatter: unsupported formatter %q", config.Log.Formatter)
	}

	if config.HTTP.Addr == "" {
		return nil, fmt.Errorf("http.addr: required")
	}

	config.HTTP.APIRoot = strings.TrimSuffix(config.HTTP.APIRoot, "/")
	if config.Callback.Enabled && config.Callback.Addr == "" {
		return nil, fmt.Errorf("callback.addr: required when callbacks are enabled")
	}

	switch config.Auth.Mode {
	case "jwt":
		if config.Auth.SigningKey == "" {
			return nil, fmt.Errorf("auth.signing_key: required for jwt mode")
		}
	case "allow-all", "none":
	default:
		return nil, fmt.Errorf("auth.mode: unsupported mode %q", config.Auth.Mode)
	}

	if s := config.Dispatch.GenericErrorStatus; s < 400 || s > 599 {
		return nil, fmt.Errorf("dispatch.generic_error_status: %d is not an error status", s)
	}

	if config.NRF.SearchCacheSize <= 0 {
		return nil, fmt.Errorf("nrf.search_cache_size: must be positive")
	}

	if config.NRF.SearchValidity <= 0 || config.NRF.ExpiryInterval <= 0 {
		return nil, fmt.Errorf("nrf: search_validity and expiry_interval must be positive")
	}

	if config.SMF.NotifyConcurrency <= 0 {
		return nil, fmt.Errorf("smf.notify_concurrency: must be positive")
	}

	return config, nil
}

// ParseConfig loads the configuration from a reader on top of the defaults
// and applies environment overrides.
func ParseConfig(rd io.Reader, parser string) (*Config, error) {
	in, err := ioutil.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch parser {
	case "yml", "yaml":
		if err := yaml.Unmarshal(in, config); err != nil {
			return nil, err
		}

	case "toml":
		if _, err := toml.Decode(string(in), config); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported config format %q", parser)
	}

	if err := applyEnvironment(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvironment overrides config values from SBI_* variables. The env
// parser does not descend into value struct fields, so each section is
// parsed on its own.
func applyEnvironment(config *Config) error {
	sections := []interface{}{
		&config.Log,
		&config.HTTP,
		&config.Callback,
		&config.Auth,
		&config.Dispatch,
		&config.NRF,
		&config.SMF,
	}

	for _, section := range sections {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("environment: %v", err)
		}
	}

	return nil
}
