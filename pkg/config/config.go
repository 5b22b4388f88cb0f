package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/filedock.yaml"
	environmentENV    = "ENVIRONMENT"
)

// Config is loaded from defaults, then an optional YAML file, then environment
// variables, with later sources overriding earlier ones. Keys are the
// snake_case field names; the matching env var is the upper-cased key.
type Config struct {
	RootPath           string `koanf:"root_path" json:"root_path" required:"true"`
	ServerHost         string `koanf:"server_host" json:"server_host" default:"0.0.0.0"`
	ServerPort         int    `koanf:"server_port" json:"server_port" default:"5080"`
	MaxUploadSizeMB    int    `koanf:"max_upload_size_mb" json:"max_upload_size_mb" default:"512"`
	CaseSensitivePaths bool   `koanf:"case_sensitive_paths" json:"case_sensitive_paths"`
	MetricsEnabled     bool   `koanf:"metrics_enabled" json:"metrics_enabled" default:"true"`
	CORSAllowOrigins   string `koanf:"cors_allow_origins" json:"cors_allow_origins" default:"*"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading config file %s", configFile)
		}
	}

	// Only the env vars that match a config key are picked up when
	// unmarshaling, so loading the whole environment is fine. Empty values
	// are skipped so that they don't clobber the file.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	applyEnvironmentDefaults(cfg, os.Getenv(environmentENV))

	if err := validateRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config with defaults suitable for tests. RootPath is
// left for the test to fill in, usually with t.TempDir().
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.ServerHost = "127.0.0.1"
	cfg.MetricsEnabled = false
	return cfg
}

// MaxUploadSizeBytes is the largest request body accepted by the server.
func (cfg *Config) MaxUploadSizeBytes() int64 {
	return int64(cfg.MaxUploadSizeMB) << 20
}

// AllowOrigins splits CORSAllowOrigins on commas.
func (cfg *Config) AllowOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(cfg.CORSAllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func validateRequired(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("required") != "true" {
			continue
		}
		if v.Field(i).IsZero() {
			key := toSnakeCase(field.Name)
			return errors.Errorf("missing required config: %s (env) or %s (config file)", strings.ToUpper(key), key)
		}
	}
	return nil
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
