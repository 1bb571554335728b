package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces environment overrides, e.g. IGNEWS_PRISMIC_ENDPOINT.
const EnvPrefix = "IGNEWS"

type Config struct {
	SiteTitle string  `mapstructure:"siteTitle"`
	OutputDir string  `mapstructure:"outputDir"`
	BaseURL   string  `mapstructure:"baseURL"`
	Locale    string  `mapstructure:"locale"`
	Timezone  string  `mapstructure:"timezone"`
	LogLevel  string  `mapstructure:"logLevel"`
	Prismic   Prismic `mapstructure:"prismic"`
}

type Prismic struct {
	Endpoint    string        `mapstructure:"endpoint"`
	AccessToken string        `mapstructure:"accessToken"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Load reads defaults, the optional config file and IGNEWS_* environment variables.
// An explicit cfgFile must exist; otherwise ./config.yaml is used when present.
// The returned path is the config file actually read, or "".
func Load(cfgFile string) (*Config, string, error) {
	v := viper.New()

	v.SetDefault("siteTitle", "ignews")
	v.SetDefault("outputDir", "public")
	v.SetDefault("baseURL", "")
	v.SetDefault("locale", "pt-BR")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("logLevel", "info")
	v.SetDefault("prismic.endpoint", "")
	v.SetDefault("prismic.accessToken", "")
	v.SetDefault("prismic.timeout", "10s")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFile == "":
		case cfgFile != "" && errors.Is(err, os.ErrNotExist):
			return nil, "", fmt.Errorf("config file %s not found: %w", cfgFile, err)
		default:
			return nil, "", fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	return &cfg, v.ConfigFileUsed(), nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Prismic.Endpoint) == "" {
		return fmt.Errorf("prismic.endpoint is required (or set %s_PRISMIC_ENDPOINT)", EnvPrefix)
	}
	u, err := url.Parse(c.Prismic.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("prismic.endpoint %q must be an absolute http(s) URL", c.Prismic.Endpoint)
	}
	if c.Prismic.Timeout <= 0 {
		return fmt.Errorf("prismic.timeout must be positive")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("outputDir must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone used to format publication dates.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadParams reads the free-form "params" section of a YAML config file for templates.
func LoadParams(filename string) (map[string]interface{}, error) {
	if filename == "" {
		return map[string]interface{}{}, nil
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", filename, err)
	}

	var doc struct {
		Params map[string]interface{} `yaml:"params"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", filename, err)
	}
	if doc.Params == nil {
		doc.Params = map[string]interface{}{}
	}
	return doc.Params, nil
}
