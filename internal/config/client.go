package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClientConfig configures the plancli terminal client.
type ClientConfig struct {
	APIURL    string        `mapstructure:"api_url"`
	TokenPath string        `mapstructure:"token_path"`
	Timeout   time.Duration `mapstructure:"timeout"`
	LogLevel  string        `mapstructure:"log_level"`
}

// LoadClientConfig reads plancli.yaml from dir (optional) and GYMFLOW_*
// environment variables, e.g. GYMFLOW_API_URL.
func LoadClientConfig(dir string) (ClientConfig, error) {
	v := viper.New()
	v.SetConfigName("plancli")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix("gymflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	v.AutomaticEnv()

	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("token_path", defaultTokenPath())
	v.SetDefault("timeout", "15s")
	v.SetDefault("log_level", "warn")

	var cfg ClientConfig
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "gymflow", "token")
}
