package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN      string
		MaxConns int32 `mapstructure:"max_conns"`
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Log struct {
		File       string
		MaxSizeMB  int `mapstructure:"max_size_mb"`
		MaxBackups int `mapstructure:"max_backups"`
	} `mapstructure:"log"`
}

// Load читает YAML-конфиг и накладывает переменные окружения APP_*.
// Если рядом лежит .env, он подхватывается до чтения окружения.
func Load(path string) (Config, error) {
	var c Config
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)

	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Postgres.DSN == "" {
		return c, errors.New("config: postgres.dsn is empty")
	}
	return c, nil
}
