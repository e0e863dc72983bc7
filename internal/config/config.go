package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the server needs that is not baked into code:
// listen port, database path, SMTP relay and the public base URL embedded
// in invitation emails.
type Config struct {
	Port   string `mapstructure:"port"`
	DBPath string `mapstructure:"db_path"`

	BaseURL string `mapstructure:"base_url"`

	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	MailFrom     string `mapstructure:"mail_from"`
}

// Load reads configuration from an optional config.yaml in the working
// directory, overridden by PCA_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", ":8008")
	v.SetDefault("db_path", "project-collab.db")
	v.SetDefault("base_url", "http://localhost:8008")
	// smtp_host stays empty by default; without it mail is logged instead
	// of sent.
	v.SetDefault("smtp_port", 25)
	v.SetDefault("mail_from", "no-reply@localhost")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; env vars and defaults cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
