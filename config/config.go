package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Auth struct {
		SecretKey       string        `mapstructure:"secretKey"`
		AccessTokenTTL  time.Duration `mapstructure:"accessTokenTTL"`
		RefreshTokenTTL time.Duration `mapstructure:"refreshTokenTTL"`
		Issuer          string        `mapstructure:"issuer"`
	} `mapstructure:"auth"`
	Gemini struct {
		APIKey  string        `mapstructure:"apiKey"`
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"gemini"`
	// Generation holds the route engine design parameters. They are
	// deliberately configuration with documented defaults, not literals
	// buried in the engine.
	Generation struct {
		DurationTolerance      float64 `mapstructure:"durationTolerance"`
		MinResolvedSuggestions int     `mapstructure:"minResolvedSuggestions"`
		MaxSuggestions         int     `mapstructure:"maxSuggestions"`
		MaxStops               int     `mapstructure:"maxStops"`
	} `mapstructure:"generation"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config, fall back to the embedded copy.
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Secrets come from the environment, never from checked-in YAML.
	if key := os.Getenv("GOOGLE_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.Auth.SecretKey = secret
	}
	if password := os.Getenv("POSTGRES_PASSWORD"); password != "" {
		config.Repositories.Postgres.Password = password
	}

	return config, nil
}
