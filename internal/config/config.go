package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `yaml:"Server"`
	DB         DBConfig         `yaml:"DB"`
	Token      TokenConfig      `yaml:"Token"`
	Provider   ProviderConfig   `yaml:"Provider"`
	Reconciler ReconcilerConfig `yaml:"Reconciler"`
	Logger     LoggerConfig     `yaml:"Logger"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DBConfig struct {
	DatabaseURL        string        `yaml:"databaseURL"`
	MaxOpenConnection  int           `yaml:"maxOpenConnection"`
	MaxIdleConnection  int           `yaml:"maxIdleConnection"`
	ConnectionLifetime time.Duration `yaml:"connectionLifetime"`
}

type TokenConfig struct {
	AuthToken  string `yaml:"authToken"`
	AdminToken string `yaml:"adminToken"`
}

type ProviderConfig struct {
	BaseURL       string        `yaml:"baseURL"`
	APIKey        string        `yaml:"apiKey"`
	WebhookSecret string        `yaml:"webhookSecret"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxAttempts   int           `yaml:"maxAttempts"`
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"staleAfter"`
}

type LoggerConfig struct {
	LoggerLevel string `yaml:"loggerLevel"`
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("db.maxOpenConnection", 15)
	viper.SetDefault("db.maxIdleConnection", 10)
	viper.SetDefault("db.connectionLifetime", time.Hour)
	viper.SetDefault("provider.timeout", 15*time.Second)
	viper.SetDefault("provider.maxAttempts", 4)
	viper.SetDefault("reconciler.interval", time.Minute)
	viper.SetDefault("reconciler.staleAfter", 10*time.Minute)
	viper.SetDefault("logger.loggerLevel", "info")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./internal/config")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warn("config file not found, using defaults and environment")
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		logrus.Infof("using config file: %s", viper.ConfigFileUsed())
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &config, nil
}
