package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Session Session `yaml:"session"`
}

type Server struct {
	Bind          string `yaml:"bind"`
	BaseURL       string `yaml:"baseURL"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Session struct {
	Secret string `yaml:"secret"`
	// TTL is the session lifetime as a Go duration string, e.g. "24h".
	TTL string `yaml:"ttl"`

	// ---
	Lifetime time.Duration
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.Bind == "" {
		config.Server.Bind = ":8000"
	}
	config.Session.Lifetime = 24 * time.Hour
	if config.Session.TTL != "" {
		lifetime, err := time.ParseDuration(config.Session.TTL)
		if err != nil {
			return Config{}, fmt.Errorf("invalid session ttl: %w", err)
		}
		config.Session.Lifetime = lifetime
	}
	if len(config.Session.Secret) < 32 {
		return Config{}, fmt.Errorf("session secret must be at least 32 bytes")
	}

	return config, nil
}
