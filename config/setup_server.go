package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	ServerAddr     string         `yaml:"serverAddr"`
	S3Config       S3Config       `yaml:"s3Config"`
	Keys           KeysConfig     `yaml:"keys"`
	Webhook        WebhookConfig  `yaml:"webhook"`
	TTL            TTL            `yaml:"TTL"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Keys.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate : секреты обязательны, без них процесс стартовать не должен
// Никаких зашитых значений по умолчанию — это была уязвимость
func (k *KeysConfig) Validate() error {
	if k.SessionSecret == "" {
		return fmt.Errorf("keys.session_secret не задан в конфигурации")
	}
	if k.CapabilitySecret == "" {
		return fmt.Errorf("keys.capability_secret не задан в конфигурации")
	}
	if k.EncryptionPassphrase == "" {
		return fmt.Errorf("keys.encryption_passphrase не задан в конфигурации")
	}
	if k.EncryptionSalt == "" {
		return fmt.Errorf("keys.encryption_salt не задан в конфигурации")
	}
	return nil
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
