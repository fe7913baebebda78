package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

// KeysConfig : секреты хранилища, все поля обязательны при старте
// session_secret — подпись принципалов внешней системы (пациент/врач)
// capability_secret — подпись capability-токенов доступа к документам
// encryption_passphrase + encryption_salt — материал для вывода AES-ключа (argon2id)
type KeysConfig struct {
	SessionSecret        string `yaml:"session_secret"`
	CapabilitySecret     string `yaml:"capability_secret"`
	EncryptionPassphrase string `yaml:"encryption_passphrase"`
	EncryptionSalt       string `yaml:"encryption_salt"`
}

// WebhookConfig : операционный канал оповещений (сбои журнала доступа)
type WebhookConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// TTL : время жизни кэша метаданных в Redis, в секундах
type TTL struct {
	Redis int `yaml:"redis"`
}
