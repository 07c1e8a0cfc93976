package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig - корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Plenty PlentyConfig `yaml:"plenty"`
	Cache  CacheConfig  `yaml:"cache"`
	S3     S3Config     `yaml:"s3"`
	App    AppSpecific  `yaml:"app"`
}

// PlentyConfig - подключение к REST API Plentymarkets.
type PlentyConfig struct {
	BaseURL          string `yaml:"base_url"`          // https://<system>.plentymarkets-cloud01.com
	Username         string `yaml:"username"`          // Поддерживает ${VAR}
	Password         string `yaml:"password"`          // Поддерживает ${VAR}
	Token            string `yaml:"token"`             // Готовый bearer токен, login не выполняется
	HostPattern      string `yaml:"host_pattern"`      // Regexp допустимых base_url
	RateLimit        int    `yaml:"rate_limit"`        // Запросов в минуту
	BurstLimit       int    `yaml:"burst_limit"`       // Burst для rate limiter
	RetryAttempts    int    `yaml:"retry_attempts"`    // Количество retry попыток
	Timeout          string `yaml:"timeout"`           // Timeout HTTP запроса (например, "30s")
	PageSize         int    `yaml:"page_size"`         // itemsPerPage для постраничных ответов
	BreakerThreshold int    `yaml:"breaker_threshold"` // Минимум запросов до размыкания
	BreakerTimeout   string `yaml:"breaker_timeout"`   // Сколько breaker остаётся открытым
	Timezone         string `yaml:"timezone"`          // IANA зона для дат без смещения
}

// GetDefaults возвращает копию с дефолтными значениями для незаполненных полей.
func (c *PlentyConfig) GetDefaults() PlentyConfig {
	result := *c

	if result.RateLimit == 0 {
		result.RateLimit = 60
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 5
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}
	if result.PageSize == 0 {
		result.PageSize = 250
	}
	if result.BreakerThreshold == 0 {
		result.BreakerThreshold = 5
	}
	if result.BreakerTimeout == "" {
		result.BreakerTimeout = "30s"
	}

	return result
}

// Location возвращает зону из Timezone или time.Local.
func (c *PlentyConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid plenty.timezone: %w", err)
	}
	return loc, nil
}

// CacheConfig - локальный кэш ответов API (SQLite).
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Path    string        `yaml:"path"`
	TTL     time.Duration `yaml:"ttl"` // Go умеет парсить строки вида "10m", "1h"
}

// GetDefaults возвращает копию с дефолтными значениями.
func (c *CacheConfig) GetDefaults() CacheConfig {
	result := *c
	if result.Path == "" {
		result.Path = "plenty-cache.db"
	}
	if result.TTL == 0 {
		result.TTL = 15 * time.Minute
	}
	return result
}

// S3Config - бакет для экспорта результатов.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"` // Префикс ключей экспорта, например "plenty/"
}

// Configured сообщает, что экспорт в S3 настроен.
func (c S3Config) Configured() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// AppSpecific - общие настройки приложения.
type AppSpecific struct {
	Debug  bool   `yaml:"debug"`
	LogDir string `yaml:"log_dir"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(rawBytes)
}

// Parse разбирает YAML из памяти: подстановка ${VAR}, дефолты, валидация.
func Parse(raw []byte) (*AppConfig, error) {
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(raw))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.Plenty = cfg.Plenty.GetDefaults()
	cfg.Cache = cfg.Cache.GetDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Plenty.BaseURL == "" {
		return fmt.Errorf("plenty.base_url is required")
	}
	if c.Plenty.Token == "" && (c.Plenty.Username == "" || c.Plenty.Password == "") {
		return fmt.Errorf("plenty.token or plenty.username/password is required")
	}
	if _, err := time.ParseDuration(c.Plenty.Timeout); err != nil {
		return fmt.Errorf("invalid plenty.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Plenty.BreakerTimeout); err != nil {
		return fmt.Errorf("invalid plenty.breaker_timeout: %w", err)
	}
	if _, err := c.Plenty.Location(); err != nil {
		return err
	}
	if c.S3.Bucket != "" && c.S3.Endpoint == "" {
		return fmt.Errorf("s3.endpoint is required when s3.bucket is set")
	}
	return nil
}
