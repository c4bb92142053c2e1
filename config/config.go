package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowOrigins    []string      `yaml:"allowOrigins"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	LogLevel string `yaml:"logLevel"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	Database int           `yaml:"database"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type RabbitConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type JWTConfig struct {
	PrivateKeyPath string        `yaml:"privateKeyPath"`
	PublicKeyPath  string        `yaml:"publicKeyPath"`
	Secret         string        `yaml:"secret"`
	TTL            time.Duration `yaml:"ttl"`
}

type SeedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
}

type CatalogConfig struct {
	Seed []SeedItem `yaml:"seed"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Rabbit   RabbitConfig   `yaml:"rabbit"`
	JWT      JWTConfig      `yaml:"jwt"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load 讀取.env後依CONFIG_PATH載入設定檔
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("無法讀取.env")
	}
	return LoadConfig(getenv("CONFIG_PATH", DefaultPath))
}

// LoadConfig 讀取YAML後套用環境變數與預設值，找不到檔案不視為錯誤
func LoadConfig(filename string) (Config, error) {
	var config Config
	file, err := os.Open(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn().Str("path", filename).Msg("找不到設定檔，使用預設值")
	case err != nil:
		return config, err
	default:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return config, err
		}
	}

	config.applyEnv()
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getenv("SERVER_ADDR", c.Server.Addr)
	c.Log.Level = getenv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenv("LOG_FORMAT", c.Log.Format)

	c.Database.Driver = getenv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getenv("DB_DSN", c.Database.DSN)
	c.Database.Host = getenv("DB_HOST", c.Database.Host)
	c.Database.Port = getenv("DB_PORT", c.Database.Port)
	c.Database.Username = getenv("DB_USER", c.Database.Username)
	c.Database.Password = getenv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getenv("DB_NAME", c.Database.Database)

	c.Redis.Addr = getenv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getenv("REDIS_PASSWORD", c.Redis.Password)
	if db, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		c.Redis.Database = db
	}

	c.Rabbit.URL = getenv("RABBIT_URL", c.Rabbit.URL)
	c.JWT.Secret = getenv("JWT_SECRET", c.JWT.Secret)
	c.JWT.PrivateKeyPath = getenv("JWT_PRIVATE_KEY", c.JWT.PrivateKeyPath)
	c.JWT.PublicKeyPath = getenv("JWT_PUBLIC_KEY", c.JWT.PublicKeyPath)
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 5 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}
	if c.Rabbit.Exchange == "" {
		c.Rabbit.Exchange = "ecommerce.events"
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = 24 * time.Hour
	}
	if c.Catalog.Seed == nil {
		c.Catalog.Seed = []SeedItem{
			{Name: "Round Widget", Description: "A widget that is round", Price: "2.99"},
			{Name: "Square Widget", Description: "A widget that is square", Price: "1.99"},
		}
	}
}
