package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	Enabled    bool `mapstructure:"enabled"`     // false = in-memory LRU instead of Redis
	TTLSec     int  `mapstructure:"ttl_sec"`     // per-entry TTL for resource caches
	MemorySize int  `mapstructure:"memory_size"` // entries per namespace for the LRU fallback
}

type ExternalAPI struct {
	BaseURL       string `mapstructure:"base_url"`
	TimeoutMs     int    `mapstructure:"timeout_ms"`
	RetryAttempts int    `mapstructure:"retry_attempts"`
	RetryDelayMs  int    `mapstructure:"retry_delay_ms"`
	CacheTTLSec   int    `mapstructure:"cache_ttl_sec"`
}

// Auth guards the operator surface (cache administration), not the User
// resource; resource entities carry no credentials.
type Auth struct {
	JWTSecret         string `mapstructure:"jwt_secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
	AdminUser         string `mapstructure:"admin_user"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"` // bcrypt
}

type Config struct {
	App         App
	Log         Log
	DB          DB
	Redis       Redis       `mapstructure:"redis"`
	Cache       Cache       `mapstructure:"cache"`
	ExternalAPI ExternalAPI `mapstructure:"external_api"`
	Auth        Auth        `mapstructure:"auth"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("cache.ttl_sec", 300)
	v.SetDefault("cache.memory_size", 1024)
	v.SetDefault("external_api.base_url", "https://jsonplaceholder.typicode.com")
	v.SetDefault("external_api.timeout_ms", 5000)
	v.SetDefault("external_api.retry_attempts", 3)
	v.SetDefault("external_api.retry_delay_ms", 1000)
	v.SetDefault("external_api.cache_ttl_sec", 600)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}
