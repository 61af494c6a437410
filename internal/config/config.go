package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const DefaultAPIBaseURL = "https://jobs-backend-z4z9.onrender.com/api"

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
		// Публичный адрес сайта (для OAuth redirect и ссылок в письмах)
		PublicURL      string   `yaml:"public_url"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		// Прокси, чьему X-Forwarded-For верить; пусто - только RemoteAddr
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	API struct {
		BaseURL        string  `yaml:"base_url"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RatePerSecond  float64 `yaml:"rate_per_second"`
		Burst          int     `yaml:"burst"`
	} `yaml:"api"`

	Session struct {
		Store        string `yaml:"store"` // cookie, db
		CookieSecure bool   `yaml:"cookie_secure"`
		MaxAgeDays   int    `yaml:"max_age_days"`
		// Сколько секунд держать пользователя в кэше по токену
		UserCacheTTL int `yaml:"user_cache_ttl"`
	} `yaml:"session"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Storage struct {
		Type      string `yaml:"type"`      // local, s3, cloudflare_r2
		BasePath  string `yaml:"base_path"` // For local storage
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Endpoint  string `yaml:"endpoint"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
		ImageQuality int      `yaml:"image_quality"`
		// Файлы брошенных форм профиля удаляются через столько часов
		StagedTTLHours int `yaml:"staged_ttl_hours"`
	} `yaml:"upload"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Google struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"google"`

	Limits struct {
		LoginPerMinute int `yaml:"login_per_minute"`
	} `yaml:"limits"`
}

var AppConfig *Config

// LoadConfig: config.yaml, либо (если задан API_BASE_URL) только переменные окружения
func LoadConfig() {
	// .env не обязателен
	_ = godotenv.Load()

	var cfg Config

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		cfg.ApplyDefaults()
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment variables")

	cfg.API.BaseURL = apiURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.PublicURL = os.Getenv("PUBLIC_URL")
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.Server.TrustedProxies = strings.Split(proxies, ",")
	}

	cfg.Session.Store = os.Getenv("SESSION_STORE")
	cfg.Session.CookieSecure = os.Getenv("COOKIE_SECURE") == "true"
	cfg.Database.Driver = os.Getenv("DATABASE_DRIVER")
	cfg.Database.DSN = os.Getenv("DATABASE_URL")

	cfg.Storage.Type = os.Getenv("STORAGE_TYPE")
	cfg.Storage.BasePath = os.Getenv("STORAGE_PATH")
	cfg.Storage.Bucket = os.Getenv("STORAGE_BUCKET")
	cfg.Storage.Endpoint = os.Getenv("STORAGE_ENDPOINT")
	cfg.Storage.AccessKey = os.Getenv("STORAGE_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("STORAGE_SECRET_KEY")

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")

	cfg.Google.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.Google.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	cfg.ApplyDefaults()
	AppConfig = &cfg
}

// ApplyDefaults заполняет незаданные поля
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://localhost:" + strconv.Itoa(c.Server.Port)
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.API.RatePerSecond <= 0 {
		c.API.RatePerSecond = 20
	}
	if c.API.Burst <= 0 {
		c.API.Burst = 40
	}
	if c.Session.Store == "" {
		c.Session.Store = "cookie"
	}
	if c.Session.MaxAgeDays <= 0 {
		c.Session.MaxAgeDays = 30
	}
	if c.Session.UserCacheTTL <= 0 {
		c.Session.UserCacheTTL = 60
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.BasePath == "" {
		c.Storage.BasePath = "./uploads"
	}
	if c.Upload.MaxSize <= 0 {
		c.Upload.MaxSize = 5 * 1024 * 1024 // 5MB
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png",
			"application/pdf", "application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		}
	}
	if c.Upload.ImageQuality <= 0 {
		c.Upload.ImageQuality = 85
	}
	if c.Upload.StagedTTLHours <= 0 {
		c.Upload.StagedTTLHours = 24
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "FIIT Jobs"
	}
	if c.Limits.LoginPerMinute <= 0 {
		c.Limits.LoginPerMinute = 10
	}
}

func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) UserCacheTTL() time.Duration {
	return time.Duration(c.Session.UserCacheTTL) * time.Second
}

func (c *Config) StagedUploadTTL() time.Duration {
	return time.Duration(c.Upload.StagedTTLHours) * time.Hour
}

func (c *Config) SessionMaxAge() time.Duration {
	return time.Duration(c.Session.MaxAgeDays) * 24 * time.Hour
}

// EmailEnabled - SMTP настроен
func (c *Config) EmailEnabled() bool {
	return c.Email.SMTPHost != "" && c.Email.FromEmail != ""
}

// GoogleEnabled - настроен OAuth клиент Google
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != ""
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
