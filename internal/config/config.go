package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/inkpot-blog/core/internal/pkg/mail"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3001
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBName     = "blog"
	defaultRedisURL   = "redis://localhost:6379/0"
	defaultSendDelay  = 1000
	defaultLogDirName = "logs"
)

// AppConfig holds runtime startup configuration loaded from YAML with
// environment-variable fallbacks.
type AppConfig struct {
	Port           int              `yaml:"port"`
	Env            string           `yaml:"env"` // "development" | "production"
	AllowedOrigins []string         `yaml:"allowed_origins"`
	JWTSecret      string           `yaml:"jwt_secret"`
	LogDir         string           `yaml:"log_dir"`
	Database       DatabaseConfig   `yaml:"database"`
	RedisURL       string           `yaml:"redis_url"`
	Admin          AdminConfig      `yaml:"admin"`
	Mail           mail.Config      `yaml:"mail"`
	Newsletter     NewsletterConfig `yaml:"newsletter"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// AdminConfig is the single admin identity. The password is stored as a
// bcrypt hash, never in the clear.
type AdminConfig struct {
	Username       string `yaml:"username"`
	PasswordBcrypt string `yaml:"password_bcrypt"`
}

type NewsletterConfig struct {
	// SendDelayMS is the fixed pause between two subscriber sends, a
	// primitive throttle against provider rate limits.
	SendDelayMS int `yaml:"send_delay_ms"`
}

// Load reads the YAML config file, applies environment overrides and
// defaults, and validates required fields.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) || path != DefaultConfigPath {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

func (c *AppConfig) validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "jwt_secret / JWT_SECRET")
	}
	if c.Admin.Username == "" {
		missing = append(missing, "admin.username / ADMIN_USERNAME")
	}
	if c.Admin.PasswordBcrypt == "" {
		missing = append(missing, "admin.password_bcrypt / ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	setIfEnv(&cfg.Env, "NODE_ENV", "APP_ENV")
	setIfEnv(&cfg.JWTSecret, "JWT_SECRET")
	setIfEnv(&cfg.Database.DSN, "DATABASE_DSN")
	setIfEnv(&cfg.RedisURL, "REDIS_URL")
	setIfEnv(&cfg.Admin.Username, "ADMIN_USERNAME")
	setIfEnv(&cfg.Admin.PasswordBcrypt, "ADMIN_PASSWORD")
	setIfEnv(&cfg.Mail.User, "EMAIL_USER")
	setIfEnv(&cfg.Mail.Pass, "EMAIL_PASS")
	if cfg.Mail.User != "" && os.Getenv("EMAIL_USER") != "" {
		cfg.Mail.Enable = true
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, v)
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDirName
	}
	if cfg.Newsletter.SendDelayMS == 0 {
		cfg.Newsletter.SendDelayMS = defaultSendDelay
	}
}

func setIfEnv(dst *string, keys ...string) {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
			return
		}
	}
}
