// Package config собирает настройки процесса из окружения.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const minSecretLen = 16

type Config struct {
	PostgresConn  string        `env:"POSTGRES_CONN,required"`
	ServerAddress string        `env:"SERVER_ADDRESS,default=0.0.0.0:8080"`
	RunMigrations bool          `env:"RUN_MIGRATIONS,default=true"`
	LogLevel      string        `env:"LOG_LEVEL,default=info"`
	ShutdownAfter time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	JWTSecret      string        `env:"JWT_SECRET,required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,default=168h"`

	UploadDir      string `env:"UPLOAD_DIR,default=uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES,default=20971520"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:3000;http://127.0.0.1:3000;http://localhost:8000;http://127.0.0.1:8000"`
	AuthRatePerSecond  float64  `env:"AUTH_RATE_PER_SECOND,default=1"`
	AuthBurst          int      `env:"AUTH_BURST,default=5"`
	TrustedProxies     []string `env:"TRUSTED_PROXIES"`

	DB DBConfig

	BootstrapAdmin BootstrapAdmin
}

type DBConfig struct {
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=5m"`
}

// BootstrapAdmin описывает администратора, создаваемого при старте.
type BootstrapAdmin struct {
	NationalID string `env:"BOOTSTRAP_ADMIN_NATIONAL_ID"`
	Name       string `env:"BOOTSTRAP_ADMIN_NAME,default=Administrator"`
	Email      string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	Password   string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

func (b BootstrapAdmin) Enabled() bool {
	return b.NationalID != "" && b.Email != "" && b.Password != ""
}

// Load читает необязательный файл .env и декодирует окружение.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < minSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLen)
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.AuthRatePerSecond <= 0 || c.AuthBurst <= 0 {
		return errors.New("AUTH_RATE_PER_SECOND and AUTH_BURST must be positive")
	}
	for _, p := range c.TrustedProxies {
		if err := validProxy(strings.TrimSpace(p)); err != nil {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", p, err)
		}
	}
	b := c.BootstrapAdmin
	if (b.NationalID != "" || b.Email != "" || b.Password != "") && !b.Enabled() {
		return errors.New("BOOTSTRAP_ADMIN_NATIONAL_ID, BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	return nil
}

// validProxy принимает адрес или подсеть CIDR.
func validProxy(v string) error {
	if strings.Contains(v, "/") {
		_, err := netip.ParsePrefix(v)
		return err
	}
	_, err := netip.ParseAddr(v)
	return err
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
