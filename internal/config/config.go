package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (s SMTP) Configured() bool {
	return s.Host != "" && s.FromEmail != ""
}

type Config struct {
	Env       string
	Addr      string
	PublicURL *url.URL
	DBDSN     string
	LogLevel  string

	JWTSecret     string
	JWTTTL        time.Duration
	ResetTokenTTL time.Duration

	SMTP SMTP
}

func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:       getenv("APP_ENV"),
		Addr:      getenv("APP_ADDR"),
		DBDSN:     getenv("APP_DB_DSN"),
		LogLevel:  getenv("APP_LOG_LEVEL"),
		JWTSecret: getenv("APP_JWT_SECRET"),
		SMTP: SMTP{
			Host:      getenv("APP_SMTP_HOST"),
			Username:  getenv("APP_SMTP_USERNAME"),
			Password:  getenv("APP_SMTP_PASSWORD"),
			FromEmail: getenv("APP_SMTP_FROM"),
			FromName:  getenv("APP_SMTP_FROM_NAME"),
		},
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	publicURLRaw := getenv("APP_PUBLIC_URL")
	if publicURLRaw != "" {
		parsed, err := url.Parse(publicURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_PUBLIC_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_PUBLIC_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_PUBLIC_URL: scheme must be http or https")
		}
		cfg.PublicURL = parsed
	}

	jwtTTL, err := durationOrDefault(getenv("APP_JWT_TTL"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("APP_JWT_TTL: %w", err)
	}
	cfg.JWTTTL = jwtTTL

	resetTTL, err := durationOrDefault(getenv("APP_RESET_TOKEN_TTL"), 10*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("APP_RESET_TOKEN_TTL: %w", err)
	}
	cfg.ResetTokenTTL = resetTTL

	smtpPortRaw := getenv("APP_SMTP_PORT")
	if smtpPortRaw == "" {
		cfg.SMTP.Port = 587
	} else {
		port, err := strconv.Atoi(smtpPortRaw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, errors.New("APP_SMTP_PORT: must be a valid port number")
		}
		cfg.SMTP.Port = port
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	if cfg.IsProd() {
		if cfg.PublicURL == nil {
			return Config{}, errors.New("APP_PUBLIC_URL: required in prod")
		}
		if cfg.DBDSN == "" {
			return Config{}, errors.New("APP_DB_DSN: required in prod")
		}
		if len(cfg.JWTSecret) < 32 {
			return Config{}, errors.New("APP_JWT_SECRET: must be at least 32 bytes in prod")
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("APP_JWT_SECRET: required")
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func durationOrDefault(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("must be > 0")
	}
	return d, nil
}
