// Package config loads runtime settings and opens the backing connections.
//
// Settings are layered: built-in defaults, then an optional YAML file, then a
// .env file, then the process environment. Later layers win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string `yaml:"port"`
	MongoURI  string `yaml:"mongoUri"`
	DB        string `yaml:"db"`
	RedisAddr string `yaml:"redisAddr"`
	RedisPass string `yaml:"redisPass"`
	RedisDB   int    `yaml:"redisDb"`

	JWTSecret    string        `yaml:"jwtSecret"`
	JWTExpiresIn time.Duration `yaml:"jwtExpiresIn"`

	CloudinaryURL    string `yaml:"cloudinaryUrl"`
	CloudinaryFolder string `yaml:"cloudinaryFolder"`

	MailTransport string `yaml:"mailTransport"`
	SMTPHost      string `yaml:"smtpHost"`
	SMTPPort      int    `yaml:"smtpPort"`
	SMTPUser      string `yaml:"smtpUser"`
	SMTPPass      string `yaml:"smtpPass"`
	MailFrom      string `yaml:"mailFrom"`
	AdminEmail    string `yaml:"adminEmail"`

	KafkaBroker  string `yaml:"kafkaBroker"`
	KafkaTopic   string `yaml:"kafkaTopic"`
	KafkaGroupID string `yaml:"kafkaGroupId"`

	CORSOrigins []string `yaml:"corsOrigins"`
	LogLevel    string   `yaml:"logLevel"`
	LogFormat   string   `yaml:"logFormat"`
}

func Defaults() Config {
	return Config{
		Port:             "8080",
		DB:               "gharbari",
		JWTExpiresIn:     7 * 24 * time.Hour,
		CloudinaryFolder: "gharbari",
		SMTPPort:         587,
		MailFrom:         "GharBari <no-reply@gharbari.com>",
		KafkaTopic:       "gharbari.mail",
		KafkaGroupID:     "gharbari-mailer",
		CORSOrigins:      []string{"*"},
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// Load builds the configuration. path names an optional YAML file; envFile an
// optional dotenv file. Missing files are not an error.
func Load(path, envFile string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("Config file not found", slog.String("path", path))
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", key, v)
		}
		*dst = n
		return nil
	}

	str("PORT", &cfg.Port)
	str("MONGOURI", &cfg.MongoURI)
	str("DB", &cfg.DB)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASS", &cfg.RedisPass)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("CLOUDINARY_URL", &cfg.CloudinaryURL)
	str("CLOUDINARY_FOLDER", &cfg.CloudinaryFolder)
	str("MAIL_TRANSPORT", &cfg.MailTransport)
	str("SMTP_HOST", &cfg.SMTPHost)
	str("SMTP_USER", &cfg.SMTPUser)
	str("SMTP_PASS", &cfg.SMTPPass)
	str("MAIL_FROM", &cfg.MailFrom)
	str("ADMIN_EMAIL", &cfg.AdminEmail)
	str("KAFKA_BROKER", &cfg.KafkaBroker)
	str("KAFKA_TOPIC", &cfg.KafkaTopic)
	str("KAFKA_GROUP_ID", &cfg.KafkaGroupID)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	if err := num("REDIS_DB", &cfg.RedisDB); err != nil {
		return err
	}
	if err := num("SMTP_PORT", &cfg.SMTPPort); err != nil {
		return err
	}

	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES_IN: %w", err)
		}
		cfg.JWTExpiresIn = d
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	return nil
}

// parseDuration accepts Go durations plus a day suffix, e.g. "7d".
func parseDuration(v string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}

// Validate checks the settings the API server cannot start without.
func (c Config) Validate() error {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGOURI")
	}
	if c.DB == "" {
		missing = append(missing, "DB")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch c.MailTransport {
	case "", "smtp", "kafka":
	default:
		return fmt.Errorf("MAIL_TRANSPORT must be smtp or kafka, got %q", c.MailTransport)
	}
	if c.MailTransport == "smtp" && c.SMTPHost == "" {
		return errors.New("MAIL_TRANSPORT=smtp requires SMTP_HOST")
	}
	if c.MailTransport == "kafka" && c.KafkaBroker == "" {
		return errors.New("MAIL_TRANSPORT=kafka requires KAFKA_BROKER")
	}
	return nil
}

// SlogLevel maps LogLevel onto slog; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
