package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dcode-github/gharbari/backend/config"
	"github.com/dcode-github/gharbari/backend/mail"
	"github.com/dcode-github/gharbari/backend/storage"
	"github.com/dcode-github/gharbari/backend/store"
)

func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath, flags.envFile)
	if err != nil {
		return cfg, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler).With(slog.String("app", appName)))
}

// openStore connects to MongoDB. The returned func disconnects.
func openStore(ctx context.Context, cfg config.Config) (*mongo.Client, *store.Mongo, func(), error) {
	if cfg.MongoURI == "" {
		return nil, nil, nil, fmt.Errorf("MONGOURI is not set")
	}
	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, nil, err
	}
	m := store.NewMongo(client.Database(cfg.DB))
	return client, m, func() { config.CloseDBConnection(client) }, nil
}

func openGateway(cfg config.Config) (storage.Gateway, error) {
	cld, err := storage.NewCloudinaryClient(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return storage.NewCloudinary(cld, cfg.CloudinaryFolder), nil
}

func smtpConfig(cfg config.Config) mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	}
}

// mailSender picks the outgoing transport. The returned func releases it.
func mailSender(cfg config.Config) (mail.Sender, func()) {
	switch cfg.MailTransport {
	case "smtp":
		slog.Info("Mail transport: smtp", slog.String("host", cfg.SMTPHost))
		return mail.NewSMTPSender(smtpConfig(cfg)), func() {}
	case "kafka":
		slog.Info("Mail transport: kafka", slog.String("topic", cfg.KafkaTopic))
		k := mail.NewKafkaSender(cfg.KafkaBroker, cfg.KafkaTopic)
		return k, func() {
			if err := k.Close(); err != nil {
				slog.Error("Closing kafka writer", slog.String("error", err.Error()))
			}
		}
	}
	slog.Warn("MAIL_TRANSPORT not set, emails will only be logged")
	return mail.LogSender{}, func() {}
}

func renderer(cfg config.Config) mail.Renderer {
	support := cfg.AdminEmail
	if support == "" {
		support = "support@gharbari.com"
	}
	return mail.Renderer{Support: support}
}
