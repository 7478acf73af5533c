package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dcode-github/gharbari/backend/cache"
	"github.com/dcode-github/gharbari/backend/config"
	"github.com/dcode-github/gharbari/backend/routes"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	client, db, closeDB, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}

	gateway, err := openGateway(cfg)
	if err != nil {
		return err
	}

	var listings services.ListingCache
	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		listings = cache.NewListings(redisClient, cache.DefaultTTL)
	}

	mailer, closeMailer := mailSender(cfg)
	defer closeMailer()
	render := renderer(cfg)

	stores := db.Stores()
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	router := mux.NewRouter()
	routes.Routes(router, routes.Services{
		Accounts:   services.NewAccountService(stores.Users, tokens, mailer, render),
		Properties: services.NewPropertyService(stores, gateway, listings),
		Favorites:  services.NewFavoriteService(stores),
		Inquiries:  services.NewInquiryService(stores, mailer, render, cfg.AdminEmail),
		Reviews:    services.NewReviewService(stores, gateway),
		Team:       services.NewTeamService(stores, gateway),
		Blogs:      services.NewBlogService(stores),
		FAQs:       services.NewFAQService(stores),
		Locations:  services.NewLocationService(stores),
		Tokens:     tokens,
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsOptions.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("Server gracefully stopped")
	return nil
}
