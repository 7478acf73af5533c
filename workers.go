package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dcode-github/gharbari/backend/mail"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func mailerCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mailer",
		Short: "Consume queued emails from Kafka and deliver them over SMTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.KafkaBroker == "" || cfg.SMTPHost == "" {
				return errors.New("mailer requires KAFKA_BROKER and SMTP_HOST")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reader := mail.NewKafkaReader(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaGroupID)
			consumer := mail.NewConsumer(reader, mail.NewSMTPSender(smtpConfig(cfg)))
			slog.Info("Mailer listening",
				slog.String("topic", cfg.KafkaTopic),
				slog.String("group", cfg.KafkaGroupID))
			return consumer.Listen(ctx)
		},
	}
}

func sweepCmd(flags *globalFlags) *cobra.Command {
	var limit int64
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Retry deletion of orphaned image assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			_, db, closeDB, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()
			gateway, err := openGateway(cfg)
			if err != nil {
				return err
			}

			res, err := services.NewSweeper(db.Stores().Orphans, gateway).Run(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d, failed %d\n", res.Deleted, res.Failed)
			return nil
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 100, "Maximum orphans to process")
	return cmd
}

func createAdminCmd(flags *globalFlags) *cobra.Command {
	var in services.RegisterInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN user, or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			_, db, closeDB, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()
			if err := db.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}

			tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
			accounts := services.NewAccountService(db.Stores().Users, tokens, mail.LogSender{}, renderer(cfg))
			user, created, err := accounts.CreateAdmin(cmd.Context(), in)
			if err != nil {
				return err
			}
			verb := "promoted"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) as %s\n", verb, user.Email, user.ID.Hex(), models.RoleAdmin)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Admin email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password for a new account")
	cmd.Flags().StringVar(&in.FullName, "name", "Administrator", "Full name for a new account")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Phone for a new account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
