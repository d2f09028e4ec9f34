package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Elias-Front-end/management-system/internal/config"
	"github.com/Elias-Front-end/management-system/internal/database"
	"github.com/Elias-Front-end/management-system/internal/logger"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/pubsub"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const usage = `Usage: manage <command> [flags]

Commands:
  migrate            apply pending schema migrations
  create-superuser   create the first superuser account
  setup-pubsub       create the events topic and its subscription
`

func main() {
	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("No .env file found")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if os.Args[1] == "setup-pubsub" {
		if err := pubsub.Setup(ctx, cfg, logger); err != nil {
			logger.Fatal().Err(err).Msg("Pub/Sub setup failed")
		}
		return
	}

	db, err := database.Open(ctx, cfg.DBConnectionString, cfg.IsDevelopment(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	var runErr error
	switch cmd := os.Args[1]; cmd {
	case "migrate":
		runErr = database.Migrate(ctx, db, logger)
	case "create-superuser":
		runErr = createSuperuser(ctx, repository.NewAccountRepo(db), os.Args[2:], logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error().Err(runErr).Msg("Command failed")
		os.Exit(1)
	}
}

func createSuperuser(ctx context.Context, accounts repository.AccountRepository, args []string, logger zerolog.Logger) error {
	fs := pflag.NewFlagSet("create-superuser", pflag.ContinueOnError)
	username := fs.String("username", "", "login name (required)")
	email := fs.String("email", "", "contact email")
	password := fs.String("password", os.Getenv("SUPERUSER_PASSWORD"), "password, at least 8 characters; defaults to $SUPERUSER_PASSWORD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	*username = strings.TrimSpace(*username)
	if *username == "" {
		return errors.New("--username is required")
	}
	if len(*password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	taken, err := accounts.UsernameExists(ctx, *username, "")
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("username %q is already taken", *username)
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		return err
	}
	account := &model.Account{
		Username:     *username,
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: hash,
		IsAdmin:      true,
		IsSuperuser:  true,
		IsActive:     true,
	}
	if err := accounts.CreateAccount(ctx, account); err != nil {
		return err
	}
	logger.Info().Str("account_id", account.ID).Str("username", account.Username).Msg("Superuser created")
	return nil
}
