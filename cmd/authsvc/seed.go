package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/cts/user-auth-service/internal/core/ports"
	"github.com/cts/user-auth-service/internal/core/service"
	"github.com/cts/user-auth-service/internal/pkg/config"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout        time.Duration
	adminEmail     string
	adminPassword  string
	adminFirstName string
	adminLastName  string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed secret questions and an optional admin account",
		Long: `Upserts the default secret questions and, when --admin-email is set,
creates an ADMIN account. Running it again changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for store operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.adminEmail, "admin-email", "", "email of the admin account to create")
	cmd.Flags().StringVar(&cfg.adminPassword, "admin-password", "", "password of the admin account")
	cmd.Flags().StringVar(&cfg.adminFirstName, "admin-first-name", "Admin", "first name of the admin account")
	cmd.Flags().StringVar(&cfg.adminLastName, "admin-last-name", "User", "last name of the admin account")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, sc *seedConfig) error {
	if sc.adminEmail != "" && sc.adminPassword == "" {
		return errors.New("--admin-password is required with --admin-email")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sc.timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.close(context.Background()) }()

	return seed(ctx, cmd, a.service, sc)
}

func seed(ctx context.Context, cmd *cobra.Command, svc *service.AuthService, sc *seedConfig) error {
	if err := svc.SeedSecretQuestions(ctx, service.DefaultSecretQuestions); err != nil {
		return err
	}
	cmd.Printf("Seeded %d secret questions\n", len(service.DefaultSecretQuestions))

	if sc.adminEmail == "" {
		return nil
	}

	admin, created, err := svc.EnsureAdmin(ctx, ports.RegisterInput{
		Email:     sc.adminEmail,
		FirstName: sc.adminFirstName,
		LastName:  sc.adminLastName,
		Password:  sc.adminPassword,
	})
	if err != nil {
		return err
	}
	if created {
		cmd.Printf("Created admin %s (%s)\n", admin.Email, admin.ID)
	} else {
		cmd.Printf("Account %s already exists, skipping\n", admin.Email)
	}
	return nil
}
