package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cybercase-service/internal/app"
	"cybercase-service/internal/config"
	"cybercase-service/internal/domain"
	pgstore "cybercase-service/internal/infra/postgres"
	"cybercase-service/internal/security"
	"cybercase-service/internal/seed"

	"github.com/spf13/cobra"
)

// NewSeedCmd loads the training content and a demo account into postgres.
// Safe to run repeatedly.
func NewSeedCmd(configPath *string) *cobra.Command {
	var demoPassword string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with training content",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, demoPassword)
		},
	}
	cmd.Flags().StringVar(&demoPassword, "demo-password", "", "create a demo account with this password")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, demoPassword string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := openBun(cfg)
	defer db.Close()

	if err := pgstore.Seed(ctx, db); err != nil {
		return err
	}
	log.Printf("training content seeded")

	if demoPassword == "" {
		return nil
	}

	tokens := security.NewTokenManager([]byte("seed-only"), time.Minute)
	auth := app.NewAuthService(pgstore.NewUserRepository(db), security.NewBcryptHasher(), tokens)
	_, _, err := auth.Signup(ctx, seed.DemoUserName, seed.DemoUserEmail, demoPassword)
	if errors.Is(err, domain.ErrEmailTaken) {
		log.Printf("demo account already exists")
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("demo account %s created", seed.DemoUserEmail)
	return nil
}
