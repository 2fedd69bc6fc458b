package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/bharosahq/trust-network/config"
	app "github.com/bharosahq/trust-network/internal/application"
	pginfra "github.com/bharosahq/trust-network/internal/infrastructure/postgres"
	"github.com/bharosahq/trust-network/pkg/helpers"
)

// seed installs the demo identities into Postgres. The HTTP server seeds
// the in-memory store on boot by itself; this binary exists for deployments
// that run with a database.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if !cfg.UsePostgres() {
		log.Fatal("DB_HOST not set; seeding only applies to the Postgres store")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	customers := pginfra.NewCustomerRepository(pool)
	merchants := pginfra.NewMerchantRepository(pool)

	if err := app.SeedKnownIdentities(customers, merchants, logger); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	logger.Info("seeding complete")
}
