package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/pdam-portal/internal/auth"
	"github.com/spec-kit/pdam-portal/internal/config"
	"github.com/spec-kit/pdam-portal/internal/observability"
	"github.com/spec-kit/pdam-portal/internal/persistence"
)

type seedCustomer struct {
	name       string
	email      string
	customerNo string
	address    string
	phone      string
	waterQuota float64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := seed(ctx, pg, cfg, logger); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete")
}

func seed(ctx context.Context, pg *persistence.Postgres, cfg *config.Config, logger *zap.Logger) error {
	pool := pg.PoolHandle()

	adminHash, err := auth.HashPassword("admin123", cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	const adminQuery = `
        INSERT INTO users (name, email, password_hash, role, status, approved_at)
        VALUES ($1,$2,$3,'ADMIN','ACTIVE',NOW())
        ON CONFLICT (email) DO NOTHING`
	if _, err := pool.Exec(ctx, adminQuery, "Admin PDAM", "admin@pdam.com", adminHash); err != nil {
		return err
	}
	logger.Info("seeded admin", zap.String("email", "admin@pdam.com"))

	customerHash, err := auth.HashPassword("customer123", cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	customers := []seedCustomer{
		{
			name:       "Budi Santoso",
			email:      "budi@gmail.com",
			customerNo: "PDAM-001",
			address:    "Jl. Merdeka No. 123, Malang",
			phone:      "08123456789",
			waterQuota: 1000,
		},
		{
			name:       "Sari Dewi",
			email:      "sari@gmail.com",
			customerNo: "PDAM-002",
			address:    "Jl. Sudirman No. 456, Malang",
			phone:      "08987654321",
			waterQuota: 750,
		},
	}

	for _, c := range customers {
		if err := seedOneCustomer(ctx, pg, customerHash, c); err != nil {
			return err
		}
		logger.Info("seeded customer", zap.String("email", c.email), zap.String("customer_no", c.customerNo))
	}
	return nil
}

func seedOneCustomer(ctx context.Context, pg *persistence.Postgres, passwordHash string, c seedCustomer) error {
	tx, err := pg.PoolHandle().Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const userQuery = `
        INSERT INTO users (name, email, password_hash, role, status, approved_at)
        VALUES ($1,$2,$3,'CUSTOMER','ACTIVE',NOW())
        ON CONFLICT (email) DO UPDATE SET updated_at=NOW()
        RETURNING id`
	var userID string
	if err := tx.QueryRow(ctx, userQuery, c.name, c.email, passwordHash).Scan(&userID); err != nil {
		return err
	}

	const customerQuery = `
        INSERT INTO customers (user_id, customer_no, address, phone, water_quota, is_active)
        VALUES ($1,$2,$3,$4,$5,true)
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.Exec(ctx, customerQuery, userID, c.customerNo, c.address, c.phone, c.waterQuota); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
