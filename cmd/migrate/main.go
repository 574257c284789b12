package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	inventoryapp "github.com/tijara/backend/internal/application/inventory"
	tradeapp "github.com/tijara/backend/internal/application/trade"
	"github.com/tijara/backend/internal/infrastructure/config"
	"github.com/tijara/backend/internal/infrastructure/logger"
	"github.com/tijara/backend/internal/infrastructure/migration"
	"github.com/tijara/backend/internal/infrastructure/persistence"
	"github.com/tijara/backend/migrations"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
		tenant         string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory (default: the migrations built into the binary)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&tenant, "tenant", "", "Tenant for maintenance commands (default: app.default_tenant)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	log.Info("Migration CLI started", zap.String("command", command))

	switch command {
	case "backfill-products", "rebuild-stock-cache":
		if tenant == "" {
			tenant = cfg.App.DefaultTenant
		}
		tenantID, err := uuid.Parse(tenant)
		if err != nil {
			log.Fatal("Invalid tenant", zap.String("tenant", tenant), zap.Error(err))
		}
		runMaintenance(cfg, log, command, tenantID)
		return
	}

	var source fs.FS = migrations.FS
	if migrationsPath != "" {
		source = os.DirFS(migrationsPath)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// runMaintenance runs a ledger repair for one tenant through the same
// services the API exposes under /maintenance.
func runMaintenance(cfg *config.Config, log *zap.Logger, command string, tenantID uuid.UUID) {
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), 0))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	switch command {
	case "backfill-products":
		svc := tradeapp.NewProductLinkService(persistence.NewProductBackfill(db.DB, log), log)
		report, err := svc.Backfill(ctx, tenantID)
		if err != nil {
			log.Fatal("Product backfill failed", zap.Error(err))
		}
		log.Info("Product backfill done", zap.Any("report", report))

	case "rebuild-stock-cache":
		svc := inventoryapp.NewStockService(
			persistence.NewGormProductRepository(db.DB),
			persistence.NewGormStockMovementRepository(db.DB),
			persistence.NewGormSalesOrderRepository(db.DB),
			persistence.NewGormTransactionScope(db.DB),
			log,
		)
		result, err := svc.RebuildCache(ctx, tenantID)
		if err != nil {
			log.Fatal("Stock cache rebuild failed", zap.Error(err))
		}
		log.Info("Stock cache rebuilt",
			zap.Int("checked", result.Checked),
			zap.Int("updated", len(result.Updated)))
	}
}

func printUsage() {
	fmt.Println(`Tijara database tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  backfill-products     Link order lines to catalog products by name
  rebuild-stock-cache   Recompute cached product stock from the ledger

Flags:
  -path string          Migrations directory (default: built into the binary)
  -log-level string     Log level: debug, info, warn, error (default: info)
  -tenant string        Tenant for maintenance commands (default: app.default_tenant)

Environment Variables:
  TIJARA_DATABASE_HOST, TIJARA_DATABASE_PORT, TIJARA_DATABASE_USER,
  TIJARA_DATABASE_PASSWORD, TIJARA_DATABASE_DBNAME, TIJARA_DATABASE_SSLMODE

Examples:
  migrate up
  migrate step -1
  migrate -tenant 00000000-0000-0000-0000-000000000001 backfill-products`)
}
