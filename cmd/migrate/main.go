package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/apex/backoffice/internal/domain/catalog"
	"github.com/apex/backoffice/internal/domain/identity"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/apex/backoffice/internal/infrastructure/logger"
	"github.com/apex/backoffice/internal/infrastructure/migration"
	"github.com/apex/backoffice/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	migrationsPath = resolveMigrationsPath(migrationsPath)

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// create and list only touch the filesystem
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}
		log.Info("Available migrations", zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return

	case "seed":
		if err := seed(&cfg.Database, log); err != nil {
			log.Fatal("Seed failed", zap.Error(err))
		}
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrationsPath, log)
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

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
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
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	case "drop":
		confirm := false
		for _, arg := range args[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirm = true
				break
			}
		}
		if !confirm {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("Drop failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// resolveMigrationsPath falls back to ./migrations, then to the directory
// two levels above the executable (running from cmd/migrate during development).
func resolveMigrationsPath(path string) string {
	if path == "" {
		if _, err := os.Stat(defaultMigrationsPath); err == nil {
			path = defaultMigrationsPath
		} else if execPath, err := os.Executable(); err == nil {
			candidate := filepath.Join(filepath.Dir(execPath), "..", "..", defaultMigrationsPath)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
		if path == "" {
			path = defaultMigrationsPath
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// seed inserts the initial admin user, the service catalog and the expense
// categories a fresh installation starts with. Running it twice is a no-op.
func seed(dbCfg *config.DatabaseConfig, log *zap.Logger) error {
	db, err := persistence.NewDatabase(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := seedAdmin(ctx, db, log); err != nil {
		return err
	}
	if err := seedCatalog(ctx, db, log); err != nil {
		return err
	}

	log.Info("Seed completed")
	return nil
}

func seedAdmin(ctx context.Context, db *persistence.Database, log *zap.Logger) error {
	userRepo := persistence.NewGormUserRepository(db.DB)

	username := os.Getenv("SEED_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	if _, err := userRepo.FindByUsername(ctx, username); err == nil {
		log.Info("Admin user already exists, skipping", zap.String("username", username))
		return nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		log.Warn("SEED_ADMIN_PASSWORD not set, using default password - change it after first login")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin, err := identity.NewUser(username, string(hash), "Administrador", identity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to build admin user: %w", err)
	}
	if err := userRepo.Save(ctx, admin); err != nil {
		return fmt.Errorf("failed to save admin user: %w", err)
	}

	log.Info("Admin user created", zap.String("username", username))
	return nil
}

func seedCatalog(ctx context.Context, db *persistence.Database, log *zap.Logger) error {
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	categoryRepo := persistence.NewGormExpenseCategoryRepository(db.DB)

	count, err := categoryRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return fmt.Errorf("failed to count expense categories: %w", err)
	}
	if count == 0 {
		categories := []struct {
			name  string
			color string
		}{
			{"Taxas GRU", "#2563EB"},
			{"Despachante", "#16A34A"},
			{"Cartório", "#F59E0B"},
			{"Exames e Laudos", "#DC2626"},
			{"Transporte", "#7C3AED"},
			{"Diversos", "#6B7280"},
		}
		for _, c := range categories {
			category, err := catalog.NewExpenseCategory(c.name, c.color)
			if err != nil {
				return fmt.Errorf("failed to build category %q: %w", c.name, err)
			}
			if err := categoryRepo.Save(ctx, category); err != nil {
				return fmt.Errorf("failed to save category %q: %w", c.name, err)
			}
		}
		log.Info("Expense categories seeded", zap.Int("count", len(categories)))
	} else {
		log.Info("Expense categories already present, skipping")
	}

	count, err = serviceRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return fmt.Errorf("failed to count services: %w", err)
	}
	if count == 0 {
		services := []struct {
			name        string
			description string
			priceCents  int64
		}{
			{"Emissão de CR", "Emissão do Certificado de Registro junto ao Exército", 150000},
			{"Emissão de CRAF", "Registro de arma de fogo em nome do cliente", 80000},
			{"Guia de Tráfego", "Emissão de guia de tráfego para transporte de arma", 30000},
			{"Autorização IBAMA", "Licença de caça e abate junto ao IBAMA", 120000},
			{"Apostilamento", "Apostilamento de nova modalidade ao CR", 50000},
			{"Processo de Aquisição de Arma de Fogo", "Assessoria completa de aquisição, do pedido à entrega", 250000},
		}
		for _, s := range services {
			service, err := catalog.NewService(s.name, s.description, valueobject.NewMoney(s.priceCents))
			if err != nil {
				return fmt.Errorf("failed to build service %q: %w", s.name, err)
			}
			if err := serviceRepo.Save(ctx, service); err != nil {
				return fmt.Errorf("failed to save service %q: %w", s.name, err)
			}
		}
		log.Info("Service catalog seeded", zap.Int("count", len(services)))
	} else {
		log.Info("Service catalog already present, skipping")
	}

	return nil
}

func printUsage() {
	fmt.Println(`Backoffice Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations
  seed                  Insert the initial admin user and catalog data

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSL_MODE
  SEED_ADMIN_USERNAME, SEED_ADMIN_PASSWORD (seed command)

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Seed the admin user and service catalog
  SEED_ADMIN_PASSWORD=s3cret migrate seed`)
}
