package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"jobportal/internal/config"
	"jobportal/internal/database"
)

func main() {
	var (
		username = flag.String("username", "", "username of the new account (required)")
		email    = flag.String("email", "", "email of the new account")
		roleName = flag.String("role", "seeker", "account role: seeker, employer or none")
		driver   = flag.String("db-driver", "", "database driver (defaults to DATABASE_DRIVER)")
		dbPath   = flag.String("db-path", "", "sqlite database path (defaults to DATABASE_PATH)")
		dbHost   = flag.String("db-host", "", "database host (defaults to DATABASE_HOST)")
		dbPort   = flag.Int("db-port", 0, "database port (defaults to DATABASE_PORT)")
		dbName   = flag.String("db-name", "", "database name (defaults to POSTGRES_DB)")
		dbUser   = flag.String("db-user", "", "database user (defaults to POSTGRES_USER)")
		dbPass   = flag.String("db-password", "", "database password (defaults to POSTGRES_PASSWORD)")
		sslMode  = flag.String("db-sslmode", "", "database sslmode (defaults to DATABASE_SSLMODE)")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("missing required flag: --username")
	}
	role, ok := database.ParseRole(*roleName)
	if !ok {
		log.Fatalf("unknown role %q, want seeker, employer or none", *roleName)
	}

	dbCfg, err := loadDatabaseConfig(databaseFlags{
		driver:   *driver,
		path:     *dbPath,
		host:     *dbHost,
		port:     *dbPort,
		name:     *dbName,
		user:     *dbUser,
		password: *dbPass,
		sslmode:  *sslMode,
	})
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	created, err := createAccount(context.Background(), db, u, strings.TrimSpace(*email), role)
	if err != nil {
		log.Fatalf("create account: %v", err)
	}

	fmt.Printf("Created %s account.\n", created.account.Role)
	fmt.Printf("Username: %s\n", created.account.Username)
	fmt.Printf("Password: %s\n", created.password)
	fmt.Println("The password is shown only once. Store it now.")
}

type databaseFlags struct {
	driver, path, host   string
	port                 int
	name, user, password string
	sslmode              string
}

// loadDatabaseConfig fills unset flags from the environment.
func loadDatabaseConfig(f databaseFlags) (config.DatabaseConfig, error) {
	cfg := config.DatabaseConfig{
		Driver:   firstNonEmpty(f.driver, os.Getenv("DATABASE_DRIVER"), config.DriverPostgres),
		Path:     firstNonEmpty(f.path, os.Getenv("DATABASE_PATH")),
		Host:     firstNonEmpty(f.host, os.Getenv("DATABASE_HOST"), "localhost"),
		Port:     f.port,
		Name:     firstNonEmpty(f.name, os.Getenv("POSTGRES_DB"), os.Getenv("DB_NAME")),
		User:     firstNonEmpty(f.user, os.Getenv("POSTGRES_USER"), os.Getenv("DB_USER")),
		Password: firstNonEmpty(f.password, os.Getenv("POSTGRES_PASSWORD"), os.Getenv("DB_PASSWORD")),
		SSLMode:  firstNonEmpty(f.sslmode, os.Getenv("DATABASE_SSLMODE"), "disable"),
		LogLevel: "warn",
	}
	cfg.Driver = strings.ToLower(cfg.Driver)

	if cfg.Port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			cfg.Port = p
		}
	}
	if cfg.Port <= 0 {
		switch cfg.Driver {
		case config.DriverMySQL:
			cfg.Port = 3306
		default:
			cfg.Port = 5432
		}
	}

	if err := config.ValidateDatabase(cfg); err != nil {
		return config.DatabaseConfig{}, err
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
