package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// NeedsBootstrap reports whether a connect error means the application role
// or database does not exist yet.
func NeedsBootstrap(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "28P01", "28000", "3D000":
			return true
		}
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		// 1045 access denied, 1049 unknown database
		return myErr.Number == 1045 || myErr.Number == 1049
	}
	return false
}

// Bootstrap connects with the root account and creates the application
// database and user, granting the user full access to the database.
func Bootstrap(ctx context.Context, cfg *config.Config) error {
	if cfg.DBRootPassword == "" {
		slog.Warn("DB_ROOT_PASSWORD is empty, trying root login without password")
	}

	root, err := open(cfg.DBDriver, cfg.RootDSN())
	if err != nil {
		return fmt.Errorf("root connection: %w", err)
	}
	defer func() {
		if err := Close(root); err != nil {
			slog.Error("root connection close error", "error", err)
		}
	}()

	switch cfg.DBDriver {
	case config.DriverMySQL:
		for _, stmt := range mysqlBootstrapStatements(cfg.DBName, cfg.DBUser, cfg.DBPassword) {
			if err := root.WithContext(ctx).Exec(stmt).Error; err != nil {
				return fmt.Errorf("bootstrap statement failed: %w", err)
			}
		}
	case config.DriverPostgres:
		if err := postgresBootstrap(ctx, root, cfg.DBName, cfg.DBUser, cfg.DBPassword); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	slog.Info("database bootstrapped", "database", cfg.DBName, "user", cfg.DBUser)
	return nil
}

func mysqlBootstrapStatements(name, user, password string) []string {
	db := "`" + strings.ReplaceAll(name, "`", "``") + "`"
	account := mysqlLiteral(user) + "@'%'"
	return []string{
		"CREATE DATABASE IF NOT EXISTS " + db + " CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		"CREATE USER IF NOT EXISTS " + account + " IDENTIFIED BY " + mysqlLiteral(password),
		"GRANT ALL PRIVILEGES ON " + db + ".* TO " + account,
		"FLUSH PRIVILEGES",
	}
}

// CREATE DATABASE cannot run inside a transaction block, so each statement
// is executed on its own.
func postgresBootstrap(ctx context.Context, db *gorm.DB, name, user, password string) error {
	db = db.WithContext(ctx)

	var roles int64
	if err := db.Raw("SELECT count(*) FROM pg_roles WHERE rolname = ?", user).Scan(&roles).Error; err != nil {
		return fmt.Errorf("lookup role: %w", err)
	}
	roleStmt := "CREATE ROLE " + quoteIdent(user) + " LOGIN PASSWORD " + quoteLiteral(password)
	if roles > 0 {
		roleStmt = "ALTER ROLE " + quoteIdent(user) + " WITH LOGIN PASSWORD " + quoteLiteral(password)
	}
	if err := db.Exec(roleStmt).Error; err != nil {
		return fmt.Errorf("create role: %w", err)
	}

	var dbs int64
	if err := db.Raw("SELECT count(*) FROM pg_database WHERE datname = ?", name).Scan(&dbs).Error; err != nil {
		return fmt.Errorf("lookup database: %w", err)
	}
	if dbs == 0 {
		if err := db.Exec("CREATE DATABASE " + quoteIdent(name) + " OWNER " + quoteIdent(user)).Error; err != nil {
			return fmt.Errorf("create database: %w", err)
		}
	}

	if err := db.Exec("GRANT ALL PRIVILEGES ON DATABASE " + quoteIdent(name) + " TO " + quoteIdent(user)).Error; err != nil {
		return fmt.Errorf("grant privileges: %w", err)
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func mysqlLiteral(s string) string {
	return quoteLiteral(strings.ReplaceAll(s, `\`, `\\`))
}
