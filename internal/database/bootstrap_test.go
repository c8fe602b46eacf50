package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/testutil"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsBootstrap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"pg missing database", fmt.Errorf("connect: %w", &pgconn.PgError{Code: "3D000"}), true},
		{"pg bad password", &pgconn.PgError{Code: "28P01"}, true},
		{"pg other", &pgconn.PgError{Code: "42P01"}, false},
		{"mysql access denied", fmt.Errorf("connect: %w", &mysqldriver.MySQLError{Number: 1045}), true},
		{"mysql unknown database", &mysqldriver.MySQLError{Number: 1049}, true},
		{"mysql other", &mysqldriver.MySQLError{Number: 1062}, false},
		{"plain", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NeedsBootstrap(tc.err))
		})
	}
}

func TestMySQLBootstrapStatements(t *testing.T) {
	stmts := mysqlBootstrapStatements("sport_matcher", "sport_user", `pa'ss\word`)
	require.Len(t, stmts, 4)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS `sport_matcher` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", stmts[0])
	assert.Equal(t, `CREATE USER IF NOT EXISTS 'sport_user'@'%' IDENTIFIED BY 'pa''ss\\word'`, stmts[1])
	assert.Equal(t, "GRANT ALL PRIVILEGES ON `sport_matcher`.* TO 'sport_user'@'%'", stmts[2])
	assert.Equal(t, "FLUSH PRIVILEGES", stmts[3])
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
	assert.Equal(t, `'it''s'`, quoteLiteral("it's"))
}

func TestPostgresBootstrapCreatesMissingRoleAndDatabase(t *testing.T) {
	db, mock := testutil.MockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM pg_roles WHERE rolname = $1")).
		WithArgs("sport_user").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE ROLE "sport_user" LOGIN PASSWORD 'secret'`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM pg_database WHERE datname = $1")).
		WithArgs("sport_matcher").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE DATABASE "sport_matcher" OWNER "sport_user"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`GRANT ALL PRIVILEGES ON DATABASE "sport_matcher" TO "sport_user"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, postgresBootstrap(context.Background(), db, "sport_matcher", "sport_user", "secret"))
}

func TestPostgresBootstrapExistingRoleAndDatabase(t *testing.T) {
	db, mock := testutil.MockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pg_roles")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`ALTER ROLE "sport_user" WITH LOGIN PASSWORD 'secret'`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pg_database")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("GRANT ALL PRIVILEGES")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, postgresBootstrap(context.Background(), db, "sport_matcher", "sport_user", "secret"))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector("sqlite", "file::memory:")
	assert.Error(t, err)
}
