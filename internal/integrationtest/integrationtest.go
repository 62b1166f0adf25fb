// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/sms-ledger/cmd/httpserver"
	"github.com/go-petr/sms-ledger/internal/middleware"
	"github.com/go-petr/sms-ledger/pkg/configpkg"
	"github.com/go-petr/sms-ledger/pkg/dbpkg"
	"github.com/rs/zerolog"

	// Postgres driver for the tests that import this package.
	_ "github.com/lib/pq"
)

// ConfigPath is relative to the package directory of the test.
const ConfigPath = "../../configs"

// LoadConfig loads the test configuration.
func LoadConfig(t *testing.T) configpkg.Config {
	t.Helper()

	config, err := configpkg.Load(ConfigPath)
	if err != nil {
		t.Fatalf(`configpkg.Load(%q) returned error: %v`, ConfigPath, err)
	}

	return config
}

// SetupServer returns test server that cleans up database after each integration test.
func SetupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	config := LoadConfig(t)

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.CreateLogger(config)

	db := SetupDB(t, config)

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush flushes all db tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	var tables string

	const query = `
	SELECT string_agg(table_name, ', ')
	FROM information_schema.tables 
	WHERE table_schema='public' AND table_name <> 'schema_migrations';`

	row := db.QueryRow(query)

	err := row.Scan(&tables)
	if err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}

	// TRUNCATE does not fire the row level append-only trigger of transactions.
	if _, err := db.Exec(`TRUNCATE TABLE ` + tables + " RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

func open(t *testing.T, config configpkg.Config) *sql.DB {
	t.Helper()

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource, dbpkg.PoolConfig{
		MaxOpenConns: config.DBMaxOpenConns,
		MaxIdleConns: config.DBMaxIdleConns,
	})
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	return db
}

// SetupDB sets up connection with database for testing and cleans it once the test is done.
func SetupDB(t *testing.T, config configpkg.Config) *sql.DB {
	t.Helper()

	db := open(t, config)

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Fatalf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T, config configpkg.Config) *sql.Tx {
	t.Helper()

	db := open(t, config)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return tx
}
