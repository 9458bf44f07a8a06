package db

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testPool: shared pool для PostgreSQL тестов, nil при -short
var testPool *pgxpool.Pool

// TestMain поднимает PostgreSQL testcontainer для repository тестов.
// С -short или без docker остаётся только sqlite backend.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		// Без docker гоняем только sqlite
		log.Printf("postgres container unavailable, postgres tests skipped: %v", err)
		os.Exit(m.Run())
	}

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("getting container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	database, err := New(ctx, dsn, PoolOptions{MaxConns: 4})
	if err != nil {
		log.Fatalf("connecting to test db: %v", err)
	}
	if err := database.Migrate(ctx); err != nil {
		log.Fatalf("running migrations: %v", err)
	}
	testPool = database.Pool()

	code := m.Run()

	database.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

// setupTestDB возвращает shared pool и очищает таблицы.
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testPool == nil {
		tb.Skip("postgres tests disabled in -short mode")
	}
	if _, err := testPool.Exec(context.Background(), "TRUNCATE character_taxi"); err != nil {
		tb.Logf("cleanup warning: %v", err)
	}
	return testPool
}
