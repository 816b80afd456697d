//go:build integration

// Package testhelpers starts a shared PostGIS container for integration tests.
package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"eps-portal/internal/config"
	"eps-portal/internal/database"
	"eps-portal/internal/schema"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

const PostGISImage = "postgis/postgis:16-3.4-alpine"

type TestDB struct {
	Container testcontainers.Container
	DB        *bun.DB
	DSN       string
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a PostGIS database with every table created. The
// container is started once and reused by all tests in the run.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        PostGISImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "eps_test",
				"POSTGRES_USER":     "eps",
				"POSTGRES_PASSWORD": "test_password",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(120 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://eps:test_password@%s:%s/eps_test?sslmode=disable", host, port.Port())

	cfg := &config.Config{DBSchema: "public"}
	db, err := database.New(dsn, cfg)
	if err != nil {
		return nil, err
	}

	if err := database.EnsureSchema(ctx, db, cfg.DBSchema, schema.All()); err != nil {
		return nil, err
	}

	return &TestDB{Container: container, DB: db, DSN: dsn}, nil
}

// Truncate empties the given tables.
func (tdb *TestDB) Truncate(t *testing.T, tables ...*schema.Table) {
	t.Helper()

	for _, table := range tables {
		_, err := tdb.DB.NewTruncateTable().
			TableExpr("?", bun.Ident(table.Name)).
			ContinueIdentity().
			Cascade().
			Exec(context.Background())
		if err != nil {
			t.Fatalf("Failed to truncate %s: %v", table.Name, err)
		}
	}
}
