// Package testutils holds helpers shared by the package tests: throwaway
// databases, signed tokens and fiber request shortcuts.
package testutils

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/fundledger/infra"
	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const TestJWTSecret = "test-secret"

// DiscardLogger drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens a private in-memory sqlite database with the schema applied.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := infra.NewDBConnection(&config.DB{Url: dsn}, "test")
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewPostgresDB starts a postgres container, runs the SQL migrations and
// returns a connection. The container is terminated on cleanup.
func NewPostgresDB(t testing.TB) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	pg, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := infra.NewDBConnection(&config.DB{Url: dsn}, "test")
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))
	return db
}

// TestConfig returns a config usable without environment variables.
func TestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:       &config.Log{Format: "text", Prefix: "[fundledger]"},
		DB:        &config.DB{Url: "sqlite://:memory:"},
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: TestJWTSecret, Expiry: time.Hour}},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		EventBus:  &config.EventBus{Driver: "memory"},
		Export:    &config.Export{},
		Ledger: &config.Ledger{
			RefundComment:   "Refund on voucher closure",
			DeletionComment: "Refund on voucher deletion",
			TransferComment: "Fund transfer",
		},
	}
}

// NewToken signs an HS256 token carrying the user_id claim.
func NewToken(t testing.TB, secret, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// MakeRequest sends a request through app.Test, as JSON when body is set.
func MakeRequest(t testing.TB, app *fiber.App, method, path, body, token string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
