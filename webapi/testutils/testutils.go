// Package testutils builds a complete API over an in-memory database for
// handler tests.
package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	infraeventbus "github.com/amirasaad/fundledger/infra/eventbus"
	"github.com/amirasaad/fundledger/infra/export"
	infrarepo "github.com/amirasaad/fundledger/infra/repository"
	"github.com/amirasaad/fundledger/pkg/app"
	"github.com/amirasaad/fundledger/pkg/config"
	pkgtestutils "github.com/amirasaad/fundledger/pkg/testutils"
	"github.com/amirasaad/fundledger/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// TestApp is a running API with direct access to its services.
type TestApp struct {
	t      testing.TB
	Fiber  *fiber.App
	App    *app.App
	Bus    *infraeventbus.MemoryEventBus
	Token  string
	Export string
}

// NewTestApp wires the API over sqlite, the memory bus and a temp export dir.
func NewTestApp(t testing.TB) *TestApp {
	t.Helper()
	logger := pkgtestutils.DiscardLogger()
	exportDir := t.TempDir()
	sink, err := export.NewLocalSink(exportDir)
	require.NoError(t, err)

	bus := infraeventbus.NewWithMemory(logger)
	a := app.New(&config.Deps{
		Uow:      infrarepo.NewUoW(pkgtestutils.NewTestDB(t)),
		EventBus: bus,
		Exporter: sink,
		Logger:   logger,
		Config:   pkgtestutils.TestConfig(),
	})
	return &TestApp{
		t:      t,
		Fiber:  webapi.SetupApp(a),
		App:    a,
		Bus:    bus,
		Token:  pkgtestutils.NewToken(t, pkgtestutils.TestJWTSecret, "clerk-1"),
		Export: exportDir,
	}
}

// Do sends an authenticated request.
func (ta *TestApp) Do(method, path, body string) *http.Response {
	ta.t.Helper()
	return pkgtestutils.MakeRequest(ta.t, ta.Fiber, method, path, body, ta.Token)
}

// Decode reads a success envelope and unmarshals its data into out.
func Decode(t testing.TB, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	}
}

// ProblemBody is a decoded problem document with field errors typed.
type ProblemBody struct {
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors"`
}

// Problem reads a problem document.
func Problem(t testing.TB, resp *http.Response) ProblemBody {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	require.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	var pd ProblemBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}
