package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/gincana/placar/internal/config"
	"github.com/gincana/placar/internal/service"
)

// startPostgresApp runs the application against a throwaway PostgreSQL container
func startPostgresApp(t *testing.T) *httptest.Server {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gincana_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendPostgres
	cfg.Database = config.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "test_user",
		Password: "test_password",
		Name:     "gincana_test",
		SSLMode:  "disable",
		MaxConns: 10,
		MinConns: 2,
	}

	a := New(cfg, zap.NewNop())
	require.NoError(t, a.Initialize(ctx), "Failed to initialize application")

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Shutdown(shutdownCtx)
	})
	return srv
}

func TestApp_PostgresBackend(t *testing.T) {
	srv := startPostgresApp(t)

	admin := newClient(t)
	login(t, admin, srv.URL, "admin", "admin123")

	resp, body := get(t, admin, srv.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	const posts = 20
	var wg sync.WaitGroup
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := admin.PostForm(srv.URL+"/eventos", url.Values{"nome": {"Relay"}, "pontos": {"1"}, "equipe": {"Boys"}})
			if assert.NoError(t, err) {
				resp.Body.Close()
				assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	resp, err := admin.PostForm(srv.URL+"/financeiro", url.Values{
		"data": {"2024-01-01"}, "nome": {"Bake sale"}, "valor": {"50.00"}, "equipe": {"Girls"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = admin.PostForm(srv.URL+"/pontos", url.Values{"equipe": {"Aliens"}, "pontos": {"1"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = get(t, admin, srv.URL+"/api/placar")
	var board service.Scoreboard
	require.NoError(t, json.Unmarshal([]byte(body), &board))
	require.Len(t, board.Teams, 2)
	assert.Equal(t, int64(posts), board.Teams[0].Points)
	assert.True(t, board.Teams[1].Value.Equal(decimal.NewFromInt(50)))
	assert.True(t, board.Teams[1].Progress.Equal(decimal.RequireFromString("2.5")))

	_, body = get(t, admin, srv.URL+"/eventos")
	assert.Contains(t, body, "Relay")
}
