package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/bilingo/internal/config"
	"github.com/phrazzld/bilingo/internal/domain/stats"
	"github.com/phrazzld/bilingo/internal/platform/sqlite"
	"github.com/phrazzld/bilingo/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   0,
			LogLevel:               "error",
			ReadTimeoutSeconds:     5,
			WriteTimeoutSeconds:    5,
			ShutdownTimeoutSeconds: 1,
		},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			URL:          sqlite.MemoryDSN,
			MaxOpenConns: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:            testSecret,
			TokenLifetimeMinutes: 60,
		},
		Study: config.StudyConfig{
			DefaultSessionSize: 20,
			ReviewRetries:      3,
		},
	}
}

func newTestApp(t *testing.T) *application {
	t.Helper()

	app, err := newApplication(testConfig(), testutils.DiscardLogger(), testutils.NewSQLiteDB(t))
	require.NoError(t, err)
	return app
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return rr
}

func (c *apiClient) decode(rr *httptest.ResponseRecorder, v any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(rr.Body.Bytes(), v), "body: %s", rr.Body.String())
}

func newClient(t *testing.T, app *application, handler http.Handler, userID uuid.UUID) *apiClient {
	t.Helper()

	token, err := app.jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	return &apiClient{t: t, handler: handler, token: token}
}

func TestNewApplication_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	db := testutils.NewSQLiteDB(t)

	cfg := testConfig()
	cfg.Auth.JWTSecret = "short"
	_, err := newApplication(cfg, testutils.DiscardLogger(), db)
	assert.ErrorContains(t, err, "JWT service")

	cfg = testConfig()
	cfg.Database.Driver = "mysql"
	_, err = newApplication(cfg, testutils.DiscardLogger(), db)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	anon := &apiClient{t: t, handler: app.setupRouter()}

	rr := anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
}

func TestRouter_RequiresToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	handler := app.setupRouter()

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/cards"},
		{http.MethodPost, "/api/cards"},
		{http.MethodGet, "/api/study/session"},
		{http.MethodGet, "/api/study/stats"},
	}
	for _, p := range paths {
		anon := &apiClient{t: t, handler: handler}
		rr := anon.do(p.method, p.path, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", p.method, p.path)
	}

	forged := &apiClient{t: t, handler: handler, token: "not.a.jwt"}
	assert.Equal(t, http.StatusUnauthorized, forged.do(http.MethodGet, "/api/cards", nil).Code)
}

func TestRouter_StudyFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	handler := app.setupRouter()
	alice := newClient(t, app, handler, uuid.New())
	bob := newClient(t, app, handler, uuid.New())

	type cardBody struct {
		ID           string `json:"id"`
		Front        string `json:"front"`
		Back         string `json:"back"`
		IntervalDays int    `json:"interval_days"`
		Repetitions  int    `json:"repetitions"`
		ReviewCount  int    `json:"review_count"`
	}

	// Create two cards.
	var gato, perro cardBody
	rr := alice.do(http.MethodPost, "/api/cards", map[string]string{"front": "el gato", "back": "the cat"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	alice.decode(rr, &gato)
	rr = alice.do(http.MethodPost, "/api/cards", map[string]string{"front": "el perro", "back": "the dog"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	alice.decode(rr, &perro)

	// Review one of them.
	rr = alice.do(http.MethodPost, "/api/cards/"+gato.ID+"/review", map[string]int{"grade": 4})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var reviewed cardBody
	alice.decode(rr, &reviewed)
	assert.Equal(t, 1, reviewed.IntervalDays)
	assert.Equal(t, 1, reviewed.Repetitions)
	assert.Equal(t, 1, reviewed.ReviewCount)

	rr = alice.do(http.MethodPost, "/api/cards/"+gato.ID+"/review", map[string]int{"grade": 9})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Only the unreviewed card is due for study.
	rr = alice.do(http.MethodGet, "/api/study/session", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var plan struct {
		Cards []struct {
			ID             string `json:"id"`
			Classification string `json:"classification"`
		} `json:"cards"`
		NewCount int `json:"new_count"`
	}
	alice.decode(rr, &plan)
	require.Len(t, plan.Cards, 1)
	assert.Equal(t, perro.ID, plan.Cards[0].ID)
	assert.Equal(t, "new", plan.Cards[0].Classification)
	assert.Equal(t, 1, plan.NewCount)

	rr = alice.do(http.MethodGet, "/api/study/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var summary stats.UserStats
	alice.decode(rr, &summary)
	assert.Equal(t, 2, summary.TotalCards)
	assert.Equal(t, 1, summary.ReviewedCards)
	assert.Equal(t, 1, summary.TotalReviews)
	assert.Equal(t, 1, summary.NewCards)

	// Bob can neither see nor change Alice's cards.
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, "/api/cards/"+gato.ID, nil).Code)
	assert.Equal(t, http.StatusForbidden,
		bob.do(http.MethodPost, "/api/cards/"+gato.ID+"/review", map[string]int{"grade": 5}).Code)
	rr = bob.do(http.MethodGet, "/api/cards", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"cards":[],"count":0}`, rr.Body.String())

	// Editing content keeps the schedule.
	rr = alice.do(http.MethodPut, "/api/cards/"+gato.ID, map[string]string{"front": "el gatito", "back": "the kitten"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var edited cardBody
	alice.decode(rr, &edited)
	assert.Equal(t, "el gatito", edited.Front)
	assert.Equal(t, 1, edited.IntervalDays)

	// Delete, then the card is gone.
	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, "/api/cards/"+perro.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, "/api/cards/"+perro.ID, nil).Code)
}
