package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"store-rating/internal/core/config"
	"store-rating/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.Cost = bcrypt.MinCost
}

const (
	adminEmail = "admin@example.com"
	adminPass  = "Admin!2345"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		App: config.App{Name: "store-rating", Env: "test", HTTP: config.HTTP{CORSOrigins: []string{"*"}}},
		JWT: config.JWT{Secret: "test-secret", Issuer: "store-rating", AccessTokenTTLMin: 60},
		DB: config.DB{
			Driver:       "sqlite",
			DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
			MaxOpenConns: 1,
			AutoMigrate:  true,
			LogLevel:     "silent",
		},
		Cache: config.Cache{TTLSec: 30},
		Bootstrap: config.Bootstrap{
			AdminName:     "Store Rating Administrator",
			AdminEmail:    adminEmail,
			AdminPassword: adminPass,
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func login(t *testing.T, h http.Handler, email, pw string) (string, string) {
	t.Helper()
	status, env := call(t, h, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": pw})
	require.Equal(t, http.StatusOK, status, env.Msg)
	var out struct{ Token, Role string }
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out.Token, out.Role
}

type storeRow struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	AvgRating   *float64 `json:"avg_rating"`
	RatingCount int64    `json:"rating_count"`
	MyRating    *int     `json:"my_rating"`
}

func listStores(t *testing.T, h http.Handler, token string) []storeRow {
	t.Helper()
	status, env := call(t, h, http.MethodGet, "/stores", token, nil)
	require.Equal(t, http.StatusOK, status, env.Msg)
	var rows []storeRow
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	return rows
}

func TestSignupLoginRateScenario(t *testing.T) {
	h := newTestApp(t).APIEngine()

	status, env := call(t, h, http.MethodPost, "/auth/signup", "", gin.H{
		"name": "Jonathan Alexander Smith", "email": "jon@x.com", "password": "Pwd!123", "address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, status, env.Msg)
	assert.Equal(t, "User registered", env.Msg)

	token, role := login(t, h, "jon@x.com", "Pwd!123")
	assert.Equal(t, "user", role)
	assert.Empty(t, listStores(t, h, token))

	adminTok, adminRole := login(t, h, adminEmail, adminPass)
	require.Equal(t, "admin", adminRole)
	status, env = call(t, h, http.MethodPost, "/stores", "Bearer "+adminTok, gin.H{
		"name": "Corner Bakery", "email": "bake@x.com", "address": "2 Main St",
	})
	require.Equal(t, http.StatusCreated, status, env.Msg)
	var created struct{ ID uint64 }
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.EqualValues(t, 1, created.ID)

	rows := listStores(t, h, token)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].AvgRating)

	status, env = call(t, h, http.MethodPost, "/ratings", token, gin.H{"storeId": 1, "rating": 4})
	require.Equal(t, http.StatusOK, status, env.Msg)
	assert.Equal(t, "Rating submitted", env.Msg)

	rows = listStores(t, h, token)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AvgRating)
	assert.InDelta(t, 4.0, *rows[0].AvgRating, 1e-9)
	require.NotNil(t, rows[0].MyRating)
	assert.Equal(t, 4, *rows[0].MyRating)

	status, env = call(t, h, http.MethodGet, "/dashboard/stats", adminTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"users":2,"stores":1,"ratings":1}`, string(env.Data))

	status, env = call(t, h, http.MethodGet, "/ratings/mine", token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine []struct {
		StoreID uint64 `json:"store_id"`
		Rating  int    `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, 4, mine[0].Rating)
}

func TestErrorStatuses(t *testing.T) {
	h := newTestApp(t).APIEngine()

	status, env := call(t, h, http.MethodPost, "/auth/signup", "", gin.H{
		"name": "Jon", "email": "jon@x.com", "password": "p",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Name must be 20-60 chars", env.Msg)

	status, _ = call(t, h, http.MethodPost, "/auth/signup", "", gin.H{
		"name": "Jonathan Alexander Smith", "email": "long@x.com", "password": strings.Repeat("p", 80),
	})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, h, http.MethodPost, "/auth/login", "", gin.H{"email": "long@x.com", "password": strings.Repeat("p", 80)})
	assert.Equal(t, http.StatusNotFound, status, "no account row for a rejected signup")

	signup := gin.H{"name": "Jonathan Alexander Smith", "email": "jon@x.com", "password": "p"}
	status, _ = call(t, h, http.MethodPost, "/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, status)
	status, _ = call(t, h, http.MethodPost, "/auth/signup", "", signup)
	assert.Equal(t, http.StatusConflict, status)

	status, env = call(t, h, http.MethodPost, "/auth/login", "", gin.H{"email": "nobody@x.com", "password": "p"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", env.Msg)

	status, env = call(t, h, http.MethodPost, "/auth/login", "", gin.H{"email": "jon@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid password", env.Msg)

	status, _ = call(t, h, http.MethodGet, "/stores", "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, h, http.MethodGet, "/stores", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token, _ := login(t, h, "jon@x.com", "p")
	status, env = call(t, h, http.MethodPost, "/stores", token, gin.H{"name": "Sneaky"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied", env.Msg)
	assert.Empty(t, listStores(t, h, token))

	status, _ = call(t, h, http.MethodGet, "/dashboard/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, h, http.MethodPost, "/ratings", token, gin.H{"storeId": 99, "rating": 4})
	assert.Equal(t, http.StatusNotFound, status)

	adminTok, _ := login(t, h, adminEmail, adminPass)
	status, _ = call(t, h, http.MethodPost, "/stores", adminTok, gin.H{"name": "Corner Bakery"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = call(t, h, http.MethodPost, "/ratings", token, gin.H{"storeId": 1, "rating": 6})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminConsole(t *testing.T) {
	a := newTestApp(t)
	api, admin := a.APIEngine(), a.AdminEngine()

	status, _ := call(t, api, http.MethodPost, "/auth/signup", "", gin.H{
		"name": "Jonathan Alexander Smith", "email": "jon@x.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, status)
	userTok, _ := login(t, api, "jon@x.com", "p")
	adminTok, _ := login(t, api, adminEmail, adminPass)

	status, _ = call(t, admin, http.MethodGet, "/admin/v1/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := call(t, admin, http.MethodGet, "/admin/v1/users?q=jon", adminTok, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Total int64 `json:"total"`
		Items []struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "user", page.Items[0].Role)
	assert.NotContains(t, string(env.Data), "password")

	status, _ = call(t, admin, http.MethodPost, "/admin/v1/admins", adminTok, gin.H{
		"name": "Second Administrator Acct", "email": "ops@x.com", "password": "ops",
	})
	require.Equal(t, http.StatusCreated, status)
	_, role := login(t, api, "ops@x.com", "ops")
	assert.Equal(t, "admin", role)

	status, env = call(t, admin, http.MethodGet, "/admin/v1/stats", adminTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"users":3,"stores":0,"ratings":0}`, string(env.Data))

	status, _ = call(t, admin, http.MethodGet, "/admin/v1/stores", adminTok, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthAndWebClient(t *testing.T) {
	h := newTestApp(t).APIEngine()

	status, _ := call(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/app/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "localStorage")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
