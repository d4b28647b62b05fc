package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-library-records/config"
	"github.com/oksasatya/go-library-records/internal/container"
	"github.com/oksasatya/go-library-records/internal/infrastructure/memory"
	"github.com/oksasatya/go-library-records/pkg/helpers"
	"github.com/oksasatya/go-library-records/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
	helpers.PasswordCost = bcrypt.MinCost
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type api struct {
	t *testing.T
	r *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:          "library-records-test",
		StoreDriver:      "memory",
		JWTAccessSecret:  "access",
		JWTRefreshSecret: "refresh",
		AccessTTL:        time.Hour,
		RefreshTTL:       24 * time.Hour,
		MembershipDays:   30,
		DefaultLoanDays:  8,
		MaxActiveLoans:   3,
		RateLimitPerMin:  1000,
	}
}

func newAPI(t *testing.T, rdb *redis.Client, tweak func(*config.Config)) *api {
	t.Helper()
	cfg := testConfig()
	if tweak != nil {
		tweak(cfg)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c := container.New(cfg, logger, container.Deps{Store: memory.NewStore(), Redis: rdb})
	return &api{t: t, r: New(c)}
}

func (a *api) do(method, path string, body any, hdr map[string]string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// create posts body and returns the new record's id.
func (a *api) create(path string, body any) int64 {
	a.t.Helper()
	w, env := a.do(http.MethodPost, path, body, nil)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

// listLen counts the items of a list response. Empty lists are written
// as [] so data is always an array.
func listLen(t *testing.T, env envelope) int {
	t.Helper()
	require.NotEqual(t, "null", string(env.Data))
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &items))
	return len(items)
}

func userBody(email string) map[string]any {
	return map[string]any{
		"name":      "Ada",
		"last_name": "Lovelace",
		"email":     email,
		"password":  "secret123",
	}
}

// seedCopy creates a category, a book and one copy of it.
func (a *api) seedCopy() (bookID, copyID int64) {
	catID := a.create("/api/categories", map[string]any{"name": "Fiction"})
	bookID = a.create("/api/books", map[string]any{
		"title":       "Dune",
		"author":      "Frank Herbert",
		"editorial":   "Chilton",
		"pub_year":    1965,
		"edition":     1,
		"category_id": catID,
	})
	copyID = a.create("/api/copies", map[string]any{"book_id": bookID})
	return bookID, copyID
}

func TestHealthz(t *testing.T) {
	a := newAPI(t, nil, nil)
	w, env := a.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"store":"memory"}`, string(env.Data))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUsers_CreateAndDuplicateEmail(t *testing.T) {
	a := newAPI(t, nil, nil)

	w, env := a.do(http.MethodPost, "/api/users", userBody("Ada@Example.com"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, string(env.Data), "password")
	assert.Contains(t, string(env.Data), `"email":"ada@example.com"`)

	w, env = a.do(http.MethodPost, "/api/users", userBody("ada@example.com"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "DUPLICATE_EMAIL", env.Error.Code)

	w, env = a.do(http.MethodGet, "/api/users/email/ada@example.com", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"last_name":"Lovelace"`)
}

func TestUsers_ValidationDetailsUseJSONNames(t *testing.T) {
	a := newAPI(t, nil, nil)

	w, env := a.do(http.MethodPost, "/api/users", map[string]any{"name": "  ", "email": "nope", "password": "123"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "must not be blank", env.Error.Details["name"])
	assert.Equal(t, "is required", env.Error.Details["last_name"])
	assert.Equal(t, "must be a valid email", env.Error.Details["email"])
	assert.Equal(t, "must be at least 6 characters long", env.Error.Details["password"])
}

func TestNotFoundAndBadPath(t *testing.T) {
	a := newAPI(t, nil, nil)

	w, env := a.do(http.MethodGet, "/api/loans/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "LOAN_NOT_FOUND", env.Error.Code)

	w, env = a.do(http.MethodGet, "/api/users/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be a positive integer", env.Error.Details["id"])

	w, env = a.do(http.MethodPost, "/api/loans", map[string]any{"user_id": 1, "copy_id": 1}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)
}

func TestPagination(t *testing.T) {
	a := newAPI(t, nil, nil)
	for i := 0; i < 3; i++ {
		a.create("/api/categories", map[string]any{"name": fmt.Sprintf("cat-%d", i)})
	}

	w, env := a.do(http.MethodGet, "/api/categories?skip=1&limit=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "cat-1", cats[0].Name)
	assert.JSONEq(t, `{"skip":1,"limit":1,"count":1}`, string(env.Meta))

	w, env = a.do(http.MethodGet, "/api/categories?limit=1001", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Details, "limit")

	w, _ = a.do(http.MethodGet, "/api/categories?skip=-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoanLifecycle(t *testing.T) {
	a := newAPI(t, nil, nil)
	bookID, copyID := a.seedCopy()
	userID := a.create("/api/users", userBody("reader@example.com"))
	otherID := a.create("/api/users", userBody("other@example.com"))

	loanID := a.create("/api/loans", map[string]any{"user_id": userID, "copy_id": copyID})

	w, env := a.do(http.MethodGet, fmt.Sprintf("/api/copies/%d", copyID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"available":false`)

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/copies/book/%d/available", bookID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	// the copy is out, so a second borrower is refused
	w, env = a.do(http.MethodPost, "/api/loans", map[string]any{"user_id": otherID, "copy_id": copyID}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "COPY_UNAVAILABLE", env.Error.Code)

	// marking the copy available while the loan is active is refused
	w, env = a.do(http.MethodPatch, fmt.Sprintf("/api/copies/%d", copyID), map[string]any{"available": true}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "COPY_ON_LOAN", env.Error.Code)

	w, env = a.do(http.MethodPatch, fmt.Sprintf("/api/loans/%d/status", loanID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"active":false`)

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/loans/user/%d/active", userID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, listLen(t, env))

	w, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/loans/%d", loanID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(http.MethodGet, fmt.Sprintf("/api/copies/%d", copyID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"available":true`)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/loans/%d", loanID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoan_DateRules(t *testing.T) {
	a := newAPI(t, nil, nil)
	_, copyID := a.seedCopy()
	userID := a.create("/api/users", userBody("dates@example.com"))

	w, env := a.do(http.MethodPost, "/api/loans", map[string]any{
		"user_id":     userID,
		"copy_id":     copyID,
		"loan_date":   "2024-03-10T00:00:00Z",
		"return_date": "2024-03-10T00:00:00Z",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_RANGE", env.Error.Code)

	loanID := a.create("/api/loans", map[string]any{
		"user_id":     userID,
		"copy_id":     copyID,
		"loan_date":   "2024-03-10T00:00:00Z",
		"return_date": "2024-03-18T00:00:00Z",
	})

	w, env = a.do(http.MethodPatch, fmt.Sprintf("/api/loans/%d", loanID), map[string]any{
		"loan_date":   "2024-03-10T00:00:00Z",
		"return_date": "2024-03-01T00:00:00Z",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE_RANGE", env.Error.Code)

	w, env = a.do(http.MethodPatch, fmt.Sprintf("/api/loans/%d", loanID), map[string]any{
		"loan_date":   "2024-03-10T00:00:00Z",
		"return_date": "not a date",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestSearch_DisabledReturnsEmpty(t *testing.T) {
	a := newAPI(t, nil, nil)
	a.seedCopy()

	w, env := a.do(http.MethodGet, "/api/books/search?q=dune", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, listLen(t, env))

	w, _ = a.do(http.MethodGet, "/api/books/search", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired_GuardsMutations(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)
	a := newAPI(t, rdb, func(c *config.Config) { c.AuthRequired = true })

	// registration stays open
	a.create("/api/users", userBody("member@example.com"))

	w, env := a.do(http.MethodPost, "/api/categories", map[string]any{"name": "Poetry"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	w, _ = a.do(http.MethodGet, "/api/categories", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = a.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "member@example.com", "password": "wrong-pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	w, env = a.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "member@example.com", "password": "secret123"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(t, tok.AccessToken)

	bearer := map[string]string{"Authorization": "Bearer " + tok.AccessToken}
	w, _ = a.do(http.MethodPost, "/api/categories", map[string]any{"name": "Poetry"}, bearer)
	assert.Equal(t, http.StatusCreated, w.Code)
}
