package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	users map[string]string
}

func (f *fakeAuthenticator) Register(username, password string) error {
	if _, ok := f.users[username]; ok {
		return dmn.ErrUsernameTaken
	}
	if len(password) < 8 {
		return dmn.ErrWeakPassword
	}
	f.users[username] = password
	return nil
}

func (f *fakeAuthenticator) SignIn(username, password string) (*dmn.User, string, error) {
	if p, ok := f.users[username]; !ok || p != password {
		return nil, "", errors.New("invalid username or password")
	}
	return &dmn.User{ID: uuid.New(), Username: username, BestStage: 3}, "token-" + username, nil
}

type fakeTokenizer struct {
	tokens map[string]map[string]interface{}
}

func (f *fakeTokenizer) Generate(map[string]interface{}, time.Duration) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeTokenizer) Decode(token string) (map[string]interface{}, error) {
	claims, ok := f.tokens[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdentityServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewIdentityServer(&fakeAuthenticator{users: map[string]string{}}).RegisterPublic(router.Group("/v1"))

	t.Run("Register", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", AuthRequest{Username: "runner", Password: "long-enough"})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Register twice conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", AuthRequest{Username: "runner", Password: "long-enough"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Weak password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", AuthRequest{Username: "other", Password: "short"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing fields", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", gin.H{"username": "other"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Login", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/login", AuthRequest{Username: "runner", Password: "long-enough"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "runner", resp.Username)
		assert.Equal(t, "token-runner", resp.Token)
		assert.Equal(t, 3, resp.BestStage)
	})

	t.Run("Login with a wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/auth/login", AuthRequest{Username: "runner", Password: "nope-nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthoriz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	playerID := uuid.New()
	ts := &fakeTokenizer{tokens: map[string]map[string]interface{}{
		"good":      {"userID": playerID.String(), "username": "runner"},
		"no-userid": {"username": "runner"},
	}}

	router := gin.New()
	router.Use(Authoriz(ts))
	router.GET("/me", func(c *gin.Context) {
		id, err := UserID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})

	tests := []struct {
		name   string
		path   string
		header string
		code   int
	}{
		{"No token", "/me", "", http.StatusUnauthorized},
		{"Wrong scheme", "/me", "Basic good", http.StatusUnauthorized},
		{"Empty bearer", "/me", "Bearer ", http.StatusUnauthorized},
		{"Unknown token", "/me", "Bearer bad", http.StatusUnauthorized},
		{"Token without user", "/me", "Bearer no-userid", http.StatusUnauthorized},
		{"Bearer header", "/me", "Bearer good", http.StatusOK},
		{"Query token", "/me?token=good", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, playerID.String(), rec.Body.String())
			}
		})
	}

	t.Run("UserID without claims", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		_, err := UserID(c)
		assert.ErrorIs(t, err, ErrMissingClaims)
	})
}
