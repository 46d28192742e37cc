package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/config"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/router"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage/storagetest"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

const (
	testSecret   = "test-secret"
	testPassword = "password123"
)

// newTestEnv wires the full route table against an in-memory store, so
// requests exercise the real middleware and handlers end to end.
func newTestEnv(t *testing.T) (*gin.Engine, *storagetest.Fake) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storagetest.New()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		JWT:      config.JWTConfig{Secret: testSecret, ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
	return router.Setup(cfg, store), store
}

func seedUser(t *testing.T, store *storagetest.Fake, name, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Budgets:      []models.Budget{},
		Transactions: []primitive.ObjectID{},
		Posts:        []primitive.ObjectID{},
		LikedPosts:   []primitive.ObjectID{},
		Comments:     []primitive.ObjectID{},
	}
	require.NoError(t, store.InsertUser(context.Background(), u))
	return u
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := util.GenerateToken(testSecret, u.ID.Hex(), time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope is the unified response body.
type envelope struct {
	Code    int                        `json:"code"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// dataField unmarshals one key of the envelope's data map into out.
func dataField(t *testing.T, env envelope, key string, out interface{}) {
	t.Helper()
	raw, ok := env.Data[key]
	require.True(t, ok, "missing data field %q", key)
	require.NoError(t, json.Unmarshal(raw, out))
}
