package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

func TestSignup(t *testing.T) {
	r, store := newTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name":     "alice",
		"email":    "Alice@Example.COM",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	assert.Equal(t, util.CodeOK, env.Code)

	var user struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	dataField(t, env, "user", &user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email, "emails normalize to lowercase")

	// no password material in the response
	assert.NotContains(t, w.Body.String(), "password")

	stored, err := store.UserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(testPassword)))
	assert.NotNil(t, stored.Transactions, "reference arrays start empty, not nil")
}

func TestSignupDuplicateEmail(t *testing.T) {
	r, store := newTestEnv(t)
	seedUser(t, store, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name":     "imposter",
		"email":    "alice@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, util.CodeDuplicate, decodeEnvelope(t, w).Code)
}

func TestSignupValidation(t *testing.T) {
	r, _ := newTestEnv(t)

	tests := []map[string]string{
		{"name": "alice", "password": testPassword},                          // no email
		{"name": "alice", "email": "not-an-email", "password": testPassword}, // bad email
		{"name": "alice", "email": "alice@example.com", "password": "tiny"},  // short password
		{"email": "alice@example.com", "password": testPassword},             // no name
	}
	for _, body := range tests {
		w := doJSON(t, r, http.MethodPost, "/api/users/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
		assert.Equal(t, util.CodeInvalidParam, decodeEnvelope(t, w).Code)
	}
}

func TestLogin(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	env := decodeEnvelope(t, w)
	var token string
	dataField(t, env, "token", &token)

	claims, err := util.ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
}

func TestLoginBadCredentials(t *testing.T) {
	r, store := newTestEnv(t)
	seedUser(t, store, "alice", "alice@example.com")

	wrongPassword := doJSON(t, r, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// the two failures are indistinguishable to the caller
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestUserList(t *testing.T) {
	r, store := newTestEnv(t)
	seedUser(t, store, "alice", "alice@example.com")
	seedUser(t, store, "bob", "bob@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []struct {
		Name string `json:"name"`
	}
	dataField(t, decodeEnvelope(t, w), "users", &users)
	assert.Len(t, users, 2)
	assert.NotContains(t, w.Body.String(), "password")
}
