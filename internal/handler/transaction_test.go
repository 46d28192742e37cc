package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage/storagetest"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

func txBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"date":             time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).UnixMilli(),
		"category":         "food",
		"title":            title,
		"amount":           12000,
		"transaction_type": "expense",
	}
}

func seedTransaction(t *testing.T, store *storagetest.Fake, u *models.User, amount float64) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		ID:       primitive.NewObjectID(),
		UID:      u.ID,
		Date:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).UnixMilli(),
		Category: "food",
		Title:    "lunch",
		Amount:   amount,
		Type:     models.Expense,
	}
	require.NoError(t, store.InsertTransaction(context.Background(), tx))
	require.NoError(t, store.AddTransactionRef(context.Background(), u.ID, tx.ID))
	return tx
}

func TestTransactionCreate(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/transactions", tokenFor(t, u), txBody("lunch"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tx models.Transaction
	dataField(t, decodeEnvelope(t, w), "transaction", &tx)
	assert.Equal(t, u.ID, tx.UID)
	assert.Equal(t, models.Expense, tx.Type)

	stored, err := store.TransactionByID(context.Background(), tx.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	owner, err := store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Contains(t, owner.Transactions, tx.ID)
}

func TestTransactionCreateRequiresAuth(t *testing.T) {
	r, _ := newTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", "", txBody("lunch"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransactionCreateValidation(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")
	token := tokenFor(t, u)

	badType := txBody("lunch")
	badType["transaction_type"] = "transfer"

	badAmount := txBody("lunch")
	badAmount["amount"] = 0

	noTitle := txBody("lunch")
	delete(noTitle, "title")

	for _, body := range []map[string]interface{}{badType, badAmount, noTitle} {
		w := doJSON(t, r, http.MethodPost, "/api/transactions", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
	}
}

func TestTransactionGetByID(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")
	tx := seedTransaction(t, store, u, 12000)

	w := doJSON(t, r, http.MethodGet, "/api/transactions/"+tx.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Transaction
	dataField(t, decodeEnvelope(t, w), "transaction", &got)
	assert.Equal(t, tx.ID, got.ID)

	w = doJSON(t, r, http.MethodGet, "/api/transactions/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionListByUser(t *testing.T) {
	r, store := newTestEnv(t)
	alice := seedUser(t, store, "alice", "alice@example.com")
	bob := seedUser(t, store, "bob", "bob@example.com")
	seedTransaction(t, store, alice, 12000)
	seedTransaction(t, store, alice, 8000)
	seedTransaction(t, store, bob, 5000)

	w := doJSON(t, r, http.MethodGet, "/api/transactions/user/"+alice.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var txs []models.Transaction
	dataField(t, decodeEnvelope(t, w), "transactions", &txs)
	assert.Len(t, txs, 2)
}

func TestTransactionUpdateOwnerOnly(t *testing.T) {
	r, store := newTestEnv(t)
	alice := seedUser(t, store, "alice", "alice@example.com")
	bob := seedUser(t, store, "bob", "bob@example.com")
	tx := seedTransaction(t, store, alice, 12000)

	w := doJSON(t, r, http.MethodPatch, "/api/transactions/"+tx.ID.Hex(), tokenFor(t, bob), txBody("hijack"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/transactions/"+tx.ID.Hex(), tokenFor(t, alice), txBody("dinner"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := store.TransactionByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", stored.Title)
}

func TestTransactionDelete(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")
	tx := seedTransaction(t, store, u, 12000)

	w := doJSON(t, r, http.MethodDelete, "/api/transactions/"+tx.ID.Hex(), tokenFor(t, u), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := store.TransactionByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	owner, err := store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotContains(t, owner.Transactions, tx.ID)
}

func TestTransactionDeleteRollsBackAsOneUnit(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")
	tx := seedTransaction(t, store, u, 12000)

	// the second write of the group fails, so the first must not stick
	store.FailOn["RemoveTransactionRef"] = errors.New("write conflict")

	w := doJSON(t, r, http.MethodDelete, "/api/transactions/"+tx.ID.Hex(), tokenFor(t, u), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, util.CodeServerErr, decodeEnvelope(t, w).Code)

	stored, err := store.TransactionByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored, "delete must roll back with the failed ref removal")

	owner, err := store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Contains(t, owner.Transactions, tx.ID)
}
