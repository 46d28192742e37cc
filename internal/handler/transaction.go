package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// TransactionHandler serves the account-book entries.
type TransactionHandler struct {
	Store storage.Ledger
}

func NewTransactionHandler(store storage.Ledger) *TransactionHandler {
	return &TransactionHandler{Store: store}
}

// GetByID returns a single transaction.
func (h *TransactionHandler) GetByID(c *gin.Context) {
	tid, err := primitive.ObjectIDFromHex(c.Param("tid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return
	}

	tx, err := h.Store.TransactionByID(c.Request.Context(), tid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		return
	}
	if tx == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}

	util.Success(c, util.Response{"transaction": tx})
}

// ListByUser returns all transactions owned by a user.
func (h *TransactionHandler) ListByUser(c *gin.Context) {
	uid, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid user id")
		return
	}

	txs, err := h.Store.TransactionsByUser(c.Request.Context(), uid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	util.Success(c, util.Response{"transactions": txs})
}

type transactionReq struct {
	Date     int64    `json:"date" binding:"required"`
	Category string   `json:"category" binding:"required,max=32"`
	Title    string   `json:"title" binding:"required,max=128"`
	Amount   *float64 `json:"amount" binding:"required,gt=0"`
	Type     string   `json:"transaction_type" binding:"required,oneof=income expense"`
	Memo     string   `json:"memo" binding:"max=255"`
}

// Create inserts a transaction and appends its reference to the owner in
// one grouped write.
func (h *TransactionHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction request")
		return
	}

	tx := models.Transaction{
		ID:       primitive.NewObjectID(),
		UID:      caller.ID,
		Date:     req.Date,
		Category: req.Category,
		Title:    req.Title,
		Amount:   *req.Amount,
		Type:     models.TransactionType(req.Type),
		Memo:     req.Memo,
	}

	err := h.Store.GroupedWrite(c.Request.Context(), func(ctx context.Context) error {
		if err := h.Store.InsertTransaction(ctx, &tx); err != nil {
			return err
		}
		return h.Store.AddTransactionRef(ctx, caller.ID, tx.ID)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save transaction")
		return
	}

	util.Created(c, util.Response{"transaction": tx})
}

// Update edits an owned transaction in place.
func (h *TransactionHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	tid, err := primitive.ObjectIDFromHex(c.Param("tid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return
	}

	tx, err := h.Store.TransactionByID(c.Request.Context(), tid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		return
	}
	if tx == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}
	if tx.UID != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to edit this transaction")
		return
	}

	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction request")
		return
	}

	tx.Date = req.Date
	tx.Category = req.Category
	tx.Title = req.Title
	tx.Amount = *req.Amount
	tx.Type = models.TransactionType(req.Type)
	tx.Memo = req.Memo

	if err := h.Store.UpdateTransaction(c.Request.Context(), tx); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update transaction")
		return
	}

	util.Success(c, util.Response{"transaction": tx})
}

// Delete removes an owned transaction and its owner reference in one
// grouped write.
func (h *TransactionHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	tid, err := primitive.ObjectIDFromHex(c.Param("tid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid transaction id")
		return
	}

	tx, err := h.Store.TransactionByID(c.Request.Context(), tid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		return
	}
	if tx == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		return
	}
	if tx.UID != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to delete this transaction")
		return
	}

	err = h.Store.GroupedWrite(c.Request.Context(), func(ctx context.Context) error {
		if err := h.Store.DeleteTransaction(ctx, tid); err != nil {
			return err
		}
		return h.Store.RemoveTransactionRef(ctx, caller.ID, tid)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete transaction")
		return
	}

	util.Success(c, util.Response{"message": "transaction deleted", "transactionId": tid.Hex()})
}
