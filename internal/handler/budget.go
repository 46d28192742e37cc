package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/challenge"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// BudgetHandler serves the per-user monthly budgets embedded on the user
// document.
type BudgetHandler struct {
	Store storage.Ledger
}

func NewBudgetHandler(store storage.Ledger) *BudgetHandler {
	return &BudgetHandler{Store: store}
}

// GetByMonth returns the caller's budget for a month, creating a zero-amount
// entry when none exists yet so the client always has an entry to edit.
func (h *BudgetHandler) GetByMonth(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	uid, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid user id")
		return
	}
	if uid != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to read this budget")
		return
	}

	year, month, err := util.ParseMonthKey(c.Param("date"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be formatted as YYYY-MM")
		return
	}

	user, err := h.Store.UserByID(c.Request.Context(), uid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		return
	}
	if user == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "user not found")
		return
	}

	budget, found := challenge.BudgetForMonth(user.Budgets, year, month)
	if !found {
		budget = models.Budget{
			ID:        primitive.NewObjectID(),
			MonthYear: util.FormatMonthKey(year, month),
			Amount:    0,
		}
		budgets := append(user.Budgets, budget)
		if err := h.Store.SetUserBudgets(c.Request.Context(), uid, budgets); err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create budget")
			return
		}
	}

	util.Success(c, util.Response{"budget": budget})
}

type updateBudgetReq struct {
	MonthYear string   `json:"monthYear" binding:"required"`
	Amount    *float64 `json:"amount" binding:"required,gte=0"`
}

// Update edits one budget entry. A month key held by another entry of the
// same user is rejected, keeping one entry per month.
func (h *BudgetHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	uid, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid user id")
		return
	}
	if uid != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to edit this budget")
		return
	}

	bid, err := primitive.ObjectIDFromHex(c.Param("bid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budget id")
		return
	}

	var req updateBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid budget request")
		return
	}
	year, month, err := util.ParseMonthKey(req.MonthYear)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "monthYear must be formatted as YYYY-MM")
		return
	}

	user, err := h.Store.UserByID(c.Request.Context(), uid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		return
	}
	if user == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "user not found")
		return
	}

	idx := -1
	for i := range user.Budgets {
		if user.Budgets[i].ID == bid {
			idx = i
			break
		}
	}
	if idx < 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "budget not found")
		return
	}

	// one budget entry per month key
	if other, found := challenge.BudgetForMonth(user.Budgets, year, month); found && other.ID != bid {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeDuplicate, "a budget for that month already exists")
		return
	}

	user.Budgets[idx].MonthYear = util.FormatMonthKey(year, month)
	user.Budgets[idx].Amount = *req.Amount

	if err := h.Store.SetUserBudgets(c.Request.Context(), uid, user.Budgets); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update budget")
		return
	}

	util.Success(c, util.Response{"budget": user.Budgets[idx]})
}
