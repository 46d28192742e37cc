package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/challenge"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// ChallengeHandler serves the budget-ratio rankings. It reads a fresh
// snapshot of the population per request and hands it to the pure ranking
// engine.
type ChallengeHandler struct {
	Store storage.Ledger
}

func NewChallengeHandler(store storage.Ledger) *ChallengeHandler {
	return &ChallengeHandler{Store: store}
}

func (h *ChallengeHandler) population(c *gin.Context) ([]challenge.Participant, bool) {
	users, err := h.Store.Users(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load users")
		return nil, false
	}
	if len(users) == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no users to rank")
		return nil, false
	}

	uids := make([]primitive.ObjectID, 0, len(users))
	for i := range users {
		uids = append(uids, users[i].ID)
	}

	txByUser, err := h.Store.TransactionsByUsers(c.Request.Context(), uids)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return nil, false
	}

	population := make([]challenge.Participant, 0, len(users))
	for i := range users {
		u := &users[i]
		population = append(population, challenge.Participant{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			Budgets:      u.Budgets,
			Transactions: txByUser[u.ID],
		})
	}
	return population, true
}

// Global ranks every user with a positive budget for the month, lowest
// expense ratio first.
func (h *ChallengeHandler) Global(c *gin.Context) {
	year, month, err := util.ParseMonthKey(c.Param("date"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be formatted as YYYY-MM")
		return
	}

	population, ok := h.population(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"challenge": challenge.GlobalRanking(population, year, month),
	})
}

// Similar ranks the users whose budget sits within the tolerance band of
// the reference budget.
func (h *ChallengeHandler) Similar(c *gin.Context) {
	year, month, err := util.ParseMonthKey(c.Param("date"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be formatted as YYYY-MM")
		return
	}

	refBudget, err := strconv.ParseFloat(c.Param("budget"), 64)
	// ParseFloat accepts "NaN" and "Inf", which no budget can be
	if err != nil || refBudget < 0 || math.IsNaN(refBudget) || math.IsInf(refBudget, 0) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "budget must be a non-negative number")
		return
	}

	population, ok := h.population(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"similarBudgetUsers": challenge.SimilarRanking(population, refBudget, year, month),
	})
}
