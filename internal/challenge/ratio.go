// Package challenge computes budget-to-expense ratios and peer rankings.
// Everything here is a pure function over snapshots handed in by the
// caller; nothing mutates entity state.
package challenge

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// Participant is the snapshot of one user the ranking engines operate on.
type Participant struct {
	ID           primitive.ObjectID
	Name         string
	Email        string
	Budgets      []models.Budget
	Transactions []models.Transaction
}

// RankEntry is one row of a ranking result.
type RankEntry struct {
	UserID       primitive.ObjectID `json:"userId"`
	UserName     string             `json:"userName"`
	UserEmail    string             `json:"userEmail"`
	ExpenseRatio float64            `json:"expenseRatio"`
}

// BudgetForMonth returns the budget entry matching the target month.
// Month keys are compared numerically, so "2024-3" matches "2024-03".
func BudgetForMonth(budgets []models.Budget, year, month int) (models.Budget, bool) {
	for _, b := range budgets {
		by, bm, err := util.ParseMonthKey(b.MonthYear)
		if err != nil {
			continue
		}
		if by == year && bm == month {
			return b, true
		}
	}
	return models.Budget{}, false
}

// MonthlyExpense sums the amounts of expense-type transactions dated inside
// the target calendar month. Dates are epoch millis, evaluated in UTC. An
// empty transaction list sums to zero.
func MonthlyExpense(transactions []models.Transaction, year, month int) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type != models.Expense {
			continue
		}
		d := time.UnixMilli(t.Date).UTC()
		if d.Year() == year && int(d.Month()) == month {
			total = total.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	return total
}

// ExpenseRatio is the month's expense sum divided by the month's budget.
// A missing budget, or a budget of exactly 0, yields a ratio of exactly 0
// by policy; the division is never attempted.
func ExpenseRatio(budgets []models.Budget, transactions []models.Transaction, year, month int) float64 {
	b, ok := BudgetForMonth(budgets, year, month)
	if !ok || b.Amount == 0 {
		return 0
	}
	return ratioAgainst(transactions, decimal.NewFromFloat(b.Amount), year, month)
}

func ratioAgainst(transactions []models.Transaction, budget decimal.Decimal, year, month int) float64 {
	ratio, _ := MonthlyExpense(transactions, year, month).Div(budget).Float64()
	return ratio
}
