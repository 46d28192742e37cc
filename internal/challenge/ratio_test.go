package challenge

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
)

func millis(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func expense(year int, month time.Month, day int, amount float64) models.Transaction {
	return models.Transaction{
		Date:   millis(year, month, day),
		Amount: amount,
		Type:   models.Expense,
	}
}

func income(year int, month time.Month, day int, amount float64) models.Transaction {
	return models.Transaction{
		Date:   millis(year, month, day),
		Amount: amount,
		Type:   models.Income,
	}
}

func TestBudgetForMonthMatchesUnpaddedKey(t *testing.T) {
	budgets := []models.Budget{
		{MonthYear: "2024-02", Amount: 1},
		{MonthYear: "2024-3", Amount: 50000},
	}

	b, ok := BudgetForMonth(budgets, 2024, 3)
	require.True(t, ok)
	assert.Equal(t, 50000.0, b.Amount)

	_, ok = BudgetForMonth(budgets, 2024, 4)
	assert.False(t, ok)
}

func TestBudgetForMonthSkipsMalformedKeys(t *testing.T) {
	budgets := []models.Budget{
		{MonthYear: "not-a-month", Amount: 1},
		{MonthYear: "2024-03", Amount: 70000},
	}

	b, ok := BudgetForMonth(budgets, 2024, 3)
	require.True(t, ok)
	assert.Equal(t, 70000.0, b.Amount)
}

func TestMonthlyExpenseSumsOnlyExpensesInMonth(t *testing.T) {
	txs := []models.Transaction{
		expense(2024, time.March, 1, 25000),
		expense(2024, time.March, 31, 15000),
		income(2024, time.March, 10, 999999), // income never counts
		expense(2024, time.April, 1, 7000),   // outside the month
		expense(2023, time.March, 5, 7000),   // wrong year
	}

	total := MonthlyExpense(txs, 2024, 3)
	assert.True(t, total.Equal(decimal.NewFromInt(40000)), total.String())
}

func TestMonthlyExpenseIgnoresUntypedRecords(t *testing.T) {
	txs := []models.Transaction{
		{Date: millis(2024, time.March, 2), Amount: 5000, Type: ""},
		expense(2024, time.March, 3, 1000),
	}
	assert.True(t, MonthlyExpense(txs, 2024, 3).Equal(decimal.NewFromInt(1000)))
}

func TestMonthlyExpenseEmpty(t *testing.T) {
	assert.True(t, MonthlyExpense(nil, 2024, 3).IsZero())
}

func TestExpenseRatio(t *testing.T) {
	budgets := []models.Budget{{MonthYear: "2024-03", Amount: 100000}}
	txs := []models.Transaction{
		expense(2024, time.March, 5, 25000),
		expense(2024, time.March, 20, 15000),
	}

	assert.InDelta(t, 0.4, ExpenseRatio(budgets, txs, 2024, 3), 1e-9)
}

func TestExpenseRatioZeroWithoutBudget(t *testing.T) {
	txs := []models.Transaction{expense(2024, time.March, 5, 25000)}

	// missing budget
	assert.Zero(t, ExpenseRatio(nil, txs, 2024, 3))

	// budget of exactly zero, division never attempted
	budgets := []models.Budget{{MonthYear: "2024-03", Amount: 0}}
	assert.Zero(t, ExpenseRatio(budgets, txs, 2024, 3))
}

func TestExpenseRatioCanExceedOne(t *testing.T) {
	budgets := []models.Budget{{MonthYear: "2024-03", Amount: 10000}}
	txs := []models.Transaction{expense(2024, time.March, 5, 25000)}

	assert.InDelta(t, 2.5, ExpenseRatio(budgets, txs, 2024, 3), 1e-9)
}
