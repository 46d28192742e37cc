package challenge

import (
	"sort"

	"github.com/shopspring/decimal"
)

const tolerance = 0.1 // similarity band around the reference budget

// GlobalRanking ranks the whole population by expense ratio for the target
// month, lowest ratio first. Users with a missing or zero budget for the
// month are excluded. The sort is stable, so ties keep input order.
func GlobalRanking(population []Participant, year, month int) []RankEntry {
	entries := make([]RankEntry, 0, len(population))
	for _, p := range population {
		b, ok := BudgetForMonth(p.Budgets, year, month)
		if !ok || b.Amount == 0 {
			continue
		}
		entries = append(entries, RankEntry{
			UserID:       p.ID,
			UserName:     p.Name,
			UserEmail:    p.Email,
			ExpenseRatio: ratioAgainst(p.Transactions, decimal.NewFromFloat(b.Amount), year, month),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ExpenseRatio < entries[j].ExpenseRatio
	})
	return entries
}

// SimilarRanking ranks the users whose budget for the target month is close
// to the reference budget.
//
// When the reference budget is zero, the result is every user whose own
// budget for the month is zero or unset, ratio 0, ordered by name. Otherwise
// membership requires the user's own budget to lie within ±10% (inclusive)
// of the reference amount; each member's ratio is their expense sum divided
// by the reference budget, ordered highest ratio first.
func SimilarRanking(population []Participant, referenceBudget float64, year, month int) []RankEntry {
	if referenceBudget == 0 {
		return zeroBudgetRanking(population, year, month)
	}

	ref := decimal.NewFromFloat(referenceBudget)
	lo := ref.Mul(decimal.NewFromFloat(1 - tolerance))
	hi := ref.Mul(decimal.NewFromFloat(1 + tolerance))

	entries := make([]RankEntry, 0, len(population))
	for _, p := range population {
		b, ok := BudgetForMonth(p.Budgets, year, month)
		if !ok || b.Amount == 0 {
			continue
		}
		amount := decimal.NewFromFloat(b.Amount)
		if amount.LessThan(lo) || amount.GreaterThan(hi) {
			continue
		}
		entries = append(entries, RankEntry{
			UserID:       p.ID,
			UserName:     p.Name,
			UserEmail:    p.Email,
			ExpenseRatio: ratioAgainst(p.Transactions, ref, year, month),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ExpenseRatio > entries[j].ExpenseRatio
	})
	return entries
}

func zeroBudgetRanking(population []Participant, year, month int) []RankEntry {
	entries := make([]RankEntry, 0, len(population))
	for _, p := range population {
		if b, ok := BudgetForMonth(p.Budgets, year, month); ok && b.Amount != 0 {
			continue
		}
		entries = append(entries, RankEntry{
			UserID:    p.ID,
			UserName:  p.Name,
			UserEmail: p.Email,
			// a zero budget always means a zero ratio
			ExpenseRatio: 0,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UserName < entries[j].UserName
	})
	return entries
}
