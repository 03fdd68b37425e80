package expense

import (
	"cmp"
	"slices"
	"time"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type Summary struct {
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	MonthTotal decimal.Decimal `json:"month_total"`
	Categories []CategoryTotal `json:"categories"`
}

// Summarize totals records overall, for the calendar month containing at, and
// per category. Categories are ordered by total, largest first.
func Summarize(records []Record, at time.Time) Summary {
	monthStart := now.With(at).BeginningOfMonth().Format(time.DateOnly)
	monthEnd := now.With(at).EndOfMonth().Format(time.DateOnly)

	sum := Summary{
		Total:      decimal.Zero,
		MonthTotal: decimal.Zero,
		Categories: []CategoryTotal{},
	}

	byCategory := make(map[Category]*CategoryTotal)

	for _, r := range records {
		sum.Total = sum.Total.Add(r.Amount)
		sum.Count++

		// Dates are YYYY-MM-DD so lexical order is chronological.
		if r.Date >= monthStart && r.Date <= monthEnd {
			sum.MonthTotal = sum.MonthTotal.Add(r.Amount)
		}

		ct, ok := byCategory[r.Category]
		if !ok {
			ct = &CategoryTotal{Category: r.Category, Total: decimal.Zero}
			byCategory[r.Category] = ct
		}

		ct.Total = ct.Total.Add(r.Amount)
		ct.Count++
	}

	for _, ct := range byCategory {
		sum.Categories = append(sum.Categories, *ct)
	}

	slices.SortFunc(sum.Categories, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return sum
}
