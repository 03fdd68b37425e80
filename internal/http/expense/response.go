package expense

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

const (
	syncPending       = "pending"
	syncNotConfigured = "not_configured"
)

type expenseResponse struct {
	ID          expense.ID       `json:"id"`
	Date        string           `json:"date"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    expense.Category `json:"category"`
	Description string           `json:"description"`
}

type createExpenseResponse struct {
	Expense expenseResponse `json:"expense"`
	Sync    string          `json:"sync"`
}

type listResponse struct {
	Expenses []expenseResponse `json:"expenses"`
	Total    decimal.Decimal   `json:"total"`
}

func toResponse(rec expense.Record) expenseResponse {
	return expenseResponse{
		ID:          rec.ID,
		Date:        rec.Date,
		Amount:      rec.Amount,
		Category:    rec.Category,
		Description: rec.Description,
	}
}

func toResponseList(records []expense.Record) []expenseResponse {
	resp := make([]expenseResponse, len(records))
	for i, rec := range records {
		resp[i] = toResponse(rec)
	}

	return resp
}
