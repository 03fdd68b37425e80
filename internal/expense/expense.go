package expense

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Category is one of the fixed expense labels. Custom categories are not supported.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryBills          Category = "Bills"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEducation      Category = "Education"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategoryOther,
}

// Categories returns every category in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// Valid reports whether c belongs to the fixed category set.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// ID identifies a record within the ledger.
type ID string

// NewID returns a time-ordered identifier.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.NewString())
	}

	return ID(id.String())
}

// UnmarshalJSON accepts both strings and the numeric millisecond ids written by
// earlier versions of the snapshot.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}

		*id = ID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decoding id: %w", err)
	}

	*id = ID(n.String())

	return nil
}

// Record is a single expense. Records are immutable once added.
type Record struct {
	ID          ID              `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
}

// Params holds the caller-supplied fields of a new record.
type Params struct {
	Date        string
	Amount      decimal.Decimal
	Category    Category
	Description string
}

const emptyDescription = "-"

// record validates p and builds the record it describes. today is used when no
// date was supplied.
func (p Params) record(id ID, today string) (Record, error) {
	if !validAmount(p.Amount) {
		return Record{}, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}

	if !p.Category.Valid() {
		return Record{}, &ValidationError{Field: "category", Err: ErrInvalidCategory}
	}

	date := strings.TrimSpace(p.Date)
	if date == "" {
		date = today
	}

	if !validDate(date) {
		return Record{}, &ValidationError{Field: "date", Err: ErrInvalidDate}
	}

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = emptyDescription
	}

	return Record{
		ID:          id,
		Date:        date,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: desc,
	}, nil
}

// ParseAmount parses a user-entered amount. Missing, malformed and
// non-positive values are rejected, as are values a spreadsheet cannot hold
// exactly.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !validAmount(d) {
		return decimal.Zero, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}

	return d, nil
}

// validAmount reports whether d is positive and survives a float64 round-trip,
// which is how spreadsheets store numbers.
func validAmount(d decimal.Decimal) bool {
	if !d.IsPositive() {
		return false
	}

	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return false
	}

	return d.Equal(decimal.NewFromFloat(f))
}

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
