package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

const SheetName = "Expenses"

type column struct {
	name  string
	width float64
}

var columns = []column{
	{name: "Date", width: 12},
	{name: "Category", width: 15},
	{name: "Description", width: 30},
	{name: "Amount", width: 10},
}

// Filename returns the export file name for the given day.
func Filename(t time.Time) string {
	return "expenses_" + t.Format(time.DateOnly) + ".xlsx"
}

// Write encodes records as an xlsx workbook with a single sheet. Rows keep the
// order of records, after one header row.
func Write(w io.Writer, records []expense.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, 0, len(columns))

	for i, c := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("resolving column %d: %w", i+1, err)
		}

		if err := f.SetColWidth(SheetName, name, name, c.width); err != nil {
			return fmt.Errorf("setting width of %s: %w", c.name, err)
		}

		header = append(header, c.name)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolving row %d: %w", i+2, err)
		}

		row := []any{r.Date, string(r.Category), r.Description, r.Amount.InexactFloat64()}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing record %s: %w", r.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}

	return nil
}

// Source provides the records to export, newest first.
type Source interface {
	Snapshot() []expense.Record
}

// Service writes the current ledger to xlsx files.
type Service struct {
	source Source
	now    func() time.Time
}

func NewService(source Source) *Service {
	return &Service{source: source, now: time.Now}
}

// WithClock overrides the clock used for file names.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Stream encodes the current records into w and returns the file name the
// workbook should be saved under.
func (s *Service) Stream(w io.Writer) (string, error) {
	if err := Write(w, s.source.Snapshot()); err != nil {
		return "", err
	}

	return Filename(s.now()), nil
}

// Export saves the current records into dir and returns the file path.
func (s *Service) Export(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, Filename(s.now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := Write(f, s.source.Snapshot()); err != nil {
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return path, nil
}
