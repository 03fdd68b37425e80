package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/settings"
	"github.com/MrJamesThe3rd/tally/internal/sink"
)

// Service ties the ledger, its settings, the sync client and the exporter into
// the operations the API and TUI expose.
type Service struct {
	ledger   *expense.Ledger
	settings *settings.Service
	sink     *sink.Client
	exporter *export.Service
	logger   *slog.Logger
	now      func() time.Time

	deliveries sync.WaitGroup
}

func NewService(
	ledger *expense.Ledger,
	settingsSvc *settings.Service,
	sinkClient *sink.Client,
	exporter *export.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		ledger:   ledger,
		settings: settingsSvc,
		sink:     sinkClient,
		exporter: exporter,
		logger:   logger,
		now:      time.Now,
	}
}

// Load hydrates the ledger and the settings. Failures are logged by the
// components and leave them empty; the joined error is returned so callers can
// surface it.
func (s *Service) Load(ctx context.Context) error {
	var errs []error

	if err := s.ledger.Load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("loading ledger: %w", err))
	}

	if err := s.settings.Load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("loading settings: %w", err))
	}

	return errors.Join(errs...)
}

// Delivery tracks the mirroring of one added expense.
type Delivery struct {
	// Configured reports whether a destination was set when the expense was
	// added.
	Configured bool
	// Status yields the outcome once it is known, then closes.
	Status <-chan sink.Status
}

// Add records a new expense and starts mirroring it to the sync destination
// configured at this moment. The record is returned as soon as it is in the
// ledger.
func (s *Service) Add(ctx context.Context, p expense.Params) (expense.Record, Delivery, error) {
	rec, err := s.ledger.Add(p)
	if err != nil {
		return expense.Record{}, Delivery{}, err
	}

	s.logger.Info("expense added", "id", rec.ID, "category", rec.Category, "amount", rec.Amount.String())

	destination := s.settings.Destination()
	status := make(chan sink.Status, 1)

	s.deliveries.Add(1)

	go func() {
		defer s.deliveries.Done()

		status <- s.sink.Deliver(context.WithoutCancel(ctx), destination, rec)
		close(status)
	}()

	return rec, Delivery{Configured: destination != "", Status: status}, nil
}

// Delete removes the expense with the given id. Unknown ids are ignored and
// reported as false.
func (s *Service) Delete(id expense.ID) bool {
	removed := s.ledger.Remove(id)
	if removed {
		s.logger.Info("expense deleted", "id", id)
	}

	return removed
}

// List returns the records, newest first, with their total.
func (s *Service) List() ([]expense.Record, decimal.Decimal) {
	return s.ledger.Snapshot(), s.ledger.Total()
}

func (s *Service) Summary() expense.Summary {
	return expense.Summarize(s.ledger.Snapshot(), s.now())
}

// Export writes the ledger to an xlsx file in dir.
func (s *Service) Export(dir string) (string, error) {
	path, err := s.exporter.Export(dir)
	if err != nil {
		return "", fmt.Errorf("exporting expenses: %w", err)
	}

	s.logger.Info("expenses exported", "path", path, "records", s.ledger.Len())

	return path, nil
}

// ExportTo streams the ledger as xlsx into w and returns the suggested file
// name.
func (s *Service) ExportTo(w io.Writer) (string, error) {
	name, err := s.exporter.Stream(w)
	if err != nil {
		return "", fmt.Errorf("exporting expenses: %w", err)
	}

	return name, nil
}

func (s *Service) Destination() string {
	return s.settings.Destination()
}

func (s *Service) SetDestination(ctx context.Context, url string) error {
	return s.settings.Save(ctx, url)
}

// Close stops the ledger after its last snapshot write, then waits for
// in-flight deliveries. A delivery still running when ctx ends does not keep the
// ledger open.
func (s *Service) Close(ctx context.Context) error {
	var errs []error

	if err := s.ledger.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("closing ledger: %w", err))
	}

	done := make(chan struct{})

	go func() {
		s.deliveries.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("waiting for deliveries: %w", ctx.Err()))
	}

	return errors.Join(errs...)
}
