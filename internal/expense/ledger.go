package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotKey is the key the ledger snapshot is stored under.
const SnapshotKey = "expenses"

//go:generate mockgen -source=ledger.go -destination=store_mock.go -package=expense
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type Option func(*Ledger)

// WithLogger sets the logger read and write failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithClock overrides the clock used to default the date of new records.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// Ledger holds the expense records in memory, newest first, and mirrors every
// mutation to the Store as a full JSON snapshot.
//
// Snapshot writes happen on a single background goroutine. Each write encodes
// the records as they are at write time, so writes requested while another is
// in flight collapse into one that carries the latest state.
type Ledger struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	records []Record

	kick      chan struct{}
	flush     chan chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewLedger returns an empty ledger backed by store and starts its writer.
// Call Load to hydrate it and Close to stop it.
func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		logger:  slog.Default(),
		now:     time.Now,
		records: []Record{},
		kick:    make(chan struct{}, 1),
		flush:   make(chan chan struct{}),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	go l.writeLoop()

	return l
}

// Load replaces the in-memory records with the persisted snapshot.
//
// A missing snapshot yields an empty ledger. An unreadable or corrupt one also
// yields an empty ledger; the failure is logged and returned for information
// only, the ledger stays usable.
func (l *Ledger) Load(ctx context.Context) error {
	raw, ok, err := l.store.Get(ctx, SnapshotKey)
	if err != nil {
		l.replace(nil)
		l.logger.Warn("ledger snapshot unreadable, starting empty", "error", err)

		return fmt.Errorf("reading snapshot: %w", err)
	}

	if !ok || strings.TrimSpace(raw) == "" {
		l.replace(nil)
		l.logger.Info("no ledger snapshot found, starting empty")

		return nil
	}

	var decoded []Record
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		l.replace(nil)
		l.logger.Error("ledger snapshot corrupt, starting empty", "error", err)

		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	records := l.sanitize(decoded)
	l.replace(records)
	l.logger.Info("ledger loaded", "records", len(records))

	return nil
}

// sanitize drops records that break the ledger invariants, keeping order.
func (l *Ledger) sanitize(decoded []Record) []Record {
	seen := make(map[ID]struct{}, len(decoded))
	records := make([]Record, 0, len(decoded))

	for _, r := range decoded {
		_, dup := seen[r.ID]

		switch {
		case r.ID == "" || dup:
			l.logger.Warn("dropping record with missing or duplicate id", "id", r.ID)
		case !validAmount(r.Amount):
			l.logger.Warn("dropping record with invalid amount", "id", r.ID, "amount", r.Amount.String())
		case !r.Category.Valid():
			l.logger.Warn("dropping record with unknown category", "id", r.ID, "category", r.Category)
		case !validDate(r.Date):
			l.logger.Warn("dropping record with malformed date", "id", r.ID, "date", r.Date)
		default:
			seen[r.ID] = struct{}{}
			records = append(records, r)
		}
	}

	return records
}

func (l *Ledger) replace(records []Record) {
	if records == nil {
		records = []Record{}
	}

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()
}

// Add validates p, prepends the resulting record and schedules a snapshot
// write. It never waits for the write.
func (l *Ledger) Add(p Params) (Record, error) {
	rec, err := p.record(NewID(), l.now().Format(time.DateOnly))
	if err != nil {
		return Record{}, err
	}

	l.mu.Lock()
	for l.indexOf(rec.ID) >= 0 {
		rec.ID = NewID()
	}

	l.records = slices.Insert(l.records, 0, rec)
	l.mu.Unlock()

	l.schedule()

	return rec, nil
}

// Remove deletes the record with the given id and schedules a snapshot write.
// It reports whether a record was removed; an unknown id leaves the ledger
// untouched.
func (l *Ledger) Remove(id ID) bool {
	l.mu.Lock()

	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return false
	}

	l.records = slices.Delete(l.records, i, i+1)
	l.mu.Unlock()

	l.schedule()

	return true
}

// indexOf must be called with mu held.
func (l *Ledger) indexOf(id ID) int {
	return slices.IndexFunc(l.records, func(r Record) bool { return r.ID == id })
}

// Total sums the amounts of all records.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, r := range l.records {
		total = total.Add(r.Amount)
	}

	return total
}

// Snapshot returns a copy of the records, newest first.
func (l *Ledger) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.records)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.records)
}

func (l *Ledger) schedule() {
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// Flush blocks until every write scheduled before the call has been attempted.
func (l *Ledger) Flush(ctx context.Context) error {
	ack := make(chan struct{})

	select {
	case l.flush <- ack:
	case <-l.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close attempts any pending write and stops the writer. Mutations after Close
// are kept in memory only.
func (l *Ledger) Close(ctx context.Context) error {
	l.closeOnce.Do(func() {
		close(l.stop)
	})

	select {
	case <-l.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Ledger) writeLoop() {
	defer close(l.stopped)

	for {
		select {
		case <-l.kick:
			l.persist()
		case ack := <-l.flush:
			l.drain()
			close(ack)
		case <-l.stop:
			l.drain()
			return
		}
	}
}

func (l *Ledger) drain() {
	select {
	case <-l.kick:
		l.persist()
	default:
	}
}

func (l *Ledger) persist() {
	start := time.Now()

	l.mu.RLock()
	raw, err := json.Marshal(l.records)
	n := len(l.records)
	l.mu.RUnlock()

	if err != nil {
		observeWrite(time.Since(start), err)
		l.logger.Error("encoding ledger snapshot", "error", err)

		return
	}

	err = l.store.Set(context.Background(), SnapshotKey, string(raw))
	observeWrite(time.Since(start), err)

	if err != nil {
		l.logger.Error("writing ledger snapshot", "error", err, "records", n)
		return
	}

	l.logger.Debug("ledger snapshot written", "records", n)
}
