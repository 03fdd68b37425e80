package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

// payload is the body posted to the destination. The record id is not sent.
type payload struct {
	Date        string           `json:"date"`
	Category    expense.Category `json:"category"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
}

// Client mirrors new records to an external HTTP endpoint with a single POST
// per record. It never retries and never reads the response.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

// NewClient returns a client whose requests give up after timeout. A zero
// timeout means requests are only bounded by the caller's context.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Deliver posts rec to destination. An empty destination yields
// StatusNotConfigured without any network activity. Any response, whatever its
// status code, counts as StatusAttempted.
func (c *Client) Deliver(ctx context.Context, destination string, rec expense.Record) Status {
	status := c.deliver(ctx, destination, rec)
	counterDeliveries.WithLabelValues(status.String()).Inc()

	return status
}

func (c *Client) deliver(ctx context.Context, destination string, rec expense.Record) Status {
	if destination == "" {
		return StatusNotConfigured
	}

	start := time.Now()
	defer func() {
		histogramDelivery.Observe(time.Since(start).Seconds())
	}()

	req, err := newRequest(ctx, destination, rec)
	if err != nil {
		c.logger.Warn("building sync request", "error", err, "id", rec.ID)
		return StatusTransportError
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("sync delivery failed", "error", err, "id", rec.ID)
		return StatusTransportError
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	c.logger.Debug("sync delivery attempted", "id", rec.ID, "response", resp.StatusCode)

	return StatusAttempted
}

func newRequest(ctx context.Context, destination string, rec expense.Record) (*http.Request, error) {
	body, err := json.Marshal(payload{
		Date:        rec.Date,
		Category:    rec.Category,
		Description: rec.Description,
		Amount:      rec.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
