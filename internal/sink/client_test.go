package sink_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/sink"
)

var rec = expense.Record{
	ID:          "0190a5b2-7c1e-7000-8000-000000000001",
	Date:        "2024-01-15",
	Amount:      decimal.RequireFromString("50.25"),
	Category:    expense.CategoryFood,
	Description: "Lunch",
}

func newClient() *sink.Client {
	return sink.NewClient(2*time.Second, slog.New(slog.DiscardHandler))
}

func TestClient_Deliver(t *testing.T) {
	type testCase struct {
		name    string
		handler http.HandlerFunc
		want    sink.Status
	}

	tests := []testCase{
		{
			name:    "OK",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
			want:    sink.StatusAttempted,
		},
		{
			name:    "ServerErrorIsStillAttempted",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			want:    sink.StatusAttempted,
		},
		{
			name: "RedirectFollowed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/moved" {
					w.WriteHeader(http.StatusNoContent)
					return
				}

				http.Redirect(w, r, "/moved", http.StatusFound)
			},
			want: sink.StatusAttempted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := newClient().Deliver(context.Background(), srv.URL, rec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_DeliverPayload(t *testing.T) {
	var (
		gotMethod      string
		gotContentType string
		gotBody        map[string]any
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")

		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	status := newClient().Deliver(context.Background(), srv.URL, rec)
	require.Equal(t, sink.StatusAttempted, status)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{
		"date":        "2024-01-15",
		"category":    "Food",
		"description": "Lunch",
		"amount":      50.25,
	}, gotBody)
}

func TestClient_DeliverNotConfigured(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	got := newClient().Deliver(context.Background(), "", rec)

	assert.Equal(t, sink.StatusNotConfigured, got)
	assert.Zero(t, calls.Load())
}

func TestClient_DeliverTransportError(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	type testCase struct {
		name        string
		destination string
	}

	tests := []testCase{
		{name: "Unreachable", destination: closedURL},
		{name: "MalformedURL", destination: "://not a url"},
		{name: "UnsupportedScheme", destination: "ftp://example.com/hook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newClient().Deliver(context.Background(), tt.destination, rec)
			assert.Equal(t, sink.StatusTransportError, got)
		})
	}
}

func TestClient_DeliverTimeout(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := sink.NewClient(50*time.Millisecond, slog.New(slog.DiscardHandler))

	assert.Equal(t, sink.StatusTransportError, client.Deliver(context.Background(), srv.URL, rec))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "not_configured", sink.StatusNotConfigured.String())
	assert.Equal(t, "attempted", sink.StatusAttempted.String())
	assert.Equal(t, "transport_error", sink.StatusTransportError.String())
	assert.Equal(t, "Error syncing. Check your URL.", sink.StatusTransportError.Message())

	b, err := json.Marshal(map[string]sink.Status{"sync": sink.StatusAttempted})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sync":"attempted"}`, string(b))
}
