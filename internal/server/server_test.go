package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elperroloc0/InvoiceScanner/internal/pipeline"
	"github.com/elperroloc0/InvoiceScanner/internal/repository"
)

type memStore struct {
	records []repository.ScanRecord
}

func (m *memStore) Save(_ context.Context, rec *repository.ScanRecord) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *memStore) List(_ context.Context, limit int) ([]repository.ScanRecord, error) {
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]repository.ScanRecord, limit)
	copy(out, m.records[len(m.records)-limit:])
	return out, nil
}

func (m *memStore) Close() error { return nil }

func newTestServer(store repository.ReceiptStore) *Server {
	proc := pipeline.New(pipeline.Config{}, nil, nil, nil, nil)
	return NewServer(proc, store, nil)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestScan(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(store)

	body := `{"fragments":[
		{"text":"Publix","confidence":0.98},
		{"text":"MILK","confidence":0.95},
		{"text":"3.39","confidence":0.97},
		{"text":"TOTAL","confidence":0.96},
		{"text":"3.39","confidence":0.97}
	]}`
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res pipeline.ScanResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "Publix", res.Receipt.Store)
	require.Len(t, res.Receipt.Items, 1)
	assert.Equal(t, "MILK", res.Receipt.Items[0].Name)
	require.NotNil(t, res.Receipt.Total)
	assert.InDelta(t, 3.39, *res.Receipt.Total, 1e-9)

	require.Len(t, store.records, 1)
	assert.Equal(t, res.JobID, store.records[0].ID)
}

func TestScanBareArrayBody(t *testing.T) {
	srv := newTestServer(nil)

	body := `[{"text":"MILK","confidence":0.95},{"text":"3.39","confidence":0.97}]`
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestScanRejectsEmptyAndGarbage(t *testing.T) {
	srv := newTestServer(nil)

	for _, body := range []string{`{"fragments":[]}`, `not json`} {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestListReceipts(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(store)

	body := `[{"text":"MILK","confidence":0.95},{"text":"3.39","confidence":0.97}]`
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/receipts", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Receipts []repository.ScanRecord `json:"receipts"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Len(t, res.Receipts, 1)
}

func TestListReceiptsWithoutStore(t *testing.T) {
	srv := newTestServer(nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/receipts", nil))
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestExportCSV(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(store)

	body := `[{"text":"MILK","confidence":0.95},{"text":"3.39","confidence":0.97}]`
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/receipts/export?format=csv", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("store,item_name,price,total")))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	srv := newTestServer(&memStore{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/receipts/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
