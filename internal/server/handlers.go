package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/elperroloc0/InvoiceScanner/constants"
	"github.com/elperroloc0/InvoiceScanner/internal/entity"
	"github.com/elperroloc0/InvoiceScanner/internal/export"
	"github.com/elperroloc0/InvoiceScanner/internal/repository"
)

const maxScanBodyBytes = 4 << 20

type scanRequest struct {
	Fragments []entity.Fragment `json:"fragments"`
}

// handleScan accepts OCR fragments and returns the parsed receipt. The body
// is either {"fragments": [...]} or a bare fragment array.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScanBodyBytes)

	body, err := readAll(r)
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req scanRequest
	if err := json.Unmarshal(body, &req); err != nil {
		if err := json.Unmarshal(body, &req.Fragments); err != nil {
			jsonError(w, "invalid scan request: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if len(req.Fragments) == 0 {
		jsonError(w, "fragments are required", http.StatusBadRequest)
		return
	}

	res, err := s.processor.Process(r.Context(), req.Fragments)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if s.store != nil {
		rec := &repository.ScanRecord{
			ID:            res.JobID,
			Receipt:       res.Receipt,
			Source:        res.Source,
			AvgConfidence: res.AvgConfidence,
		}
		if err := s.store.Save(r.Context(), rec); err != nil {
			s.log.Error("failed to persist scan", "job_id", res.JobID, "error", err)
			jsonError(w, "failed to persist scan", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "persistence is not configured", http.StatusNotImplemented)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []repository.ScanRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"receipts": recs})
}

// handleExport streams the stored receipts in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "persistence is not configured", http.StatusNotImplemented)
		return
	}
	format := constants.NormalizeExt(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}
	if _, ok := constants.SaveExtensions[format]; !ok {
		jsonError(w, "unsupported export format: "+format, http.StatusBadRequest)
		return
	}

	recs, err := s.store.List(r.Context(), 0)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	receipts := make([]entity.Receipt, 0, len(recs))
	for _, rec := range recs {
		receipts = append(receipts, rec.Receipt)
	}

	switch format {
	case "json":
		b, err := export.JSON(receipts)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	case "jsonl":
		w.Header().Set("Content-Type", "application/x-ndjson")
		if err := export.JSONL(w, receipts); err != nil {
			s.log.Error("jsonl export failed", "error", err)
		}
	case "csv":
		var buf bytes.Buffer
		if err := export.CSV(&buf, receipts); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="receipts.csv"`)
		_, _ = w.Write(buf.Bytes())
	case "xlsx":
		b, err := export.XLSX(receipts)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="receipts.xlsx"`)
		_, _ = w.Write(b)
	}
}

func readAll(r *http.Request) ([]byte, error) {
	defer func() { _ = r.Body.Close() }()
	return io.ReadAll(r.Body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
