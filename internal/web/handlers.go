package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/models"
)

var (
	errMissingFile     = errors.New("no file provided")
	errBadExportFormat = errors.New("unsupported export format, want csv or xlsx")
)

// TotalView is one currency's totals formatted for display.
type TotalView struct {
	Currency models.Currency `json:"currency"`
	Count    int             `json:"count"`
	Debit    string          `json:"debit"`
	Credit   string          `json:"credit"`
}

// PreviewResponse is the body of POST /api/preview.
type PreviewResponse struct {
	Filename string                 `json:"filename"`
	Bank     string                 `json:"bank,omitempty"`
	RunID    string                 `json:"runId,omitempty"`
	Count    int                    `json:"count"`
	Rows     []models.NormalizedRow `json:"rows"`
	Totals   []TotalView            `json:"totals"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStandardize returns the normalized statement as an attachment.
func (s *Server) handleStandardize(w http.ResponseWriter, r *http.Request) {
	format := s.defaultFormat
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := common.ParseFormat(q)
		if err != nil {
			s.respondError(w, r, errBadExportFormat)
			return
		}
		format = f
	}

	result, err := s.standardizeUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := common.Write(&buf, result.Rows, format); err != nil {
		s.respondError(w, r, fmt.Errorf("export: %w", err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if name := common.WithExtension(result.Filename, format); name != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	}
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Run-Id", result.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handlePreview returns the normalized rows and per-currency totals as JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	result, err := s.standardizeUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rows := result.Rows
	if rows == nil {
		rows = []models.NormalizedRow{}
	}
	totals := models.Totals(rows)
	views := make([]TotalView, 0, len(totals))
	for _, t := range totals {
		views = append(views, TotalView{
			Currency: t.Currency,
			Count:    t.Count,
			Debit:    t.Debit.Display(),
			Credit:   t.Credit.Display(),
		})
	}

	s.writeJSON(w, http.StatusOK, PreviewResponse{
		Filename: result.Filename,
		Bank:     result.Bank,
		RunID:    result.RunID,
		Count:    len(rows),
		Rows:     rows,
		Totals:   views,
	})
}

// standardizeUpload reads the multipart "file" field and runs it through
// the standardizer.
func (s *Server) standardizeUpload(w http.ResponseWriter, r *http.Request) (*models.StandardizationResult, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errMissingFile
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errMissingFile
	}
	defer file.Close()

	if err := common.ValidateInputName(header.Filename); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	return s.service.StandardizeBytes(header.Filename, content)
}
