package web

import (
	"errors"
	"net/http"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/parsererror"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorStatus maps a pipeline or upload error to an HTTP status, a stable
// code and the message shown to the client. Standardization failures stay
// generic; the detail is already in the server log.
func errorStatus(err error) (int, string, string) {
	var formatErr *parsererror.InvalidFormatError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "upload_too_large", "file exceeds the upload limit"
	case errors.As(err, &formatErr):
		return http.StatusBadRequest, "invalid_format", formatErr.Msg
	case errors.Is(err, errMissingFile):
		return http.StatusBadRequest, "missing_file", err.Error()
	case errors.Is(err, errBadExportFormat):
		return http.StatusBadRequest, "invalid_export_format", err.Error()
	case errors.Is(err, parsererror.ErrReadFailed):
		return http.StatusBadRequest, "read_failed", parsererror.ErrReadFailed.Error()
	case errors.Is(err, parsererror.ErrStandardizationFailed):
		return http.StatusUnprocessableEntity, "standardization_failed", parsererror.ErrStandardizationFailed.Error()
	}
	return http.StatusInternalServerError, "internal", "internal server error"
}

// respondError logs err with the request context and writes the JSON error.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := errorStatus(err)

	s.logger.WithError(err).Warn("Request failed",
		logging.F("path", r.URL.Path),
		logging.F("status", status),
		logging.F("code", code),
		logging.F("request_id", middleware.GetReqID(r.Context())))

	s.writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
