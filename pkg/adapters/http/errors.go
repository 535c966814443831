package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/txtree"
	"github.com/aretw0/txtree/pkg/document"
	"github.com/aretw0/txtree/pkg/ports"
	"github.com/aretw0/txtree/pkg/workspace"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var verr *document.ValidationError
	var rerr *requestError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, txtree.ErrAnotherTransactionActive),
		errors.Is(err, txtree.ErrTransactionNotActive),
		errors.Is(err, txtree.ErrWrongTransactionDescriptor):
		return http.StatusConflict
	case errors.As(err, &rerr),
		errors.Is(err, workspace.ErrNameMismatch),
		errors.Is(err, document.ErrNotFound),
		errors.Is(err, document.ErrRemoved),
		errors.Is(err, document.ErrInvalidName),
		errors.Is(err, document.ErrRootRemoval),
		errors.Is(err, document.ErrUnknownOp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	resp := ErrorResponse{Error: err.Error()}
	var verr *document.ValidationError
	if errors.As(err, &verr) {
		resp.Path = verr.Path
		resp.Reason = verr.Reason
	}

	attrs := []any{"method", r.Method, "path", r.URL.Path, "status", status, "request_id", middleware.GetReqID(r.Context()), "err", err}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Debug("request rejected", attrs...)
	}
	s.writeJSON(w, status, resp)
}
