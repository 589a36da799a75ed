package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/azizikri/course-commerce/internal/domain"
)

type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		if strings.HasSuffix(domain.CodeOf(err), "NOT_FOUND") {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case domain.KindDomain:
		return http.StatusConflict
	case domain.KindExternal:
		return http.StatusBadGateway
	case domain.KindReconciliation:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{ErrorCode: code, Message: message})
}

// writeDomainError renders err with its mapped status. Internal errors never
// leak their message.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", requestFields(r, err)...)
		writeError(w, status, domain.CodeOf(err), "internal server error")
		return
	}

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Error()
	}
	writeError(w, status, domain.CodeOf(err), message)
}
