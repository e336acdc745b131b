package handler

import (
	"errors"
	"net/http"

	"verbum/internal/domain"
	"verbum/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Upstream detail stays in the logs; the caller gets a uniform message.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		detail := httpErr.Error()
		if errors.Is(err, domain.ErrUpstream) {
			detail = "upstream provider failure"
		}
		httputil.RespondError(w, httpErr.StatusCode(), detail)
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidPlan):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		httputil.RespondError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		httputil.RespondError(w, http.StatusBadGateway, "upstream provider failure")
	default:
		// Includes domain.ErrInternal: fail closed, say nothing specific.
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
