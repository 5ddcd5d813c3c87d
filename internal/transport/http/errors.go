package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeInvalidStatus      = "invalid_status"
	codeUnauthorized       = "unauthorized"
	codeForbidden          = "forbidden"
	codeUserNotFound       = "user_not_found"
	codeTradeNotFound      = "trade_not_found"
	codeItemNotFound       = "item_not_found"
	codeCatalogNotFound    = "catalog_entry_not_found"
	codeOwnershipMismatch  = "ownership_mismatch"
	codeSelfTrade          = "self_trade"
	codeTradeNotPending    = "trade_not_pending"
	codeItemUnavailable    = "item_unavailable"
	codePartialFailure     = "partial_failure"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the trade error taxonomy onto HTTP statuses.
// Validation errors are 4xx and side-effect free; a partial failure is the one
// 5xx the caller is expected to retry.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrSelfTrade):
		writeError(w, http.StatusBadRequest, codeSelfTrade, err.Error())
	case errors.Is(err, domain.ErrOwnershipMismatch):
		writeError(w, http.StatusBadRequest, codeOwnershipMismatch, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
	case errors.Is(err, domain.ErrTradeNotFound):
		writeError(w, http.StatusNotFound, codeTradeNotFound, err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, codeItemNotFound, err.Error())
	case errors.Is(err, domain.ErrCatalogEntryNotFound):
		writeError(w, http.StatusNotFound, codeCatalogNotFound, err.Error())
	case errors.Is(err, domain.ErrNotTradeReceiver):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	case errors.Is(err, domain.ErrTradeNotPending):
		writeError(w, http.StatusConflict, codeTradeNotPending, err.Error())
	case errors.Is(err, domain.ErrItemUnavailable):
		writeError(w, http.StatusConflict, codeItemUnavailable, err.Error())
	case errors.Is(err, domain.ErrPartialFailure):
		writeError(w, http.StatusInternalServerError, codePartialFailure, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
