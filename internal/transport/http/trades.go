package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/app"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
)

// TradeService is the slice of the trade engine the transport needs.
type TradeService interface {
	Create(ctx context.Context, in app.CreateTradeInput) (domain.TradeOffer, error)
	Accept(ctx context.Context, tradeID, actorID string) (domain.TradeOffer, error)
	Decline(ctx context.Context, tradeID, actorID string) (domain.TradeOffer, error)
	Get(ctx context.Context, tradeID string) (domain.TradeOffer, error)
	ListForUser(ctx context.Context, userID string, status *domain.TradeStatus) ([]domain.TradeOffer, error)
}

// HandleTrades serves the /trades collection: POST proposes a trade, GET lists
// the caller's trade history with an optional status filter.
func HandleTrades(svc TradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createTrade(svc, w, r)
		case http.MethodGet:
			listTrades(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleTradeByID serves /trades/{id}, /trades/{id}/accept and
// /trades/{id}/decline.
func HandleTradeByID(svc TradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tradeID, action, ok := splitTradePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			trade, err := svc.Get(r.Context(), tradeID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, tradeFromDomain(trade))
		case action == "accept" && r.Method == http.MethodPost:
			trade, err := svc.Accept(r.Context(), tradeID, CallerID(r.Context()))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, tradeFromDomain(trade))
		case action == "decline" && r.Method == http.MethodPost:
			trade, err := svc.Decline(r.Context(), tradeID, CallerID(r.Context()))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, tradeFromDomain(trade))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func createTrade(svc TradeService, w http.ResponseWriter, r *http.Request) {
	var req createTradeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if req.ReceiverID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "receiver_id is required")
		return
	}

	trade, err := svc.Create(r.Context(), app.CreateTradeInput{
		OffererID:       CallerID(r.Context()),
		ReceiverID:      req.ReceiverID,
		Message:         req.Message,
		OffererItemIDs:  req.OffererItemIDs,
		ReceiverItemIDs: req.ReceiverItemIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tradeFromDomain(trade))
}

func listTrades(svc TradeService, w http.ResponseWriter, r *http.Request) {
	var filter *domain.TradeStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := domain.ParseTradeStatus(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, codeInvalidStatus, "unknown trade status")
			return
		}
		filter = &status
	}

	trades, err := svc.ListForUser(r.Context(), CallerID(r.Context()), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]tradeResponse, 0, len(trades))
	for _, trade := range trades {
		out = append(out, tradeFromDomain(trade))
	}
	writeJSON(w, http.StatusOK, out)
}

// splitTradePath extracts the trade id and optional action from a
// /trades/{id}[/{action}] path.
func splitTradePath(path string) (tradeID, action string, ok bool) {
	rest := strings.TrimPrefix(path, "/trades/")
	if rest == path || rest == "" {
		return "", "", false
	}
	parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	switch len(parts) {
	case 1:
		return parts[0], "", parts[0] != ""
	case 2:
		return parts[0], parts[1], parts[0] != "" && parts[1] != ""
	}
	return "", "", false
}

type createTradeRequest struct {
	ReceiverID      string   `json:"receiver_id"`
	Message         string   `json:"message"`
	OffererItemIDs  []string `json:"offerer_item_ids"`
	ReceiverItemIDs []string `json:"receiver_item_ids"`
}

type tradeResponse struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Offerer       string             `json:"offerer"`
	Receiver      string             `json:"receiver"`
	Message       string             `json:"message"`
	OffererItems  []domain.OwnedItem `json:"offerer_items"`
	ReceiverItems []domain.OwnedItem `json:"receiver_items"`
	CreatedAt     time.Time          `json:"created_at"`
}

func tradeFromDomain(trade domain.TradeOffer) tradeResponse {
	return tradeResponse{
		ID:            trade.ID,
		Status:        string(trade.Status),
		Offerer:       trade.Offerer,
		Receiver:      trade.Receiver,
		Message:       trade.Message,
		OffererItems:  trade.OffererItems,
		ReceiverItems: trade.ReceiverItems,
		CreatedAt:     trade.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
