package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/app"
	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
)

// InventoryService is the slice of the inventory store the transport needs.
type InventoryService interface {
	AddItem(ctx context.Context, in app.AddItemInput) (domain.OwnedItem, error)
	RemoveItem(ctx context.Context, ownerID, itemID string) error
	ListItems(ctx context.Context, ownerID string) ([]domain.OwnedItem, error)
}

// HandleInventory serves the caller's /inventory collection.
func HandleInventory(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			items, err := svc.ListItems(r.Context(), CallerID(r.Context()))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			if items == nil {
				items = []domain.OwnedItem{}
			}
			writeJSON(w, http.StatusOK, items)
		case http.MethodPost:
			addItem(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleInventoryItem serves DELETE /inventory/{itemID}.
func HandleInventoryItem(svc InventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/inventory/"), "/")
		if itemID == "" || strings.Contains(itemID, "/") {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		if err := svc.RemoveItem(r.Context(), CallerID(r.Context()), itemID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addItem(svc InventoryService, w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if req.CatalogRef == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "catalog_ref is required")
		return
	}

	item, err := svc.AddItem(r.Context(), app.AddItemInput{
		OwnerID:    CallerID(r.Context()),
		CatalogRef: req.CatalogRef,
		Condition:  req.Condition,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type addItemRequest struct {
	CatalogRef string `json:"catalog_ref"`
	Condition  string `json:"condition"`
}
