package handlers

import (
	"net/http"

	"linguatrail/internal/models"
	"linguatrail/internal/service"
)

// ShopHandler handles life and diamond purchases
type ShopHandler struct {
	shop *service.ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shop *service.ShopService) *ShopHandler {
	return &ShopHandler{shop: shop}
}

// BuyLives exchanges diamonds for a full life refill
func (h *ShopHandler) BuyLives(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Diamonds int `json:"diamonds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Diamonds <= 0 {
		respondError(w, http.StatusBadRequest, "Diamond price must be positive")
		return
	}

	updated, err := h.shop.BuyLives(user.ID, req.Diamonds)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Lives purchased",
		"lives":    updated.Lives,
		"diamonds": updated.Diamonds,
	})
}

// ProcessPurchase handles a simulated real-money diamond purchase
func (h *ShopHandler) ProcessPurchase(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		PaymentMethod string  `json:"paymentMethod"`
		Amount        float64 `json:"amount"`
		PaymentToken  string  `json:"paymentToken"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PaymentMethod != string(models.PaymentGooglePay) {
		respondError(w, http.StatusBadRequest, "Unsupported payment method")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	result, err := h.shop.ProcessPurchase(user.ID, models.PaymentGooglePay, req.Amount, req.PaymentToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Purchase processed",
		"transaction": map[string]interface{}{
			"id":     result.Transaction.ID,
			"status": string(result.Transaction.Status),
		},
		"diamondsAwarded": result.DiamondsAwarded,
		"diamonds":        result.Balance,
	})
}

// Transactions lists the authenticated user's purchase history
func (h *ShopHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	txs, err := h.shop.GetUserTransactions(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionViews(txs))
}
