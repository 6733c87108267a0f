package cart

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"brouette/models"
	"brouette/utils"
)

// keyFor resolves the cart key of a request: the member id when
// authenticated, otherwise the guest key carried in a header. A fresh
// guest key is minted when neither exists and echoed back so the
// client can keep it.
func keyFor(w http.ResponseWriter, r *http.Request) string {
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		return userID
	}
	if key := r.Header.Get("X-Cart-Key"); IsGuestKey(key) {
		return key
	}
	key := NewGuestKey()
	w.Header().Set("X-Cart-Key", key)
	return key
}

func respondWithCart(w http.ResponseWriter, r *http.Request, key, action string) {
	items, err := Get(r.Context(), key)
	if err != nil {
		log.Error().Err(err).Msg("failed to load cart")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	if action != "" {
		DefaultHub.Notify(key, action, items)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"cartKey": key,
		"items":   items,
		"totals":  Totals(items),
	})
}

// GetCart returns the caller's cart with totals.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondWithCart(w, r, keyFor(w, r), "")
}

// AddToCart merges one line into the cart.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if item.ProductID == "" || item.VariantID == "" || item.SaleDateKey == "" || item.UnitPrice <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "missing or invalid fields")
		return
	}

	key := keyFor(w, r)
	if err := Add(r.Context(), key, item); err != nil {
		log.Error().Err(err).Msg("failed to add to cart")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}
	respondWithCart(w, r, key, "add")
}

type quantityRequest struct {
	ProductID   string `json:"productId"`
	VariantID   string `json:"variantId"`
	SaleDateKey string `json:"saleDateKey"`
	Quantity    int    `json:"quantity"`
}

// UpdateCartItem pins a line to an absolute quantity.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	key := keyFor(w, r)
	line := models.CartItem{ProductID: req.ProductID, VariantID: req.VariantID, SaleDateKey: req.SaleDateKey}
	err := SetQuantity(r.Context(), key, line, req.Quantity)
	if err == ErrLineNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "cart line not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	respondWithCart(w, r, key, "update")
}

// RemoveCartItem deletes one line.
func RemoveCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	key := keyFor(w, r)
	line := models.CartItem{ProductID: req.ProductID, VariantID: req.VariantID, SaleDateKey: req.SaleDateKey}
	err := Remove(r.Context(), key, line)
	if err == ErrLineNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "cart line not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	respondWithCart(w, r, key, "remove")
}

// ClearCart empties the cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	key := keyFor(w, r)
	if err := Clear(r.Context(), key); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	respondWithCart(w, r, key, "clear")
}

type rebindRequest struct {
	GuestKey string `json:"guestKey"`
}

// RebindCart folds a guest cart into the logged-in member's cart.
func RebindCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	memberID := utils.GetUserIDFromRequest(r)
	if memberID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "login required")
		return
	}
	var req rebindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := Rebind(r.Context(), req.GuestKey, memberID); err != nil {
		log.Error().Err(err).Msg("failed to rebind cart")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to rebind cart")
		return
	}
	respondWithCart(w, r, memberID, "rebind")
}
