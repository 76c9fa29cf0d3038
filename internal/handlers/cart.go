package handlers

import (
	"errors"
	"net/http"

	"moviestore/internal/middleware"
	"moviestore/internal/models"
	"moviestore/internal/services"

	"github.com/gorilla/sessions"
)

// CartHandler handles shopping cart and checkout requests
type CartHandler struct {
	cart     services.CartServiceInterface
	checkout services.CheckoutServiceInterface
	store    sessions.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	cart services.CartServiceInterface,
	checkout services.CheckoutServiceInterface,
	store sessions.Store,
) *CartHandler {
	return &CartHandler{
		cart:     cart,
		checkout: checkout,
		store:    store,
	}
}

type cartViewResponse struct {
	*models.CartView
	TotalDisplay string `json:"total_display"`
}

type cartContentsResponse struct {
	Items map[string]string `json:"items"`
}

// View returns the priced cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), newSessionCart(h.store, w, r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cartViewResponse{CartView: view, TotalDisplay: view.TotalDisplay()})
}

// Add sets the quantity of a movie in the cart from the "quantity" field
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	movieID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrMovieNotFound)
		return
	}

	fields, err := readFields(r, "quantity")
	if err != nil {
		writeError(w, r, err)
		return
	}

	cart, err := h.cart.Add(r.Context(), newSessionCart(h.store, w, r), movieID, fields["quantity"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cartContentsResponse{Items: cart.Encode()})
}

// Remove drops a movie from the cart
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	movieID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrMovieNotFound)
		return
	}

	cart, err := h.cart.Remove(newSessionCart(h.store, w, r), movieID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cartContentsResponse{Items: cart.Encode()})
}

// Clear empties the cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(newSessionCart(h.store, w, r)); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Purchase checks out the cart. An empty cart redirects back to /cart.
func (h *CartHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	fields, err := readFields(r, "city", "state", "country")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.checkout.Checkout(r.Context(), &services.CheckoutRequest{
		UserID: user.ID,
		Cart:   newSessionCart(h.store, w, r),
		Shipping: models.ShippingAddress{
			City:    fields["city"],
			State:   fields["state"],
			Country: fields["country"],
		},
	})
	if errors.Is(err, models.ErrEmptyCart) {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
