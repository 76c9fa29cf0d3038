package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"moviestore/internal/middleware"
	"moviestore/internal/models"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const sessionCartKey = "cart"

// sessionCart keeps the cart in the gorilla session as a JSON object of
// "movieID": "quantity" strings.
type sessionCart struct {
	store sessions.Store
	w     http.ResponseWriter
	r     *http.Request
}

func newSessionCart(store sessions.Store, w http.ResponseWriter, r *http.Request) *sessionCart {
	return &sessionCart{store: store, w: w, r: r}
}

func (c *sessionCart) session() (*sessions.Session, error) {
	session, err := c.store.Get(c.r, middleware.SessionName)
	if err != nil && session == nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	// A cookie that no longer decodes yields a fresh session alongside the error
	return session, nil
}

// Load returns the session cart. A malformed cart is discarded and an empty one returned.
func (c *sessionCart) Load() (models.Cart, error) {
	session, err := c.session()
	if err != nil {
		return nil, err
	}

	cartJSON, ok := session.Values[sessionCartKey].(string)
	if !ok || cartJSON == "" {
		return models.NewCart(), nil
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(cartJSON), &raw); err != nil {
		c.discard(err)
		return models.NewCart(), nil
	}

	cart, err := models.ParseCart(raw)
	if err != nil {
		c.discard(err)
		return models.NewCart(), nil
	}
	return cart, nil
}

// Save writes the cart back to the session. An empty cart removes the entry.
func (c *sessionCart) Save(cart models.Cart) error {
	session, err := c.session()
	if err != nil {
		return err
	}

	if cart.IsEmpty() {
		delete(session.Values, sessionCartKey)
	} else {
		cartJSON, err := json.Marshal(cart.Encode())
		if err != nil {
			return fmt.Errorf("failed to encode cart: %w", err)
		}
		session.Values[sessionCartKey] = string(cartJSON)
	}

	if err := session.Save(c.r, c.w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (c *sessionCart) discard(reason error) {
	zerolog.Ctx(c.r.Context()).Warn().Err(reason).Msg("discarding malformed session cart")
	if err := c.Save(models.NewCart()); err != nil {
		zerolog.Ctx(c.r.Context()).Warn().Err(err).Msg("failed to reset session cart")
	}
}
