package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/resilience"
	"github.com/Ibrahim-Lokman/otel-poc/internal/workflow"
)

// shopError maps workflow errors onto HTTP status codes.
func shopError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, workflow.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, workflow.ErrUnknownProduct),
		errors.Is(err, workflow.ErrNotInCart):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidQuantity),
		errors.Is(err, workflow.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrPaymentDeclined):
		status = http.StatusPaymentRequired
	case errors.Is(err, resilience.ErrOpen),
		errors.Is(err, resilience.ErrTooManyProbes):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// Login authenticates a user and opens a tracked session
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sess, err := h.flows.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		shopError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sess.ID,
		"user_id":    sess.UserID,
		"user_name":  sess.UserName,
	})
}

// Logout ends the active session
func (h *Handlers) Logout(c *gin.Context) {
	h.flows.Logout(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListProducts returns the product catalog
func (h *Handlers) ListProducts(c *gin.Context) {
	products := h.flows.BrowseProducts(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ViewProduct records a product detail view
func (h *Handlers) ViewProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.flows.ViewProduct(c.Request.Context(), productID)
	if err != nil {
		shopError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetCart returns the cart contents
func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":       h.flows.Cart(),
		"size":        h.flows.CartSize(),
		"total_cents": h.flows.CartTotalCents(),
	})
}

// AddToCart adds a product to the cart
func (h *Handlers) AddToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.flows.AddToCart(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		shopError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"size":    h.flows.CartSize(),
	})
}

// UpdateCartItem sets the quantity of a cart line. Quantity zero removes it.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.flows.UpdateCartItem(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		shopError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"size":    h.flows.CartSize(),
	})
}

// RemoveFromCart deletes a cart line
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.flows.RemoveFromCart(c.Request.Context(), req.ProductID); err != nil {
		shopError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"size":    h.flows.CartSize(),
	})
}

// InitiateCheckout opens checkout for the current cart
func (h *Handlers) InitiateCheckout(c *gin.Context) {
	total, err := h.flows.InitiateCheckout(c.Request.Context())
	if err != nil {
		shopError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"total_cents": total,
		"items":       h.flows.CartSize(),
	})
}

// ProcessPayment charges the gateway and completes the order
func (h *Handlers) ProcessPayment(c *gin.Context) {
	confirmation, err := h.flows.ProcessPayment(c.Request.Context())
	if err != nil {
		shopError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   confirmation,
	})
}
