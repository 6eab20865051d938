package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"shoestore/internal/cart"
	"shoestore/internal/domain"
	"shoestore/internal/pricing"

	"github.com/gin-gonic/gin"
)

type cartView struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal int64             `json:"subtotal"`
	Shipping int64             `json:"shipping"`
	Total    int64             `json:"total"`
}

func newCartView(items []domain.CartItem) cartView {
	if items == nil {
		items = []domain.CartItem{}
	}
	subtotal := pricing.Subtotal(items)
	shipping := pricing.Shipping(subtotal)
	return cartView{
		Items:    items,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}

func (h *handlers) getCart(c *gin.Context) {
	store := h.deps.Carts.Get(currentToken(c))
	c.JSON(http.StatusOK, newCartView(store.Items()))
}

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId, color and size are required")
		return
	}
	product, err := h.deps.Catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	color, ok := product.ColorByName(req.Color)
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown color for this product")
		return
	}
	size, ok := product.SizeByValue(req.Size)
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown size for this product")
		return
	}
	if !size.InStock {
		respondError(c, http.StatusConflict, "selected size is out of stock")
		return
	}

	store := h.deps.Carts.Get(currentToken(c))
	store.AddItem(*product, color, size)
	c.JSON(http.StatusOK, newCartView(store.Items()))
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) updateCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid line index")
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "quantity is required")
		return
	}
	store := h.deps.Carts.Get(currentToken(c))
	if err := store.UpdateQuantity(index, *req.Quantity); err != nil {
		if errors.Is(err, cart.ErrIndexOutOfRange) {
			respondError(c, http.StatusNotFound, "no cart line at this index")
			return
		}
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(store.Items()))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid line index")
		return
	}
	store := h.deps.Carts.Get(currentToken(c))
	if err := store.RemoveItem(index); err != nil {
		if errors.Is(err, cart.ErrIndexOutOfRange) {
			respondError(c, http.StatusNotFound, "no cart line at this index")
			return
		}
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(store.Items()))
}
