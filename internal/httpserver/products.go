package httpserver

import (
	"net/http"

	"shoestore/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Catalog.List(c.Request.Context())
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) createProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}
	created, err := h.deps.Catalog.Add(c.Request.Context(), currentSession(c).IsAdmin, p)
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}
	p.ID = c.Param("id")
	updated, err := h.deps.Catalog.Update(c.Request.Context(), currentSession(c).IsAdmin, p)
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	err := h.deps.Catalog.Delete(c.Request.Context(), currentSession(c).IsAdmin, c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondProductError surfaces catalog validation messages as 400s; the
// sentinels keep their usual mapping.
func (h *handlers) respondProductError(c *gin.Context, err error) {
	switch err {
	case domain.ErrNotFound, domain.ErrUnauthorized, domain.ErrAlreadyExists:
		h.respondDomainError(c, err)
	default:
		respondError(c, http.StatusBadRequest, err.Error())
	}
}
