package httpserver

import (
	"errors"
	"log"
	"net/http"

	"shoestore/internal/domain"

	"github.com/gin-gonic/gin"
)

// handlers bundles the route implementations around shared collaborators.
type handlers struct {
	logger *log.Logger
	deps   Deps
	flows  *flowRegistry
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// respondDomainError maps the shared sentinels onto status codes and falls
// back to a 500 that hides the internal message.
func (h *handlers) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(c, http.StatusForbidden, "not allowed")
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(c, http.StatusConflict, "already exists")
	default:
		h.logger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
