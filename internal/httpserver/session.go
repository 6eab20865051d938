package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"fullName"`
}

func (h *handlers) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email is required")
		return
	}
	sess, err := h.deps.Sessions.SignIn(req.Email, req.FullName)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *handlers) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c))
}

func (h *handlers) signOut(c *gin.Context) {
	token := currentToken(c)
	h.deps.Sessions.SignOut(token)
	h.deps.Carts.Drop(token)
	h.flows.drop(token)
	c.Status(http.StatusNoContent)
}
