package httpserver

import (
	"errors"
	"net/http"

	"shoestore/internal/checkout"
	"shoestore/internal/domain"
	"shoestore/internal/phone"

	"github.com/gin-gonic/gin"
)

type checkoutView struct {
	Step          checkout.Step       `json:"step"`
	Shipping      domain.ShippingInfo `json:"shipping"`
	PhoneState    phone.State         `json:"phoneState,omitempty"`
	PhoneNumber   string              `json:"phoneNumber,omitempty"`
	VerifiedPhone string              `json:"verifiedPhone,omitempty"`
	Order         *domain.Order       `json:"order,omitempty"`
}

func newCheckoutView(f *checkout.Flow) checkoutView {
	view := checkoutView{
		Step:          f.Step(),
		Shipping:      f.Shipping(),
		VerifiedPhone: f.VerifiedPhone(),
		Order:         f.Order(),
	}
	if view.Step == checkout.StepPhone {
		sub := f.Phone()
		view.PhoneState = sub.State()
		view.PhoneNumber = sub.Number()
	}
	return view
}

func (h *handlers) startCheckout(c *gin.Context) {
	token := currentToken(c)
	sess := currentSession(c)
	store := h.deps.Carts.Get(token)

	flow, err := checkout.NewFlow(sess.User.ID, store, h.deps.Verifier, h.deps.Orders, func() {
		store.Clear()
		h.flows.drop(token)
	})
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	h.flows.put(token, flow)
	c.JSON(http.StatusCreated, newCheckoutView(flow))
}

func (h *handlers) getCheckout(c *gin.Context) {
	flow, ok := h.flows.get(currentToken(c))
	if !ok {
		respondError(c, http.StatusNotFound, "no active checkout")
		return
	}
	c.JSON(http.StatusOK, newCheckoutView(flow))
}

func (h *handlers) cancelCheckout(c *gin.Context) {
	h.flows.drop(currentToken(c))
	c.Status(http.StatusNoContent)
}

func (h *handlers) submitShipping(c *gin.Context) {
	flow, ok := h.flows.get(currentToken(c))
	if !ok {
		respondError(c, http.StatusNotFound, "no active checkout")
		return
	}
	var info domain.ShippingInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		respondError(c, http.StatusBadRequest, "invalid shipping payload")
		return
	}
	if err := flow.SubmitShipping(info); err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCheckoutView(flow))
}

type sendCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *handlers) sendPhoneCode(c *gin.Context) {
	flow, ok := h.flows.get(currentToken(c))
	if !ok {
		respondError(c, http.StatusNotFound, "no active checkout")
		return
	}
	if flow.Step() != checkout.StepPhone {
		respondError(c, http.StatusConflict, "checkout is not in the phone step")
		return
	}
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "phone is required")
		return
	}
	code, err := flow.Phone().SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	// Code is the development echo; empty in production setups.
	c.JSON(http.StatusOK, struct {
		checkoutView
		Code string `json:"code,omitempty"`
	}{newCheckoutView(flow), code})
}

type verifyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *handlers) verifyPhoneCode(c *gin.Context) {
	flow, ok := h.flows.get(currentToken(c))
	if !ok {
		respondError(c, http.StatusNotFound, "no active checkout")
		return
	}
	if flow.Step() != checkout.StepPhone {
		respondError(c, http.StatusConflict, "checkout is not in the phone step")
		return
	}
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "code is required")
		return
	}
	if err := flow.Phone().SubmitCode(c.Request.Context(), req.Code); err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCheckoutView(flow))
}

// phoneBack steps the verification sub-flow backwards: from code-entry to
// phone-entry, or out of the phone step entirely back to shipping.
func (h *handlers) phoneBack(c *gin.Context) {
	flow, ok := h.flows.get(currentToken(c))
	if !ok {
		respondError(c, http.StatusNotFound, "no active checkout")
		return
	}
	if flow.Step() != checkout.StepPhone {
		respondError(c, http.StatusConflict, "checkout is not in the phone step")
		return
	}
	sub := flow.Phone()
	if sub.State() == phone.StateCodeEntry {
		if err := sub.Back(); err != nil {
			h.respondCheckoutError(c, err)
			return
		}
	} else {
		sub.Cancel()
	}
	c.JSON(http.StatusOK, newCheckoutView(flow))
}

func (h *handlers) confirmOrder(c *gin.Context) {
	flow, ok := h.flows.get(currentToken(c))
	if !ok {
		respondError(c, http.StatusNotFound, "no active checkout")
		return
	}
	created, err := flow.Confirm(c.Request.Context())
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) completeCheckout(c *gin.Context) {
	flow, ok := h.flows.get(currentToken(c))
	if !ok {
		respondError(c, http.StatusNotFound, "no active checkout")
		return
	}
	if err := flow.Complete(); err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, phone.ErrInvalidNumber):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrBadStep), errors.Is(err, phone.ErrBadState),
		errors.Is(err, checkout.ErrPhoneNotVerified):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrClosed), errors.Is(err, phone.ErrClosed):
		respondError(c, http.StatusGone, err.Error())
	default:
		// Collaborator rejections (wrong code, repriced order) surface
		// verbatim.
		respondError(c, http.StatusBadRequest, err.Error())
	}
}
