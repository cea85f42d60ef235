// README: Payment handlers confirm pay-now requests after checkout.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	requests RequestService
}

func NewPaymentHandler(svc RequestService) *PaymentHandler {
	return &PaymentHandler{requests: svc}
}

type verifyReq struct {
	Reference string `json:"reference"`
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	h.confirm(c, req.Reference)
}

// Callback is the checkout redirect target; the provider appends
// ?reference= (and the legacy trxref).
func (h *PaymentHandler) Callback(c *gin.Context) {
	ref := c.Query("reference")
	if ref == "" {
		ref = c.Query("trxref")
	}
	h.confirm(c, ref)
}

func (h *PaymentHandler) confirm(c *gin.Context, reference string) {
	r, err := h.requests.ConfirmPayment(c.Request.Context(), reference)
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"request_id":        r.ID,
		"status":            r.Status,
		"payment_reference": r.PaymentReference,
	})
}
