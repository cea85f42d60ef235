// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/modules/request"
	"oyadrop/internal/payment"
	"oyadrop/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeRequestError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, request.ErrBadRequest), errors.Is(err, pricing.ErrRateNotFound):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, request.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, request.ErrPriceUnavailable):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, request.ErrPaymentFailed):
		writeError(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, request.ErrPaymentPending), errors.Is(err, request.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, request.ErrDispatchFailed):
		writeError(c, http.StatusBadGateway, "request saved but could not be dispatched; please retry")
	case errors.Is(err, payment.ErrNotConfigured):
		writeError(c, http.StatusServiceUnavailable, "online payment is unavailable")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// toPoint converts a wire [lon, lat] pair; null means the side is unresolved.
func toPoint(v *[2]float64) (*types.Point, bool) {
	if v == nil {
		return nil, true
	}
	p := types.PointFromLngLat(*v)
	return &p, p.Valid()
}
