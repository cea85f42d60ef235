// README: Quote handler prices a pickup/drop-off pair.
package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oyadrop/internal/maps"
	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/types"
)

const travelTimeout = 3 * time.Second

type QuoteService interface {
	Quote(ctx context.Context, route pricing.RoutePair, rateName string) (pricing.Quote, error)
}

// TravelEstimator enriches quotes with a driving ETA when configured.
type TravelEstimator interface {
	TravelEstimate(ctx context.Context, origin, destination types.Point) (maps.TravelEstimate, error)
}

type QuoteHandler struct {
	quotes QuoteService
	travel TravelEstimator
	log    *zap.Logger
}

// NewQuoteHandler builds the handler; travel may be nil.
func NewQuoteHandler(quotes QuoteService, travel TravelEstimator, log *zap.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, travel: travel, log: log}
}

type quoteReq struct {
	Pickup  *[2]float64 `json:"pickup"`
	Dropoff *[2]float64 `json:"dropoff"`
	Rate    string      `json:"rate"`
}

type quoteResp struct {
	Available      bool     `json:"available"`
	Estimate       *int64   `json:"estimate"`
	Formatted      string   `json:"formatted"`
	DistanceKm     float64  `json:"distance_km"`
	Currency       string   `json:"currency"`
	Rate           string   `json:"rate"`
	RoadDistanceKm *float64 `json:"road_distance_km,omitempty"`
	EtaMinutes     *int     `json:"eta_minutes,omitempty"`
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	pickup, ok := toPoint(req.Pickup)
	if !ok {
		writeError(c, http.StatusBadRequest, "pickup coordinate out of range")
		return
	}
	dropoff, ok := toPoint(req.Dropoff)
	if !ok {
		writeError(c, http.StatusBadRequest, "dropoff coordinate out of range")
		return
	}

	route := pricing.RoutePair{Pickup: pickup, Dropoff: dropoff}
	q, err := h.quotes.Quote(c.Request.Context(), route, req.Rate)
	if errors.Is(err, pricing.ErrRateNotFound) {
		writeError(c, http.StatusBadRequest, "unknown rate")
		return
	}
	if err != nil {
		h.log.Error("quote", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	resp := quoteResp{
		Available:  q.Available,
		Formatted:  q.Formatted,
		DistanceKm: math.Round(q.DistanceKm*100) / 100,
		Currency:   q.Currency,
		Rate:       q.Rate,
	}
	if q.Available {
		amount := q.Amount
		resp.Estimate = &amount
		h.addTravel(c.Request.Context(), route, &resp)
	}
	writeJSON(c, http.StatusOK, resp)
}

func (h *QuoteHandler) addTravel(ctx context.Context, route pricing.RoutePair, resp *quoteResp) {
	if h.travel == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, travelTimeout)
	defer cancel()
	est, err := h.travel.TravelEstimate(ctx, *route.Pickup, *route.Dropoff)
	if err != nil {
		h.log.Warn("travel estimate", zap.Error(err))
		return
	}
	road := math.Round(est.DistanceKm*100) / 100
	eta := int(math.Ceil(est.Duration.Minutes()))
	resp.RoadDistanceKm = &road
	resp.EtaMinutes = &eta
}
