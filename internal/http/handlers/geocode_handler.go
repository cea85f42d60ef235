// README: Geocode handler proxies address autocomplete to the configured provider.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oyadrop/internal/maps"
)

type GeocodeHandler struct {
	geocoder maps.Geocoder
	log      *zap.Logger
}

func NewGeocodeHandler(g maps.Geocoder, log *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{geocoder: g, log: log}
}

type suggestionResp struct {
	PlaceID     string     `json:"place_id"`
	DisplayName string     `json:"display_name"`
	Position    [2]float64 `json:"position"`
}

func toSuggestionResp(in []maps.Suggestion) []suggestionResp {
	out := make([]suggestionResp, 0, len(in))
	for _, s := range in {
		out = append(out, suggestionResp{
			PlaceID:     s.PlaceID,
			DisplayName: s.DisplayName,
			Position:    s.Position.LngLat(),
		})
	}
	return out
}

func (h *GeocodeHandler) Autocomplete(c *gin.Context) {
	text := c.Query("text")
	suggestions, err := h.geocoder.Autocomplete(c.Request.Context(), text)
	if err != nil {
		h.log.Warn("autocomplete", zap.String("text", text), zap.Error(err))
		writeError(c, http.StatusBadGateway, "geocoder unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": toSuggestionResp(suggestions)})
}
