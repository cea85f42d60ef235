// README: Pricing rate, route pair and quote definitions.
package pricing

import (
	"errors"
	"time"

	"oyadrop/internal/types"
)

const (
	DefaultRateName = "standard"
	// NotAvailable is shown wherever an estimate is absent.
	NotAvailable = "N/A"
)

var (
	ErrRateNotFound = errors.New("rate not found")
)

type Rate struct {
	Name     string
	BaseFare int64
	PerKm    int64
	Currency string
}

// DefaultRate is the fare applied when no rate card overrides it.
var DefaultRate = Rate{
	Name:     DefaultRateName,
	BaseFare: 1000,
	PerKm:    200,
	Currency: types.CurrencyNGN,
}

// RoutePair holds the pickup and drop-off coordinates of one request.
// Either side may be nil; an estimate exists only when both are set.
type RoutePair struct {
	Pickup  *types.Point
	Dropoff *types.Point
}

func (r RoutePair) Complete() bool {
	return r.Pickup != nil && r.Dropoff != nil
}

type Quote struct {
	Rate       string    `json:"rate"`
	DistanceKm float64   `json:"distance_km"`
	Amount     int64     `json:"amount"`
	Available  bool      `json:"available"`
	Currency   string    `json:"currency"`
	Formatted  string    `json:"formatted"`
	QuotedAt   time.Time `json:"quoted_at"`
}

func (q Quote) Money() types.Money {
	return types.Money{Amount: q.Amount, Currency: q.Currency}
}
