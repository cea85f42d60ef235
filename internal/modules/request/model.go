// README: Delivery request aggregate, payment methods and status flow.
package request

import (
	"time"

	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/types"
)

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusSubmitted      Status = "submitted"
	StatusDispatching    Status = "dispatching"
	StatusDispatched     Status = "dispatched"
	StatusCancelled      Status = "cancelled"
)

type PaymentMethod string

const (
	PayAfter PaymentMethod = "pay_after"
	PayNow   PaymentMethod = "pay_now"
)

func (m PaymentMethod) Valid() bool {
	return m == PayAfter || m == PayNow
}

type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Stop is an extra pickup or drop-off leg. Stops are informational for the
// dispatcher and do not change the estimate.
type Stop struct {
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Time         *time.Time `json:"time,omitempty"`
	ItemQuantity string     `json:"item_quantity,omitempty"`
}

type DeliveryRequest struct {
	ID                 types.ID
	Pickup             Contact
	PickupTime         *time.Time
	AdditionalPickups  []Stop
	Dropoff            Contact
	DropoffTime        *time.Time
	ItemQuantity       string
	AdditionalDropoffs []Stop
	ItemDescription    string
	Comments           string
	Referral           string
	Route              pricing.RoutePair
	EstimatedPrice     types.Money
	PaymentMethod      PaymentMethod
	PaymentReference   string
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AllowedTransitions is the request status flow. Whoever moves a request
// into dispatching owns the dispatch; a failed send hands it back to
// submitted so a later confirmation can retry.
var AllowedTransitions = map[Status][]Status{
	StatusPendingPayment: {StatusSubmitted, StatusCancelled},
	StatusSubmitted:      {StatusDispatching, StatusCancelled},
	StatusDispatching:    {StatusDispatched, StatusSubmitted},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
