// README: Dispatch email template params built from a delivery request.
package request

import (
	"fmt"
	"strings"
	"time"

	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/notify"
)

const timeLayout = "Mon 2 Jan 2006, 15:04"

// dispatchEmail flattens r into template params for the operations mailbox.
func dispatchEmail(to string, r *DeliveryRequest) notify.Email {
	return notify.Email{
		To:      to,
		Subject: fmt.Sprintf("New delivery request from %s", r.Pickup.Name),
		Params: map[string]string{
			"request_id":          string(r.ID),
			"pickup_name":         r.Pickup.Name,
			"pickup_email":        r.Pickup.Email,
			"pickup_phone":        r.Pickup.Phone,
			"pickup_address":      r.Pickup.Address,
			"pickup_time":         formatTime(r.PickupTime),
			"pickup_coordinates":  fmt.Sprintf("%.6f, %.6f", r.Route.Pickup.Lat, r.Route.Pickup.Lng),
			"dropoff_name":        r.Dropoff.Name,
			"dropoff_phone":       r.Dropoff.Phone,
			"dropoff_address":     r.Dropoff.Address,
			"dropoff_time":        formatTime(r.DropoffTime),
			"dropoff_coordinates": fmt.Sprintf("%.6f, %.6f", r.Route.Dropoff.Lat, r.Route.Dropoff.Lng),
			"item_quantity":       r.ItemQuantity,
			"item_description":    r.ItemDescription,
			"comments":            r.Comments,
			"referral":            r.Referral,
			"additional_pickups":  formatStops(r.AdditionalPickups),
			"additional_dropoffs": formatStops(r.AdditionalDropoffs),
			"estimated_price":     pricing.FormatPrice(r.EstimatedPrice.Amount, true),
			"payment_method":      string(r.PaymentMethod),
			"payment_reference":   r.PaymentReference,
		},
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "ASAP"
	}
	return t.Format(timeLayout)
}

func formatStops(stops []Stop) string {
	if len(stops) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(stops))
	for i, s := range stops {
		line := fmt.Sprintf("%d. %s, %s (%s)", i+1, s.Name, s.Address, s.Phone)
		if s.ItemQuantity != "" {
			line += ", qty " + s.ItemQuantity
		}
		if s.Time != nil {
			line += ", " + s.Time.Format(timeLayout)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
