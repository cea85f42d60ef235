// README: Request handlers for submit and the operations views.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/modules/request"
	"oyadrop/internal/types"
)

type RequestService interface {
	Submit(ctx context.Context, cmd request.SubmitCommand) (request.SubmitResult, error)
	ConfirmPayment(ctx context.Context, reference string) (*request.DeliveryRequest, error)
	Get(ctx context.Context, id types.ID) (*request.DeliveryRequest, error)
	List(ctx context.Context, limit int) ([]request.DeliveryRequest, error)
}

type RequestHandler struct {
	requests RequestService
}

func NewRequestHandler(svc RequestService) *RequestHandler {
	return &RequestHandler{requests: svc}
}

type stopReq struct {
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	Time         *time.Time `json:"time"`
	ItemQuantity string     `json:"item_quantity"`
}

type submitReq struct {
	PickupName         string      `json:"pickup_name"`
	PickupEmail        string      `json:"pickup_email"`
	PickupPhone        string      `json:"pickup_phone"`
	PickupAddress      string      `json:"pickup_address"`
	PickupTime         *time.Time  `json:"pickup_time"`
	AdditionalPickups  []stopReq   `json:"additional_pickups"`
	DropoffName        string      `json:"dropoff_name"`
	DropoffPhone       string      `json:"dropoff_phone"`
	DropoffAddress     string      `json:"dropoff_address"`
	DropoffTime        *time.Time  `json:"dropoff_time"`
	ItemQuantity       string      `json:"item_quantity"`
	AdditionalDropoffs []stopReq   `json:"additional_dropoffs"`
	ItemDescription    string      `json:"item_description"`
	Comments           string      `json:"comments"`
	Referral           string      `json:"referral"`
	Pickup             *[2]float64 `json:"pickup"`
	Dropoff            *[2]float64 `json:"dropoff"`
	Rate               string      `json:"rate"`
	PaymentMethod      string      `json:"payment_method"`
}

func toStops(in []stopReq) []request.Stop {
	if len(in) == 0 {
		return nil
	}
	out := make([]request.Stop, 0, len(in))
	for _, s := range in {
		out = append(out, request.Stop(s))
	}
	return out
}

func (h *RequestHandler) Submit(c *gin.Context) {
	var req submitReq
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

	res, err := h.requests.Submit(c.Request.Context(), request.SubmitCommand{
		Pickup: request.Contact{
			Name:    req.PickupName,
			Email:   req.PickupEmail,
			Phone:   req.PickupPhone,
			Address: req.PickupAddress,
		},
		PickupTime:        req.PickupTime,
		AdditionalPickups: toStops(req.AdditionalPickups),
		Dropoff: request.Contact{
			Name:    req.DropoffName,
			Phone:   req.DropoffPhone,
			Address: req.DropoffAddress,
		},
		DropoffTime:        req.DropoffTime,
		ItemQuantity:       req.ItemQuantity,
		AdditionalDropoffs: toStops(req.AdditionalDropoffs),
		ItemDescription:    req.ItemDescription,
		Comments:           req.Comments,
		Referral:           req.Referral,
		PickupPoint:        pickup,
		DropoffPoint:       dropoff,
		Rate:               req.Rate,
		PaymentMethod:      request.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}

	body := gin.H{
		"request_id":      res.RequestID,
		"status":          res.Status,
		"estimated_price": res.Price.Amount,
		"formatted_price": res.Formatted,
		"currency":        res.Price.Currency,
	}
	if res.PaymentReference != "" {
		body["payment_reference"] = res.PaymentReference
		body["authorization_url"] = res.AuthorizationURL
	}
	writeJSON(c, http.StatusCreated, body)
}

type requestView struct {
	ID                 types.ID        `json:"id"`
	Status             request.Status  `json:"status"`
	Pickup             request.Contact `json:"pickup"`
	PickupTime         *time.Time      `json:"pickup_time,omitempty"`
	AdditionalPickups  []request.Stop  `json:"additional_pickups,omitempty"`
	Dropoff            request.Contact `json:"dropoff"`
	DropoffTime        *time.Time      `json:"dropoff_time,omitempty"`
	ItemQuantity       string          `json:"item_quantity"`
	AdditionalDropoffs []request.Stop  `json:"additional_dropoffs,omitempty"`
	ItemDescription    string          `json:"item_description"`
	Comments           string          `json:"comments,omitempty"`
	Referral           string          `json:"referral,omitempty"`
	PickupPosition     [2]float64      `json:"pickup_position"`
	DropoffPosition    [2]float64      `json:"dropoff_position"`
	EstimatedPrice     int64           `json:"estimated_price"`
	FormattedPrice     string          `json:"formatted_price"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentReference   string          `json:"payment_reference,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

func toView(r *request.DeliveryRequest) requestView {
	v := requestView{
		ID:                 r.ID,
		Status:             r.Status,
		Pickup:             r.Pickup,
		PickupTime:         r.PickupTime,
		AdditionalPickups:  r.AdditionalPickups,
		Dropoff:            r.Dropoff,
		DropoffTime:        r.DropoffTime,
		ItemQuantity:       r.ItemQuantity,
		AdditionalDropoffs: r.AdditionalDropoffs,
		ItemDescription:    r.ItemDescription,
		Comments:           r.Comments,
		Referral:           r.Referral,
		EstimatedPrice:     r.EstimatedPrice.Amount,
		FormattedPrice:     pricing.FormatPrice(r.EstimatedPrice.Amount, true),
		PaymentMethod:      string(r.PaymentMethod),
		PaymentReference:   r.PaymentReference,
		CreatedAt:          r.CreatedAt,
	}
	if r.Route.Pickup != nil {
		v.PickupPosition = r.Route.Pickup.LngLat()
	}
	if r.Route.Dropoff != nil {
		v.DropoffPosition = r.Route.Dropoff.LngLat()
	}
	return v
}

func (h *RequestHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing request id")
		return
	}
	r, err := h.requests.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toView(r))
}

func (h *RequestHandler) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	list, err := h.requests.List(c.Request.Context(), limit)
	if err != nil {
		writeRequestError(c, err)
		return
	}
	views := make([]requestView, 0, len(list))
	for i := range list {
		views = append(views, toView(&list[i]))
	}
	writeJSON(c, http.StatusOK, gin.H{"requests": views})
}
