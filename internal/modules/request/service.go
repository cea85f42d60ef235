// README: Request service validates, prices, charges and dispatches delivery requests.
package request

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/notify"
	"oyadrop/internal/payment"
	"oyadrop/internal/types"
)

var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("delivery request not found")
	ErrPriceUnavailable = errors.New("price unavailable: pickup and drop-off must both be resolved")
	ErrPaymentFailed    = errors.New("payment was not completed")
	ErrPaymentPending   = errors.New("payment still pending")
	ErrInvalidState     = errors.New("invalid status transition")
	ErrDispatchFailed   = errors.New("dispatch failed")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Repository interface {
	Create(ctx context.Context, r *DeliveryRequest) error
	Get(ctx context.Context, id types.ID) (*DeliveryRequest, error)
	GetByReference(ctx context.Context, reference string) (*DeliveryRequest, error)
	List(ctx context.Context, limit int) ([]DeliveryRequest, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error)
}

type Pricing interface {
	Quote(ctx context.Context, route pricing.RoutePair, rateName string) (pricing.Quote, error)
	Lookup(ctx context.Context, route pricing.RoutePair, rateName string) (pricing.Quote, bool)
}

// Deps groups the collaborators of Service. Payments and Notifier may be nil:
// without Payments only pay_after is accepted.
type Deps struct {
	Repo     Repository
	Pricing  Pricing
	Payments payment.Processor
	Email    notify.EmailSender
	Notifier notify.Notifier
	OpsEmail string
	Log      *zap.Logger
}

type Service struct {
	repo     Repository
	pricing  Pricing
	payments payment.Processor
	email    notify.EmailSender
	notifier notify.Notifier
	opsEmail string
	log      *zap.Logger
	now      func() time.Time
	rnd      func(n int) int
}

func NewService(deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:     deps.Repo,
		pricing:  deps.Pricing,
		payments: deps.Payments,
		email:    deps.Email,
		notifier: deps.Notifier,
		opsEmail: deps.OpsEmail,
		log:      log.Named("request"),
		now:      time.Now,
	}
}

type SubmitCommand struct {
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
	PickupPoint        *types.Point
	DropoffPoint       *types.Point
	Rate               string
	PaymentMethod      PaymentMethod
}

type SubmitResult struct {
	RequestID        types.ID
	Status           Status
	Price            types.Money
	Formatted        string
	PaymentReference string
	AuthorizationURL string
}

func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (SubmitResult, error) {
	if cmd.PaymentMethod == "" {
		cmd.PaymentMethod = PayAfter
	}
	if err := validate(cmd); err != nil {
		return SubmitResult{}, err
	}
	if cmd.PaymentMethod == PayNow && s.payments == nil {
		return SubmitResult{}, payment.ErrNotConfigured
	}

	route := pricing.RoutePair{Pickup: cmd.PickupPoint, Dropoff: cmd.DropoffPoint}
	if !route.Complete() {
		return SubmitResult{}, ErrPriceUnavailable
	}
	quote, err := s.price(ctx, route, cmd.Rate)
	if err != nil {
		return SubmitResult{}, err
	}

	now := s.now()
	r := &DeliveryRequest{
		ID:                 types.NewID(),
		Pickup:             cmd.Pickup,
		PickupTime:         cmd.PickupTime,
		AdditionalPickups:  cmd.AdditionalPickups,
		Dropoff:            cmd.Dropoff,
		DropoffTime:        cmd.DropoffTime,
		ItemQuantity:       defaultString(cmd.ItemQuantity, "1"),
		AdditionalDropoffs: cmd.AdditionalDropoffs,
		ItemDescription:    cmd.ItemDescription,
		Comments:           cmd.Comments,
		Referral:           cmd.Referral,
		Route:              route,
		EstimatedPrice:     quote.Money(),
		PaymentMethod:      cmd.PaymentMethod,
		Status:             StatusSubmitted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	res := SubmitResult{
		RequestID: r.ID,
		Price:     r.EstimatedPrice,
		Formatted: quote.Formatted,
	}

	if cmd.PaymentMethod == PayNow {
		r.Status = StatusPendingPayment
		r.PaymentReference = payment.NewReference(now, s.rnd)
		if err := s.repo.Create(ctx, r); err != nil {
			return SubmitResult{}, err
		}
		auth, err := s.payments.Initialize(ctx, payment.Charge{
			Reference:  r.PaymentReference,
			Email:      r.Pickup.Email,
			AmountKobo: r.EstimatedPrice.Kobo(),
			Currency:   r.EstimatedPrice.Currency,
			Metadata: map[string]string{
				"request_id":      string(r.ID),
				"pickup_name":     r.Pickup.Name,
				"dropoff_name":    r.Dropoff.Name,
				"pickup_address":  r.Pickup.Address,
				"dropoff_address": r.Dropoff.Address,
			},
		})
		if err != nil {
			s.transition(ctx, r, StatusCancelled)
			return SubmitResult{}, fmt.Errorf("initialize payment: %w", err)
		}
		res.Status = StatusPendingPayment
		res.PaymentReference = r.PaymentReference
		res.AuthorizationURL = auth.AuthorizationURL
		return res, nil
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return SubmitResult{}, err
	}
	if err := s.dispatch(ctx, r); err != nil {
		return SubmitResult{}, err
	}
	res.Status = r.Status
	return res, nil
}

// ConfirmPayment verifies reference with the processor and dispatches the
// paid request. Confirming an already dispatched request is a no-op.
func (s *Service) ConfirmPayment(ctx context.Context, reference string) (*DeliveryRequest, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrBadRequest
	}
	if s.payments == nil {
		return nil, payment.ErrNotConfigured
	}
	r, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	switch r.Status {
	case StatusDispatched, StatusDispatching:
		return r, nil
	case StatusCancelled:
		return r, ErrPaymentFailed
	case StatusSubmitted:
		// Paid, but an earlier dispatch attempt failed.
		if r.PaymentMethod != PayNow {
			return r, ErrInvalidState
		}
		if err := s.dispatch(ctx, r); err != nil {
			return r, err
		}
		return r, nil
	case StatusPendingPayment:
	default:
		return r, ErrInvalidState
	}

	v, err := s.payments.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", reference, err)
	}
	switch {
	case v.Status == "pending" || v.Status == "ongoing":
		return r, ErrPaymentPending
	case !v.Success:
		s.log.Info("payment not successful", zap.String("reference", reference), zap.String("status", v.Status))
		s.transition(ctx, r, StatusCancelled)
		return r, ErrPaymentFailed
	case v.AmountKobo != r.EstimatedPrice.Kobo():
		s.log.Warn("payment amount mismatch",
			zap.String("reference", reference),
			zap.Int64("paid_kobo", v.AmountKobo),
			zap.Int64("expected_kobo", r.EstimatedPrice.Kobo()),
		)
		s.transition(ctx, r, StatusCancelled)
		return r, ErrPaymentFailed
	}

	// Claim the request so concurrent confirmations dispatch once.
	ok, err := s.repo.UpdateStatus(ctx, r.ID, StatusPendingPayment, StatusSubmitted)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.repo.Get(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusCancelled {
			return current, ErrPaymentFailed
		}
		return current, nil
	}
	r.Status = StatusSubmitted
	if err := s.dispatch(ctx, r); err != nil {
		return r, err
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*DeliveryRequest, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]DeliveryRequest, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.repo.List(ctx, limit)
}

// price prefers the quote the user was shown; a fresh quote is issued when
// it has expired.
func (s *Service) price(ctx context.Context, route pricing.RoutePair, rate string) (pricing.Quote, error) {
	if q, ok := s.pricing.Lookup(ctx, route, rate); ok && q.Available {
		return q, nil
	}
	q, err := s.pricing.Quote(ctx, route, rate)
	if errors.Is(err, pricing.ErrRateNotFound) {
		return pricing.Quote{}, fmt.Errorf("%w: unknown rate %q", ErrBadRequest, rate)
	}
	if err != nil {
		return pricing.Quote{}, err
	}
	if !q.Available {
		return pricing.Quote{}, ErrPriceUnavailable
	}
	return q, nil
}

// dispatch hands a submitted request to the operations team. The email is
// required; the push notification is best effort. Only the caller that
// moves the request from submitted to dispatching sends anything.
func (s *Service) dispatch(ctx context.Context, r *DeliveryRequest) error {
	if s.email == nil {
		return fmt.Errorf("%w: no email sender", ErrDispatchFailed)
	}
	ok, err := s.repo.UpdateStatus(ctx, r.ID, StatusSubmitted, StatusDispatching)
	if err != nil {
		return err
	}
	if !ok {
		current, err := s.repo.Get(ctx, r.ID)
		if err != nil {
			return err
		}
		*r = *current
		if r.Status == StatusDispatching || r.Status == StatusDispatched {
			s.log.Debug("dispatch already claimed", zap.String("request_id", string(r.ID)))
			return nil
		}
		return ErrInvalidState
	}
	r.Status = StatusDispatching
	r.UpdatedAt = s.now()

	if err := s.email.Send(ctx, dispatchEmail(s.opsEmail, r)); err != nil {
		s.log.Error("dispatch email", zap.String("request_id", string(r.ID)), zap.Error(err))
		s.transition(ctx, r, StatusSubmitted)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	if s.notifier != nil {
		body := fmt.Sprintf("%s to %s, %s", r.Pickup.Address, r.Dropoff.Address, pricing.FormatPrice(r.EstimatedPrice.Amount, true))
		if err := s.notifier.Notify(ctx, "New delivery request", body, map[string]string{
			"request_id": string(r.ID),
			"status":     string(StatusDispatched),
		}); err != nil {
			s.log.Warn("dispatch notification", zap.String("request_id", string(r.ID)), zap.Error(err))
		}
	}
	s.transition(ctx, r, StatusDispatched)
	return nil
}

// transition applies a status change, logging rather than failing: callers
// have already committed to the outcome.
func (s *Service) transition(ctx context.Context, r *DeliveryRequest, to Status) {
	if !CanTransition(r.Status, to) {
		s.log.Error("invalid transition", zap.String("request_id", string(r.ID)),
			zap.String("from", string(r.Status)), zap.String("to", string(to)))
		return
	}
	ok, err := s.repo.UpdateStatus(ctx, r.ID, r.Status, to)
	if err != nil {
		s.log.Error("update status", zap.String("request_id", string(r.ID)), zap.Error(err))
		return
	}
	if !ok {
		s.log.Warn("status changed concurrently", zap.String("request_id", string(r.ID)), zap.String("to", string(to)))
		return
	}
	r.Status = to
	r.UpdatedAt = s.now()
}

func validate(cmd SubmitCommand) error {
	required := map[string]string{
		"pickup name":      cmd.Pickup.Name,
		"pickup email":     cmd.Pickup.Email,
		"pickup phone":     cmd.Pickup.Phone,
		"pickup address":   cmd.Pickup.Address,
		"drop-off name":    cmd.Dropoff.Name,
		"drop-off phone":   cmd.Dropoff.Phone,
		"drop-off address": cmd.Dropoff.Address,
	}
	var missing []string
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: missing %s", ErrBadRequest, strings.Join(missing, ", "))
	}
	if !cmd.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrBadRequest, cmd.PaymentMethod)
	}
	for _, p := range []*types.Point{cmd.PickupPoint, cmd.DropoffPoint} {
		if p != nil && !p.Valid() {
			return fmt.Errorf("%w: coordinate out of range", ErrBadRequest)
		}
	}
	return nil
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
