// README: Delivery request store backed by PostgreSQL; extra stops live in JSONB.
package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"oyadrop/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const selectColumns = `
	id, pickup_name, pickup_email, pickup_phone, pickup_address, pickup_time,
	additional_pickups, dropoff_name, dropoff_phone, dropoff_address, dropoff_time,
	item_quantity, additional_dropoffs, item_description, comments, referral,
	pickup_lng, pickup_lat, dropoff_lng, dropoff_lat,
	estimated_price, currency, payment_method, payment_reference, status,
	created_at, updated_at`

func (s *Store) Create(ctx context.Context, r *DeliveryRequest) error {
	pickups, err := json.Marshal(stopsOrEmpty(r.AdditionalPickups))
	if err != nil {
		return fmt.Errorf("marshal additional pickups: %w", err)
	}
	dropoffs, err := json.Marshal(stopsOrEmpty(r.AdditionalDropoffs))
	if err != nil {
		return fmt.Errorf("marshal additional dropoffs: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO delivery_requests (`+selectColumns+`
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23, $24, $25,
			$26, $27
		)`,
		string(r.ID), r.Pickup.Name, r.Pickup.Email, r.Pickup.Phone, r.Pickup.Address, r.PickupTime,
		pickups, r.Dropoff.Name, r.Dropoff.Phone, r.Dropoff.Address, r.DropoffTime,
		r.ItemQuantity, dropoffs, r.ItemDescription, r.Comments, r.Referral,
		r.Route.Pickup.Lng, r.Route.Pickup.Lat, r.Route.Dropoff.Lng, r.Route.Dropoff.Lat,
		r.EstimatedPrice.Amount, r.EstimatedPrice.Currency, string(r.PaymentMethod), nullable(r.PaymentReference), string(r.Status),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery request: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*DeliveryRequest, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM delivery_requests WHERE id = $1`, string(id))
	return scanRequest(row)
}

func (s *Store) GetByReference(ctx context.Context, reference string) (*DeliveryRequest, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM delivery_requests WHERE payment_reference = $1`, reference)
	return scanRequest(row)
}

func (s *Store) List(ctx context.Context, limit int) ([]DeliveryRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM delivery_requests
		ORDER BY created_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list delivery requests: %w", err)
	}
	defer rows.Close()

	var out []DeliveryRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateStatus moves id from one status to another; false means the row was
// no longer in from.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE delivery_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(to), string(id), string(from),
	)
	if err != nil {
		return false, fmt.Errorf("update delivery request status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*DeliveryRequest, error) {
	var (
		r                  DeliveryRequest
		pickups, dropoffs  []byte
		reference          *string
		pickup, dropoff    types.Point
		method, status, id string
	)
	err := row.Scan(
		&id, &r.Pickup.Name, &r.Pickup.Email, &r.Pickup.Phone, &r.Pickup.Address, &r.PickupTime,
		&pickups, &r.Dropoff.Name, &r.Dropoff.Phone, &r.Dropoff.Address, &r.DropoffTime,
		&r.ItemQuantity, &dropoffs, &r.ItemDescription, &r.Comments, &r.Referral,
		&pickup.Lng, &pickup.Lat, &dropoff.Lng, &dropoff.Lat,
		&r.EstimatedPrice.Amount, &r.EstimatedPrice.Currency, &method, &reference, &status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan delivery request: %w", err)
	}

	r.ID = types.ID(id)
	r.PaymentMethod = PaymentMethod(method)
	r.Status = Status(status)
	r.Route.Pickup = &pickup
	r.Route.Dropoff = &dropoff
	if reference != nil {
		r.PaymentReference = *reference
	}
	if len(pickups) > 0 {
		if err := json.Unmarshal(pickups, &r.AdditionalPickups); err != nil {
			return nil, fmt.Errorf("decode additional pickups: %w", err)
		}
	}
	if len(dropoffs) > 0 {
		if err := json.Unmarshal(dropoffs, &r.AdditionalDropoffs); err != nil {
			return nil, fmt.Errorf("decode additional dropoffs: %w", err)
		}
	}
	return &r, nil
}

func stopsOrEmpty(s []Stop) []Stop {
	if s == nil {
		return []Stop{}
	}
	return s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
