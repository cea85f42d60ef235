// Package payment initialises and verifies card payments for pay-now requests.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const referencePrefix = "OYADROP"

var ErrNotConfigured = errors.New("payment processor not configured")

// Charge amounts are in kobo.
type Charge struct {
	Reference   string
	Email       string
	AmountKobo  int64
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

type Authorization struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

type Verification struct {
	Reference  string
	Success    bool
	Status     string
	AmountKobo int64
	Currency   string
	PaidAt     time.Time
}

type Processor interface {
	Initialize(ctx context.Context, c Charge) (Authorization, error)
	Verify(ctx context.Context, reference string) (Verification, error)
}

// NewReference returns OYADROP-<unix ms>-<6 digits>. A nil rnd uses math/rand/v2.
func NewReference(now time.Time, rnd func(n int) int) string {
	if rnd == nil {
		rnd = rand.IntN
	}
	return fmt.Sprintf("%s-%d-%06d", referencePrefix, now.UnixMilli(), rnd(1_000_000))
}
