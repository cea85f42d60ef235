// README: Paystack REST processor (initialize + verify).
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"oyadrop/internal/config"
)

type PaystackProcessor struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpc       *http.Client
}

func NewPaystackProcessor(cfg config.PaymentConfig) (*PaystackProcessor, error) {
	if cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}
	return &PaystackProcessor{
		baseURL:     cfg.BaseURL,
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
		httpc:       &http.Client{Timeout: 20 * time.Second},
	}, nil
}

// envelope is Paystack's common response wrapper.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type verifyData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

func (p *PaystackProcessor) Initialize(ctx context.Context, c Charge) (Authorization, error) {
	cb := c.CallbackURL
	if cb == "" {
		cb = p.callbackURL
	}
	body, err := json.Marshal(initializeRequest{
		Email:       c.Email,
		Amount:      c.AmountKobo,
		Currency:    c.Currency,
		Reference:   c.Reference,
		CallbackURL: cb,
		Metadata:    c.Metadata,
	})
	if err != nil {
		return Authorization{}, fmt.Errorf("paystack: marshal initialize: %w", err)
	}

	var out envelope[Authorization]
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", body, &out); err != nil {
		return Authorization{}, err
	}
	if !out.Status {
		return Authorization{}, fmt.Errorf("paystack: initialize rejected: %s", out.Message)
	}
	return out.Data, nil
}

func (p *PaystackProcessor) Verify(ctx context.Context, reference string) (Verification, error) {
	var out envelope[verifyData]
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out); err != nil {
		return Verification{}, err
	}
	if !out.Status {
		return Verification{}, fmt.Errorf("paystack: verify rejected: %s", out.Message)
	}
	v := Verification{
		Reference:  out.Data.Reference,
		Status:     out.Data.Status,
		Success:    out.Data.Status == "success",
		AmountKobo: out.Data.Amount,
		Currency:   out.Data.Currency,
	}
	if out.Data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, out.Data.PaidAt); err == nil {
			v.PaidAt = t
		}
	}
	return v, nil
}

func (p *PaystackProcessor) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("paystack: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("paystack: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("paystack: %s %s: status %d", method, path, resp.StatusCode)
	}
	// 4xx bodies still carry the envelope with a message.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("paystack: decode %s: %w", path, err)
	}
	return nil
}
