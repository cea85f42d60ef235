// README: EmailJS REST sender.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"oyadrop/internal/config"
)

const (
	EmailJSBaseURL = "https://api.emailjs.com"
	emailJSPath    = "/api/v1.0/email/send"
)

// EmailJSSender sends through an EmailJS template; the template owns layout.
type EmailJSSender struct {
	baseURL string
	cfg     config.EmailConfig
	httpc   *http.Client
}

func NewEmailJSSender(baseURL string, cfg config.EmailConfig) (*EmailJSSender, error) {
	if cfg.ServiceID == "" || cfg.TemplateID == "" || cfg.PublicKey == "" {
		return nil, fmt.Errorf("emailjs: service id, template id and public key are required")
	}
	return &EmailJSSender{
		baseURL: baseURL,
		cfg:     cfg,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (s *EmailJSSender) Send(ctx context.Context, e Email) error {
	params := make(map[string]string, len(e.Params)+2)
	for k, v := range e.Params {
		params[k] = v
	}
	params["to_email"] = e.To
	params["subject"] = e.Subject

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      s.cfg.ServiceID,
		TemplateID:     s.cfg.TemplateID,
		UserID:         s.cfg.PublicKey,
		AccessToken:    s.cfg.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("emailjs: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+emailJSPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
