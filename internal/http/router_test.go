package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"oyadrop/internal/config"
	"oyadrop/internal/infra"
	"oyadrop/internal/maps"
	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/modules/request"
	"oyadrop/internal/types"
)

type stubVerifier struct {
	token *infra.FirebaseToken
	err   error
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (*infra.FirebaseToken, error) {
	return s.token, s.err
}

type noGeocoder struct{}

func (noGeocoder) Autocomplete(context.Context, string) ([]maps.Suggestion, error) { return nil, nil }

type noRequests struct{}

func (noRequests) Submit(context.Context, request.SubmitCommand) (request.SubmitResult, error) {
	return request.SubmitResult{}, request.ErrPriceUnavailable
}

func (noRequests) ConfirmPayment(context.Context, string) (*request.DeliveryRequest, error) {
	return nil, request.ErrNotFound
}

func (noRequests) Get(context.Context, types.ID) (*request.DeliveryRequest, error) {
	return nil, request.ErrNotFound
}

func (noRequests) List(context.Context, int) ([]request.DeliveryRequest, error) {
	return nil, nil
}

func newTestRouter(v infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(ServerDeps{
		Geocoder: noGeocoder{},
		Quotes:   pricing.NewService(nil, nil, config.PricingConfig{}, nil),
		Requests: noRequests{},
		Verifier: v,
	})
}

func TestRouter(t *testing.T) {
	ops := stubVerifier{token: &infra.FirebaseToken{UID: "u1", Claims: map[string]interface{}{"role": "ops"}}}
	customer := stubVerifier{token: &infra.FirebaseToken{UID: "u2", Claims: map[string]interface{}{}}}

	tests := []struct {
		name     string
		verifier infra.TokenVerifier
		method   string
		path     string
		auth     string
		want     int
	}{
		{"health", ops, http.MethodGet, "/health", "", http.StatusOK},
		{"autocomplete is public", ops, http.MethodGet, "/api/geocode/autocomplete?text=ikeja", "", http.StatusOK},
		{"submit without route", ops, http.MethodPost, "/api/requests", "", http.StatusBadRequest},
		{"list requires token", ops, http.MethodGet, "/api/requests", "", http.StatusUnauthorized},
		{"list rejects bad token", stubVerifier{err: errors.New("expired")}, http.MethodGet, "/api/requests", "Bearer x", http.StatusUnauthorized},
		{"list requires ops role", customer, http.MethodGet, "/api/requests", "Bearer x", http.StatusForbidden},
		{"list for ops", ops, http.MethodGet, "/api/requests", "Bearer x", http.StatusOK},
		{"get for ops", ops, http.MethodGet, "/api/requests/abc", "Bearer x", http.StatusNotFound},
		{"callback unknown reference", ops, http.MethodGet, "/api/payments/callback?reference=nope", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(tc.verifier)
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}
