// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oyadrop/internal/http/handlers"
	"oyadrop/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	geocodeHandler := handlers.NewGeocodeHandler(deps.Geocoder, deps.Log)
	api.GET("/geocode/autocomplete", geocodeHandler.Autocomplete)

	quoteHandler := handlers.NewQuoteHandler(deps.Quotes, deps.Travel, deps.Log)
	api.POST("/quotes", quoteHandler.Create)

	sessionHandler := handlers.NewSessionHandler(deps.Geocoder, deps.Quotes, deps.Debounce, deps.Log)
	api.GET("/quotes/session", sessionHandler.Serve)

	requestHandler := handlers.NewRequestHandler(deps.Requests)
	api.POST("/requests", requestHandler.Submit)

	paymentHandler := handlers.NewPaymentHandler(deps.Requests)
	api.POST("/payments/verify", paymentHandler.Verify)
	api.GET("/payments/callback", paymentHandler.Callback)

	ops := api.Group("/requests", middleware.Auth(deps.Verifier), middleware.RequireRole(middleware.RoleOps))
	ops.GET("", requestHandler.List)
	ops.GET("/:id", requestHandler.Get)

	return r
}
