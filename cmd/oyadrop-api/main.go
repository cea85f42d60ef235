// README: Entry point; loads config, wires services and serves HTTP until SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oyadrop/internal/config"
	httptransport "oyadrop/internal/http"
	"oyadrop/internal/http/handlers"
	"oyadrop/internal/infra"
	"oyadrop/internal/maps"
	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/modules/request"
	"oyadrop/internal/notify"
	"oyadrop/internal/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Env, "oyadrop-api")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("oyadrop-api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Firebase.ProjectID == "" {
		return errors.New("OYADROP_FIREBASE_PROJECT_ID is required")
	}
	app, err := infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return err
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, app)
	if err != nil {
		return err
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	pricingSvc := pricing.NewService(pricing.NewStore(dbPool), pricing.NewQuoteCache(redisClient), cfg.Pricing, logger)

	geocoder, err := maps.NewGeocoder(cfg.Geocoder, cfg.Maps.GoogleKey)
	if err != nil {
		return err
	}
	geocoder = maps.NewCachedGeocoder(geocoder, redisClient, cfg.Geocoder.CacheTTL, logger)

	var travel handlers.TravelEstimator
	if cfg.Maps.GoogleKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.GoogleKey, cfg.Geocoder.CountryCode)
		if err != nil {
			return err
		}
		travel = routes
	}

	var email notify.EmailSender
	if sender, err := notify.NewEmailJSSender(notify.EmailJSBaseURL, cfg.Email); err == nil {
		email = sender
	} else {
		logger.Warn("emailjs not configured, dispatch emails will be logged only", zap.Error(err))
		email = notify.NewLogSender(logger)
	}

	var notifier notify.Notifier
	if cfg.Firebase.DispatchTopic != "" {
		fcm, err := notify.NewFCMNotifier(ctx, app, cfg.Firebase.DispatchTopic, logger)
		if err != nil {
			return err
		}
		notifier = fcm
	}

	var payments payment.Processor
	if paystack, err := payment.NewPaystackProcessor(cfg.Payment); err == nil {
		payments = paystack
	} else {
		logger.Warn("paystack not configured, pay_now disabled", zap.Error(err))
	}

	requestSvc := request.NewService(request.Deps{
		Repo:     request.NewStore(dbPool),
		Pricing:  pricingSvc,
		Payments: payments,
		Email:    email,
		Notifier: notifier,
		OpsEmail: cfg.Email.OpsAddress,
		Log:      logger,
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.ServerDeps{
		Geocoder: geocoder,
		Quotes:   pricingSvc,
		Travel:   travel,
		Requests: requestSvc,
		Verifier: verifier,
		Debounce: cfg.Geocoder.DebounceWait,
		Log:      logger.Named("http"),
	})
	return server.Run(ctx)
}
