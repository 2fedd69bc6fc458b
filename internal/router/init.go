package router

import (
	app "github.com/bharosahq/trust-network/internal/application"
	"github.com/bharosahq/trust-network/internal/container"
	handlers "github.com/bharosahq/trust-network/internal/interface/http"
	"github.com/bharosahq/trust-network/internal/router/modules"
	"github.com/bharosahq/trust-network/pkg/advisory"
)

// InitModules builds every application service from the container
// singletons and registers the feature modules with the router registry.
// Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	sessions := app.NewSessionService(container.GetJWT(), container.GetRedis(), logger)

	var pub app.Publisher
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}
	registration := app.NewRegistrationService(
		container.GetCustomerRepo(),
		container.GetMerchantRepo(),
		container.GetScanner(),
		container.GetRedis(),
		pub,
		logger,
		cfg.OTPDispatchDelay,
	)

	reputation := app.NewReputationService(container.GetRatingRepo(), container.GetMerchantRepo(), logger)

	adv := advisory.NewClient(cfg.AdvisoryEndpoint, cfg.AdvisoryAPIKey, cfg.AdvisoryModel, logger)
	directory := app.NewDirectoryService(
		container.GetMerchantRepo(),
		reputation,
		adv,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESMerchantsIndex,
		logger,
	)

	loans := app.NewLoanService(container.GetMerchantRepo())

	regHandler := handlers.NewRegistrationHandler(registration, sessions, logger, cfg.CookieDomain, cfg.CookieSecure)
	sessHandler := handlers.NewSessionHandler(sessions, logger, cfg.CookieDomain, cfg.CookieSecure)
	ratingHandler := handlers.NewRatingHandler(reputation, logger)
	merchantHandler := handlers.NewMerchantHandler(directory, loans, logger)

	r.Add(modules.NewRegistrationModule(regHandler))
	r.Add(modules.NewSessionModule(sessHandler, container.GetJWT()))
	r.Add(modules.NewRatingModule(ratingHandler, container.GetJWT()))
	r.Add(modules.NewMerchantModule(merchantHandler, container.GetJWT()))
}
