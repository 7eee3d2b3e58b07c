package services

import (
	portsrepo "github.com/skyrates/skyrates_backend/internal/core/ports/repositories"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/core/ports/sources"
	"github.com/skyrates/skyrates_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	rateSource sources.RateSource,
	weatherProvider sources.WeatherProvider,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// User service first since token and billing services depend on it.
	container.User = NewUserService(repos.UserRepo)

	container.Rates = NewRatesService(rateSource, cfg.BaseCurrency, cfg.CurrencyAllowlist)
	container.Weather = NewWeatherService(weatherProvider)
	container.Billing = NewBillingService(cfg, container.User)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleAuth = NewGoogleAuthService(cfg)

	return container
}

// Compile-time interface checks for the concrete services.
var (
	_ portssvc.RatesSvcFacade   = (*RatesService)(nil)
	_ portssvc.UserSvcFacade    = (*UserService)(nil)
	_ portssvc.WeatherSvcFacade = (*WeatherService)(nil)
)
