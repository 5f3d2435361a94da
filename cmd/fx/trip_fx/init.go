package trip_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/api/controllers"
	"tripmate/internal/config"
	"tripmate/internal/repositories"
	"tripmate/internal/services"
	mem "tripmate/pkg/memcache"
)

var Module = fx.Provide(
	provideTripRepo,
	provideWeatherService,
	provideTripService,
	controllers.NewTripController,
)

func provideTripRepo(store repositories.DocumentStore) repositories.TripRepository {
	return repositories.NewTripRepository(store)
}

func provideWeatherService(cfg *config.Config, cache mem.Cache, log *zap.Logger) services.WeatherServiceInterface {
	weather := services.NewWeatherService(cfg, cache, log)
	if !weather.Enabled() {
		log.Info("WEATHER_API_KEY not set, itineraries are generated without weather")
	}
	return weather
}

func provideTripService(
	tripRepo repositories.TripRepository,
	itinerarySvc services.ItineraryServiceInterface,
	weatherSvc services.WeatherServiceInterface,
	log *zap.Logger,
) services.TripServiceInterface {
	return services.NewTripService(tripRepo, itinerarySvc, weatherSvc, log)
}
