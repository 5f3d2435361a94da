package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"tripmate/internal/api/controllers"
	"tripmate/internal/repositories"
	"tripmate/internal/services"
)

var Module = fx.Provide(
	provideBookingRepo,
	providePaymentService,
	controllers.NewPaymentController,
)

func provideBookingRepo(store repositories.DocumentStore) repositories.BookingRepository {
	return repositories.NewBookingRepository(store)
}

func providePaymentService(bookingRepo repositories.BookingRepository, tripSvc services.TripServiceInterface, log *zap.Logger) services.PaymentService {
	return services.NewPaymentService(bookingRepo, tripSvc, log)
}
