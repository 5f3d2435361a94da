package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmate/internal/models/request_models"
	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// BookTrip godoc
// @Summary Book a trip
// @Description Creates a booking awaiting payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.BookTripRequest false "Booking details"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/trips/{id}/book [post]
func (p *PaymentController) BookTrip(c *gin.Context) {
	var request request_models.BookTripRequest
	// The body is optional.
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	booking, err := p.paymentService.BookTrip(c.Request.Context(), c.GetString("user_id"), c.Param("id"), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, booking, "Booking created successfully")
}

// PayBooking godoc
// @Summary Pay for a booking
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body request_models.PayBookingRequest true "Card details"
// @Success 200 {object} response_models.PaymentReceipt
// @Failure 402 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/bookings/{id}/pay [post]
func (p *PaymentController) PayBooking(c *gin.Context) {
	var request request_models.PayBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	receipt, err := p.paymentService.PayBooking(c.Request.Context(), c.GetString("user_id"), c.Param("id"), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, receipt, "Payment successful")
}

// ListBookings godoc
// @Summary List the caller's bookings
// @Tags Payments
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/bookings [get]
func (p *PaymentController) ListBookings(c *gin.Context) {
	bookings, err := p.paymentService.ListBookings(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, bookings, "Bookings fetched successfully")
}
